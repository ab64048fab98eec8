package session

import (
	"math/rand/v2"
	"time"
)

// Alfabeto dos códigos de sessão: maiúsculas e dígitos sem os caracteres
// ambíguos (0/O, 1/I/L), porque o código é digitado à mão pela turma.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// CodeLength é o tamanho do código de entrada.
const CodeLength = 4

// Store é o registro de sessões ativas do processo, chaveado pelo código.
// É um objeto explicitamente injetado com ciclo de vida definido (criado no
// arranque, limpo só por ação administrativa), nunca um singleton de
// módulo: os testes criam um Store novo por caso. Todo acesso acontece na
// goroutine do hub. Não há persistência — reiniciar o processo perde todas
// as sessões, o que é uma limitação assumida.
type Store struct {
	sessions map[string]*Session
	cfg      Config
	rng      *rand.Rand

	// codeFn permite fixar a geração de códigos nos testes.
	codeFn func() string
}

// NewStore cria um registro vazio com a configuração compartilhada por
// todas as sessões.
func NewStore(cfg Config) *Store {
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	st := &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		rng:      rand.New(rand.NewPCG(seed, 1)),
	}
	st.codeFn = st.randomCode
	return st
}

func (st *Store) randomCode() string {
	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = codeAlphabet[st.rng.IntN(len(codeAlphabet))]
	}
	return string(code)
}

// SetCodeFunc troca o gerador de códigos (testes).
func (st *Store) SetCodeFunc(fn func() string) {
	st.codeFn = fn
}

// Create aloca uma sessão nova sob um código ainda não usado.
func (st *Store) Create() *Session {
	var code string
	for {
		code = st.codeFn()
		if _, taken := st.sessions[code]; !taken {
			break
		}
	}
	s := newSession(code, st.cfg)
	st.sessions[code] = s
	return s
}

// Get resolve uma sessão pelo código.
func (st *Store) Get(code string) (*Session, error) {
	s, ok := st.sessions[code]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete remove a sessão do registro (ação administrativa).
func (st *Store) Delete(code string) {
	delete(st.sessions, code)
}

// Len informa quantas sessões estão ativas.
func (st *Store) Len() int {
	return len(st.sessions)
}
