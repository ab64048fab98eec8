package session

import (
	"math/rand/v2"
	"strings"
	"time"

	"finanzweg/internal/game/card"
	"finanzweg/internal/game/phase"
	"finanzweg/internal/game/player"
	"finanzweg/internal/game/profile"
)

// Config reúne tudo que uma sessão precisa além do estado próprio: o
// conteúdo (pools de cartas e perfis), a estratégia de montagem do baralho
// e o salário médio de referência do cálculo de pensão. Tudo injetado —
// nada de singletons de módulo.
type Config struct {
	Pool            card.Pool
	Profiles        []profile.Profile
	Strategy        card.Strategy
	ReferenceSalary float64

	// SessionDuration alimenta o prazo indicativo exibido aos clientes.
	// O servidor nunca expira nada por tempo; é só contagem regressiva
	// de interface.
	SessionDuration time.Duration

	// Seed fixa o rng para testes; zero usa o relógio.
	Seed uint64
	// Now é o relógio injetável (padrão time.Now).
	Now func() time.Time
}

// Valores padrão do cenário de referência.
const (
	DefaultReferenceSalary = 42000
	DefaultSessionDuration = 90 * time.Minute
	pensionCreditCap       = 2.0
)

func (c Config) withDefaults() Config {
	if c.Pool == nil || c.Pool.IsEmpty() {
		c.Pool = card.PlaceholderPool()
	}
	if c.ReferenceSalary <= 0 {
		c.ReferenceSalary = DefaultReferenceSalary
	}
	if c.SessionDuration <= 0 {
		c.SessionDuration = DefaultSessionDuration
	}
	if c.Strategy == "" {
		c.Strategy = card.StrategySchedule
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Session é uma instância do jogo: todos os alunos, o baralho e o estado de
// turno de uma turma. Todo acesso acontece na goroutine do hub — a sessão
// não tem (nem precisa de) locks próprios.
type Session struct {
	Code string
	Mode phase.Mode

	Turn     int
	Paused   bool
	Started  bool
	Finished bool

	Deck      card.Schedule
	Players   map[string]*player.Player
	Decisions decisionLedger
	Audit     []AuditEntry

	CreatedAt time.Time
	Deadline  time.Time

	cfg      Config
	rng      *rand.Rand
	profiles *profile.Pool
}

func newSession(code string, cfg Config) *Session {
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(cfg.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, 0))

	return &Session{
		Code:      code,
		Mode:      phase.ModeLong,
		Players:   make(map[string]*player.Player),
		Decisions: make(decisionLedger),
		CreatedAt: cfg.Now(),
		cfg:       cfg,
		rng:       rng,
		profiles:  profile.NewPool(cfg.Profiles, rng),
	}
}

// CurrentPhase é a fase do turno global.
func (s *Session) CurrentPhase() phase.Phase {
	return phase.ForTurn(s.Mode, s.Turn)
}

// Join cria um jogador na sessão. Antes do início os alunos esperam com o
// perfil padrão; o início da sessão sorteia os perfis reais para todos os
// que esperam. Quem entra depois do início recebe o perfil na hora.
func (s *Session) Join(name string) (*player.Player, error) {
	if s.Finished {
		return nil, ErrSessionFinished
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrNameRequired
	}
	for _, p := range s.Players {
		if strings.EqualFold(p.Name, trimmed) {
			return nil, ErrDuplicateName
		}
	}

	prof := profile.Default()
	if s.Started {
		prof = s.profiles.Draw()
	}
	p, err := player.New(trimmed, prof)
	if err != nil {
		return nil, err
	}
	if s.Started {
		p.PersonalTurn = s.Turn
	}
	p.Touch(s.cfg.Now())
	s.Players[p.ID] = p
	return p, nil
}

// Player resolve um jogador pelo id.
func (s *Session) Player(id string) (*player.Player, error) {
	p, ok := s.Players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// Start inicializa o turno 1, sorteia os perfis dos alunos que esperavam e
// gera o baralho inteiro de uma vez (imutável dali em diante).
func (s *Session) Start(mode string) error {
	if s.Started {
		return ErrAlreadyStarted
	}
	m, err := phase.ParseMode(mode)
	if err != nil {
		return ErrInvalidMode
	}

	s.Mode = m
	s.Turn = 1
	s.Started = true
	s.Deck = card.BuildSchedule(s.cfg.Pool, phase.MaxTurn(m), s.cfg.Strategy, s.rng)
	s.Deadline = s.cfg.Now().Add(s.cfg.SessionDuration)

	for _, p := range s.Players {
		p.ApplyProfile(s.profiles.Draw())
		p.PersonalTurn = 1
	}
	return nil
}

// Heartbeat registra atividade do aluno. Só alimenta o indicador de status,
// nenhum efeito de jogo.
func (s *Session) Heartbeat(playerID string) error {
	p, err := s.Player(playerID)
	if err != nil {
		return err
	}
	p.Touch(s.cfg.Now())
	return nil
}

// answered informa se o jogador decidiu todas as categorias exigidas do
// turno dado. Cartas obrigatórias (auto-resolvidas) não contam.
func (s *Session) answered(playerID string, turn int) bool {
	required := s.Deck.ForTurn(turn).Required()
	if len(required) == 0 {
		return true
	}
	decs := s.Decisions.get(playerID, turn)
	for _, t := range required {
		if _, ok := decs[t]; !ok {
			return false
		}
	}
	return true
}

// AnsweredCurrentTurn é o derivado exposto nos snapshots.
func (s *Session) AnsweredCurrentTurn(p *player.Player) bool {
	if !s.Started {
		return false
	}
	return s.answered(p.ID, p.PersonalTurn)
}

func (s *Session) now() time.Time {
	return s.cfg.Now()
}
