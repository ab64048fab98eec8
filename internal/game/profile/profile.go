package profile

import "math/rand/v2"

// Profile é uma condição financeira de partida: o que o aluno "é" quando a
// simulação começa.
type Profile struct {
	Name         string  `json:"name"`
	Capital      float64 `json:"capital"`
	Salary       float64 `json:"salary"`
	CostOfLiving float64 `json:"costOfLiving"`
}

// Default é o perfil usado quando a turma não configurou um pool próprio.
func Default() Profile {
	return Profile{
		Name:         "Berufseinsteiger",
		Capital:      2000,
		Salary:       24000,
		CostOfLiving: 15000,
	}
}

// DefaultSet é o pool de demonstração: alguns pontos de partida bem
// diferentes entre si para a discussão em sala render.
func DefaultSet() []Profile {
	return []Profile{
		Default(),
		{Name: "Handwerkerin", Capital: 5000, Salary: 30000, CostOfLiving: 18000},
		{Name: "Student mit Nebenjob", Capital: 500, Salary: 12000, CostOfLiving: 10000},
		{Name: "Fachkraft", Capital: 8000, Salary: 42000, CostOfLiving: 24000},
		{Name: "Alleinerziehend", Capital: 1500, Salary: 26000, CostOfLiving: 21000},
	}
}

// Pool distribui perfis sem reposição: cada perfil sai uma vez até o pool
// esgotar, e então o conjunto inteiro é reembaralhado. Assim uma turma
// pequena nunca vê dois alunos com o mesmo perfil sem necessidade.
type Pool struct {
	all       []Profile
	remaining []Profile
	rng       *rand.Rand
}

// NewPool cria o pool a partir do conjunto dado (ou do conjunto padrão,
// quando vazio).
func NewPool(set []Profile, rng *rand.Rand) *Pool {
	if len(set) == 0 {
		set = DefaultSet()
	}
	p := &Pool{all: set, rng: rng}
	p.reshuffle()
	return p
}

func (p *Pool) reshuffle() {
	p.remaining = make([]Profile, len(p.all))
	copy(p.remaining, p.all)
	p.rng.Shuffle(len(p.remaining), func(i, j int) {
		p.remaining[i], p.remaining[j] = p.remaining[j], p.remaining[i]
	})
}

// Draw retira o próximo perfil do pool, reembaralhando quando esgota.
func (p *Pool) Draw() Profile {
	if len(p.remaining) == 0 {
		p.reshuffle()
	}
	next := p.remaining[len(p.remaining)-1]
	p.remaining = p.remaining[:len(p.remaining)-1]
	return next
}

// Size retorna o tamanho do conjunto configurado.
func (p *Pool) Size() int {
	return len(p.all)
}
