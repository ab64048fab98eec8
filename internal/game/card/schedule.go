package card

import (
	"fmt"
	"math/rand/v2"
)

// Strategy escolhe como o baralho da sessão é montado a partir dos pools.
type Strategy string

const (
	// StrategySchedule percorre cada pool em sequência, embaralhado uma vez
	// no início. Dá uma distribuição previsível: cada carta aparece antes
	// de qualquer repetição.
	StrategySchedule Strategy = "schedule"
	// StrategyDraw sorteia cada carta por roleta ponderada (campo Weight),
	// com reposição. Cartas de peso maior aparecem com mais frequência.
	StrategyDraw Strategy = "draw"
)

// ParseStrategy valida a estratégia vinda da configuração.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", string(StrategySchedule):
		return StrategySchedule, nil
	case string(StrategyDraw):
		return StrategyDraw, nil
	}
	return "", fmt.Errorf("unknown deck strategy: %q", s)
}

// Cadência das categorias esparsas: nem todo turno traz as quatro cartas.
const (
	constraintEvery = 2
	bonusEvery      = 3
)

// hasTypeOnTurn decide se a categoria participa do turno dado.
func hasTypeOnTurn(t Type, turn int) bool {
	switch t {
	case TypeConstraint:
		return turn%constraintEvery == 0
	case TypeBonus:
		return turn%bonusEvery == 0
	default:
		return true
	}
}

// BuildSchedule monta o baralho completo da sessão: um bundle por turno,
// de 1 a maxTurn. O resultado é imutável do ponto de vista dos chamadores;
// sessões diferentes recebem baralhos diferentes somente através do rng
// que lhes pertence.
func BuildSchedule(pool Pool, maxTurn int, strategy Strategy, rng *rand.Rand) Schedule {
	pickers := make(map[Type]func() *Card, len(Types))
	for _, t := range Types {
		cards := pool[t]
		if len(cards) == 0 {
			continue
		}
		switch strategy {
		case StrategyDraw:
			pickers[t] = func() *Card { return pickWeighted(cards, rng) }
		default:
			pickers[t] = sequentialPicker(cards, rng)
		}
	}

	schedule := make(Schedule, maxTurn)
	for turn := 1; turn <= maxTurn; turn++ {
		bundle := Bundle{}
		for _, t := range Types {
			pick, ok := pickers[t]
			if !ok || !hasTypeOnTurn(t, turn) {
				continue
			}
			bundle[t] = pick()
		}
		schedule[turn-1] = bundle
	}
	return schedule
}

// sequentialPicker embaralha o pool uma vez e o percorre em círculo.
func sequentialPicker(cards []*Card, rng *rand.Rand) func() *Card {
	shuffled := make([]*Card, len(cards))
	copy(shuffled, cards)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	next := 0
	return func() *Card {
		c := shuffled[next]
		next = (next + 1) % len(shuffled)
		return c
	}
}

// pickWeighted é a seleção por roleta: sorteia um valor no peso acumulado
// e caminha pela lista subtraindo até cruzar zero. Cartas sem peso contam
// como peso 1 para nunca serem inalcançáveis.
func pickWeighted(cards []*Card, rng *rand.Rand) *Card {
	total := 0
	for _, c := range cards {
		total += weightOf(c)
	}

	roll := rng.IntN(total)
	for _, c := range cards {
		roll -= weightOf(c)
		if roll < 0 {
			return c
		}
	}
	return cards[len(cards)-1]
}

func weightOf(c *Card) int {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}
