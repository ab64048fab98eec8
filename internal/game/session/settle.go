package session

import (
	"math"

	"finanzweg/internal/game/card"
	"finanzweg/internal/game/player"
)

// round2 arredonda para duas casas decimais (pontos de pensão).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampWealth(w float64) float64 {
	return math.Max(0, w)
}

// settleTurn é a liquidação de um turno para um jogador, e roda exatamente
// uma vez por (jogador, turno) — a guarda SettledTurn torna a chamada
// idempotente. A ordem é fixa: primeiro os efeitos das cartas do turno,
// depois a renda líquida e o crédito de pensão sobre o estado resultante.
func (s *Session) settleTurn(p *player.Player, turn int) {
	if turn <= p.SettledTurn {
		return
	}

	s.applyTurnEffects(p, turn)

	p.Wealth = clampWealth(p.Wealth + p.Salary - p.CostOfLiving)

	credit := p.Salary / s.cfg.ReferenceSalary
	if credit < 0 {
		credit = 0
	}
	if credit > pensionCreditCap {
		credit = pensionCreditCap
	}
	p.PensionPoints = round2(p.PensionPoints + round2(credit))

	p.SettledTurn = turn
}

// applyTurnEffects resolve as cartas do bundle do turno contra as decisões
// registradas: escolhas enviadas aplicam a tabela de efeitos da opção;
// cartas obrigatórias ignoradas aplicam seu efeito padrão; cartas opcionais
// ignoradas não fazem nada.
func (s *Session) applyTurnEffects(p *player.Player, turn int) {
	bundle := s.Deck.ForTurn(turn)
	decs := s.Decisions.get(p.ID, turn)

	for _, t := range card.Types {
		c, ok := bundle.Get(t)
		if !ok {
			continue
		}

		dec, answered := decs[t]
		if !answered {
			if c.Mandatory {
				applyEffects(p, c.DefaultEffects)
			}
			continue
		}

		if c.RequiresInvestment {
			s.applyInvestment(p, c, dec)
			continue
		}

		if choice, found := c.Choice(dec.ChoiceID); found {
			applyEffects(p, choice.Effects)
		}
	}
}

// applyInvestment: aceitar um produto de investimento custa o aporte
// inicial, aumenta o custo de vida pela contribuição mensal e marca o
// jogador como detentor do produto — uma única vez.
func (s *Session) applyInvestment(p *player.Player, c *card.Card, dec Decision) {
	if dec.ChoiceID != "accept" || dec.Extra == nil {
		return
	}
	p.Wealth = clampWealth(p.Wealth - dec.Extra.Initial)
	p.CostOfLiving += 12 * dec.Extra.Monthly
	p.AddMarker(c.ID)
	applyEffects(p, dec.chosenEffects(c))
}

// chosenEffects permite que cartas de investimento também carreguem uma
// tabela de efeitos extra na opção de aceite (quando configurada).
func (d Decision) chosenEffects(c *card.Card) []card.Effect {
	if choice, ok := c.Choice(d.ChoiceID); ok {
		return choice.Effects
	}
	return nil
}

func applyEffects(p *player.Player, effects []card.Effect) {
	for _, e := range effects {
		applyEffect(p, e)
	}
}

// applyEffect interpreta uma entrada da tabela de efeitos. Toda mutação de
// riqueza fica presa em zero; pontos de pensão só crescem.
func applyEffect(p *player.Player, e card.Effect) {
	switch e.Tag {
	case card.EffectSalaryPct:
		p.Salary = math.Max(0, p.Salary*(1+e.Amount/100))
	case card.EffectCostPct:
		p.CostOfLiving = math.Max(0, p.CostOfLiving*(1+e.Amount/100))
	case card.EffectExpense:
		p.Wealth = clampWealth(p.Wealth - e.Amount)
	case card.EffectGain:
		p.Wealth = clampWealth(p.Wealth + e.Amount)
	case card.EffectRecurringExpense:
		p.CostOfLiving += e.Amount
	case card.EffectWealthPct:
		p.Wealth = clampWealth(p.Wealth * (1 + e.Amount/100))
	case card.EffectPensionBonus:
		if e.Amount > 0 {
			p.PensionPoints = round2(p.PensionPoints + e.Amount)
		}
	case card.EffectMarker:
		p.AddMarker(e.Marker)
	}
}

// recompute reconstrói o estado financeiro do jogador por replay: volta à
// linha de base do perfil e liquida de novo todos os turnos já liquidados,
// agora contra o livro de decisões corrente. É assim que uma correção do
// professor em um turno passado "refaz as contas" sem regra especial.
func (s *Session) recompute(p *player.Player) {
	last := p.SettledTurn
	p.ApplyProfile(p.Profile)
	for turn := 1; turn <= last; turn++ {
		s.settleTurn(p, turn)
	}
}
