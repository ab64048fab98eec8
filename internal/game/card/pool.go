package card

import "fmt"

// Pool agrupa as cartas disponíveis por categoria. O conteúdo vem dos
// arquivos JSON da turma; quando nenhum conteúdo é configurado, o pool de
// placeholders gerado abaixo entra no lugar para que uma sessão de
// demonstração funcione sem nenhum arquivo.
type Pool map[Type][]*Card

// Validate confere cada carta e se a categoria declarada bate com a chave
// do pool em que ela está.
func (p Pool) Validate() error {
	for t, cards := range p {
		for _, c := range cards {
			if err := c.Validate(); err != nil {
				return err
			}
			if c.Type != t {
				return fmt.Errorf("card %s declares type %s but sits in the %s pool", c.ID, c.Type, t)
			}
		}
	}
	return nil
}

// IsEmpty informa se nenhuma categoria tem cartas.
func (p Pool) IsEmpty() bool {
	for _, cards := range p {
		if len(cards) > 0 {
			return false
		}
	}
	return true
}

// acceptRefuse é o par de opções padrão das cartas sintéticas.
func acceptRefuse(accept []Effect) []Choice {
	return []Choice{
		{ID: "accept", Label: "Annehmen", Effects: accept},
		{ID: "refuse", Label: "Ablehnen"},
	}
}

// PlaceholderPool gera um pool sintético pequeno por categoria. Os números
// são conteúdo de demonstração, não um conjunto de regras finalizado — a
// tabela real vem dos arquivos da turma.
func PlaceholderPool() Pool {
	events := []*Card{
		{ID: "ev-raise", Type: TypeEvent, Title: "Gehaltserhöhung", Weight: 30,
			Choices: []Choice{{ID: "ok", Label: "Weiter", Effects: []Effect{{Tag: EffectSalaryPct, Amount: 4}}}}},
		{ID: "ev-repair", Type: TypeEvent, Title: "Autoreparatur", Weight: 40,
			Choices: []Choice{{ID: "ok", Label: "Weiter", Effects: []Effect{{Tag: EffectExpense, Amount: 800}}}}},
		{ID: "ev-bonus", Type: TypeEvent, Title: "Weihnachtsgeld", Weight: 30,
			Choices: []Choice{{ID: "ok", Label: "Weiter", Effects: []Effect{{Tag: EffectGain, Amount: 500}}}}},
	}
	propositions := []*Card{
		{ID: "pr-riester", Type: TypeProposition, Title: "Private Altersvorsorge", Weight: 30,
			RequiresInvestment: true},
		{ID: "pr-sidejob", Type: TypeProposition, Title: "Nebenjob", Weight: 40,
			Choices: acceptRefuse([]Effect{{Tag: EffectSalaryPct, Amount: 8}, {Tag: EffectCostPct, Amount: 2}})},
		{ID: "pr-shares", Type: TypeProposition, Title: "Aktienfonds", Weight: 30,
			Choices: acceptRefuse([]Effect{{Tag: EffectWealthPct, Amount: 5}})},
	}
	constraints := []*Card{
		{ID: "co-insurance", Type: TypeConstraint, Title: "Haftpflichtversicherung", Weight: 50,
			Mandatory: true,
			Choices:   acceptRefuse([]Effect{{Tag: EffectRecurringExpense, Amount: 120}}),
			DefaultEffects: []Effect{{Tag: EffectExpense, Amount: 400}}},
		{ID: "co-tax", Type: TypeConstraint, Title: "Steuernachzahlung", Weight: 50,
			Mandatory:      true,
			Choices:        acceptRefuse([]Effect{{Tag: EffectExpense, Amount: 250}}),
			DefaultEffects: []Effect{{Tag: EffectExpense, Amount: 600}}},
	}
	bonuses := []*Card{
		{ID: "bo-training", Type: TypeBonus, Title: "Weiterbildung", Weight: 60,
			Choices: acceptRefuse([]Effect{{Tag: EffectSalaryPct, Amount: 3}, {Tag: EffectExpense, Amount: 300}})},
		{ID: "bo-pension", Type: TypeBonus, Title: "Betriebliche Altersvorsorge", Weight: 40,
			Choices: acceptRefuse([]Effect{{Tag: EffectPensionBonus, Amount: 0.5},
				{Tag: EffectMarker, Marker: "betriebsrente"}})},
	}

	return Pool{
		TypeEvent:       events,
		TypeProposition: propositions,
		TypeConstraint:  constraints,
		TypeBonus:       bonuses,
	}
}
