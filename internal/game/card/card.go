package card

import "fmt"

// Type identifica uma das quatro categorias de carta apresentadas por turno.
type Type string

const (
	TypeEvent       Type = "event"
	TypeProposition Type = "proposition"
	TypeConstraint  Type = "constraint"
	TypeBonus       Type = "bonus"
)

// Types lista as categorias na ordem canônica em que aparecem para o aluno.
var Types = []Type{TypeEvent, TypeProposition, TypeConstraint, TypeBonus}

// ParseType valida a categoria enviada pelo cliente.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if s == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown card type: %q", s)
}

// EffectTag nomeia uma mutação do estado financeiro do jogador. A tabela de
// efeitos é dado, não código: as cartas carregam pares {tag, amount} vindos
// do conteúdo JSON e o motor de liquidação apenas os interpreta.
type EffectTag string

const (
	// Percentual sobre o salário atual (amount em %, pode ser negativo).
	EffectSalaryPct EffectTag = "salary-pct"
	// Percentual sobre o custo de vida atual.
	EffectCostPct EffectTag = "cost-pct"
	// Despesa única, subtraída da riqueza (presa em zero).
	EffectExpense EffectTag = "expense"
	// Ganho único, somado à riqueza.
	EffectGain EffectTag = "gain"
	// Despesa recorrente fixa, somada ao custo de vida anual.
	EffectRecurringExpense EffectTag = "recurring-expense"
	// Percentual sobre a riqueza atual.
	EffectWealthPct EffectTag = "wealth-pct"
	// Bônus direto de pontos de pensão (não sujeito ao teto por turno).
	EffectPensionBonus EffectTag = "pension-bonus"
	// Marcador qualitativo adquirido no máximo uma vez (nome em Marker).
	EffectMarker EffectTag = "marker"
)

// Effect é uma entrada da tabela de efeitos de uma escolha.
type Effect struct {
	Tag    EffectTag `json:"tag"`
	Amount float64   `json:"amount,omitempty"`
	Marker string    `json:"marker,omitempty"`
}

// Choice é uma opção enumerada de uma carta que não exige investimento.
type Choice struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Effects []Effect `json:"effects,omitempty"`
}

// Card é um prompt de decisão apresentado em um turno.
//
// Mandatory = true significa que a carta se resolve sozinha: se o jogador
// não enviar escolha até a liquidação do turno, DefaultEffects é aplicado.
// RequiresInvestment sinaliza ao cliente que a resposta carrega um payload
// numérico (contribuição inicial + mensal) em vez de um choiceId simples.
type Card struct {
	ID                 string   `json:"id"`
	Type               Type     `json:"type"`
	Title              string   `json:"title"`
	Text               string   `json:"text,omitempty"`
	Mandatory          bool     `json:"mandatory,omitempty"`
	RequiresInvestment bool     `json:"requiresInvestment,omitempty"`
	Weight             int      `json:"weight,omitempty"`
	Choices            []Choice `json:"choices,omitempty"`
	DefaultEffects     []Effect `json:"defaultEffects,omitempty"`
}

// Choice procura a opção pelo id.
func (c *Card) Choice(id string) (Choice, bool) {
	for _, ch := range c.Choices {
		if ch.ID == id {
			return ch, true
		}
	}
	return Choice{}, false
}

// ---- Validação ----

type cardValidator func(*Card) error

func validateID(c *Card) error {
	if c.ID == "" {
		return fmt.Errorf("card without id")
	}
	return nil
}

func validateType(c *Card) error {
	if _, err := ParseType(string(c.Type)); err != nil {
		return fmt.Errorf("card %s: %w", c.ID, err)
	}
	return nil
}

func validateChoices(c *Card) error {
	if c.RequiresInvestment {
		// Cartas de investimento aceitam/recusam; o payload numérico vem
		// por fora, então elas não carregam tabela de opções própria.
		return nil
	}
	if len(c.Choices) == 0 && !c.Mandatory {
		// Sem opções e sem auto-resolução: ninguém conseguiria responder.
		return fmt.Errorf("card %s: no choices and not mandatory", c.ID)
	}
	seen := make(map[string]struct{}, len(c.Choices))
	for _, ch := range c.Choices {
		if ch.ID == "" {
			return fmt.Errorf("card %s: choice without id", c.ID)
		}
		if _, dup := seen[ch.ID]; dup {
			return fmt.Errorf("card %s: duplicate choice id %q", c.ID, ch.ID)
		}
		seen[ch.ID] = struct{}{}
	}
	return nil
}

func validateWeight(c *Card) error {
	if c.Weight < 0 {
		return fmt.Errorf("card %s: negative weight %d", c.ID, c.Weight)
	}
	return nil
}

// Validate roda todos os validadores sobre a carta.
func (c *Card) Validate() error {
	validators := []cardValidator{
		validateID,
		validateType,
		validateChoices,
		validateWeight,
	}
	for _, v := range validators {
		if err := v(c); err != nil {
			return err
		}
	}
	return nil
}
