package session

import (
	"time"

	"finanzweg/internal/game/card"
)

// Investment é o payload numérico das cartas que exigem contribuição:
// aporte inicial único e contribuição mensal contínua.
type Investment struct {
	Initial float64 `json:"initial"`
	Monthly float64 `json:"monthly"`
}

// Decision é a escolha registrada de um jogador para (turno, categoria).
// Reenvios sobrescrevem a decisão na mesma chave; correções do professor
// chegam pelo mesmo caminho e ficam marcadas.
type Decision struct {
	ChoiceID     string      `json:"choiceId"`
	Extra        *Investment `json:"extra,omitempty"`
	EditedByHost bool        `json:"editedByHost,omitempty"`
}

// Origem de uma entrada de auditoria.
const (
	AuditSubmit   = "submit"
	AuditHostEdit = "host-edit"
)

// AuditEntry registra cada escrita de decisão, distinguindo envios
// originais de correções do professor.
type AuditEntry struct {
	At       time.Time `json:"at"`
	Kind     string    `json:"kind"`
	PlayerID string    `json:"playerId"`
	Turn     int       `json:"turn"`
	CardType card.Type `json:"cardType"`
	ChoiceID string    `json:"choiceId"`
}

// decisionLedger indexa decisões por jogador → turno → categoria.
type decisionLedger map[string]map[int]map[card.Type]Decision

func (l decisionLedger) get(playerID string, turn int) map[card.Type]Decision {
	return l[playerID][turn]
}

func (l decisionLedger) put(playerID string, turn int, t card.Type, d Decision) {
	byTurn, ok := l[playerID]
	if !ok {
		byTurn = make(map[int]map[card.Type]Decision)
		l[playerID] = byTurn
	}
	byType, ok := byTurn[turn]
	if !ok {
		byType = make(map[card.Type]Decision)
		byTurn[turn] = byType
	}
	byType[t] = d
}
