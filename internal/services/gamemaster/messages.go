package gamemaster

import (
	"log"

	"finanzweg/internal/game/session"
	"finanzweg/internal/network"
)

// ============================================================================
// Tipos de mensagem do protocolo
// ============================================================================

// Comandos do professor.
const (
	MsgHostCreate   = "host/create"
	MsgHostResume   = "host/resume"
	MsgHostStart    = "host/start"
	MsgHostAdvance  = "host/advance"
	MsgHostContinue = "host/continue"
	MsgHostEdit     = "host/edit_decision"
)

// Comandos dos alunos.
const (
	MsgStudentJoin      = "student/join"
	MsgStudentResume    = "student/resume"
	MsgStudentSubmit    = "student/submit"
	MsgStudentHeartbeat = "student/heartbeat"
)

// Mensagens servidor -> cliente.
const (
	MsgSessionCreated = "session/created"
	MsgStudentJoined  = "student/joined"
	MsgState          = "state"
	MsgError          = "error"
)

// ============================================================================
// DTOs de entrada
// ============================================================================

type hostResumePayload struct {
	Code string `json:"code"`
}

type hostStartPayload struct {
	Mode string `json:"mode"`
}

type investmentPayload struct {
	Initial float64 `json:"initial"`
	Monthly float64 `json:"monthly"`
}

type hostEditPayload struct {
	PlayerID   string             `json:"playerId"`
	Turn       int                `json:"turn"`
	CardType   string             `json:"cardType"`
	ChoiceID   string             `json:"choiceId"`
	Investment *investmentPayload `json:"investment,omitempty"`
}

type studentJoinPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type studentResumePayload struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
}

type studentSubmitPayload struct {
	CardType   string             `json:"cardType"`
	ChoiceID   string             `json:"choiceId"`
	Investment *investmentPayload `json:"investment,omitempty"`
}

// ============================================================================
// DTOs de saída
// ============================================================================

type sessionCreatedPayload struct {
	Code string `json:"code"`
}

type studentJoinedPayload struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// mustMessage monta um envelope a partir de um DTO de saída. Os DTOs
// deste pacote sempre serializam; um erro aqui é bug de programação.
func mustMessage(msgType string, payload any) network.Message {
	msg, err := network.NewMessage(msgType, payload)
	if err != nil {
		log.Printf("[GameMaster] ERROR: could not marshal %s payload: %v", msgType, err)
		return network.Message{Type: MsgError}
	}
	return msg
}

func newSessionCreatedMessage(code string) network.Message {
	return mustMessage(MsgSessionCreated, sessionCreatedPayload{Code: code})
}

func newStudentJoinedMessage(code, playerID, name string) network.Message {
	return mustMessage(MsgStudentJoined, studentJoinedPayload{
		Code:     code,
		PlayerID: playerID,
		Name:     name,
	})
}

func newStateMessage(snap session.Snapshot) network.Message {
	return mustMessage(MsgState, snap)
}

func newErrorMessage(err error) network.Message {
	return mustMessage(MsgError, errorPayload{
		Code:    errorCode(err),
		Message: err.Error(),
	})
}
