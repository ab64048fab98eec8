package gamemaster

import (
	"errors"

	"finanzweg/internal/game/session"
)

// Erros da camada de protocolo, anteriores a qualquer regra de jogo.
var (
	errUnknownMessage = errors.New("unknown message type")
	errBadPayload     = errors.New("malformed payload")
	errNotHost        = errors.New("command requires a host connection")
	errNotStudent     = errors.New("command requires a joined student connection")
)

// errorCode traduz um erro em um código estável para o frontend. A
// mensagem em texto pode mudar; o código não.
func errorCode(err error) string {
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return "internal"
}

var errorCodes = []struct {
	err  error
	code string
}{
	{errUnknownMessage, "unknown-message"},
	{errBadPayload, "bad-payload"},
	{errNotHost, "not-host"},
	{errNotStudent, "not-student"},

	{session.ErrSessionNotFound, "session-not-found"},
	{session.ErrPlayerNotFound, "player-not-found"},
	{session.ErrNameRequired, "name-required"},
	{session.ErrDuplicateName, "duplicate-name"},
	{session.ErrUnknownCardType, "unknown-card-type"},
	{session.ErrCardNotInBundle, "card-not-in-bundle"},
	{session.ErrUnknownChoice, "unknown-choice"},
	{session.ErrMissingPayout, "missing-payout"},
	{session.ErrTurnOutOfRange, "turn-out-of-range"},
	{session.ErrAlreadyStarted, "already-started"},
	{session.ErrSessionNotStarted, "session-not-started"},
	{session.ErrSessionFinished, "session-finished"},
	{session.ErrPaused, "session-paused"},
	{session.ErrNotPaused, "session-not-paused"},
	{session.ErrPhaseAutonomous, "phase-autonomous"},
	{session.ErrInvalidMode, "invalid-mode"},
}
