package session

import "errors"

// A taxonomia de erros do resolvedor é explícita de propósito: ações
// rejeitadas devolvem um motivo nomeado ao solicitante em vez de falharem
// em silêncio. Nenhum destes erros derruba a conexão nem afeta outras
// sessões.
var (
	// Não encontrado.
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerNotFound  = errors.New("player not found")

	// Validação.
	ErrNameRequired    = errors.New("player name is required")
	ErrDuplicateName   = errors.New("a player with this name is already in the session")
	ErrUnknownCardType = errors.New("unknown card type")
	ErrCardNotInBundle = errors.New("no card of this type is active for the turn")
	ErrUnknownChoice   = errors.New("the card has no choice with this id")
	ErrMissingPayout   = errors.New("investment card requires contribution amounts")
	ErrTurnOutOfRange  = errors.New("turn outside the playable range")

	// Ciclo de vida.
	ErrAlreadyStarted    = errors.New("session already started")
	ErrSessionNotStarted = errors.New("session has not started yet")
	ErrSessionFinished   = errors.New("session is finished")
	ErrPaused            = errors.New("session is paused at the checkpoint")
	ErrNotPaused         = errors.New("session is not paused")
	ErrPhaseAutonomous   = errors.New("turn is player-driven in this phase; waiting for all players to reach the range end")
	ErrInvalidMode       = errors.New("unknown game mode")
)
