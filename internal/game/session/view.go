package session

import (
	"sort"
	"time"

	"finanzweg/internal/game/card"
	"finanzweg/internal/game/player"
)

// Indicadores de status exibidos ao professor.
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusComplete   = "complete"
)

// activityWindow é a janela dentro da qual um heartbeat ainda conta como
// "trabalhando nisso".
const activityWindow = 2 * time.Minute

// PlayerSummary é a visão resumida de um jogador dentro de um snapshot.
type PlayerSummary struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Profile             string   `json:"profile"`
	Wealth              float64  `json:"wealth"`
	Salary              float64  `json:"salary"`
	CostOfLiving        float64  `json:"costOfLiving"`
	PensionPoints       float64  `json:"pensionPoints"`
	Markers             []string `json:"markers,omitempty"`
	PersonalTurn        int      `json:"personalTurn"`
	AnsweredCurrentTurn bool     `json:"answeredCurrentTurn"`
	Status              string   `json:"status"`
}

// Snapshot é a projeção do estado da sessão para um destinatário
// específico. É aqui que mora a decisão de projeto central do sistema:
// o professor vê as cartas do turno global; um aluno numa fase autônoma vê
// as cartas do próprio turno pessoal. Dois alunos no mesmo intervalo
// autônomo, em turnos pessoais diferentes, recebem bundles diferentes.
type Snapshot struct {
	Code           string          `json:"code"`
	Mode           string          `json:"mode"`
	Started        bool            `json:"started"`
	Finished       bool            `json:"finished"`
	Paused         bool            `json:"paused"`
	Turn           int             `json:"turn"`
	Phase          string          `json:"phase,omitempty"`
	HostControlled bool            `json:"hostControlled"`
	Deadline       time.Time       `json:"deadline,omitzero"`
	ActiveTurn     int             `json:"activeTurn"`
	Cards          card.Bundle     `json:"cards,omitempty"`
	Players        []PlayerSummary `json:"players"`
	You            *PlayerSummary  `json:"you,omitempty"`
}

// Snapshot projeta a sessão para o destinatário. viewerPlayerID vazio
// significa o professor. Função pura sobre o estado da sessão: nenhum
// efeito colateral, testável sem conexão viva.
func (s *Session) Snapshot(viewerPlayerID string) Snapshot {
	now := s.now()

	snap := Snapshot{
		Code:     s.Code,
		Mode:     string(s.Mode),
		Started:  s.Started,
		Finished: s.Finished,
		Paused:   s.Paused,
		Turn:     s.Turn,
		Deadline: s.Deadline,
		Players:  s.playerSummaries(now),
	}

	if !s.Started {
		return snap
	}

	ph := s.CurrentPhase()
	snap.Phase = ph.Label
	snap.HostControlled = ph.HostControlled

	// Seleção do bundle por destinatário.
	activeTurn := s.Turn
	if viewerPlayerID != "" {
		if p, ok := s.Players[viewerPlayerID]; ok {
			if !ph.HostControlled {
				activeTurn = p.PersonalTurn
			}
			you := s.summarize(p, now)
			snap.You = &you
		}
	}
	snap.ActiveTurn = activeTurn
	snap.Cards = s.Deck.ForTurn(activeTurn)
	return snap
}

func (s *Session) playerSummaries(now time.Time) []PlayerSummary {
	out := make([]PlayerSummary, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, s.summarize(p, now))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Session) summarize(p *player.Player, now time.Time) PlayerSummary {
	answered := s.AnsweredCurrentTurn(p)
	return PlayerSummary{
		ID:                  p.ID,
		Name:                p.Name,
		Profile:             p.Profile.Name,
		Wealth:              p.Wealth,
		Salary:              p.Salary,
		CostOfLiving:        p.CostOfLiving,
		PensionPoints:       p.PensionPoints,
		Markers:             p.MarkerList(),
		PersonalTurn:        p.PersonalTurn,
		AnsweredCurrentTurn: answered,
		Status:              s.statusOf(p, answered, now),
	}
}

// statusOf deriva o indicador: completo quando o turno corrente está todo
// respondido; em andamento quando há alguma decisão parcial ou atividade
// recente; caso contrário, não iniciado.
func (s *Session) statusOf(p *player.Player, answered bool, now time.Time) string {
	if !s.Started {
		return StatusNotStarted
	}
	if answered {
		return StatusComplete
	}
	if len(s.Decisions.get(p.ID, p.PersonalTurn)) > 0 {
		return StatusInProgress
	}
	if !p.LastSeen.IsZero() && now.Sub(p.LastSeen) <= activityWindow {
		return StatusInProgress
	}
	return StatusNotStarted
}
