package session

import "finanzweg/internal/game/phase"

// Advance é a ação de avançar do professor. O comportamento depende da fase
// do turno global:
//
//   - fase controlada pelo professor: liquida o turno corrente de todos os
//     jogadores e move para o próximo turno (ou para a primeira posição da
//     fase seguinte, ou encerra a sessão no último turno do jogo);
//   - fase autônoma: só é aceita quando todos os jogadores chegaram ao fim
//     do intervalo com o turno liquidado; então executa a transição de
//     fase — a pausa de checkpoint na fronteira B→C, salto direto nas
//     demais fronteiras.
//
// Turnos nunca avançam sozinhos dentro de uma fase controlada, e a pausa
// de checkpoint nunca é limpa por Advance — só por ContinueAfterPause.
func (s *Session) Advance() error {
	if !s.Started {
		return ErrSessionNotStarted
	}
	if s.Finished {
		return ErrSessionFinished
	}
	if s.Paused {
		return ErrPaused
	}

	ph := s.CurrentPhase()
	if !ph.HostControlled {
		return s.advanceAutonomous(ph)
	}
	return s.advanceHostControlled(ph)
}

func (s *Session) advanceHostControlled(ph phase.Phase) error {
	// O turno corrente acabou: liquidação única por jogador, com os
	// efeitos das cartas respondidas e os padrões das obrigatórias.
	for _, p := range s.Players {
		s.settleTurn(p, s.Turn)
	}

	if s.Turn == phase.MaxTurn(s.Mode) {
		s.Finished = true
		return nil
	}

	if s.Turn < ph.End {
		s.Turn++
		s.lockstepPlayers(s.Turn)
		return nil
	}

	// Fim do intervalo: transição para a fase seguinte.
	next, ok := phase.Next(s.Mode, ph)
	if !ok {
		s.Finished = true
		return nil
	}
	s.enterPhase(next)
	return nil
}

func (s *Session) advanceAutonomous(ph phase.Phase) error {
	if !s.allSettledThrough(ph.End) {
		return ErrPhaseAutonomous
	}

	// O turno global alcança o fim do intervalo que os jogadores já
	// percorreram sozinhos.
	s.Turn = ph.End

	if s.Turn == phase.CheckpointTurn(s.Mode) {
		// Ponto de parada obrigatório: fica pausado até o professor
		// liberar explicitamente.
		s.Paused = true
		return nil
	}

	next, ok := phase.Next(s.Mode, ph)
	if !ok {
		s.Finished = true
		return nil
	}
	s.enterPhase(next)
	return nil
}

// ContinueAfterPause limpa a pausa de checkpoint e entra no primeiro turno
// da fase seguinte, forçando os turnos pessoais de volta ao passo único.
func (s *Session) ContinueAfterPause() error {
	if !s.Started {
		return ErrSessionNotStarted
	}
	if !s.Paused {
		return ErrNotPaused
	}

	s.Paused = false
	next, ok := phase.Next(s.Mode, s.CurrentPhase())
	if !ok {
		s.Finished = true
		return nil
	}
	s.enterPhase(next)
	return nil
}

// enterPhase coloca o turno global no início da fase e realinha os turnos
// pessoais. Em fases controladas isso é o passo único exigido pelo modelo;
// em fases autônomas é o ponto de partida de onde cada um avança sozinho.
func (s *Session) enterPhase(next phase.Phase) {
	s.Turn = next.Start
	s.lockstepPlayers(next.Start)
}

func (s *Session) lockstepPlayers(turn int) {
	for _, p := range s.Players {
		p.PersonalTurn = turn
	}
}

// allSettledThrough confere se todos os jogadores já liquidaram até o
// turno dado (fim do intervalo autônomo). Sessão sem jogadores passa
// trivialmente.
func (s *Session) allSettledThrough(turn int) bool {
	for _, p := range s.Players {
		if p.SettledTurn < turn {
			return false
		}
	}
	return true
}

// maybeAdvancePersonal é chamado após cada decisão: em fase autônoma, um
// turno completo liquida na hora e empurra o turno pessoal, preso ao fim
// do intervalo — ele nunca passa do limite nem volta atrás.
func (s *Session) maybeAdvancePersonal(playerID string) {
	p, ok := s.Players[playerID]
	if !ok {
		return
	}
	ph := phase.ForTurn(s.Mode, p.PersonalTurn)
	if ph.HostControlled {
		return
	}
	if !s.answered(playerID, p.PersonalTurn) {
		return
	}

	s.settleTurn(p, p.PersonalTurn)
	if p.PersonalTurn < ph.End {
		p.PersonalTurn++
	}
}
