package session

import "finanzweg/internal/game/card"

// Submit registra a decisão de um aluno para uma categoria do turno que ele
// está respondendo (o turno pessoal). Reenviar para a mesma chave
// sobrescreve a decisão anterior. Quando o turno fica completo numa fase
// autônoma, ele liquida na hora e o turno pessoal avança.
func (s *Session) Submit(playerID string, cardType string, dec Decision) error {
	if !s.Started {
		return ErrSessionNotStarted
	}
	if s.Finished {
		return ErrSessionFinished
	}
	if s.Paused {
		// No checkpoint os alunos esperam; correções do professor via
		// EditDecision continuam valendo.
		return ErrPaused
	}
	p, err := s.Player(playerID)
	if err != nil {
		return err
	}

	t, err := card.ParseType(cardType)
	if err != nil {
		return ErrUnknownCardType
	}

	if err := s.writeDecision(p.ID, p.PersonalTurn, t, dec, AuditSubmit); err != nil {
		return err
	}
	p.Touch(s.now())

	if p.PersonalTurn > p.SettledTurn {
		// Turno ainda aberto: a decisão evolui naturalmente; em fase
		// autônoma um turno completo avança o turno pessoal.
		s.maybeAdvancePersonal(p.ID)
	} else {
		// Sobrescrita de um turno já liquidado (ex.: jogador parado no
		// fim do intervalo autônomo): refaz as contas por replay.
		s.recompute(p)
	}
	return nil
}

// EditDecision é a correção do professor: sobrescreve a decisão de qualquer
// turno já alcançado pelo jogador, gera uma entrada de auditoria marcada
// como edição e recomputa os efeitos derivados quando o turno já tinha sido
// liquidado.
func (s *Session) EditDecision(playerID string, turn int, cardType string, dec Decision) error {
	if !s.Started {
		return ErrSessionNotStarted
	}
	if s.Finished {
		return ErrSessionFinished
	}
	p, err := s.Player(playerID)
	if err != nil {
		return err
	}

	t, err := card.ParseType(cardType)
	if err != nil {
		return ErrUnknownCardType
	}
	if turn < 1 || turn > p.PersonalTurn {
		return ErrTurnOutOfRange
	}

	dec.EditedByHost = true
	if err := s.writeDecision(p.ID, turn, t, dec, AuditHostEdit); err != nil {
		return err
	}

	if turn <= p.SettledTurn {
		s.recompute(p)
	} else {
		s.maybeAdvancePersonal(p.ID)
	}
	return nil
}

// writeDecision valida a decisão contra o bundle do turno e a grava no
// livro, com a entrada de auditoria correspondente.
func (s *Session) writeDecision(playerID string, turn int, t card.Type, dec Decision, kind string) error {
	bundle := s.Deck.ForTurn(turn)
	c, ok := bundle.Get(t)
	if !ok {
		return ErrCardNotInBundle
	}

	if c.RequiresInvestment {
		if dec.ChoiceID == "accept" && dec.Extra == nil {
			return ErrMissingPayout
		}
	} else if len(c.Choices) > 0 {
		if _, found := c.Choice(dec.ChoiceID); !found {
			return ErrUnknownChoice
		}
	}

	s.Decisions.put(playerID, turn, t, dec)
	s.Audit = append(s.Audit, AuditEntry{
		At:       s.now(),
		Kind:     kind,
		PlayerID: playerID,
		Turn:     turn,
		CardType: t,
		ChoiceID: dec.ChoiceID,
	})
	return nil
}
