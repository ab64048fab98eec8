package gamemaster

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzweg/internal/game/card"
	"finanzweg/internal/game/profile"
	"finanzweg/internal/game/session"
	"finanzweg/internal/network"
)

// ============================================================================
// Fakes e helpers
// ============================================================================

// fakeConn substitui um *network.Client nos testes: mesmo contrato de
// envio, mas o canal fica acessível para inspecionar o que o GameMaster
// mandou.
type fakeConn struct {
	name string
	out  chan network.Message
}

func newFakeConn(name string) *fakeConn {
	return &fakeConn{name: name, out: make(chan network.Message, 64)}
}

func (f *fakeConn) Send() chan<- network.Message { return f.out }
func (f *fakeConn) RemoteAddr() string           { return f.name }

// drain esvazia o canal de saída e devolve tudo que estava acumulado.
func (f *fakeConn) drain() []network.Message {
	var msgs []network.Message
	for {
		select {
		case m := <-f.out:
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

// lastOfType decodifica no dst o payload da última mensagem do tipo dado.
func lastOfType(t *testing.T, msgs []network.Message, msgType string, dst any) bool {
	t.Helper()
	found := false
	for _, m := range msgs {
		if m.Type != msgType {
			continue
		}
		require.NoError(t, json.Unmarshal(m.Payload, dst))
		found = true
	}
	return found
}

func testPool() card.Pool {
	return card.Pool{
		card.TypeEvent: {{
			ID: "ev", Type: card.TypeEvent, Title: "Ereignis",
			Choices: []card.Choice{{ID: "ok", Label: "OK"}},
		}},
		card.TypeProposition: {{
			ID: "pr", Type: card.TypeProposition, Title: "Angebot",
			Choices: []card.Choice{
				{ID: "accept", Label: "Annehmen", Effects: []card.Effect{{Tag: card.EffectGain, Amount: 100}}},
				{ID: "refuse", Label: "Ablehnen"},
			},
		}},
		card.TypeConstraint: {{
			ID: "co", Type: card.TypeConstraint, Title: "Pflicht", Mandatory: true,
			DefaultEffects: []card.Effect{{Tag: card.EffectExpense, Amount: 500}},
		}},
		card.TypeBonus: {{
			ID: "bo", Type: card.TypeBonus, Title: "Bonus",
			Choices: []card.Choice{
				{ID: "accept", Label: "Annehmen", Effects: []card.Effect{{Tag: card.EffectPensionBonus, Amount: 0.5}}},
				{ID: "refuse", Label: "Ablehnen"},
			},
		}},
	}
}

func newTestGameMaster(t *testing.T) *GameMaster {
	t.Helper()
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	store := session.NewStore(session.Config{
		Pool:     testPool(),
		Profiles: []profile.Profile{profile.Default()},
		Seed:     1,
		Now:      func() time.Time { return now },
	})
	return New(store)
}

func send(g *GameMaster, c conn, msgType string, payload any) {
	raw, _ := json.Marshal(payload)
	if payload == nil {
		raw = nil
	}
	g.handleMessage(c, network.Message{Type: msgType, Payload: raw})
}

// connectHost abre uma conexão de professor com uma sessão recém-criada.
func connectHost(t *testing.T, g *GameMaster) (*fakeConn, string) {
	t.Helper()
	host := newFakeConn("host")
	g.handleConnect(host)
	send(g, host, MsgHostCreate, nil)

	var created sessionCreatedPayload
	require.True(t, lastOfType(t, host.drain(), MsgSessionCreated, &created))
	require.Len(t, created.Code, 4)
	return host, created.Code
}

// connectStudent entra na sessão e devolve a conexão e o playerId.
func connectStudent(t *testing.T, g *GameMaster, code, name string) (*fakeConn, string) {
	t.Helper()
	c := newFakeConn(name)
	g.handleConnect(c)
	send(g, c, MsgStudentJoin, studentJoinPayload{Code: code, Name: name})

	var joined studentJoinedPayload
	require.True(t, lastOfType(t, c.drain(), MsgStudentJoined, &joined), "expected student/joined for %s", name)
	return c, joined.PlayerID
}

// submitRequired responde todas as categorias exigidas do turno pessoal
// corrente do aluno, lendo as cartas do snapshot como um cliente real.
func submitRequired(t *testing.T, g *GameMaster, c *fakeConn) {
	t.Helper()
	send(g, c, MsgStudentHeartbeat, nil)
	var snap session.Snapshot
	require.True(t, lastOfType(t, c.drain(), MsgState, &snap))

	for _, typ := range snap.Cards.Required() {
		crd, _ := snap.Cards.Get(typ)
		choice := crd.Choices[len(crd.Choices)-1].ID // "refuse" quando houver
		send(g, c, MsgStudentSubmit, studentSubmitPayload{CardType: string(typ), ChoiceID: choice})
	}
	c.drain()
}

func lastError(t *testing.T, msgs []network.Message) (errorPayload, bool) {
	t.Helper()
	var ep errorPayload
	ok := lastOfType(t, msgs, MsgError, &ep)
	return ep, ok
}

// ============================================================================
// Vínculo de conexões e roteamento
// ============================================================================

func TestHostCreateBindsConnection(t *testing.T) {
	g := newTestGameMaster(t)
	host := newFakeConn("host")
	g.handleConnect(host)

	send(g, host, MsgHostCreate, nil)
	msgs := host.drain()

	var created sessionCreatedPayload
	require.True(t, lastOfType(t, msgs, MsgSessionCreated, &created))
	assert.Regexp(t, `^[A-HJKMNP-Z2-9]{4}$`, created.Code)

	var snap session.Snapshot
	require.True(t, lastOfType(t, msgs, MsgState, &snap))
	assert.False(t, snap.Started)
	assert.Equal(t, created.Code, snap.Code)
}

func TestUnknownMessageType(t *testing.T) {
	g := newTestGameMaster(t)
	c := newFakeConn("x")
	g.handleConnect(c)

	send(g, c, "bogus/type", nil)

	ep, ok := lastError(t, c.drain())
	require.True(t, ok)
	assert.Equal(t, "unknown-message", ep.Code)
}

func TestMalformedPayload(t *testing.T) {
	g := newTestGameMaster(t)
	host, _ := connectHost(t, g)

	g.handleMessage(host, network.Message{Type: MsgHostStart, Payload: json.RawMessage(`{"mode":`)})

	ep, ok := lastError(t, host.drain())
	require.True(t, ok)
	assert.Equal(t, "bad-payload", ep.Code)
}

func TestRoleEnforcement(t *testing.T) {
	g := newTestGameMaster(t)
	host, code := connectHost(t, g)
	student, _ := connectStudent(t, g, code, "Alice")
	host.drain()

	// Aluno tentando comando de professor.
	send(g, student, MsgHostAdvance, nil)
	ep, ok := lastError(t, student.drain())
	require.True(t, ok)
	assert.Equal(t, "not-host", ep.Code)

	// Conexão nunca vinculada tentando comando de aluno.
	anon := newFakeConn("anon")
	g.handleConnect(anon)
	send(g, anon, MsgStudentSubmit, studentSubmitPayload{CardType: "event", ChoiceID: "ok"})
	ep, ok = lastError(t, anon.drain())
	require.True(t, ok)
	assert.Equal(t, "not-student", ep.Code)
}

func TestJoinUnknownSession(t *testing.T) {
	g := newTestGameMaster(t)
	c := newFakeConn("x")
	g.handleConnect(c)

	send(g, c, MsgStudentJoin, studentJoinPayload{Code: "ZZZZ", Name: "Alice"})

	ep, ok := lastError(t, c.drain())
	require.True(t, ok)
	assert.Equal(t, "session-not-found", ep.Code)
}

func TestJoinCodeIsCaseInsensitive(t *testing.T) {
	g := newTestGameMaster(t)
	_, code := connectHost(t, g)

	c := newFakeConn("x")
	g.handleConnect(c)
	send(g, c, MsgStudentJoin, studentJoinPayload{Code: "  " + lower(code) + " ", Name: "Alice"})

	var joined studentJoinedPayload
	require.True(t, lastOfType(t, c.drain(), MsgStudentJoined, &joined))
	assert.Equal(t, code, joined.Code)
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}

// ============================================================================
// Erros vão só para o solicitante; estado vai para todos
// ============================================================================

func TestErrorRepliesOnlyToRequester(t *testing.T) {
	g := newTestGameMaster(t)
	host, code := connectHost(t, g)
	alice, _ := connectStudent(t, g, code, "Alice")
	send(g, host, MsgHostStart, hostStartPayload{Mode: "blitz"})
	host.drain()
	alice.drain()

	// Envio inválido: categoria inexistente.
	send(g, alice, MsgStudentSubmit, studentSubmitPayload{CardType: "nonsense", ChoiceID: "ok"})

	ep, ok := lastError(t, alice.drain())
	require.True(t, ok)
	assert.Equal(t, "unknown-card-type", ep.Code)

	_, hostGotError := lastError(t, host.drain())
	assert.False(t, hostGotError, "host must not receive another client's error")
}

func TestBroadcastReachesWholeSession(t *testing.T) {
	g := newTestGameMaster(t)
	host, code := connectHost(t, g)
	alice, _ := connectStudent(t, g, code, "Alice")
	bob, _ := connectStudent(t, g, code, "Bob")
	host.drain()
	alice.drain()
	bob.drain()

	send(g, host, MsgHostStart, hostStartPayload{Mode: "long"})

	for _, c := range []*fakeConn{host, alice, bob} {
		var snap session.Snapshot
		require.True(t, lastOfType(t, c.drain(), MsgState, &snap), "no state for %s", c.name)
		assert.True(t, snap.Started)
		assert.Equal(t, 1, snap.Turn)
	}
}

// ============================================================================
// Reconexão
// ============================================================================

func TestDisconnectKeepsPlayerAndResumeRebinds(t *testing.T) {
	g := newTestGameMaster(t)
	host, code := connectHost(t, g)
	alice, playerID := connectStudent(t, g, code, "Alice")
	send(g, host, MsgHostStart, hostStartPayload{Mode: "long"})
	host.drain()
	alice.drain()

	g.handleDisconnect(alice)

	// O jogador continua visível para o professor.
	send(g, host, MsgHostResume, hostResumePayload{Code: code})
	var snap session.Snapshot
	require.True(t, lastOfType(t, host.drain(), MsgState, &snap))
	require.Len(t, snap.Players, 1)
	assert.Equal(t, playerID, snap.Players[0].ID)

	// Nova conexão retoma a identidade antiga.
	alice2 := newFakeConn("alice2")
	g.handleConnect(alice2)
	send(g, alice2, MsgStudentResume, studentResumePayload{Code: code, PlayerID: playerID})

	msgs := alice2.drain()
	var joined studentJoinedPayload
	require.True(t, lastOfType(t, msgs, MsgStudentJoined, &joined))
	assert.Equal(t, playerID, joined.PlayerID)
	assert.Equal(t, "Alice", joined.Name)

	require.True(t, lastOfType(t, msgs, MsgState, &snap))
	require.NotNil(t, snap.You)
	assert.Equal(t, playerID, snap.You.ID)
}

func TestResumeUnknownPlayer(t *testing.T) {
	g := newTestGameMaster(t)
	_, code := connectHost(t, g)

	c := newFakeConn("x")
	g.handleConnect(c)
	send(g, c, MsgStudentResume, studentResumePayload{Code: code, PlayerID: "nope"})

	ep, ok := lastError(t, c.drain())
	require.True(t, ok)
	assert.Equal(t, "player-not-found", ep.Code)
}

// ============================================================================
// Correção do professor pelo protocolo
// ============================================================================

func TestHostEditRewritesDecision(t *testing.T) {
	g := newTestGameMaster(t)
	host, code := connectHost(t, g)
	alice, playerID := connectStudent(t, g, code, "Alice")
	send(g, host, MsgHostStart, hostStartPayload{Mode: "long"})

	// Alice aceita a proposta no turno 1 (+100 na liquidação futura).
	send(g, alice, MsgStudentSubmit, studentSubmitPayload{CardType: "proposition", ChoiceID: "accept"})
	send(g, alice, MsgStudentSubmit, studentSubmitPayload{CardType: "event", ChoiceID: "ok"})
	host.drain()
	alice.drain()

	// Professor corrige para "refuse" antes da liquidação.
	send(g, host, MsgHostEdit, hostEditPayload{
		PlayerID: playerID, Turn: 1, CardType: "proposition", ChoiceID: "refuse",
	})

	var snap session.Snapshot
	require.True(t, lastOfType(t, host.drain(), MsgState, &snap))

	// Avança e confere que o efeito corrigido foi o aplicado.
	send(g, host, MsgHostAdvance, nil)
	require.True(t, lastOfType(t, host.drain(), MsgState, &snap))
	require.Len(t, snap.Players, 1)
	// Turno 1 não traz carta obrigatória; com a proposta recusada não
	// sobra nenhum efeito de carta.
	prof := profile.Default()
	expected := prof.Capital + prof.Salary - prof.CostOfLiving
	assert.InDelta(t, expected, snap.Players[0].Wealth, 0.001)
}

func TestHostEditFutureTurnRejected(t *testing.T) {
	g := newTestGameMaster(t)
	host, code := connectHost(t, g)
	_, playerID := connectStudent(t, g, code, "Alice")
	send(g, host, MsgHostStart, hostStartPayload{Mode: "long"})
	host.drain()

	send(g, host, MsgHostEdit, hostEditPayload{
		PlayerID: playerID, Turn: 5, CardType: "proposition", ChoiceID: "refuse",
	})

	ep, ok := lastError(t, host.drain())
	require.True(t, ok)
	assert.Equal(t, "turn-out-of-range", ep.Code)
}

// ============================================================================
// Cenário ponta a ponta: modo longo até o checkpoint
// ============================================================================

func TestLongModeScenarioThroughCheckpoint(t *testing.T) {
	g := newTestGameMaster(t)
	host, code := connectHost(t, g)
	alice, _ := connectStudent(t, g, code, "Alice")
	bob, _ := connectStudent(t, g, code, "Bob")

	send(g, host, MsgHostStart, hostStartPayload{Mode: "long"})

	// Fase A (1-7): professor avança em lockstep.
	for turn := 1; turn < 8; turn++ {
		send(g, host, MsgHostAdvance, nil)
	}
	host.drain()
	send(g, host, MsgHostResume, hostResumePayload{Code: code})
	var snap session.Snapshot
	require.True(t, lastOfType(t, host.drain(), MsgState, &snap))
	require.Equal(t, 8, snap.Turn)
	require.Equal(t, "B", snap.Phase)
	require.False(t, snap.HostControlled)

	// Na fase autônoma o avanço do professor é rejeitado enquanto houver
	// aluno atrás do fim do intervalo.
	send(g, host, MsgHostAdvance, nil)
	ep, ok := lastError(t, host.drain())
	require.True(t, ok)
	assert.Equal(t, "phase-autonomous", ep.Code)

	// Alice corre na frente; Bob fica um turno atrás.
	submitRequired(t, g, alice)
	submitRequired(t, g, alice)
	submitRequired(t, g, bob)

	send(g, alice, MsgStudentHeartbeat, nil)
	require.True(t, lastOfType(t, alice.drain(), MsgState, &snap))
	require.NotNil(t, snap.You)
	assert.Equal(t, 10, snap.You.PersonalTurn)
	assert.Equal(t, 10, snap.ActiveTurn, "student sees the bundle of their own turn")

	send(g, bob, MsgStudentHeartbeat, nil)
	require.True(t, lastOfType(t, bob.drain(), MsgState, &snap))
	assert.Equal(t, 9, snap.ActiveTurn)

	// Ambos completam a fase B inteira (turnos até 21).
	for turn := 0; turn < 14; turn++ {
		submitRequired(t, g, alice)
		submitRequired(t, g, bob)
		host.drain()
	}

	// Agora o avanço do professor entra no checkpoint.
	send(g, host, MsgHostAdvance, nil)
	require.True(t, lastOfType(t, host.drain(), MsgState, &snap))
	assert.True(t, snap.Paused)
	assert.Equal(t, 21, snap.Turn)

	// Pausado: avanço e envio são rejeitados.
	send(g, host, MsgHostAdvance, nil)
	ep, ok = lastError(t, host.drain())
	require.True(t, ok)
	assert.Equal(t, "session-paused", ep.Code)

	send(g, alice, MsgStudentSubmit, studentSubmitPayload{CardType: "event", ChoiceID: "ok"})
	ep, ok = lastError(t, alice.drain())
	require.True(t, ok)
	assert.Equal(t, "session-paused", ep.Code)

	// Só o continue explícito destrava, entrando na fase C.
	send(g, host, MsgHostContinue, nil)
	require.True(t, lastOfType(t, host.drain(), MsgState, &snap))
	assert.False(t, snap.Paused)
	assert.Equal(t, 22, snap.Turn)
	assert.Equal(t, "C", snap.Phase)
	assert.True(t, snap.HostControlled)

	// Todos realinhados ao turno global.
	for _, p := range snap.Players {
		assert.Equal(t, 22, p.PersonalTurn)
	}
}

// ============================================================================
// Cenário ponta a ponta: blitz até o fim
// ============================================================================

func TestBlitzModeRunsToCompletion(t *testing.T) {
	g := newTestGameMaster(t)
	host, code := connectHost(t, g)
	alice, _ := connectStudent(t, g, code, "Alice")

	send(g, host, MsgHostStart, hostStartPayload{Mode: "blitz"})

	var snap session.Snapshot
	for turn := 1; turn <= 10; turn++ {
		submitRequired(t, g, alice)
		send(g, host, MsgHostAdvance, nil)
		require.True(t, lastOfType(t, host.drain(), MsgState, &snap))
		assert.False(t, snap.Paused, "blitz never pauses")
	}

	assert.True(t, snap.Finished)

	// Terminada: qualquer mutação é rejeitada.
	send(g, host, MsgHostAdvance, nil)
	ep, ok := lastError(t, host.drain())
	require.True(t, ok)
	assert.Equal(t, "session-finished", ep.Code)
}
