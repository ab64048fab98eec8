package session

import (
	"testing"
	"time"

	"finanzweg/internal/game/card"
	"finanzweg/internal/game/player"
	"finanzweg/internal/game/profile"

	"github.com/stretchr/testify/require"
)

// testPool monta um pool mínimo e totalmente previsível: uma carta por
// categoria, para que o conjunto exigido de cada turno seja conhecido.
func testPool() card.Pool {
	return card.Pool{
		card.TypeEvent: {{
			ID: "ev", Type: card.TypeEvent, Title: "Ereignis",
			Choices: []card.Choice{{ID: "ok", Label: "Weiter"}},
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
			Choices: []card.Choice{
				{ID: "accept", Label: "Zahlen", Effects: []card.Effect{{Tag: card.EffectExpense, Amount: 100}}},
				{ID: "refuse", Label: "Ignorieren"},
			},
			DefaultEffects: []card.Effect{{Tag: card.EffectExpense, Amount: 500}},
		}},
		card.TypeBonus: {{
			ID: "bo", Type: card.TypeBonus, Title: "Bonus",
			Choices: []card.Choice{
				{ID: "accept", Label: "Annehmen", Effects: []card.Effect{
					{Tag: card.EffectPensionBonus, Amount: 0.5},
					{Tag: card.EffectMarker, Marker: "bonusmarker"},
				}},
				{ID: "refuse", Label: "Ablehnen"},
			},
		}},
	}
}

// testClock é um relógio injetável que os testes movem à mão.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func testStore(clock *testClock) *Store {
	st := NewStore(Config{
		Pool: testPool(),
		Profiles: []profile.Profile{
			profile.Default(),
		},
		Seed: 1,
		Now:  clock.Now,
	})
	st.SetCodeFunc(func() string { return "ABCD" })
	return st
}

// startedSession cria uma sessão iniciada no modo dado com um jogador.
func startedSession(t *testing.T, mode string) (*Store, *Session, *player.Player, *testClock) {
	t.Helper()
	clock := newTestClock()
	st := testStore(clock)
	s := st.Create()

	p, err := s.Join("Alice")
	require.NoError(t, err)
	require.NoError(t, s.Start(mode))
	return st, s, p, clock
}

// completeTurn envia uma decisão para cada categoria exigida do turno
// pessoal corrente do jogador.
func completeTurn(t *testing.T, s *Session, p *player.Player) {
	t.Helper()
	turn := p.PersonalTurn
	for _, typ := range s.Deck.ForTurn(turn).Required() {
		choice := "ok"
		if typ != card.TypeEvent {
			choice = "refuse"
		}
		require.NoError(t, s.Submit(p.ID, string(typ), Decision{ChoiceID: choice}),
			"submit %s at turn %d", typ, turn)
	}
}

// advanceThroughPhaseA leva uma sessão longa do turno 1 ao início da fase B.
func advanceThroughPhaseA(t *testing.T, s *Session) {
	t.Helper()
	for s.Turn < 7 {
		require.NoError(t, s.Advance())
	}
	require.NoError(t, s.Advance()) // 7 -> transição para B (turno 8)
	require.Equal(t, 8, s.Turn)
	require.Equal(t, "B", s.CurrentPhase().Label)
}
