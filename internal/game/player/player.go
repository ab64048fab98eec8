package player

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"finanzweg/internal/game/profile"

	"github.com/google/uuid"
)

// MaxNameLength limita o nome de exibição do aluno.
const MaxNameLength = 24

// Player é um aluno dentro de uma sessão. O estado financeiro inteiro é
// derivável de (perfil, baralho, decisões): a liquidação usa isso para
// recomputar um jogador por replay quando o professor corrige uma decisão
// de um turno já liquidado.
type Player struct {
	ID      string
	Name    string
	Profile profile.Profile

	Wealth        float64
	Salary        float64
	CostOfLiving  float64
	PensionPoints float64
	Markers       map[string]struct{}

	// PersonalTurn é o turno que o jogador está respondendo. Igual ao
	// turno global nas fases controladas pelo professor; avança sozinho
	// nas fases autônomas.
	PersonalTurn int

	// SettledTurn é o último turno liquidado — a guarda de idempotência
	// da liquidação.
	SettledTurn int

	LastSeen time.Time
}

// New cria um jogador com o nome validado e o perfil aplicado.
func New(name string, prof profile.Profile) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("player name is required")
	}
	if n := len([]rune(name)); n > MaxNameLength {
		return nil, fmt.Errorf("player name too long: %d runes (max %d)", n, MaxNameLength)
	}

	p := &Player{
		ID:      uuid.NewString(),
		Name:    name,
		Markers: make(map[string]struct{}),
	}
	p.ApplyProfile(prof)
	return p, nil
}

// ApplyProfile zera o estado financeiro para a linha de base do perfil.
// Também é o ponto de partida do replay.
func (p *Player) ApplyProfile(prof profile.Profile) {
	p.Profile = prof
	p.Wealth = prof.Capital
	p.Salary = prof.Salary
	p.CostOfLiving = prof.CostOfLiving
	p.PensionPoints = 0
	p.Markers = make(map[string]struct{})
	p.SettledTurn = 0
}

// AddMarker adiciona um marcador qualitativo, no máximo uma vez.
// Retorna true quando o marcador é novo.
func (p *Player) AddMarker(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := p.Markers[name]; ok {
		return false
	}
	p.Markers[name] = struct{}{}
	return true
}

// HasMarker informa se o jogador já adquiriu o marcador.
func (p *Player) HasMarker(name string) bool {
	_, ok := p.Markers[name]
	return ok
}

// MarkerList retorna os marcadores em ordem estável para os snapshots.
func (p *Player) MarkerList() []string {
	out := make([]string, 0, len(p.Markers))
	for m := range p.Markers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Touch registra atividade do jogador (heartbeat ou qualquer mensagem).
func (p *Player) Touch(now time.Time) {
	p.LastSeen = now
}
