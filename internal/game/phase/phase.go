package phase

import "fmt"

// Mode define a duração da partida. O modo longo cobre uma vida de trabalho
// completa (42 anos simulados), o blitz é a versão curta para uma aula única.
type Mode string

const (
	ModeLong  Mode = "long"
	ModeBlitz Mode = "blitz"
)

// Phase é um intervalo contíguo de turnos com um modo de controle uniforme.
// HostControlled = true significa que o turno global avança em passo único
// pela ação do professor; false significa que cada aluno avança seu próprio
// turno pessoal dentro do intervalo.
type Phase struct {
	Label          string
	Start          int
	End            int
	HostControlled bool
}

// Contains verifica se o turno pertence a esta fase.
func (p Phase) Contains(turn int) bool {
	return turn >= p.Start && turn <= p.End
}

// longPartition divide os 42 turnos do modo longo em cinco fases que
// alternam entre controle do professor (A, C, E) e autônomas (B, D).
var longPartition = []Phase{
	{Label: "A", Start: 1, End: 7, HostControlled: true},
	{Label: "B", Start: 8, End: 21, HostControlled: false},
	{Label: "C", Start: 22, End: 26, HostControlled: true},
	{Label: "D", Start: 27, End: 37, HostControlled: false},
	{Label: "E", Start: 38, End: 42, HostControlled: true},
}

// blitzPartition é uma única fase plana, sempre controlada pelo professor.
var blitzPartition = []Phase{
	{Label: "A", Start: 1, End: 10, HostControlled: true},
}

func partition(mode Mode) []Phase {
	if mode == ModeBlitz {
		return blitzPartition
	}
	return longPartition
}

// ParseMode valida o modo enviado pelo cliente. Uma string vazia cai no
// modo longo, que é o padrão da aula.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeLong):
		return ModeLong, nil
	case string(ModeBlitz):
		return ModeBlitz, nil
	}
	return "", fmt.Errorf("unknown game mode: %q", s)
}

// MaxTurn retorna o último turno válido do modo.
func MaxTurn(mode Mode) int {
	p := partition(mode)
	return p[len(p)-1].End
}

// ForTurn retorna a fase à qual o turno pertence. Turnos fora dos limites
// são presos à primeira/última fase, para que chamadas com turnos já
// clampados nunca recebam uma fase inexistente.
func ForTurn(mode Mode, turn int) Phase {
	p := partition(mode)
	if turn <= p[0].End {
		return p[0]
	}
	for _, ph := range p {
		if ph.Contains(turn) {
			return ph
		}
	}
	return p[len(p)-1]
}

// Next retorna a fase seguinte na partição e false quando a fase dada já é
// a última.
func Next(mode Mode, current Phase) (Phase, bool) {
	p := partition(mode)
	for i, ph := range p {
		if ph.Label == current.Label && i+1 < len(p) {
			return p[i+1], true
		}
	}
	return Phase{}, false
}

// CheckpointTurn é o único ponto de parada obrigatório da partida: o fim da
// fase B no modo longo. Atingi-lo pausa a sessão até o professor liberar.
// Retorna 0 quando o modo não tem checkpoint (blitz).
func CheckpointTurn(mode Mode) int {
	if mode == ModeBlitz {
		return 0
	}
	return longPartition[1].End
}
