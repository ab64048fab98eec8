package card

// Bundle é o conjunto de cartas ativas de um turno, no máximo uma por
// categoria. Categorias ausentes simplesmente não têm carta naquele turno.
type Bundle map[Type]*Card

// Get retorna a carta da categoria, se presente no turno.
func (b Bundle) Get(t Type) (*Card, bool) {
	c, ok := b[t]
	return c, ok
}

// Required lista as categorias que o jogador precisa responder para
// completar o turno: todas as presentes cujas cartas não se resolvem
// sozinhas. Cartas obrigatórias (Mandatory) aplicam seu efeito padrão na
// liquidação quando ignoradas e por isso não entram na conta.
func (b Bundle) Required() []Type {
	var req []Type
	for _, t := range Types {
		if c, ok := b[t]; ok && !c.Mandatory {
			req = append(req, t)
		}
	}
	return req
}

// Schedule é o baralho pré-computado de uma sessão: um Bundle por turno,
// gerado uma única vez no início e imutável a partir daí. A imutabilidade
// garante que todo jogador que alcança um dado número de turno — em passo
// único ou avançando sozinho numa fase autônoma — vê exatamente as mesmas
// cartas.
type Schedule []Bundle

// ForTurn retorna o bundle do turno (1-indexado). Turnos fora do baralho
// retornam um bundle vazio.
func (s Schedule) ForTurn(turn int) Bundle {
	if turn < 1 || turn > len(s) {
		return Bundle{}
	}
	return s[turn-1]
}
