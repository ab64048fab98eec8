package network

import "encoding/json"

// Message é o envelope padrão de toda a comunicação, nos dois sentidos.
// O Type roteia; o Payload fica em JSON bruto para o handler de destino
// decodificar com a struct que conhece.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MaxMessageSize limita o tamanho de uma mensagem de entrada. Nenhuma
// ação do jogo chega perto disso; acima é comportamento suspeito.
const MaxMessageSize = 64 * 1024

// NewMessage monta um envelope serializando o payload dado.
func NewMessage(msgType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}
