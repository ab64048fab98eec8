package network

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Prazo máximo para concluir uma escrita na conexão.
	writeWait = 10 * time.Second

	// Prazo máximo para receber um pong do cliente antes de
	// considerar a conexão morta.
	pongWait = 60 * time.Second

	// Frequência dos pings enviados ao cliente. Precisa ser menor
	// que pongWait para o deadline ser renovado a tempo.
	pingPeriod = (pongWait * 9) / 10
)

// Client representa uma conexão WebSocket ativa — o tablet de um aluno
// ou a tela do professor. Ele não sabe nada do jogo: só lê, escreve e
// mantém a conexão viva.
type Client struct {
	conn *websocket.Conn

	// Referência ao Hub central, usada para (des)registro.
	hub *Hub

	// Canal bufferizado de mensagens de saída. O Hub deposita aqui e
	// a goroutine writeLoop drena. O buffer impede que um cliente
	// lento trave o loop de eventos.
	send chan Message
}

// RemoteAddr devolve o endereço do outro lado da conexão, útil para logs.
func (c *Client) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Send expõe o canal de saída do cliente (somente escrita).
func (c *Client) Send() chan<- Message {
	return c.send
}

func (c *Client) readLoop() {
	// Limpeza garantida quando o loop terminar, por qualquer motivo.
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	// Cada pong recebido renova o deadline de leitura, mantendo a
	// conexão viva enquanto o cliente responder aos pings.
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Network] Unexpected close from %s: %v", c.RemoteAddr(), err)
			}
			// Qualquer erro de leitura encerra o loop; o defer cuida
			// do desregistro.
			break
		}

		c.hub.incoming <- clientMessage{client: c, msg: msg}
	}
}

// writeLoop bombeia mensagens do canal 'send' para a conexão e envia
// pings periódicos.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// Canal fechado pelo Hub: o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("[Network] Write error to %s: %v", c.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
