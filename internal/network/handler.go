package network

// EventHandler é a ponte entre a camada de rede e a lógica do jogo.
// O pacote gamemaster implementa esta interface; todos os métodos são
// chamados pela goroutine única do Hub.
type EventHandler interface {
	// OnConnect é chamado quando um cliente completa o handshake.
	OnConnect(c *Client)

	// OnDisconnect é chamado quando um cliente se desconecta.
	OnDisconnect(c *Client)

	// OnMessage é chamado para cada mensagem recebida de um cliente.
	OnMessage(c *Client, msg Message)
}
