package network

// clientMessage empacota uma mensagem junto com o cliente de origem,
// para o Hub repassar os dois ao EventHandler.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub mantém o conjunto de clientes ativos e serializa todos os eventos
// em uma única goroutine. Tudo que roda dentro de Run() — incluindo o
// EventHandler e, por consequência, todo o estado do jogo — tem exclusão
// mútua de graça, sem locks.
type Hub struct {
	// Clientes registrados. Acessado SOMENTE pela goroutine do Hub.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	// Mensagens de entrada vindas dos readLoops dos clientes.
	incoming chan clientMessage

	// O handler da lógica do jogo que processa os eventos.
	handler EventHandler
}

// NewHub cria e inicializa um novo Hub.
func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		handler:    handler,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// Fechar o canal 'send' é o sinal para o writeLoop
				// daquele cliente encerrar.
				close(client.send)
				h.handler.OnDisconnect(client)
			}

		case clientMsg := <-h.incoming:
			// O Hub não interpreta o conteúdo; só delega.
			h.handler.OnMessage(clientMsg.client, clientMsg.msg)
		}
	}
}
