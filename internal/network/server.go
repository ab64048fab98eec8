package network

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
)

// Server é a fachada HTTP do jogo: expõe o endpoint WebSocket, um
// health check e os QR codes de entrada nas sessões.
type Server struct {
	hub    *Hub
	router *gin.Engine

	// URL pública onde os alunos acessam o frontend. Entra no conteúdo
	// dos QR codes.
	publicURL string
}

// Options configura a superfície HTTP do servidor.
type Options struct {
	// Origens permitidas para CORS e para o handshake WebSocket.
	// Vazio libera qualquer origem (modo sala de aula / desenvolvimento).
	AllowedOrigins []string

	// URL pública usada nos QR codes. Vazio desativa a rota de QR.
	PublicURL string
}

// NewServer monta o Hub e as rotas. O handler é o ponto de injeção da
// lógica do jogo.
func NewServer(handler EventHandler, opts Options) *Server {
	s := &Server{
		hub:       NewHub(handler),
		router:    gin.Default(),
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
	}

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	s.router.Use(cors.New(corsConfig))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router.GET("/ws", func(c *gin.Context) {
		s.serveWS(upgrader, c.Writer, c.Request)
	})

	if s.publicURL != "" {
		s.router.GET("/join/:code/qr", s.joinQR)
	}

	return s
}

// originChecker devolve a função de validação de origem do handshake
// WebSocket, coerente com a configuração de CORS.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimRight(origin, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := strings.TrimRight(r.Header.Get("Origin"), "/")
		// Sem header Origin: cliente não-browser (app nativo, testes).
		return origin == "" || set[origin]
	}
}

// serveWS promove a requisição HTTP para WebSocket e entrega o cliente
// ao Hub.
func (s *Server) serveWS(upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Network] Upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		hub:  s.hub,
		send: make(chan Message, 256),
	}

	client.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// joinQR devolve um PNG com o QR code de entrada na sessão. A rota não
// consulta o estado do jogo (que vive na goroutine do Hub); um código
// inexistente gera um QR que leva a um erro de "session not found" no
// momento do join, o que é suficiente.
func (s *Server) joinQR(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if len(code) != 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session code"})
		return
	}

	target := fmt.Sprintf("%s/?code=%s", s.publicURL, code)
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Listen inicia a goroutine do Hub e o servidor HTTP. Bloqueante.
func (s *Server) Listen(address string) error {
	go s.hub.Run()

	log.Printf("[Network] Listening on %s (WebSocket at ws://%s/ws)", address, address)
	return s.router.Run(address)
}
