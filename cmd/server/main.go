package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"finanzweg/internal/config"
	"finanzweg/internal/content"
	"finanzweg/internal/game/card"
	"finanzweg/internal/game/session"
	"finanzweg/internal/network"
	"finanzweg/internal/services/gamemaster"
)

func main() {
	// 1. Configuração: .env + variáveis de ambiente + padrões.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}
	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Conteúdo pedagógico: cartas e perfis da turma.
	material, err := content.Load(cfg.ContentDir)
	if err != nil {
		log.Fatalf("Could not load content: %v", err)
	}

	strategy, err := card.ParseStrategy(cfg.DeckStrategy)
	if err != nil {
		log.Fatalf("Invalid DECK_STRATEGY: %v", err)
	}

	// 3. O store de sessões, dono de todo o estado de jogo.
	store := session.NewStore(session.Config{
		Pool:            material.Pool,
		Profiles:        material.Profiles,
		Strategy:        strategy,
		ReferenceSalary: cfg.ReferenceSalary,
		SessionDuration: cfg.SessionDuration,
	})

	// 4. A lógica do jogo, injetada na camada de rede.
	gm := gamemaster.New(store)

	// 5. Servidor HTTP/WebSocket.
	server := network.NewServer(gm, network.Options{
		AllowedOrigins: cfg.CORSOrigins,
		PublicURL:      cfg.PublicURL,
	})

	if err := server.Listen(cfg.ListenAddr); err != nil {
		log.Fatalf("Could not start server: %v", err)
	}
}
