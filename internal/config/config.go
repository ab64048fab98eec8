package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================================
// Valores padrão
// ============================================================================

const (
	defaultListenAddr      = ":8080"
	defaultContentDir      = "data"
	defaultDeckStrategy    = "schedule"
	defaultReferenceSalary = 42000
	defaultSessionMinutes  = 90
)

// Config armazena todas as configurações da aplicação.
type Config struct {
	// Endereço HTTP de escuta.
	ListenAddr string

	// URL pública do frontend, usada nos QR codes de entrada. Vazio
	// desativa a rota de QR.
	PublicURL string

	// Diretório com cards.json e profiles.json. Arquivos ausentes caem
	// no conteúdo embutido de demonstração.
	ContentDir string

	// Estratégia de montagem do baralho: "schedule" ou "draw".
	DeckStrategy string

	// Salário médio de referência do cálculo de pontos de pensão.
	ReferenceSalary float64

	// Duração indicativa da sessão, exibida como contagem regressiva.
	SessionDuration time.Duration

	// Origens permitidas para CORS/WebSocket. Vazio libera tudo.
	CORSOrigins []string

	// Prod ativa o modo release do gin.
	Prod bool
}

// Load carrega a configuração: .env primeiro (se existir), depois as
// variáveis de ambiente, depois os padrões.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", defaultListenAddr),
		PublicURL:    os.Getenv("PUBLIC_URL"),
		ContentDir:   getEnv("CONTENT_DIR", defaultContentDir),
		DeckStrategy: getEnv("DECK_STRATEGY", defaultDeckStrategy),
		Prod:         os.Getenv("PROD") == "true",
	}

	salary, err := getEnvFloat("REFERENCE_SALARY", defaultReferenceSalary)
	if err != nil {
		return nil, err
	}
	cfg.ReferenceSalary = salary

	minutes, err := getEnvInt("SESSION_MINUTES", defaultSessionMinutes)
	if err != nil {
		return nil, err
	}
	cfg.SessionDuration = time.Duration(minutes) * time.Minute

	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
