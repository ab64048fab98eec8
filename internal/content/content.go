package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"finanzweg/internal/game/card"
	"finanzweg/internal/game/profile"
)

// Nomes dos arquivos de conteúdo dentro do diretório configurado.
const (
	cardsFile    = "cards.json"
	profilesFile = "profiles.json"
)

// Content é o material pedagógico carregado na subida do servidor: o pool
// de cartas por categoria e os perfis iniciais sorteáveis.
type Content struct {
	Pool     card.Pool
	Profiles []profile.Profile
}

// Load lê o conteúdo do diretório dado. Arquivo ausente cai no conteúdo
// embutido de demonstração; arquivo presente mas inválido é erro fatal —
// melhor falhar na subida do que descobrir uma carta quebrada no meio da
// aula.
func Load(dir string) (*Content, error) {
	c := &Content{}

	pool, err := loadCards(filepath.Join(dir, cardsFile))
	if err != nil {
		return nil, err
	}
	c.Pool = pool

	profiles, err := loadProfiles(filepath.Join(dir, profilesFile))
	if err != nil {
		return nil, err
	}
	c.Profiles = profiles

	return c, nil
}

func loadCards(path string) (card.Pool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Content] %s not found, using built-in demo cards", path)
		return card.PlaceholderPool(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cards []*card.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	pool := make(card.Pool)
	for _, c := range cards {
		pool[c.Type] = append(pool[c.Type], c)
	}
	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}

	log.Printf("[Content] Loaded %d cards from %s", len(cards), path)
	return pool, nil
}

func loadProfiles(path string) ([]profile.Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Content] %s not found, using built-in demo profiles", path)
		return profile.DefaultSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var profiles []profile.Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%s contains no profiles", path)
	}

	log.Printf("[Content] Loaded %d profiles from %s", len(profiles), path)
	return profiles, nil
}
