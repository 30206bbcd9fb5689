package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config agrupa a configuração necessária para rodar a aplicação.
type Config struct {
	Port        string
	DatabaseURL string
}

// Load lê variáveis de ambiente e valida o mínimo indispensável.
// Um arquivo .env é carregado se existir; variáveis já definidas têm prioridade.
func Load() (Config, error) {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	// Normalizamos caso alguém mande ":8080"
	port = strings.TrimPrefix(port, ":")

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	return Config{
		Port:        port,
		DatabaseURL: databaseURL,
	}, nil
}
