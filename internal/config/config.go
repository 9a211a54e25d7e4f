package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	APIBaseURL  string `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	FeedURL     string `env:"FEED_URL" envDefault:"ws://localhost:8000/ws/monolithic"`
	GameID      int    `env:"GAME_ID,required"`
	PlayerID    int    `env:"PLAYER_ID,required"`
	PlayerToken string `env:"PLAYER_TOKEN,required"`
	JournalPath string `env:"JOURNAL_PATH" envDefault:"session.db"`
	DebugAddr   string `env:"DEBUG_ADDR" envDefault:""`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
