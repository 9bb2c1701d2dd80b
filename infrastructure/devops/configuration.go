package devops

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ListenAddr   string `envconfig:"LISTEN_ADDR" default:"0.0.0.0:8090"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"sqlite.db"`

	AtriumBaseURL  string        `envconfig:"ATRIUM_BASE_URL" required:"true"`
	AtriumUsername string        `envconfig:"ATRIUM_USERNAME" required:"true"`
	AtriumPassword string        `envconfig:"ATRIUM_PASSWORD" required:"true"`
	AtriumTimeout  time.Duration `envconfig:"ATRIUM_TIMEOUT" default:"15s"`

	// DENY902 is Atrium's "already swiped in within the last minute" code,
	// which the policy treats as an admit.
	DuplicateSwipeCode string `envconfig:"DUPLICATE_SWIPE_CODE" default:"DENY902"`
	AlumniIDs          []int  `envconfig:"ALUMNI_IDS" default:"1254375"`

	// deny turns an unparseable member card into a Disallow response,
	// error surfaces it so an operator notices.
	ExtractionFailureMode string `envconfig:"EXTRACTION_FAILURE_MODE" default:"deny"`
}

// LoadConfig reads an optional .env file, then the environment. Atrium
// credentials only ever come from the environment.
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	switch cfg.ExtractionFailureMode {
	case "deny", "error":
	default:
		return nil, fmt.Errorf("invalid EXTRACTION_FAILURE_MODE %q (want deny or error)", cfg.ExtractionFailureMode)
	}
	return &cfg, nil
}
