package postgres

import (
	"fmt"

	"github.com/durgapur-services/marketplace-backend/config"
)

// DSN returns the configured DSN, or builds a key/value one from the
// individual connection settings.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}
