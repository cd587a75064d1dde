package db

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/auth"
	"github.com/harwick/wip-reporting/internal/config"
)

// seedAdminUser creates the bootstrap admin on a fresh database. No-op unless
// both bootstrap credentials are configured and the users table is empty.
func seedAdminUser(db *gorm.DB, cfg *config.Config, log zerolog.Logger) error {
	if cfg.Bootstrap.AdminUsername == "" || cfg.Bootstrap.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Raw(`SELECT COUNT(*) FROM users`).Scan(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Bootstrap.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	err = db.Exec(`
		INSERT INTO users (username, password_hash, role)
		VALUES (?, ?, 'admin')
	`, cfg.Bootstrap.AdminUsername, hash).Error
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	log.Info().Str("username", cfg.Bootstrap.AdminUsername).Msg("bootstrap admin created")
	return nil
}
