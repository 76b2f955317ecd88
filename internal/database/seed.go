package database

import (
	"errors"
	"fmt"

	"npl-dashboard/internal/account/model"
	"npl-dashboard/internal/config"
	"npl-dashboard/internal/logger"
	"npl-dashboard/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedStateCoordinator creates the bootstrap state coordinator on an empty
// database. The account carries the well-known default password and must
// reset it on first login. Idempotent: an existing account is left untouched.
func (d *Database) SeedStateCoordinator(cfg *config.Config) error {
	email := cfg.Seed.StateCoordinatorEmail
	if email == "" {
		return nil
	}

	var existing model.Account
	err := d.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check seed account: %w", err)
	}

	hash, err := utils.HashPassword(cfg.Seed.DefaultPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	account := &model.Account{
		ID:                uuid.New(),
		Email:             email,
		PasswordHash:      hash,
		MustResetPassword: true,
		Role:              model.RoleState,
	}

	if err := d.DB.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create seed account: %w", err)
	}

	logger.Info("Seeded state coordinator account",
		zap.String("email", email),
	)
	return nil
}
