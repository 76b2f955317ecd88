package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"npl-dashboard/internal/account/model"
	"npl-dashboard/internal/database"
	appErrors "npl-dashboard/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewRepository(db *database.Database) *AccountRepository {
	return &AccountRepository{db: db.DB}
}

// WithTx returns a repository bound to an open transaction.
func (r *AccountRepository) WithTx(tx *gorm.DB) *AccountRepository {
	return &AccountRepository{db: tx}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, account *model.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "unique") && strings.Contains(errStr, "email") {
			return appErrors.ErrDuplicateAccount
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// UpdatePassword replaces the stored hash and clears the must-reset flag.
func (r *AccountRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"password_hash":       passwordHash,
			"must_reset_password": false,
			"updated_at":          time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrAccountNotFound
	}
	return nil
}

// AssignTract rescopes an existing account to the given tract. The password
// is never touched here.
func (r *AccountRepository) AssignTract(ctx context.Context, email, tractid string) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"tractid":    tractid,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to assign tract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrAccountNotFound
	}
	return nil
}

// AssignCounty rescopes an existing account to the given county and promotes
// it to the county role.
func (r *AccountRepository) AssignCounty(ctx context.Context, email, countyfp string) error {
	result := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"countyfp":   countyfp,
			"role":       model.RoleCounty,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to assign county: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) GetCoordinatorByCounty(ctx context.Context, countyfp string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("countyfp = ? AND role = ?", countyfp, model.RoleCounty).
		First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get county coordinator: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) GetCoordinatorByTract(ctx context.Context, tractid string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("tractid = ? AND role = ?", tractid, model.RoleTract).
		First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tract coordinator: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) CreateResetCode(ctx context.Context, code *model.PasswordResetCode) error {
	code.ID = uuid.New()
	code.CreatedAt = time.Now()
	code.Used = false

	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return fmt.Errorf("failed to create reset code: %w", err)
	}
	return nil
}

// GetActiveResetCode returns the most recent unused, unexpired row matching
// the email and code.
func (r *AccountRepository) GetActiveResetCode(ctx context.Context, email, code string) (*model.PasswordResetCode, error) {
	var resetCode model.PasswordResetCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND used = ? AND expires_at > ?", email, code, false, time.Now()).
		Order("created_at DESC").
		First(&resetCode).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrInvalidOrExpiredCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset code: %w", err)
	}

	return &resetCode, nil
}

func (r *AccountRepository) MarkResetCodeUsed(ctx context.Context, codeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.PasswordResetCode{}).
		Where("id = ?", codeID).
		Update("used", true)

	return result.Error
}

// DeleteStaleResetCodes removes rows that are expired or already used.
func (r *AccountRepository) DeleteStaleResetCodes(ctx context.Context) error {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR used = ?", time.Now(), true).
		Delete(&model.PasswordResetCode{})

	return result.Error
}
