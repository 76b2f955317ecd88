package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"npl-dashboard/internal/account/model"
	"npl-dashboard/internal/account/repository"
	"npl-dashboard/internal/account/validator"
	"npl-dashboard/internal/authz"
	"npl-dashboard/internal/config"
	"npl-dashboard/internal/logger"
	"npl-dashboard/internal/mailer"
	appErrors "npl-dashboard/pkg/errors"
	"npl-dashboard/pkg/utils"

	"go.uber.org/zap"
)

const resetCodeTTL = 15 * time.Minute

type AccountService struct {
	repo   *repository.AccountRepository
	mailer mailer.Mailer
	config *config.Config
}

func NewService(repo *repository.AccountRepository, m mailer.Mailer, cfg *config.Config) *AccountService {
	return &AccountService{
		repo:   repo,
		mailer: m,
		config: cfg,
	}
}

// Login verifies the credentials and issues a 24-hour session token carrying
// the account's role and scope. Unknown email and wrong password produce the
// same error so callers cannot probe for accounts.
func (s *AccountService) Login(ctx context.Context, request *model.LoginRequest) (*model.LoginResponse, error) {
	if err := validator.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	account, err := s.repo.GetAccountByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrAccountNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(account.PasswordHash, request.Password) {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(
		account.ID,
		account.Email,
		account.Role,
		deref(account.Countyfp),
		deref(account.Tractid),
		s.config.JWT.Secret,
		s.config.JWT.ExpiryHours,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.LoginResponse{
		Token:             token,
		MustResetPassword: account.MustResetPassword,
		Role:              account.Role,
		Countyfp:          account.Countyfp,
		Tractid:           account.Tractid,
		Email:             account.Email,
	}, nil
}

// Register creates an account with an explicit role and scope. Only state and
// county callers reach this; a county caller may only create tract accounts
// within its own county. New accounts must reset their password on first login.
func (s *AccountService) Register(ctx context.Context, caller *utils.Claims, request *model.RegisterRequest) error {
	if err := validator.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	target := authz.Target{
		Role:     request.Role,
		Countyfp: deref(request.Countyfp),
		Tractid:  deref(request.Tractid),
	}
	if !authz.Can(caller, authz.ActionRegisterAccount, target) {
		return appErrors.ErrForbidden
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		Email:             request.Email,
		PasswordHash:      hashedPassword,
		MustResetPassword: true,
		Role:              request.Role,
		Countyfp:          request.Countyfp,
		Tractid:           request.Tractid,
	}

	return s.repo.CreateAccount(ctx, account)
}

// SelfResetPassword verifies the old password before replacing it and
// clearing the must-reset flag.
func (s *AccountService) SelfResetPassword(ctx context.Context, request *model.SelfResetPasswordRequest) error {
	if err := validator.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	account, err := s.repo.GetAccountByEmail(ctx, request.Email)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(account.PasswordHash, request.OldPassword) {
		return appErrors.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, request.Email, hashedPassword)
}

// RequestPasswordReset stores and mails a 6-digit code expiring in 15
// minutes. It reports success for unknown emails as well, so the endpoint
// cannot be used to enumerate accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, request *model.RequestPasswordResetRequest) error {
	if err := validator.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	account, err := s.repo.GetAccountByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, appErrors.ErrAccountNotFound) {
			logger.Debug("Password reset requested for unknown email",
				zap.String("email", request.Email),
			)
			return nil
		}
		return fmt.Errorf("failed to retrieve account: %w", err)
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	resetCode := &model.PasswordResetCode{
		Email:     account.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(resetCodeTTL),
	}
	if err := s.repo.CreateResetCode(ctx, resetCode); err != nil {
		return err
	}

	if err := s.mailer.SendResetCode(account.Email, code); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// ConfirmPasswordReset consumes the most recent matching code. A code is
// usable at most once and only before its expiry.
func (s *AccountService) ConfirmPasswordReset(ctx context.Context, request *model.ConfirmPasswordResetRequest) error {
	if err := validator.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	resetCode, err := s.repo.GetActiveResetCode(ctx, request.Email, request.Code)
	if err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, request.Email, hashedPassword); err != nil {
		return err
	}

	if err := s.repo.MarkResetCodeUsed(ctx, resetCode.ID); err != nil {
		logger.Error("Failed to mark reset code as used", zap.Error(err))
	}

	return nil
}

// ForcePasswordReset replaces the password without an old-password check.
// It backs the first-login flow, where the caller holds no session yet.
func (s *AccountService) ForcePasswordReset(ctx context.Context, request *model.ForcePasswordResetRequest) error {
	if err := validator.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if _, err := s.repo.GetAccountByEmail(ctx, request.Email); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, request.Email, hashedPassword)
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
