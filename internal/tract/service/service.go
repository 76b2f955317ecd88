package service

import (
	"context"
	"errors"
	"fmt"

	accountmodel "npl-dashboard/internal/account/model"
	accountrepo "npl-dashboard/internal/account/repository"
	"npl-dashboard/internal/authz"
	"npl-dashboard/internal/config"
	"npl-dashboard/internal/database"
	"npl-dashboard/internal/logger"
	"npl-dashboard/internal/mailer"
	"npl-dashboard/internal/tract/model"
	"npl-dashboard/internal/tract/repository"
	"npl-dashboard/internal/tract/validator"
	appErrors "npl-dashboard/pkg/errors"
	"npl-dashboard/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TractService struct {
	db          *database.Database
	repo        *repository.TractRepository
	accountRepo *accountrepo.AccountRepository
	mailer      mailer.Mailer
	config      *config.Config
}

func NewService(db *database.Database, repo *repository.TractRepository, accounts *accountrepo.AccountRepository, m mailer.Mailer, cfg *config.Config) *TractService {
	return &TractService{
		db:          db,
		repo:        repo,
		accountRepo: accounts,
		mailer:      m,
		config:      cfg,
	}
}

func (s *TractService) GetMetrics(ctx context.Context, tractID string) (*model.TractMetrics, error) {
	return s.repo.GetMetrics(ctx, tractID)
}

// GetCountyCoordinator returns the coordinator email for the county, or nil
// when none is assigned.
func (s *TractService) GetCountyCoordinator(ctx context.Context, countyfp string) (*string, error) {
	account, err := s.accountRepo.GetCoordinatorByCounty(ctx, countyfp)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return &account.Email, nil
}

func (s *TractService) GetTractCoordinator(ctx context.Context, tractid string) (*string, error) {
	account, err := s.accountRepo.GetCoordinatorByTract(ctx, tractid)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return &account.Email, nil
}

// UpdateMetrics performs the transactional tract upsert. When a coordinator
// payload is present, the metrics write and the coordinator create-or-rescope
// commit or roll back together; the welcome mail is fired only after commit
// and its failure never undoes the write.
func (s *TractService) UpdateMetrics(ctx context.Context, caller *utils.Claims, request *model.UpdateTractRequest) (*model.UpdateTractResponse, error) {
	if err := validator.ValidateStruct(request); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if !authz.Can(caller, authz.ActionUpdateTractMetrics, authz.Target{Tractid: request.TractID}) {
		return nil, appErrors.ErrForbidden
	}

	metrics := &model.TractMetrics{
		TractID:        request.TractID,
		DiscipleMakers: *request.DiscipleMakers,
		SimpleChurches: *request.SimpleChurches,
		LegacyChurches: *request.LegacyChurches,
		UpdatedBy:      caller.Email,
	}

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpsertMetrics(ctx, metrics); err != nil {
			return err
		}

		if request.Coordinator != nil {
			return s.assignCoordinatorTx(ctx, tx, request.Coordinator.Email, "", request.TractID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if request.Coordinator != nil {
		s.sendWelcome(request.Coordinator.Email, request.Coordinator.Name, request.TractID)
		return &model.UpdateTractResponse{
			Success:             true,
			Message:             "Tract data updated and coordinator assigned successfully",
			CoordinatorAssigned: true,
		}, nil
	}

	return &model.UpdateTractResponse{
		Success: true,
		Message: "Tract data updated successfully",
	}, nil
}

// AssignCountyCoordinator creates or rescopes the coordinator account for a
// county. Only state callers reach this.
func (s *TractService) AssignCountyCoordinator(ctx context.Context, caller *utils.Claims, request *model.AssignCountyCoordinatorRequest) error {
	if err := validator.ValidateStruct(request); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if !authz.Can(caller, authz.ActionAssignCountyCoordinator, authz.Target{Countyfp: request.Countyfp}) {
		return appErrors.ErrForbidden
	}

	err := s.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.assignCoordinatorTx(ctx, tx, request.Email, request.Countyfp, "")
	})
	if err != nil {
		return err
	}

	s.sendWelcome(request.Email, request.Name, request.Countyfp)
	return nil
}

// assignCoordinatorTx rescopes an existing account to the region, or creates
// a fresh coordinator account with the seeded default password and the
// must-reset flag set. An existing account's password is never touched.
// Exactly one of countyfp and tractid is non-empty.
func (s *TractService) assignCoordinatorTx(ctx context.Context, tx *gorm.DB, email, countyfp, tractid string) error {
	accounts := s.accountRepo.WithTx(tx)

	existing, err := accounts.GetAccountByEmail(ctx, email)
	if err != nil && !errors.Is(err, appErrors.ErrAccountNotFound) {
		return err
	}

	if existing != nil {
		if countyfp != "" {
			return accounts.AssignCounty(ctx, email, countyfp)
		}
		return accounts.AssignTract(ctx, email, tractid)
	}

	hash, err := utils.HashPassword(s.config.Seed.DefaultPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	account := &accountmodel.Account{
		Email:             email,
		PasswordHash:      hash,
		MustResetPassword: true,
	}
	if countyfp != "" {
		account.Role = accountmodel.RoleCounty
		account.Countyfp = &countyfp
	} else {
		account.Role = accountmodel.RoleTract
		account.Tractid = &tractid
	}

	return accounts.CreateAccount(ctx, account)
}

func (s *TractService) sendWelcome(email, name, regionID string) {
	if err := s.mailer.SendWelcome(email, name, regionID); err != nil {
		logger.Error("Failed to send welcome email",
			zap.String("email", email),
			zap.String("region", regionID),
			zap.Error(err),
		)
	}
}
