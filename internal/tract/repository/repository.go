package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"npl-dashboard/internal/database"
	"npl-dashboard/internal/tract/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TractRepository struct {
	db *gorm.DB
}

func NewRepository(db *database.Database) *TractRepository {
	return &TractRepository{db: db.DB}
}

// WithTx returns a repository bound to an open transaction.
func (r *TractRepository) WithTx(tx *gorm.DB) *TractRepository {
	return &TractRepository{db: tx}
}

// GetMetrics returns the stored row, or a zero-valued default when no row
// exists yet. It never reports not-found.
func (r *TractRepository) GetMetrics(ctx context.Context, tractID string) (*model.TractMetrics, error) {
	var metrics model.TractMetrics
	err := r.db.WithContext(ctx).Where("tract_id = ?", tractID).First(&metrics).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.TractMetrics{TractID: tractID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tract metrics: %w", err)
	}
	return &metrics, nil
}

// UpsertMetrics overwrites all three counts together, stamped with the
// updater identity and current time.
func (r *TractRepository) UpsertMetrics(ctx context.Context, metrics *model.TractMetrics) error {
	if metrics.ID == uuid.Nil {
		metrics.ID = uuid.New()
	}
	metrics.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tract_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"disciple_makers", "simple_churches", "legacy_churches", "updated_at", "updated_by",
		}),
	}).Create(metrics).Error

	if err != nil {
		return fmt.Errorf("failed to upsert tract metrics: %w", err)
	}
	return nil
}

// ListMetrics returns every stored tract row keyed by tract id, for the
// region summary endpoints.
func (r *TractRepository) ListMetrics(ctx context.Context) (map[string]*model.TractMetrics, error) {
	var rows []model.TractMetrics
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tract metrics: %w", err)
	}

	byID := make(map[string]*model.TractMetrics, len(rows))
	for i := range rows {
		byID[rows[i].TractID] = &rows[i]
	}
	return byID, nil
}
