package persistence

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/audit"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Create appends an audit record
func (r *GormAuditRepository) Create(ctx context.Context, l *audit.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// FindByID finds an audit record by its ID
func (r *GormAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.Log, error) {
	var l audit.Log
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	logs := []audit.Log{l}
	if err := r.attachActors(ctx, logs); err != nil {
		return nil, err
	}
	return &logs[0], nil
}

// FindAll returns a window of records with the total count, newest first
// unless the filter asks for another order
func (r *GormAuditRepository) FindAll(ctx context.Context, filter audit.Filter, window shared.Window) ([]audit.Log, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.Log{})
	if filter.Entity != "" {
		query = query.Where("entity = ?", filter.Entity)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []audit.Log
	err := query.
		Order(orderClause(filter.SortBy, filter.SortOrder, AuditSortFields, "created_at")).
		Offset(window.Skip).
		Limit(window.Take).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachActors(ctx, logs); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// attachActors loads the email and name of every acting user in one
// query. Records whose user has no profile keep a nil User.
func (r *GormAuditRepository) attachActors(ctx context.Context, logs []audit.Log) error {
	seen := make(map[string]bool)
	var ids []string
	for _, l := range logs {
		if l.UserID != nil && !seen[*l.UserID] {
			seen[*l.UserID] = true
			ids = append(ids, *l.UserID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var actors []audit.Actor
	err := r.db.WithContext(ctx).
		Table("profiles").
		Select("user_id, email, first_name, last_name").
		Where("user_id IN ?", ids).
		Find(&actors).Error
	if err != nil {
		return err
	}

	byUser := make(map[string]*audit.Actor, len(actors))
	for i := range actors {
		byUser[actors[i].UserID] = &actors[i]
	}
	for i := range logs {
		if logs[i].UserID != nil {
			logs[i].User = byUser[*logs[i].UserID]
		}
	}
	return nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
