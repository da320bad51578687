package leaveform

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaveform_repo.go -destination=mock/leaveform_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, l *SubmissionLog) error
	FindAll(ctx context.Context, limit, offset int) ([]SubmissionLog, int64, error)
	FindBySession(ctx context.Context, sessionID string) ([]SubmissionLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *SubmissionLog) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(l).Error)
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]SubmissionLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&SubmissionLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []SubmissionLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, total, err
}

func (r *repository) FindBySession(ctx context.Context, sessionID string) ([]SubmissionLog, error) {
	var logs []SubmissionLog
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
