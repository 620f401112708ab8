package persistence

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/crm"
	"github.com/formax/backend/internal/domain/orders"
	"github.com/formax/backend/internal/domain/report"
	"github.com/formax/backend/internal/domain/training"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDashboardRepository implements DashboardRepository with aggregate
// queries against the primary store
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// CountSessionsByStatus counts sessions starting in [from, to) per status
func (r *GormDashboardRepository) CountSessionsByStatus(ctx context.Context, from, to time.Time) ([]report.SessionCount, error) {
	var counts []report.SessionCount
	err := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Select("status, COUNT(*) AS count").
		Where("starts_at >= ? AND starts_at < ?", from, to).
		Group("status").
		Order("status ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// PipelineByStage sums open deal value per pipeline stage. Won and lost
// deals are excluded since they left the pipeline.
func (r *GormDashboardRepository) PipelineByStage(ctx context.Context) ([]report.PipelineValue, error) {
	var values []report.PipelineValue
	err := r.db.WithContext(ctx).
		Model(&models.DealModel{}).
		Select("stage, COUNT(*) AS count, COALESCE(SUM(value), 0) AS value").
		Where("stage NOT IN ?", []crm.DealStage{crm.StageWon, crm.StageLost}).
		Group("stage").
		Order("stage ASC").
		Scan(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// UpcomingSessions returns the next planned and confirmed sessions starting
// within the given number of days from the reference time
func (r *GormDashboardRepository) UpcomingSessions(ctx context.Context, from time.Time, days, limit int) ([]report.UpcomingSession, error) {
	to := from.AddDate(0, 0, days)
	var rows []report.UpcomingSession
	err := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Select("id AS session_id, title, starts_at, ends_at, status, modality, location").
		Where("starts_at >= ? AND starts_at < ?", from, to).
		Where("status IN ?", []training.SessionStatus{training.StatusPlanned, training.StatusConfirmed}).
		Order("starts_at ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TrainerLoads counts sessions assigned per trainer for sessions starting in
// [from, to), busiest trainers first. Cancelled sessions do not count.
func (r *GormDashboardRepository) TrainerLoads(ctx context.Context, from, to time.Time, limit int) ([]report.TrainerLoad, error) {
	var loads []report.TrainerLoad
	err := r.db.WithContext(ctx).
		Model(&models.SessionTrainerModel{}).
		Select("session_trainers.trainer_id, trainers.name AS trainer_name, COUNT(*) AS sessions").
		Joins("JOIN sessions ON sessions.id = session_trainers.session_id").
		Joins("JOIN trainers ON trainers.id = session_trainers.trainer_id").
		Where("sessions.starts_at >= ? AND sessions.starts_at < ?", from, to).
		Where("sessions.status <> ?", training.StatusCancelled).
		Group("session_trainers.trainer_id, trainers.name").
		Order("sessions DESC, trainer_name ASC").
		Limit(limit).
		Scan(&loads).Error
	if err != nil {
		return nil, err
	}
	return loads, nil
}

// CountPendingReviewSessions counts auto-delivered sessions awaiting review
func (r *GormDashboardRepository) CountPendingReviewSessions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("pending_review = ?", true).
		Count(&count).Error
	return count, err
}

// CountOpenMaterialOrders counts material orders not yet delivered or cancelled
func (r *GormDashboardRepository) CountOpenMaterialOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MaterialOrderModel{}).
		Where("status IN ?", []orders.MaterialOrderStatus{
			orders.OrderStatusRequested, orders.OrderStatusPrepared, orders.OrderStatusShipped,
		}).
		Count(&count).Error
	return count, err
}

// CountCertificatesIssued counts non-revoked certificates issued in [from, to)
func (r *GormDashboardRepository) CountCertificatesIssued(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CertificateModel{}).
		Where("issued_at >= ? AND issued_at < ? AND revoked_at IS NULL", from, to).
		Count(&count).Error
	return count, err
}

// Ensure GormDashboardRepository implements DashboardRepository
var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
