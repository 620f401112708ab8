package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionCount is a count of sessions grouped by status
type SessionCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// PipelineValue is the total open deal value per stage
type PipelineValue struct {
	Stage string          `json:"stage"`
	Count int64           `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// UpcomingSession is a row on the dashboard's week agenda
type UpcomingSession struct {
	SessionID uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Status    string    `json:"status"`
	Modality  string    `json:"modality"`
	Location  string    `json:"location,omitempty"`
}

// TrainerLoad is sessions per trainer inside a period
type TrainerLoad struct {
	TrainerID   uuid.UUID `json:"trainer_id"`
	TrainerName string    `json:"trainer_name"`
	Sessions    int64     `json:"sessions"`
}

// DashboardRepository runs the read-only aggregate queries behind the
// office dashboard. Implementations query the store directly.
type DashboardRepository interface {
	CountSessionsByStatus(ctx context.Context, from, to time.Time) ([]SessionCount, error)
	PipelineByStage(ctx context.Context) ([]PipelineValue, error)
	UpcomingSessions(ctx context.Context, from time.Time, days, limit int) ([]UpcomingSession, error)
	TrainerLoads(ctx context.Context, from, to time.Time, limit int) ([]TrainerLoad, error)
	CountPendingReviewSessions(ctx context.Context) (int64, error)
	CountOpenMaterialOrders(ctx context.Context) (int64, error)
	CountCertificatesIssued(ctx context.Context, from, to time.Time) (int64, error)
}
