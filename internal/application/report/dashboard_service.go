package report

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/report"
)

// DashboardResponse is the aggregate payload behind the office dashboard
type DashboardResponse struct {
	GeneratedAt        time.Time                `json:"generated_at"`
	SessionsByStatus   []report.SessionCount    `json:"sessions_by_status"`
	Pipeline           []report.PipelineValue   `json:"pipeline"`
	WeekAgenda         []report.UpcomingSession `json:"week_agenda"`
	TrainerLoads       []report.TrainerLoad     `json:"trainer_loads"`
	PendingReview      int64                    `json:"pending_review"`
	OpenMaterialOrders int64                    `json:"open_material_orders"`
	CertificatesMonth  int64                    `json:"certificates_this_month"`
}

// DashboardService assembles the office dashboard from aggregate queries
type DashboardService struct {
	repo report.DashboardRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo report.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetDashboard builds the dashboard for the current moment: this month's
// session counts and certificates, the seven-day agenda, the open pipeline,
// and the busiest trainers of the month.
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	sessionCounts, err := s.repo.CountSessionsByStatus(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	pipeline, err := s.repo.PipelineByStage(ctx)
	if err != nil {
		return nil, err
	}
	agenda, err := s.repo.UpcomingSessions(ctx, now, 7, 50)
	if err != nil {
		return nil, err
	}
	loads, err := s.repo.TrainerLoads(ctx, monthStart, monthEnd, 10)
	if err != nil {
		return nil, err
	}
	pendingReview, err := s.repo.CountPendingReviewSessions(ctx)
	if err != nil {
		return nil, err
	}
	openOrders, err := s.repo.CountOpenMaterialOrders(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := s.repo.CountCertificatesIssued(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		GeneratedAt:        now,
		SessionsByStatus:   sessionCounts,
		Pipeline:           pipeline,
		WeekAgenda:         agenda,
		TrainerLoads:       loads,
		PendingReview:      pendingReview,
		OpenMaterialOrders: openOrders,
		CertificatesMonth:  certs,
	}, nil
}
