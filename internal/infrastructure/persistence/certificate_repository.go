package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/domain/training"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCertificateRepository implements CertificateRepository using GORM
type GormCertificateRepository struct {
	db *gorm.DB
}

// NewGormCertificateRepository creates a new GormCertificateRepository
func NewGormCertificateRepository(db *gorm.DB) *GormCertificateRepository {
	return &GormCertificateRepository{db: db}
}

// Create creates a new certificate
func (r *GormCertificateRepository) Create(ctx context.Context, cert *training.Certificate) error {
	model := models.CertificateModelFromDomain(cert)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing certificate
func (r *GormCertificateRepository) Update(ctx context.Context, cert *training.Certificate) error {
	model := models.CertificateModelFromDomain(cert)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a certificate by ID
func (r *GormCertificateRepository) FindByID(ctx context.Context, id uuid.UUID) (*training.Certificate, error) {
	var model models.CertificateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySession returns all certificates issued for a session
func (r *GormCertificateRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]training.Certificate, error) {
	var certModels []models.CertificateModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("number ASC").
		Find(&certModels).Error; err != nil {
		return nil, err
	}

	certs := make([]training.Certificate, len(certModels))
	for i := range certModels {
		certs[i] = *certModels[i].ToDomain()
	}
	return certs, nil
}

// FindAll returns all certificates with pagination
func (r *GormCertificateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]training.Certificate, int64, error) {
	var certModels []models.CertificateModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.CertificateModel{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"attendee_name ILIKE ? OR attendee_nif ILIKE ? OR number ILIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}
	if sessionID, ok := filter.Filters["session_id"]; ok {
		query = query.Where("session_id = ?", sessionID)
	}
	if revoked, ok := filter.Filters["revoked"]; ok {
		if isRevoked, _ := revoked.(bool); isRevoked {
			query = query.Where("revoked_at IS NOT NULL")
		} else {
			query = query.Where("revoked_at IS NULL")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CertificateSortFields, "issued_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.PageSize)

	if err := query.Find(&certModels).Error; err != nil {
		return nil, 0, err
	}

	certs := make([]training.Certificate, len(certModels))
	for i := range certModels {
		certs[i] = *certModels[i].ToDomain()
	}

	return certs, total, nil
}

// NextSequence atomically reserves the next certificate number for the year.
// The upsert increments the per-year counter and returns the new value, so
// concurrent issuing transactions never see the same number.
func (r *GormCertificateRepository) NextSequence(ctx context.Context, year int) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO certificate_sequences (year, last_value, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT (year)
		DO UPDATE SET last_value = certificate_sequences.last_value + 1, updated_at = EXCLUDED.updated_at
		RETURNING last_value`,
		year, time.Now(),
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Ensure GormCertificateRepository implements CertificateRepository
var _ training.CertificateRepository = (*GormCertificateRepository)(nil)
