package training

import (
	"context"
	"fmt"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/domain/training"
	"github.com/google/uuid"
)

// CertificateData is everything the renderer needs to produce the PDF
type CertificateData struct {
	Number       string
	AttendeeName string
	AttendeeNIF  string
	CourseTitle  string
	SessionDate  time.Time
	Hours        int
	IssuedAt     time.Time
}

// CertificateRenderer renders a certificate document (PDF)
type CertificateRenderer interface {
	Render(ctx context.Context, data CertificateData) ([]byte, error)
}

// DocumentStore persists rendered documents and serves download links
type DocumentStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// CourseInfoSource resolves course title and hours for the certificate text
type CourseInfoSource interface {
	CourseInfo(ctx context.Context, courseID uuid.UUID) (title string, hours int, err error)
}

// CertificateService issues completion certificates for delivered sessions.
// Numbers are sequential per year and never reused; the rendered PDF is
// stored in the object store and served through presigned URLs.
type CertificateService struct {
	certRepo    training.CertificateRepository
	sessionRepo training.SessionRepository
	courses     CourseInfoSource
	renderer    CertificateRenderer
	store       DocumentStore
}

// NewCertificateService creates a new CertificateService
func NewCertificateService(
	certRepo training.CertificateRepository,
	sessionRepo training.SessionRepository,
	courses CourseInfoSource,
	renderer CertificateRenderer,
	store DocumentStore,
) *CertificateService {
	return &CertificateService{
		certRepo:    certRepo,
		sessionRepo: sessionRepo,
		courses:     courses,
		renderer:    renderer,
		store:       store,
	}
}

// IssueCertificates issues one certificate per attendee for a delivered
// session. Rendering failures do not fail the issue: the certificate exists
// without a document and the PDF can be regenerated later.
func (s *CertificateService) IssueCertificates(ctx context.Context, sessionID uuid.UUID, req IssueCertificatesRequest) ([]CertificateResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, shared.ErrNotFound
	}
	if session.Status != training.StatusDelivered {
		return nil, shared.NewDomainError("INVALID_STATE", "Certificates can only be issued for delivered sessions")
	}

	courseTitle, hours, err := s.courses.CourseInfo(ctx, session.CourseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]CertificateResponse, 0, len(req.Attendees))
	for _, attendee := range req.Attendees {
		seq, err := s.certRepo.NextSequence(ctx, now.Year())
		if err != nil {
			return nil, err
		}
		cert, err := training.NewCertificate(sessionID, attendee.Name, attendee.NIF, now, seq)
		if err != nil {
			return nil, err
		}
		if err := s.certRepo.Create(ctx, cert); err != nil {
			return nil, err
		}

		s.renderAndAttach(ctx, cert, courseTitle, hours, session.StartsAt)
		responses = append(responses, ToCertificateResponse(cert))
	}
	return responses, nil
}

// RegenerateDocument re-renders the PDF of an existing certificate
func (s *CertificateService) RegenerateDocument(ctx context.Context, certID uuid.UUID) (*CertificateResponse, error) {
	cert, err := s.findCertificate(ctx, certID)
	if err != nil {
		return nil, err
	}
	if cert.RevokedAt != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Revoked certificates cannot be regenerated")
	}
	session, err := s.sessionRepo.FindByID(ctx, cert.SessionID)
	if err != nil || session == nil {
		return nil, shared.ErrNotFound
	}
	courseTitle, hours, err := s.courses.CourseInfo(ctx, session.CourseID)
	if err != nil {
		return nil, err
	}

	if err := s.render(ctx, cert, courseTitle, hours, session.StartsAt); err != nil {
		return nil, err
	}
	if err := s.certRepo.Update(ctx, cert); err != nil {
		return nil, err
	}
	resp := ToCertificateResponse(cert)
	return &resp, nil
}

// GetDownloadURL returns a short-lived presigned URL for the PDF
func (s *CertificateService) GetDownloadURL(ctx context.Context, certID uuid.UUID) (string, error) {
	cert, err := s.findCertificate(ctx, certID)
	if err != nil {
		return "", err
	}
	if cert.ObjectKey == "" {
		return "", shared.NewDomainError("NOT_FOUND", "Certificate has no rendered document")
	}
	return s.store.PresignGet(ctx, cert.ObjectKey, 15*time.Minute)
}

// ListBySession returns all certificates issued for a session
func (s *CertificateService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]CertificateResponse, error) {
	certs, err := s.certRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	responses := make([]CertificateResponse, len(certs))
	for i := range certs {
		responses[i] = ToCertificateResponse(&certs[i])
	}
	return responses, nil
}

// Revoke marks a certificate as revoked
func (s *CertificateService) Revoke(ctx context.Context, certID uuid.UUID) error {
	cert, err := s.findCertificate(ctx, certID)
	if err != nil {
		return err
	}
	if err := cert.Revoke(time.Now()); err != nil {
		return err
	}
	return s.certRepo.Update(ctx, cert)
}

func (s *CertificateService) findCertificate(ctx context.Context, id uuid.UUID) (*training.Certificate, error) {
	cert, err := s.certRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, shared.ErrNotFound
	}
	return cert, nil
}

// renderAndAttach renders best-effort during issue; a failure leaves the
// certificate without a document rather than rolling back the number.
func (s *CertificateService) renderAndAttach(ctx context.Context, cert *training.Certificate, courseTitle string, hours int, sessionDate time.Time) {
	if err := s.render(ctx, cert, courseTitle, hours, sessionDate); err != nil {
		return
	}
	_ = s.certRepo.Update(ctx, cert)
}

func (s *CertificateService) render(ctx context.Context, cert *training.Certificate, courseTitle string, hours int, sessionDate time.Time) error {
	if s.renderer == nil || s.store == nil {
		return shared.NewDomainError("RENDERER_UNAVAILABLE", "Certificate rendering is not configured")
	}
	pdf, err := s.renderer.Render(ctx, CertificateData{
		Number:       cert.Number,
		AttendeeName: cert.AttendeeName,
		AttendeeNIF:  cert.AttendeeNIF,
		CourseTitle:  courseTitle,
		SessionDate:  sessionDate,
		Hours:        hours,
		IssuedAt:     cert.IssuedAt,
	})
	if err != nil {
		return err
	}
	key := fmt.Sprintf("certificates/%d/%s.pdf", cert.IssuedAt.Year(), cert.Number)
	if slug := attendeeSlug(cert.AttendeeName); slug != "" {
		key = fmt.Sprintf("certificates/%d/%s-%s.pdf", cert.IssuedAt.Year(), cert.Number, slug)
	}
	if err := s.store.Put(ctx, key, "application/pdf", pdf); err != nil {
		return err
	}
	cert.AttachObject(key)
	return nil
}
