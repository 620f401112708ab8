package training

import (
	"time"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/training"
	"github.com/google/uuid"
)

// SessionResponse represents a session in API responses
type SessionResponse struct {
	ID            uuid.UUID              `json:"id"`
	CourseID      uuid.UUID              `json:"course_id"`
	DealID        *uuid.UUID             `json:"deal_id,omitempty"`
	VariantID     *uuid.UUID             `json:"variant_id,omitempty"`
	Title         string                 `json:"title"`
	StartsAt      time.Time              `json:"starts_at"`
	EndsAt        time.Time              `json:"ends_at"`
	Modality      training.Modality      `json:"modality"`
	Location      string                 `json:"location,omitempty"`
	TrainerIDs    []uuid.UUID            `json:"trainer_ids"`
	RoomID        *uuid.UUID             `json:"room_id,omitempty"`
	MobileUnitID  *uuid.UUID             `json:"mobile_unit_id,omitempty"`
	Seats         int                    `json:"seats"`
	Status        training.SessionStatus `json:"status"`
	CancelReason  string                 `json:"cancel_reason,omitempty"`
	DeliveryNotes string                 `json:"delivery_notes,omitempty"`
	PendingReview bool                   `json:"pending_review"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToSessionResponse converts a session aggregate to its API representation
func ToSessionResponse(s *training.Session) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		CourseID:      s.CourseID,
		DealID:        s.DealID,
		VariantID:     s.VariantID,
		Title:         s.Title,
		StartsAt:      s.StartsAt,
		EndsAt:        s.EndsAt,
		Modality:      s.Modality,
		Location:      s.Location,
		TrainerIDs:    s.TrainerIDs,
		RoomID:        s.RoomID,
		MobileUnitID:  s.MobileUnitID,
		Seats:         s.Seats,
		Status:        s.Status,
		CancelReason:  s.CancelReason,
		DeliveryNotes: s.DeliveryNotes,
		PendingReview: s.PendingReview,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// CreateSessionRequest creates a draft session
type CreateSessionRequest struct {
	CourseID  uuid.UUID  `json:"course_id" binding:"required"`
	DealID    *uuid.UUID `json:"deal_id"`
	VariantID *uuid.UUID `json:"variant_id"`
	Title     string     `json:"title" binding:"required,max=300"`
	StartsAt  time.Time  `json:"starts_at" binding:"required"`
	EndsAt    time.Time  `json:"ends_at" binding:"required"`
	Modality  string     `json:"modality" binding:"required"`
	Location  string     `json:"location" binding:"max=300"`
	Seats     int        `json:"seats" binding:"min=0"`
}

// UpdateSessionRequest updates descriptive session fields
type UpdateSessionRequest struct {
	Title         *string `json:"title" binding:"omitempty,max=300"`
	Location      *string `json:"location" binding:"omitempty,max=300"`
	Seats         *int    `json:"seats" binding:"omitempty,min=0"`
	DeliveryNotes *string `json:"delivery_notes"`
}

// RescheduleRequest moves a session to a new slot
type RescheduleRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}

// AssignResourcesRequest adjusts the resources booked by a session
type AssignResourcesRequest struct {
	AddTrainerIDs    []uuid.UUID `json:"add_trainer_ids"`
	RemoveTrainerIDs []uuid.UUID `json:"remove_trainer_ids"`
	RoomID           *uuid.UUID  `json:"room_id"`
	ClearRoom        bool        `json:"clear_room"`
	MobileUnitID     *uuid.UUID  `json:"mobile_unit_id"`
	ClearMobileUnit  bool        `json:"clear_mobile_unit"`
}

// TransitionRequest moves a session through its lifecycle
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelRequest cancels a session
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SessionListFilter represents filter options for the session list
type SessionListFilter struct {
	Search    string     `form:"search"`
	Status    string     `form:"status"`
	Modality  string     `form:"modality"`
	TrainerID *uuid.UUID `form:"trainer_id"`
	DealID    *uuid.UUID `form:"deal_id"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Page      int        `form:"page" binding:"min=0"`
	PageSize  int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ConflictCheckRequest asks whether a slot is free for a set of resources
type ConflictCheckRequest struct {
	StartsAt         time.Time   `json:"starts_at" binding:"required"`
	EndsAt           time.Time   `json:"ends_at" binding:"required"`
	TrainerIDs       []uuid.UUID `json:"trainer_ids"`
	RoomID           *uuid.UUID  `json:"room_id"`
	MobileUnitID     *uuid.UUID  `json:"mobile_unit_id"`
	ExcludeSessionID *uuid.UUID  `json:"exclude_session_id"`
}

// ResourceRefs builds the resource references named by the request
func (r ConflictCheckRequest) ResourceRefs() []resource.ResourceRef {
	refs := make([]resource.ResourceRef, 0, len(r.TrainerIDs)+2)
	for _, id := range r.TrainerIDs {
		refs = append(refs, resource.ResourceRef{Kind: resource.KindTrainer, ID: id})
	}
	if r.RoomID != nil {
		refs = append(refs, resource.ResourceRef{Kind: resource.KindRoom, ID: *r.RoomID})
	}
	if r.MobileUnitID != nil {
		refs = append(refs, resource.ResourceRef{Kind: resource.KindMobileUnit, ID: *r.MobileUnitID})
	}
	return refs
}

// ConflictCheckResponse lists detected conflicts; empty means the slot is free
type ConflictCheckResponse struct {
	Conflicts []resource.Conflict `json:"conflicts"`
}

// CertificateResponse represents a certificate in API responses
type CertificateResponse struct {
	ID           uuid.UUID  `json:"id"`
	SessionID    uuid.UUID  `json:"session_id"`
	Number       string     `json:"number"`
	AttendeeName string     `json:"attendee_name"`
	AttendeeNIF  string     `json:"attendee_nif,omitempty"`
	IssuedAt     time.Time  `json:"issued_at"`
	HasDocument  bool       `json:"has_document"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

// ToCertificateResponse converts a certificate to its API representation
func ToCertificateResponse(c *training.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:           c.ID,
		SessionID:    c.SessionID,
		Number:       c.Number,
		AttendeeName: c.AttendeeName,
		AttendeeNIF:  c.AttendeeNIF,
		IssuedAt:     c.IssuedAt,
		HasDocument:  c.ObjectKey != "",
		RevokedAt:    c.RevokedAt,
	}
}

// IssueCertificatesRequest issues certificates for a delivered session
type IssueCertificatesRequest struct {
	Attendees []AttendeeInput `json:"attendees" binding:"required,min=1,dive"`
}

// AttendeeInput is one attendee on an issue request
type AttendeeInput struct {
	Name string `json:"name" binding:"required,max=200"`
	NIF  string `json:"nif" binding:"max=20"`
}
