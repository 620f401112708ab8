package resource

import (
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Trainer is a personnel resource assignable to training sessions
type Trainer struct {
	shared.BaseAggregateRoot
	Name        string
	Email       string
	Phone       string
	Province    string
	Specialties []string // Course tags the trainer can deliver
	DailyRate   decimal.Decimal
	Active      bool
	Notes       string
}

// NewTrainer creates a new active trainer
func NewTrainer(name, email string) (*Trainer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Trainer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Trainer name cannot exceed 200 characters")
	}
	return &Trainer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Specialties:       make([]string, 0),
		DailyRate:         decimal.Zero,
		Active:            true,
	}, nil
}

// SetDailyRate sets the trainer's daily rate
func (t *Trainer) SetDailyRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Daily rate cannot be negative")
	}
	t.DailyRate = rate
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetSpecialties replaces the trainer's specialty tags
func (t *Trainer) SetSpecialties(specialties []string) {
	cleaned := make([]string, 0, len(specialties))
	for _, s := range specialties {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	t.Specialties = cleaned
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// HasSpecialty reports whether the trainer can deliver the given course tag
func (t *Trainer) HasSpecialty(tag string) bool {
	for _, s := range t.Specialties {
		if strings.EqualFold(s, tag) {
			return true
		}
	}
	return false
}

// Deactivate removes the trainer from the assignable pool
func (t *Trainer) Deactivate() {
	t.Active = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Activate returns the trainer to the assignable pool
func (t *Trainer) Activate() {
	t.Active = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
