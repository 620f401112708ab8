package models

import (
	"time"

	"github.com/formax/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email          string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	DisplayName    string              `gorm:"type:varchar(200)"`
	Role           identity.Role       `gorm:"type:varchar(20);not null"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt    *time.Time          `gorm:"index"`
	LastLoginIP    string              `gorm:"type:varchar(45)"`
	FailedAttempts int                 `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		DisplayName:    m.DisplayName,
		Role:           m.Role,
		Status:         m.Status,
		LastLoginAt:    m.LastLoginAt,
		LastLoginIP:    m.LastLoginIP,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
	}
	m.PopulateAggregateRoot(&user.BaseAggregateRoot)
	return user
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// AuthSessionModel is the persistence model for the AuthSession domain entity.
// Only the SHA-256 digest of the opaque token is stored, never the token itself.
type AuthSessionModel struct {
	AggregateModel
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	TokenDigest string     `gorm:"type:char(64);not null;uniqueIndex"`
	ExpiresAt   time.Time  `gorm:"not null;index"`
	LastSeenAt  time.Time  `gorm:"not null"`
	IP          string     `gorm:"type:varchar(45)"`
	UserAgent   string     `gorm:"type:varchar(500)"`
	RevokedAt   *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (AuthSessionModel) TableName() string {
	return "auth_sessions"
}

// ToDomain converts the persistence model to a domain AuthSession entity.
func (m *AuthSessionModel) ToDomain() *identity.AuthSession {
	s := &identity.AuthSession{
		UserID:      m.UserID,
		TokenDigest: m.TokenDigest,
		ExpiresAt:   m.ExpiresAt,
		LastSeenAt:  m.LastSeenAt,
		IP:          m.IP,
		UserAgent:   m.UserAgent,
		RevokedAt:   m.RevokedAt,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain AuthSession entity.
func (m *AuthSessionModel) FromDomain(s *identity.AuthSession) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.UserID = s.UserID
	m.TokenDigest = s.TokenDigest
	m.ExpiresAt = s.ExpiresAt
	m.LastSeenAt = s.LastSeenAt
	m.IP = s.IP
	m.UserAgent = s.UserAgent
	m.RevokedAt = s.RevokedAt
}

// AuthSessionModelFromDomain creates a new persistence model from a domain AuthSession entity.
func AuthSessionModelFromDomain(s *identity.AuthSession) *AuthSessionModel {
	m := &AuthSessionModel{}
	m.FromDomain(s)
	return m
}
