package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy filters records by their owning user.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// BySessionID filters documents/jobs by their upload session.
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// ByProviderSubject identifies an OAuth account by provider + stable subject.
type ByProviderSubject struct {
	Provider string
	Subject  string
}

func (s ByProviderSubject) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider = ? AND provider_subject = ?", s.Provider, s.Subject)
}
