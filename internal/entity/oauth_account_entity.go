package entity

import (
	"time"

	"github.com/google/uuid"
)

// OAuthAccount links a user to an external identity provider. A user may
// hold one account per provider (google, discord).
type OAuthAccount struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Provider        string
	ProviderSubject string
	EmailAtAuth     *string
	AvatarURL       string
	CreatedAt       time.Time
}

const (
	ProviderGoogle  = "google"
	ProviderDiscord = "discord"
)
