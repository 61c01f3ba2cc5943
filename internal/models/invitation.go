package models

import (
	"time"
)

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
	InviteStatusExpired  = "expired"
)

// Invitation is a pending offer of project membership, redeemable once via
// its secret token or auto-redeemed when a matching email registers.
// Accepted, declined and expired are terminal states.
type Invitation struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProjectID    uint       `gorm:"index;not null" json:"project_id"`
	ProjectName  string     `gorm:"size:200" json:"project_name"` // denormalized for invite emails
	InvitedEmail string     `gorm:"index:idx_invitations_email_status;size:255;not null" json:"invited_email"`
	InvitedBy    uint       `gorm:"not null" json:"invited_by"`
	Role         string     `gorm:"size:20;not null" json:"role"` // tester or viewer, never owner
	Token        string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	Status       string     `gorm:"index:idx_invitations_email_status;size:20;default:pending" json:"status"`
	ExpiresAt    time.Time  `gorm:"index" json:"expires_at"`
	RespondedAt  *time.Time `json:"responded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Invitation) TableName() string { return "invitations" }

// IsExpired reports whether the invitation is past its deadline, regardless
// of whether the sweeper has flipped its status yet.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
