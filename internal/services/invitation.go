package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bugtrackpro/backend/internal/config"
	"github.com/bugtrackpro/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrRoleNotInvitable = errors.New("only tester or viewer roles can be invited")
	ErrInvitePending    = errors.New("a pending invitation already exists for this email")
	ErrTokenNotFound    = errors.New("invitation token not found")
	ErrInviteNotPending = errors.New("invitation has already been responded to")
	ErrInviteExpired    = errors.New("invitation has expired")
)

// InvitationService owns the invitation state machine:
// pending -> accepted | declined | expired, all three terminal.
type InvitationService struct {
	db  *gorm.DB
	cfg *config.InviteConfig
}

func NewInvitationService(db *gorm.DB, cfg *config.InviteConfig) *InvitationService {
	return &InvitationService{db: db, cfg: cfg}
}

// NormalizeEmail lowercases and trims an address the way it is stored on
// users and invitations.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newInviteToken returns a 32-byte random token, URL-safe encoded.
func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create issues a new pending invitation. The owner role is never invitable.
// When a pending invitation already exists for the same (project, email)
// pair, the configured policy applies: "supersede" expires the old one,
// "reject" refuses the new one.
func (s *InvitationService) Create(projectID uint, projectName, invitedEmail string, invitedBy uint, role string) (*models.Invitation, error) {
	if role != models.RoleTester && role != models.RoleViewer {
		return nil, ErrRoleNotInvitable
	}

	email := NormalizeEmail(invitedEmail)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	now := time.Now()

	var existing models.Invitation
	err := s.db.Where("project_id = ? AND invited_email = ? AND status = ? AND expires_at > ?",
		projectID, email, models.InviteStatusPending, now).
		First(&existing).Error
	switch {
	case err == nil:
		if s.cfg.PendingPolicy == "reject" {
			return nil, ErrInvitePending
		}
		// supersede: retire the old invitation before issuing the new one
		if err := s.markExpired(existing.ID); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// nothing outstanding
	default:
		return nil, err
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, fmt.Errorf("generate invite token: %w", err)
	}

	invite := models.Invitation{
		ProjectID:    projectID,
		ProjectName:  projectName,
		InvitedEmail: email,
		InvitedBy:    invitedBy,
		Role:         role,
		Token:        token,
		Status:       models.InviteStatusPending,
		ExpiresAt:    now.Add(time.Duration(s.cfg.TTLDays) * 24 * time.Hour),
	}
	if err := s.db.Create(&invite).Error; err != nil {
		return nil, err
	}

	return &invite, nil
}

// GetByToken looks up an invitation for the explicit accept/decline path.
// Only a pending, unexpired invitation is returned without error; expired
// and already-responded ones are reported as such rather than silently
// treated as acceptable.
func (s *InvitationService) GetByToken(token string) (*models.Invitation, error) {
	var invite models.Invitation
	if err := s.db.Where("token = ?", token).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	if invite.Status != models.InviteStatusPending {
		return &invite, ErrInviteNotPending
	}
	if invite.IsExpired(time.Now()) {
		// flip it now rather than waiting for the sweeper
		if err := s.markExpired(invite.ID); err == nil {
			invite.Status = models.InviteStatusExpired
		}
		return &invite, ErrInviteExpired
	}

	return &invite, nil
}

// FindPendingByEmail returns all pending, unexpired invitations addressed to
// the given email. Past-due rows the sweeper has not reached yet are
// filtered out here as a safety net.
func (s *InvitationService) FindPendingByEmail(email string) ([]models.Invitation, error) {
	var invites []models.Invitation
	err := s.db.Where("invited_email = ? AND status = ? AND expires_at > ?",
		NormalizeEmail(email), models.InviteStatusPending, time.Now()).
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

// ListForProject returns all invitations ever issued for a project, newest
// first.
func (s *InvitationService) ListForProject(projectID uint) ([]models.Invitation, error) {
	var invites []models.Invitation
	err := s.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

// MarkAccepted transitions pending -> accepted. The WHERE clause carries the
// status guard so a lost race or a retry reports ErrInviteNotPending instead
// of rewriting a terminal state.
func (s *InvitationService) MarkAccepted(id uint) error {
	return s.respond(id, models.InviteStatusAccepted)
}

// MarkDeclined transitions pending -> declined under the same guard.
func (s *InvitationService) MarkDeclined(id uint) error {
	return s.respond(id, models.InviteStatusDeclined)
}

func (s *InvitationService) respond(id uint, status string) error {
	now := time.Now()
	result := s.db.Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, models.InviteStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInviteNotPending
	}
	return nil
}

func (s *InvitationService) markExpired(id uint) error {
	return s.db.Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, models.InviteStatusPending).
		Update("status", models.InviteStatusExpired).Error
}

// SweepExpired flips every past-due pending invitation to expired and
// returns how many were flipped. Safe to run at any time; the status guard
// keeps it away from terminal rows.
func (s *InvitationService) SweepExpired() (int64, error) {
	result := s.db.Model(&models.Invitation{}).
		Where("status = ? AND expires_at <= ?", models.InviteStatusPending, time.Now()).
		Update("status", models.InviteStatusExpired)
	return result.RowsAffected, result.Error
}
