package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bugtrackpro/backend/internal/models"
	"github.com/bugtrackpro/backend/pkg/logger"
	"gorm.io/gorm"
)

// Reconciler turns invitation responses into membership changes. Two entry
// points feed it: explicit acceptance via a secret token, and implicit
// acceptance when a newly registered email matches pending invitations.
//
// Each acceptance touches two records — the roster entry and the invitation
// — without a cross-record transaction. Consistency comes from ordering and
// idempotence instead: the membership add is durably applied before the
// invitation is marked accepted, and both steps tolerate being re-run, so a
// crash or cancellation between them leaves state that is safe to retry.
type Reconciler struct {
	db       *gorm.DB
	invites  *InvitationService
	members  *MembershipService
	activity *ActivityService
}

func NewReconciler(db *gorm.DB, invites *InvitationService, members *MembershipService, activity *ActivityService) *Reconciler {
	return &Reconciler{db: db, invites: invites, members: members, activity: activity}
}

// MembershipResult is what an acceptance reports back to the caller.
type MembershipResult struct {
	ProjectID   uint   `json:"project_id"`
	ProjectName string `json:"project_name"`
	Role        string `json:"role"`
}

// AcceptByToken redeems an invitation for the acting user. Declared
// failures: ErrTokenNotFound, ErrInviteNotPending, ErrInviteExpired.
func (r *Reconciler) AcceptByToken(token string, actingUserID uint) (*MembershipResult, error) {
	invite, err := r.invites.GetByToken(token)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := r.db.First(&user, actingUserID).Error; err != nil {
		return nil, fmt.Errorf("load accepting user %d: %w", actingUserID, err)
	}

	if err := r.applyInvite(invite, &user); err != nil {
		return nil, err
	}

	return &MembershipResult{
		ProjectID:   invite.ProjectID,
		ProjectName: invite.ProjectName,
		Role:        invite.Role,
	}, nil
}

// DeclineByToken records a decline. Only a pending, unexpired invitation
// can be declined.
func (r *Reconciler) DeclineByToken(token string) error {
	invite, err := r.invites.GetByToken(token)
	if err != nil {
		return err
	}
	return r.invites.MarkDeclined(invite.ID)
}

// ReconcileForNewUser auto-accepts every pending invitation addressed to a
// freshly registered user's email. Invitations are processed independently:
// one failing (say, its project has since been deleted) is logged and
// skipped, never aborting the rest and never surfacing to the registration
// flow. Account creation does not depend on the health of invited projects.
func (r *Reconciler) ReconcileForNewUser(ctx context.Context, user *models.User) {
	invites, err := r.invites.FindPendingByEmail(user.Email)
	if err != nil {
		logger.Error().Err(err).
			Str("email", user.Email).
			Msg("reconcile: failed to look up pending invitations")
		return
	}
	if len(invites) == 0 {
		return
	}

	accepted := 0
	for i := range invites {
		if ctx.Err() != nil {
			logger.Warn().
				Str("email", user.Email).
				Int("remaining", len(invites)-i).
				Msg("reconcile: cancelled, already-applied memberships are kept")
			return
		}

		if err := r.applyInvite(&invites[i], user); err != nil {
			logger.Error().Err(err).
				Uint("invitation_id", invites[i].ID).
				Uint("project_id", invites[i].ProjectID).
				Str("email", user.Email).
				Msg("reconcile: failed to apply invitation")
			continue
		}
		accepted++
	}

	logger.Info().
		Str("email", user.Email).
		Int("pending", len(invites)).
		Int("accepted", accepted).
		Msg("reconciled invitations for new user")
}

// applyInvite performs the two-step acceptance: membership add first, then
// mark-accepted. ErrAlreadyMember on the first step means a previous attempt
// got that far, so the retry just finishes the second step.
func (r *Reconciler) applyInvite(invite *models.Invitation, user *models.User) error {
	_, err := r.members.AddMember(invite.ProjectID, user.ID, user.Email, user.FullName, invite.Role, invite.InvitedBy)
	if err != nil && !errors.Is(err, ErrAlreadyMember) {
		return fmt.Errorf("add member to project %d: %w", invite.ProjectID, err)
	}

	if err := r.invites.MarkAccepted(invite.ID); err != nil {
		return fmt.Errorf("mark invitation %d accepted: %w", invite.ID, err)
	}

	r.activity.Record(invite.ProjectID, user.ID, user.FullName,
		models.ActivityMemberAdded, models.ActivityEntityMember, &user.ID, user.FullName,
		map[string]string{"role": invite.Role, "invited_email": invite.InvitedEmail})

	return nil
}

// ProcessReconcileTask is the task queue entry point for the implicit-accept
// path.
func (r *Reconciler) ProcessReconcileTask(ctx context.Context, task *ReconcileTask) error {
	var user models.User
	if err := r.db.First(&user, task.UserID).Error; err != nil {
		return fmt.Errorf("load user %d for reconciliation: %w", task.UserID, err)
	}
	r.ReconcileForNewUser(ctx, &user)
	return nil
}
