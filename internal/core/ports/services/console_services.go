package services

import (
	"context"
	"time"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	"github.com/SscSPs/sismog_console/internal/core/resource"
)

// Page controllers, one per console screen.
type (
	CompanyPage  = resource.Controller[domain.Company, domain.Company]
	EmployeePage = resource.Controller[domain.Employee, domain.Employee]
	PenaltyPage  = resource.Controller[domain.Penalty, resource.NoDraft]
	SettingsPage = resource.Controller[domain.Profile, domain.ProfileDraft]
)

// Workspace is the server-side state of one signed-in user's console. All
// pages share a single feedback channel.
type Workspace struct {
	Session   domain.Session
	Feedback  *resource.Feedback
	Companies *CompanyPage
	Employees *EmployeePage
	Penalties *PenaltyPage
	Settings  *SettingsPage
}

// WorkspaceSvc manages per-user workspaces.
type WorkspaceSvc interface {
	// Open creates a fresh workspace for session, replacing any previous
	// workspace of the same user.
	Open(ctx context.Context, session domain.Session) *Workspace

	// Get returns the workspace of userID. A missing workspace means the
	// user must sign in again.
	Get(ctx context.Context, userID string) (*Workspace, error)

	// Close drops the workspace of userID, if any.
	Close(ctx context.Context, userID string)

	// Sweep drops workspaces idle for longer than the configured timeout and
	// returns how many were dropped.
	Sweep(ctx context.Context, now time.Time) int
}

// PenaltySvc adds penalty-specific reads on top of the penalty page.
type PenaltySvc interface {
	// AttachmentURL returns a temporary download URL for a listed penalty's file.
	AttachmentURL(ctx context.Context, ws *Workspace, penaltyID string) (string, error)
}

// SettingsSvc adds account-settings behavior on top of the settings page.
type SettingsSvc interface {
	// OpenSettingsForm opens the form on the signed-in user's profile, or on
	// an empty draft carrying the session email when no profile exists.
	OpenSettingsForm(ctx context.Context, ws *Workspace) error
}
