package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/core/resource"
)

// settingsPage edits the signed-in user's own profile. Email is the lookup
// key and cannot be changed from the console.
type settingsPage struct {
	*pageDeps
	credentials portsrepo.CredentialManager
}

func newSettingsPage(d *pageDeps, credentials portsrepo.CredentialManager) *portssvc.SettingsPage {
	p := &settingsPage{pageDeps: d, credentials: credentials}
	return resource.NewController(resource.Config[domain.Profile, domain.ProfileDraft]{
		Page:  PageSettings,
		Fetch: fetcher[domain.Profile](d, domain.CollectionProfiles, p.byEmail()),
		IDOf:  func(pr domain.Profile) string { return pr.ID },
		Fields: []resource.FieldFunc[domain.Profile]{
			resource.Text(func(pr domain.Profile) string { return pr.Name }),
			resource.Text(func(pr domain.Profile) string { return pr.Email }),
		},
		NewDraft: func() domain.ProfileDraft { return domain.ProfileDraft{Email: d.session.Email} },
		DraftOf: func(pr domain.Profile) domain.ProfileDraft {
			return domain.ProfileDraft{ID: pr.ID, Name: pr.Name, Email: pr.Email}
		},
		SetField: p.setField,
		Validate: validateProfileDraft,
		Persist:  p.persist,
		Messages: resource.Messages{
			SavedTitle:   "Settings saved",
			SavedMessage: "Your account settings were updated successfully.",
			ErrorTitle:   "Error",
			PartialTitle: "Partially saved",
		},
		Observer: d.observer,
	}, d.feedback)
}

func (p *settingsPage) byEmail() portsrepo.Query {
	return portsrepo.Query{
		Select:  "id,name,email,role,category,active,created_at",
		Filters: []portsrepo.Filter{{Field: "email", Value: p.session.Email}},
	}
}

var setProfileField = fieldSetter[domain.ProfileDraft]("name", "new_password", "confirm_password")

func (p *settingsPage) setField(draft *domain.ProfileDraft, field string, value any) error {
	if field == "email" {
		return resource.NewValidationError("email", msgEmailImmutable)
	}
	return setProfileField(draft, field, value)
}

// persist writes the profile name, then the password when one was given.
// The steps are not atomic: a failed password update after a committed name
// is reported as a PartialSuccessError.
func (p *settingsPage) persist(ctx context.Context, draft domain.ProfileDraft) error {
	if err := p.saveProfile(ctx, draft); err != nil {
		return err
	}
	if !draft.PasswordChangeRequested() {
		return nil
	}
	if err := p.credentials.UpdateCredential(ctx, p.session.AccessToken, draft.NewPassword); err != nil {
		p.LogError(ctx, err, "Password update failed after profile was saved",
			slog.String("user_id", p.session.UserID))
		return &resource.PartialSuccessError{Saved: "Profile", Failed: "password update", Err: err}
	}
	p.LogInfo(ctx, "Password updated", slog.String("user_id", p.session.UserID))
	return nil
}

// saveProfile updates the name of the profile matching the session email,
// or recreates the profile row when none exists.
func (p *settingsPage) saveProfile(ctx context.Context, draft domain.ProfileDraft) error {
	rows, err := p.collections.Query(p.bind(ctx), domain.CollectionProfiles, p.byEmail())
	if err != nil {
		return fmt.Errorf("failed to look up profile: %w", err)
	}
	for _, row := range rows {
		if id, ok := row.ID(); ok {
			return p.saveRecord(ctx, domain.CollectionProfiles, id, domain.Record{"name": draft.Name})
		}
	}

	p.LogWarn(ctx, "No profile found for signed-in user, recreating it",
		slog.String("user_id", p.session.UserID))
	recovery := draft
	recovery.Email = p.session.Email
	if err := p.saveRecord(ctx, domain.CollectionProfiles, "", recovery.RecoveryRecord()); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return fmt.Errorf("profile appeared while saving, reload and try again: %w", err)
		}
		return err
	}
	return nil
}

type settingsService struct {
	BaseService
}

// NewSettingsService creates the service behind the account settings page.
func NewSettingsService() portssvc.SettingsSvc {
	return &settingsService{BaseService: component("settings")}
}

// OpenSettingsForm loads the profile if needed and opens the form on it.
// Without a stored profile the form opens on a draft carrying only the
// session email, and saving it takes the recovery path.
func (s *settingsService) OpenSettingsForm(ctx context.Context, ws *portssvc.Workspace) error {
	page := ws.Settings
	if !page.Store().Fetched() {
		if err := page.Refresh(ctx); err != nil {
			return err
		}
	}
	items := page.Store().Items()
	if len(items) == 0 {
		return page.OpenCreate()
	}
	return page.OpenEdit(items[0].ID)
}
