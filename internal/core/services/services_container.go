package services

import (
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, recorder OperationRecorder) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	var options []WorkspaceOption
	if cfg.WorkspaceIdleTimeout > 0 {
		options = append(options, WithIdleTimeout(cfg.WorkspaceIdleTimeout))
	}
	if recorder != nil {
		options = append(options, WithOperationRecorder(recorder))
	}
	container.Workspaces = NewWorkspaceService(repos, options...)

	container.Auth = NewAuthService(cfg, repos.Identity, container.Workspaces)
	container.Penalties = NewPenaltyService(repos.Attachments, cfg.AttachmentURLExpiry)
	container.Settings = NewSettingsService()

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AuthSvcFacade = (*authService)(nil)
	_ portssvc.WorkspaceSvc  = (*workspaceService)(nil)
	_ portssvc.PenaltySvc    = (*penaltyService)(nil)
	_ portssvc.SettingsSvc   = (*settingsService)(nil)
)
