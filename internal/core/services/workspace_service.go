package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/domain"
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/core/resource"
)

// ErrWorkspaceExpired is returned when a valid token has no workspace behind
// it, e.g. after a restart or an idle sweep.
var ErrWorkspaceExpired = fmt.Errorf("console session expired, sign in again: %w", apperrors.ErrUnauthorized)

type workspaceEntry struct {
	ws       *portssvc.Workspace
	lastSeen time.Time
}

// workspaceService keeps one Workspace per signed-in user in memory.
type workspaceService struct {
	BaseService
	repos       portsrepo.RepositoryProvider
	recorder    OperationRecorder
	idleTimeout time.Duration

	mu      sync.Mutex
	entries map[string]*workspaceEntry
}

// WorkspaceOption configures the workspace service.
type WorkspaceOption func(*workspaceService)

// WithOperationRecorder sends page operation timings to recorder.
func WithOperationRecorder(recorder OperationRecorder) WorkspaceOption {
	return func(s *workspaceService) {
		s.recorder = recorder
	}
}

// WithIdleTimeout sets how long an untouched workspace survives a Sweep.
func WithIdleTimeout(d time.Duration) WorkspaceOption {
	return func(s *workspaceService) {
		s.idleTimeout = d
	}
}

// NewWorkspaceService creates the per-user workspace registry.
func NewWorkspaceService(repos portsrepo.RepositoryProvider, options ...WorkspaceOption) portssvc.WorkspaceSvc {
	svc := &workspaceService{
		BaseService: component("workspaces"),
		repos:       repos,
		idleTimeout: 12 * time.Hour,
		entries:     make(map[string]*workspaceEntry),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

func (s *workspaceService) Open(ctx context.Context, session domain.Session) *portssvc.Workspace {
	ws := s.build(session)

	s.mu.Lock()
	_, replaced := s.entries[session.UserID]
	s.entries[session.UserID] = &workspaceEntry{ws: ws, lastSeen: time.Now()}
	count := len(s.entries)
	s.mu.Unlock()

	s.reportCount(count)
	s.LogInfo(ctx, "Workspace opened",
		slog.String("user_id", session.UserID),
		slog.Bool("replaced", replaced))
	return ws
}

func (s *workspaceService) Get(ctx context.Context, userID string) (*portssvc.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[userID]
	if !ok {
		return nil, ErrWorkspaceExpired
	}
	entry.lastSeen = time.Now()
	return entry.ws, nil
}

func (s *workspaceService) Close(ctx context.Context, userID string) {
	s.mu.Lock()
	_, existed := s.entries[userID]
	delete(s.entries, userID)
	count := len(s.entries)
	s.mu.Unlock()

	if existed {
		s.reportCount(count)
		s.LogInfo(ctx, "Workspace closed", slog.String("user_id", userID))
	}
}

func (s *workspaceService) Sweep(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	dropped := 0
	for userID, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.idleTimeout {
			delete(s.entries, userID)
			dropped++
		}
	}
	count := len(s.entries)
	s.mu.Unlock()

	if dropped > 0 {
		s.reportCount(count)
		s.LogInfo(ctx, "Idle workspaces dropped", slog.Int("dropped", dropped), slog.Int("remaining", count))
	}
	return dropped
}

// build wires the four pages of a workspace around one feedback channel.
func (s *workspaceService) build(session domain.Session) *portssvc.Workspace {
	feedback := resource.NewFeedback()
	deps := &pageDeps{
		BaseService: component("pages"),
		collections: s.repos.Collections,
		observer:    &pageObserver{BaseService: component("console"), recorder: s.recorder},
		feedback:    feedback,
		session:     session,
	}
	return &portssvc.Workspace{
		Session:   session,
		Feedback:  feedback,
		Companies: newCompanyPage(deps),
		Employees: newEmployeePage(deps),
		Penalties: newPenaltyPage(deps),
		Settings:  newSettingsPage(deps, s.repos.Identity),
	}
}

func (s *workspaceService) reportCount(n int) {
	if s.recorder != nil {
		s.recorder.SetActiveWorkspaces(n)
	}
}
