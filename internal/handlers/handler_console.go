package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/sismog_console/internal/core/domain"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/core/resource"
	"github.com/SscSPs/sismog_console/internal/dto"
	"github.com/SscSPs/sismog_console/internal/middleware"
	"github.com/SscSPs/sismog_console/internal/platform/config"
	"github.com/gin-gonic/gin"
)

const workspaceCtxKey = "workspace"

// consolePage is the type-erased surface of a page controller.
type consolePage interface {
	Page() string
	Mount(ctx context.Context) error
	Refresh(ctx context.Context) error
	SetSearch(search string)
	OpenCreate() error
	OpenEdit(id string) error
	UpdateField(field string, value any) error
	CancelForm()
	Submit(ctx context.Context) error
	RequestDelete(id string) error
	CancelDelete()
	ConfirmDelete(ctx context.Context) error
	DismissFeedback()
	Snapshot() any
}

type pageAdapter[T any, D any] struct {
	*resource.Controller[T, D]
}

func (p pageAdapter[T, D]) Snapshot() any { return p.View() }

func pagesOf(ws *portssvc.Workspace) []consolePage {
	return []consolePage{
		pageAdapter[domain.Company, domain.Company]{ws.Companies},
		pageAdapter[domain.Employee, domain.Employee]{ws.Employees},
		pageAdapter[domain.Penalty, resource.NoDraft]{ws.Penalties},
		pageAdapter[domain.Profile, domain.ProfileDraft]{ws.Settings},
	}
}

// ConsoleHandler serves the console pages of the signed-in user.
type ConsoleHandler struct {
	workspaces    portssvc.WorkspaceSvc
	penalties     portssvc.PenaltySvc
	settings      portssvc.SettingsSvc
	attachmentTTL time.Duration
}

// NewConsoleHandler creates a new ConsoleHandler.
func NewConsoleHandler(services *portssvc.ServiceContainer, cfg *config.Config) *ConsoleHandler {
	return &ConsoleHandler{
		workspaces:    services.Workspaces,
		penalties:     services.Penalties,
		settings:      services.Settings,
		attachmentTTL: cfg.AttachmentURLExpiry,
	}
}

// registerConsoleRoutes sets up the page routes under the authenticated group.
func registerConsoleRoutes(rg *gin.RouterGroup, h *ConsoleHandler) {
	console := rg.Group("/console/:page", h.requireWorkspace)
	{
		console.GET("", h.GetPage)
		console.POST("/refresh", h.Refresh)
		console.POST("/form", h.OpenCreate)
		console.POST("/form/:id", h.OpenEdit)
		console.PATCH("/form", h.UpdateField)
		console.POST("/form/submit", h.Submit)
		console.DELETE("/form", h.CancelForm)
		console.POST("/delete/:id", h.RequestDelete)
		console.POST("/delete/confirm", h.ConfirmDelete)
		console.DELETE("/delete", h.CancelDelete)
		console.DELETE("/feedback", h.DismissFeedback)
		console.GET("/attachment/:id", h.GetAttachment)
	}
}

// requireWorkspace loads the caller's workspace. A user whose workspace was
// dropped must sign in again.
func (h *ConsoleHandler) requireWorkspace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}
	ws, err := h.workspaces.Get(c.Request.Context(), userID)
	if err != nil {
		logger.Warn("No workspace for user", "error", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Session expired, please sign in again"})
		return
	}
	c.Set(workspaceCtxKey, ws)
	c.Next()
}

func workspaceFrom(c *gin.Context) *portssvc.Workspace {
	ws, _ := c.MustGet(workspaceCtxKey).(*portssvc.Workspace)
	return ws
}

// page resolves the :page parameter. It writes a 404 and returns false for
// unknown pages.
func (h *ConsoleHandler) page(c *gin.Context) (consolePage, bool) {
	name := c.Param("page")
	for _, p := range pagesOf(workspaceFrom(c)) {
		if p.Page() == name {
			return p, true
		}
	}
	c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Unknown page: " + name})
	return nil, false
}

// respond writes the page view, or the error together with the view.
func respond(c *gin.Context, p consolePage, err error, msg string) {
	if err == nil {
		c.JSON(http.StatusOK, p.Snapshot())
		return
	}
	status := statusFor(err)
	logError(c, status, err, msg)
	body := dto.PageErrorResponse{Error: errorMessage(err), View: p.Snapshot()}
	var vErr *resource.ValidationError
	if errors.As(err, &vErr) {
		body.Field = vErr.Field
	}
	c.JSON(status, body)
}

// GetPage godoc
// @Summary Get page view
// @Description Loads the page on first visit and returns its current view. The optional q parameter replaces the search text.
// @Tags console
// @Produce json
// @Param page path string true "Page name" Enums(companies, employees, penalties, settings)
// @Param q query string false "Search text"
// @Success 200 {object} map[string]interface{} "Page view"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.PageErrorResponse
// @Security BearerAuth
// @Router /console/{page} [get]
func (h *ConsoleHandler) GetPage(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query: " + err.Error()})
		return
	}
	if q.Search != nil {
		p.SetSearch(*q.Search)
	}
	respond(c, p, p.Mount(c.Request.Context()), "Failed to load page")
}

// Refresh godoc
// @Summary Reload page records
// @Tags console
// @Produce json
// @Param page path string true "Page name"
// @Success 200 {object} map[string]interface{} "Page view"
// @Failure 502 {object} dto.PageErrorResponse
// @Security BearerAuth
// @Router /console/{page}/refresh [post]
func (h *ConsoleHandler) Refresh(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	respond(c, p, p.Refresh(c.Request.Context()), "Failed to refresh page")
}

// OpenCreate godoc
// @Summary Open the form on a new record
// @Description On the settings page this opens the form on the caller's own profile.
// @Tags console
// @Produce json
// @Param page path string true "Page name"
// @Success 200 {object} map[string]interface{} "Page view"
// @Failure 405 {object} dto.PageErrorResponse
// @Security BearerAuth
// @Router /console/{page}/form [post]
func (h *ConsoleHandler) OpenCreate(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	ws := workspaceFrom(c)
	if p.Page() == ws.Settings.Page() {
		respond(c, p, h.settings.OpenSettingsForm(c.Request.Context(), ws), "Failed to open settings form")
		return
	}
	respond(c, p, p.OpenCreate(), "Failed to open form")
}

// OpenEdit godoc
// @Summary Open the form on a listed record
// @Tags console
// @Produce json
// @Param page path string true "Page name"
// @Param id path string true "Record ID"
// @Success 200 {object} map[string]interface{} "Page view"
// @Failure 404 {object} dto.PageErrorResponse
// @Failure 405 {object} dto.PageErrorResponse
// @Security BearerAuth
// @Router /console/{page}/form/{id} [post]
func (h *ConsoleHandler) OpenEdit(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	respond(c, p, p.OpenEdit(c.Param("id")), "Failed to open form")
}

// UpdateField godoc
// @Summary Change one draft field
// @Tags console
// @Accept json
// @Produce json
// @Param page path string true "Page name"
// @Param field body dto.UpdateFieldRequest true "Field and value"
// @Success 200 {object} map[string]interface{} "Page view"
// @Failure 400 {object} dto.PageErrorResponse
// @Failure 409 {object} dto.PageErrorResponse
// @Security BearerAuth
// @Router /console/{page}/form [patch]
func (h *ConsoleHandler) UpdateField(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	var req dto.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	respond(c, p, p.UpdateField(req.Field, req.Value), "Failed to update field")
}

// Submit godoc
// @Summary Save the open form
// @Tags console
// @Produce json
// @Param page path string true "Page name"
// @Success 200 {object} map[string]interface{} "Page view"
// @Failure 400 {object} dto.PageErrorResponse
// @Failure 409 {object} dto.PageErrorResponse
// @Failure 502 {object} dto.PageErrorResponse
// @Security BearerAuth
// @Router /console/{page}/form/submit [post]
func (h *ConsoleHandler) Submit(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	respond(c, p, p.Submit(c.Request.Context()), "Failed to save record")
}

// CancelForm godoc
// @Summary Close the form without saving
// @Tags console
// @Produce json
// @Param page path string true "Page name"
// @Success 200 {object} map[string]interface{} "Page view"
// @Security BearerAuth
// @Router /console/{page}/form [delete]
func (h *ConsoleHandler) CancelForm(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	p.CancelForm()
	respond(c, p, nil, "")
}

// RequestDelete godoc
// @Summary Ask to delete a listed record
// @Tags console
// @Produce json
// @Param page path string true "Page name"
// @Param id path string true "Record ID"
// @Success 200 {object} map[string]interface{} "Page view"
// @Failure 404 {object} dto.PageErrorResponse
// @Failure 409 {object} dto.PageErrorResponse
// @Security BearerAuth
// @Router /console/{page}/delete/{id} [post]
func (h *ConsoleHandler) RequestDelete(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	respond(c, p, p.RequestDelete(c.Param("id")), "Failed to request delete")
}

// ConfirmDelete godoc
// @Summary Delete the selected record
// @Tags console
// @Produce json
// @Param page path string true "Page name"
// @Success 200 {object} map[string]interface{} "Page view"
// @Failure 409 {object} dto.PageErrorResponse
// @Failure 502 {object} dto.PageErrorResponse
// @Security BearerAuth
// @Router /console/{page}/delete/confirm [post]
func (h *ConsoleHandler) ConfirmDelete(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	respond(c, p, p.ConfirmDelete(c.Request.Context()), "Failed to delete record")
}

// CancelDelete godoc
// @Summary Close the delete confirmation
// @Tags console
// @Produce json
// @Param page path string true "Page name"
// @Success 200 {object} map[string]interface{} "Page view"
// @Security BearerAuth
// @Router /console/{page}/delete [delete]
func (h *ConsoleHandler) CancelDelete(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	p.CancelDelete()
	respond(c, p, nil, "")
}

// DismissFeedback godoc
// @Summary Close the feedback dialog
// @Tags console
// @Produce json
// @Param page path string true "Page name"
// @Success 200 {object} map[string]interface{} "Page view"
// @Security BearerAuth
// @Router /console/{page}/feedback [delete]
func (h *ConsoleHandler) DismissFeedback(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	p.DismissFeedback()
	respond(c, p, nil, "")
}

// GetAttachment godoc
// @Summary Get a penalty attachment link
// @Description Returns a temporary download URL for the file of a listed penalty.
// @Tags console
// @Produce json
// @Param page path string true "Page name" Enums(penalties)
// @Param id path string true "Penalty ID"
// @Success 200 {object} dto.AttachmentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /console/{page}/attachment/{id} [get]
func (h *ConsoleHandler) GetAttachment(c *gin.Context) {
	ws := workspaceFrom(c)
	if c.Param("page") != ws.Penalties.Page() {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Attachments exist only on the penalties page"})
		return
	}
	url, err := h.penalties.AttachmentURL(c.Request.Context(), ws, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get attachment URL")
		return
	}
	c.JSON(http.StatusOK, dto.AttachmentResponse{URL: url, ExpiresIn: int(h.attachmentTTL.Seconds())})
}
