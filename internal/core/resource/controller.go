package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
)

// Operation names reported to observers.
const (
	OpRefresh = "refresh"
	OpSubmit  = "submit"
	OpDelete  = "delete"
)

// Observer is notified after every collaborator-backed operation completes.
type Observer interface {
	Observe(ctx context.Context, page, op string, started time.Time, err error)
}

// Messages are the feedback texts shown after mutations.
type Messages struct {
	SavedTitle     string
	SavedMessage   string
	DeletedTitle   string
	DeletedMessage string
	ErrorTitle     string
	PartialTitle   string
}

// DefaultMessages returns generic feedback texts for a page.
func DefaultMessages(noun string) Messages {
	return Messages{
		SavedTitle:     "Saved",
		SavedMessage:   noun + " saved successfully.",
		DeletedTitle:   "Deleted",
		DeletedMessage: noun + " deleted successfully.",
		ErrorTitle:     "Error",
		PartialTitle:   "Partially saved",
	}
}

// Config binds a Controller to one page. T is the listed record type and D
// the form draft type; pages without a form leave the draft hooks nil, pages
// without delete leave Remove nil.
type Config[T any, D any] struct {
	Page     string
	Fetch    Fetcher[T]
	IDOf     func(T) string
	Fields   []FieldFunc[T]
	NewDraft func() D
	DraftOf  func(T) D
	SetField FieldSetter[D]
	Validate func(D) error
	Persist  func(ctx context.Context, draft D) error
	Remove   func(ctx context.Context, item T) error
	Messages Messages
	Observer Observer
}

// View is the full renderable state of a page.
type View[T any, D any] struct {
	Page     string         `json:"page"`
	Search   string         `json:"search"`
	Items    []T            `json:"items"`
	Total    int            `json:"total"`
	Loading  bool           `json:"loading"`
	Error    string         `json:"error,omitempty"`
	Form     FormState[D]   `json:"form"`
	Delete   DeleteState[T] `json:"delete"`
	Feedback FeedbackState  `json:"feedback"`
}

// Controller composes store, filter, form, delete guard and feedback for
// one page.
type Controller[T any, D any] struct {
	cfg      Config[T, D]
	store    *Store[T]
	form     *FormSession[D]
	guard    *DeleteGuard[T]
	feedback *Feedback
	mounted  atomic.Bool

	mu     sync.Mutex
	search string
}

// NewController builds a page controller. feedback is shared with the other
// pages of the same workspace; a nil feedback gets a private channel.
func NewController[T any, D any](cfg Config[T, D], feedback *Feedback) *Controller[T, D] {
	if feedback == nil {
		feedback = NewFeedback()
	}
	if cfg.Messages == (Messages{}) {
		cfg.Messages = DefaultMessages(cfg.Page)
	}
	c := &Controller[T, D]{
		cfg:      cfg,
		store:    NewStore(cfg.Fetch),
		guard:    NewDeleteGuard[T](),
		feedback: feedback,
	}
	if cfg.NewDraft != nil {
		c.form = NewFormSession(cfg.NewDraft, cfg.SetField)
	}
	return c
}

// Page returns the page name.
func (c *Controller[T, D]) Page() string { return c.cfg.Page }

// Store exposes the underlying store for read access.
func (c *Controller[T, D]) Store() *Store[T] { return c.store }

// Feedback exposes the shared feedback channel.
func (c *Controller[T, D]) Feedback() *Feedback { return c.feedback }

// Mount performs the initial load once per controller. A failed first load
// leaves the controller unmounted so the next Mount tries again.
func (c *Controller[T, D]) Mount(ctx context.Context) error {
	if !c.mounted.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.Refresh(ctx); err != nil {
		c.mounted.Store(false)
		return err
	}
	return nil
}

// Refresh reloads the list. Failures are recorded on the store and returned.
func (c *Controller[T, D]) Refresh(ctx context.Context) error {
	started := time.Now()
	err := c.store.Refresh(ctx)
	c.observe(ctx, OpRefresh, started, err)
	return err
}

// SetSearch changes the search text.
func (c *Controller[T, D]) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = search
}

// Search returns the current search text.
func (c *Controller[T, D]) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Visible returns the stored list filtered by the current search text.
func (c *Controller[T, D]) Visible() []T {
	return Filter(c.store.Items(), c.Search(), c.cfg.Fields...)
}

// Find returns the stored record with the given identifier.
func (c *Controller[T, D]) Find(id string) (T, error) {
	for _, item := range c.store.Items() {
		if c.cfg.IDOf(item) == id {
			return item, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %s: %w", c.cfg.Page, id, apperrors.ErrNotFound)
}

// OpenCreate opens the form on the page's default draft.
func (c *Controller[T, D]) OpenCreate() error {
	if c.form == nil {
		return ErrUnsupported
	}
	c.form.OpenCreate()
	return nil
}

// OpenEdit opens the form on a copy of the stored record id.
func (c *Controller[T, D]) OpenEdit(id string) error {
	if c.form == nil {
		return ErrUnsupported
	}
	item, err := c.Find(id)
	if err != nil {
		return err
	}
	c.form.OpenEdit(c.cfg.DraftOf(item))
	return nil
}

// UpdateField changes one field of the open draft.
func (c *Controller[T, D]) UpdateField(field string, value any) error {
	if c.form == nil {
		return ErrUnsupported
	}
	return c.form.Update(field, value)
}

// CancelForm closes the form and discards the draft.
func (c *Controller[T, D]) CancelForm() {
	if c.form != nil {
		c.form.Close()
	}
}

// Submit validates and persists the draft. Validation failures are returned
// without contacting any collaborator. Persistence failures keep the form
// open, are shown on the feedback channel and returned. On success the form
// closes, the list is refreshed and success feedback is shown.
func (c *Controller[T, D]) Submit(ctx context.Context) error {
	if c.form == nil {
		return ErrUnsupported
	}
	draft, gen, err := c.form.begin()
	if err != nil {
		return err
	}
	if c.cfg.Validate != nil {
		if err := c.cfg.Validate(draft); err != nil {
			c.form.finish(gen, err)
			return err
		}
	}

	started := time.Now()
	err = c.cfg.Persist(ctx, draft)
	c.observe(ctx, OpSubmit, started, err)
	c.form.finish(gen, err)
	if err != nil {
		c.showError(err)
		return err
	}

	// The save committed; a failed reload is recorded on the store only.
	_ = c.Refresh(ctx)
	c.feedback.Show(FeedbackSuccess, c.cfg.Messages.SavedTitle, c.cfg.Messages.SavedMessage)
	return nil
}

// RequestDelete captures the stored record id as the delete target.
func (c *Controller[T, D]) RequestDelete(id string) error {
	if c.cfg.Remove == nil {
		return ErrUnsupported
	}
	item, err := c.Find(id)
	if err != nil {
		return err
	}
	return c.guard.Request(item)
}

// CancelDelete drops the captured target.
func (c *Controller[T, D]) CancelDelete() {
	c.guard.Cancel()
}

// ConfirmDelete deletes the captured target. The guard returns to idle
// whether or not the call succeeds.
func (c *Controller[T, D]) ConfirmDelete(ctx context.Context) error {
	if c.cfg.Remove == nil {
		return ErrUnsupported
	}
	target, err := c.guard.begin()
	if err != nil {
		return err
	}

	started := time.Now()
	err = c.cfg.Remove(ctx, target)
	c.observe(ctx, OpDelete, started, err)
	c.guard.finish()
	if err != nil {
		c.showError(err)
		return err
	}

	_ = c.Refresh(ctx)
	c.feedback.Show(FeedbackSuccess, c.cfg.Messages.DeletedTitle, c.cfg.Messages.DeletedMessage)
	return nil
}

// DismissFeedback closes the feedback dialog.
func (c *Controller[T, D]) DismissFeedback() {
	c.feedback.Dismiss()
}

// View assembles the renderable page state.
func (c *Controller[T, D]) View() View[T, D] {
	st := c.store.State()
	search := c.Search()
	v := View[T, D]{
		Page:     c.cfg.Page,
		Search:   search,
		Items:    Filter(st.Items, search, c.cfg.Fields...),
		Total:    len(st.Items),
		Loading:  st.Loading,
		Delete:   c.guard.State(),
		Feedback: c.feedback.State(),
	}
	if st.Err != nil {
		v.Error = apperrors.Message(st.Err)
	}
	if c.form != nil {
		v.Form = c.form.State()
	}
	return v
}

func (c *Controller[T, D]) showError(err error) {
	var partial *PartialSuccessError
	if errors.As(err, &partial) {
		c.feedback.Show(FeedbackError, c.cfg.Messages.PartialTitle, partial.Error())
		return
	}
	c.feedback.Show(FeedbackError, c.cfg.Messages.ErrorTitle, apperrors.Message(err))
}

func (c *Controller[T, D]) observe(ctx context.Context, op string, started time.Time, err error) {
	if c.cfg.Observer != nil {
		c.cfg.Observer.Observe(ctx, c.cfg.Page, op, started, err)
	}
}
