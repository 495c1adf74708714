package resource

import "sync"

// Mode tells whether a form edits an existing record or creates a new one.
type Mode string

const (
	ModeCreating Mode = "creating"
	ModeEditing  Mode = "editing"
)

// NoDraft is the draft type of pages without a form.
type NoDraft struct{}

// FieldSetter writes one field of a draft. It converts the value to the
// draft's type but performs no business validation.
type FieldSetter[D any] func(draft *D, field string, value any) error

// FormState is what the create/edit modal renders.
type FormState[D any] struct {
	Open   bool   `json:"open"`
	Mode   Mode   `json:"mode,omitempty"`
	Draft  D      `json:"draft"`
	Saving bool   `json:"saving"`
	Error  string `json:"error,omitempty"`
}

// FormSession tracks the single create/edit modal of a page. Opening a new
// session discards any unsaved draft.
type FormSession[D any] struct {
	mu       sync.Mutex
	newDraft func() D
	setField FieldSetter[D]
	open     bool
	mode     Mode
	draft    D
	saving   bool
	lastErr  string
	gen      uint64
}

// NewFormSession returns a closed form.
func NewFormSession[D any](newDraft func() D, setField FieldSetter[D]) *FormSession[D] {
	return &FormSession[D]{newDraft: newDraft, setField: setField}
}

// OpenCreate opens the form on the default draft shape.
func (f *FormSession[D]) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset(ModeCreating, f.newDraft())
}

// OpenEdit opens the form on a copy of existing.
func (f *FormSession[D]) OpenEdit(existing D) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset(ModeEditing, existing)
}

// Update changes one draft field.
func (f *FormSession[D]) Update(field string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return ErrFormClosed
	}
	return f.setField(&f.draft, field, value)
}

// Close discards the draft.
func (f *FormSession[D]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clear()
}

// State returns a copy of the form.
func (f *FormSession[D]) State() FormState[D] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormState[D]{Open: f.open, Mode: f.mode, Draft: f.draft, Saving: f.saving, Error: f.lastErr}
}

// begin marks the form as saving and returns the draft to persist along
// with the session generation it belongs to.
func (f *FormSession[D]) begin() (D, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero D
	if !f.open {
		return zero, 0, ErrFormClosed
	}
	if f.saving {
		return zero, 0, ErrSaveInProgress
	}
	f.saving = true
	f.lastErr = ""
	return f.draft, f.gen, nil
}

// finish ends a save. A failed save keeps the form open with its draft. A
// result for a session that was closed or reopened meanwhile is dropped.
func (f *FormSession[D]) finish(gen uint64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return
	}
	if err == nil {
		f.clear()
		return
	}
	f.saving = false
	f.lastErr = err.Error()
}

func (f *FormSession[D]) reset(mode Mode, draft D) {
	f.gen++
	f.open = true
	f.mode = mode
	f.draft = draft
	f.saving = false
	f.lastErr = ""
}

func (f *FormSession[D]) clear() {
	var zero D
	f.gen++
	f.open, f.mode, f.draft, f.saving, f.lastErr = false, "", zero, false, ""
}
