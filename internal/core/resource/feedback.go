package resource

import "sync"

// FeedbackKind distinguishes success from error notices.
type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// FeedbackState is what the feedback dialog renders.
type FeedbackState struct {
	Open    bool         `json:"open"`
	Kind    FeedbackKind `json:"kind,omitempty"`
	Title   string       `json:"title,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Feedback is a single-slot notification channel. The last Show wins; there
// is no queue. One Feedback is shared by every page of a workspace.
type Feedback struct {
	mu    sync.Mutex
	state FeedbackState
}

// NewFeedback returns a closed channel.
func NewFeedback() *Feedback {
	return &Feedback{}
}

// Show replaces whatever is displayed.
func (f *Feedback) Show(kind FeedbackKind, title, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FeedbackState{Open: true, Kind: kind, Title: title, Message: message}
}

// Dismiss closes the dialog.
func (f *Feedback) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FeedbackState{}
}

// State returns the current content.
func (f *Feedback) State() FeedbackState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}
