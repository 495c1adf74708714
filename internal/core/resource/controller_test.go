package resource_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/sismog_console/internal/apperrors"
	"github.com/SscSPs/sismog_console/internal/core/resource"
	"github.com/stretchr/testify/suite"
)

// fakeBackend is an in-memory stand-in for a collection that counts calls.
type fakeBackend struct {
	mu         sync.Mutex
	rows       []row
	fetches    int
	persisted  []row
	removed    []string
	persistErr error
	removeErr  error
	fetchErr   error
	block      chan struct{}
}

func (b *fakeBackend) fetch(ctx context.Context) ([]row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches++
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	out := make([]row, len(b.rows))
	copy(out, b.rows)
	return out, nil
}

func (b *fakeBackend) persist(ctx context.Context, d row) error {
	if b.block != nil {
		<-b.block
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.persistErr != nil {
		return b.persistErr
	}
	b.persisted = append(b.persisted, d)
	if d.ID == "" {
		d.ID = fmt.Sprintf("new-%d", len(b.persisted))
		b.rows = append([]row{d}, b.rows...)
	}
	return nil
}

func (b *fakeBackend) remove(ctx context.Context, r row) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removed = append(b.removed, r.ID)
	return b.removeErr
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (o *recordingObserver) Observe(ctx context.Context, page, op string, started time.Time, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.ops = append(o.ops, page+":"+op+":"+status)
}

func setRowField(d *row, field string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s must be text: %w", field, apperrors.ErrValidation)
	}
	switch field {
	case "name":
		d.Name = s
	case "note":
		d.Note = s
	default:
		return resource.ErrUnknownField
	}
	return nil
}

func validateRow(d row) error {
	if strings.TrimSpace(d.Name) == "" {
		return resource.NewValidationError("name", resource.MsgRequired)
	}
	return nil
}

type ControllerTestSuite struct {
	suite.Suite
	backend  *fakeBackend
	observer *recordingObserver
	ctl      *resource.Controller[row, row]
	ctx      context.Context
}

func (s *ControllerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = &fakeBackend{rows: []row{
		{ID: "3", Name: "Gama", Note: "filial"},
		{ID: "2", Name: "Beta"},
		{ID: "1", Name: "Acme"},
	}}
	s.observer = &recordingObserver{}
	s.ctl = resource.NewController(resource.Config[row, row]{
		Page:     "rows",
		Fetch:    s.backend.fetch,
		IDOf:     func(r row) string { return r.ID },
		Fields:   rowFields,
		NewDraft: func() row { return row{Note: "default"} },
		DraftOf:  func(r row) row { return r },
		SetField: setRowField,
		Validate: validateRow,
		Persist:  s.backend.persist,
		Remove:   s.backend.remove,
		Messages: resource.DefaultMessages("Row"),
		Observer: s.observer,
	}, nil)
	s.Require().NoError(s.ctl.Mount(s.ctx))
}

func (s *ControllerTestSuite) TestMountLoadsOnce() {
	s.Require().NoError(s.ctl.Mount(s.ctx))

	s.Equal(1, s.backend.fetches)
	s.Len(s.ctl.View().Items, 3)
	s.False(s.ctl.View().Loading)
}

func (s *ControllerTestSuite) TestMountRetriesAfterFailedFirstLoad() {
	backend := &fakeBackend{rows: []row{{ID: "1", Name: "Acme"}}, fetchErr: errors.New("offline")}
	ctl := resource.NewController(resource.Config[row, row]{
		Page:  "rows",
		Fetch: backend.fetch,
		IDOf:  func(r row) string { return r.ID },
	}, nil)

	s.Error(ctl.Mount(s.ctx))
	s.Equal("offline", ctl.View().Error)

	backend.fetchErr = nil
	s.Require().NoError(ctl.Mount(s.ctx))
	s.Require().NoError(ctl.Mount(s.ctx))

	s.Equal(2, backend.fetches)
	s.Len(ctl.View().Items, 1)
	s.Empty(ctl.View().Error)
}

func (s *ControllerTestSuite) TestSearchFiltersView() {
	s.ctl.SetSearch("FIL")

	view := s.ctl.View()

	s.Require().Len(view.Items, 1)
	s.Equal("3", view.Items[0].ID)
	s.Equal(3, view.Total)
	s.Equal("FIL", view.Search)
}

func (s *ControllerTestSuite) TestOpenCreateUsesDefaultDraft() {
	s.Require().NoError(s.ctl.OpenCreate())

	form := s.ctl.View().Form
	s.True(form.Open)
	s.Equal(resource.ModeCreating, form.Mode)
	s.Equal(row{Note: "default"}, form.Draft)
}

func (s *ControllerTestSuite) TestOpenEditCopiesRecord() {
	s.Require().NoError(s.ctl.OpenEdit("2"))
	s.Require().NoError(s.ctl.UpdateField("name", "Beta 2"))

	form := s.ctl.View().Form
	s.Equal(resource.ModeEditing, form.Mode)
	s.Equal("Beta 2", form.Draft.Name)
	found, err := s.ctl.Find("2")
	s.Require().NoError(err)
	s.Equal("Beta", found.Name, "editing the draft must not touch the stored record")
}

func (s *ControllerTestSuite) TestOpenEditUnknownID() {
	err := s.ctl.OpenEdit("99")

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.False(s.ctl.View().Form.Open)
}

func (s *ControllerTestSuite) TestOpeningNewFormDiscardsDraft() {
	s.Require().NoError(s.ctl.OpenEdit("2"))
	s.Require().NoError(s.ctl.UpdateField("name", "unsaved"))

	s.Require().NoError(s.ctl.OpenCreate())

	s.Equal(row{Note: "default"}, s.ctl.View().Form.Draft)
}

func (s *ControllerTestSuite) TestUpdateFieldRequiresOpenForm() {
	s.ErrorIs(s.ctl.UpdateField("name", "x"), resource.ErrFormClosed)
}

func (s *ControllerTestSuite) TestUpdateFieldUnknownField() {
	s.Require().NoError(s.ctl.OpenCreate())

	s.ErrorIs(s.ctl.UpdateField("color", "red"), resource.ErrUnknownField)
}

func (s *ControllerTestSuite) TestSubmitValidationFailureMakesNoCall() {
	s.Require().NoError(s.ctl.OpenCreate())

	err := s.ctl.Submit(s.ctx)

	var vErr *resource.ValidationError
	s.Require().ErrorAs(err, &vErr)
	s.Equal("name", vErr.Field)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Empty(s.backend.persisted)
	view := s.ctl.View()
	s.True(view.Form.Open)
	s.False(view.Form.Saving)
	s.Contains(view.Form.Error, resource.MsgRequired)
	s.False(view.Feedback.Open, "validation errors are shown in the form, not as feedback")
}

func (s *ControllerTestSuite) TestSubmitSuccessClosesRefreshesAndNotifies() {
	s.Require().NoError(s.ctl.OpenCreate())
	s.Require().NoError(s.ctl.UpdateField("name", "Delta"))

	s.Require().NoError(s.ctl.Submit(s.ctx))

	s.Len(s.backend.persisted, 1)
	s.Equal(2, s.backend.fetches)
	view := s.ctl.View()
	s.False(view.Form.Open)
	s.Len(view.Items, 4)
	s.Equal("Delta", view.Items[0].Name)
	s.Equal(resource.FeedbackState{Open: true, Kind: resource.FeedbackSuccess, Title: "Saved", Message: "Row saved successfully."}, view.Feedback)
	s.Contains(s.observer.ops, "rows:submit:ok")
}

func (s *ControllerTestSuite) TestSubmitRemoteFailureKeepsDraftAndShowsMessage() {
	s.backend.persistErr = apperrors.NewAppError(409, "duplicate key value violates unique constraint", nil)
	s.Require().NoError(s.ctl.OpenEdit("1"))
	s.Require().NoError(s.ctl.UpdateField("name", "Acme 2"))

	err := s.ctl.Submit(s.ctx)

	s.Require().Error(err)
	view := s.ctl.View()
	s.True(view.Form.Open)
	s.False(view.Form.Saving)
	s.Equal("Acme 2", view.Form.Draft.Name)
	s.Equal(resource.FeedbackError, view.Feedback.Kind)
	s.Equal("duplicate key value violates unique constraint", view.Feedback.Message)
	s.Equal(1, s.backend.fetches, "no refresh after a failed save")

	s.backend.persistErr = nil
	s.Require().NoError(s.ctl.Submit(s.ctx), "the preserved draft can be retried")
	s.Equal(resource.FeedbackSuccess, s.ctl.View().Feedback.Kind)
}

func (s *ControllerTestSuite) TestSubmitPartialSuccessMessage() {
	s.backend.persistErr = &resource.PartialSuccessError{
		Saved:  "Profile",
		Failed: "password update",
		Err:    apperrors.NewAppError(422, "Password should be at least 8 characters", nil),
	}
	s.Require().NoError(s.ctl.OpenEdit("1"))

	s.Require().Error(s.ctl.Submit(s.ctx))

	fb := s.ctl.View().Feedback
	s.Equal(resource.FeedbackError, fb.Kind)
	s.Equal("Partially saved", fb.Title)
	s.Equal("Profile saved, but password update failed: Password should be at least 8 characters", fb.Message)
}

func (s *ControllerTestSuite) TestSubmitWhileSavingIsRejected() {
	s.backend.block = make(chan struct{})
	s.Require().NoError(s.ctl.OpenEdit("1"))

	done := make(chan error)
	go func() { done <- s.ctl.Submit(s.ctx) }()
	s.Eventually(func() bool { return s.ctl.View().Form.Saving }, time.Second, time.Millisecond)

	s.ErrorIs(s.ctl.Submit(s.ctx), resource.ErrSaveInProgress)
	s.False(s.ctl.View().Feedback.Open, "no feedback while the save is in flight")

	close(s.backend.block)
	s.Require().NoError(<-done)
	s.Len(s.backend.persisted, 1)
}

func (s *ControllerTestSuite) TestSubmitWithoutFormFails() {
	s.ErrorIs(s.ctl.Submit(s.ctx), resource.ErrFormClosed)
	s.Empty(s.backend.persisted)
}

func (s *ControllerTestSuite) TestDeleteCancelThenConfirm() {
	s.Require().NoError(s.ctl.RequestDelete("3"))
	st := s.ctl.View().Delete
	s.Require().True(st.Open)
	s.Equal("3", st.Target.ID)

	s.ctl.CancelDelete()
	s.False(s.ctl.View().Delete.Open)
	s.Empty(s.backend.removed)

	s.Require().NoError(s.ctl.RequestDelete("3"))
	s.Require().NoError(s.ctl.ConfirmDelete(s.ctx))

	s.Equal([]string{"3"}, s.backend.removed)
	view := s.ctl.View()
	s.False(view.Delete.Open)
	s.Equal(resource.FeedbackSuccess, view.Feedback.Kind)
	s.Equal("Row deleted successfully.", view.Feedback.Message)
	s.Equal(2, s.backend.fetches)
}

func (s *ControllerTestSuite) TestConfirmWithoutTargetIssuesNoCall() {
	s.ErrorIs(s.ctl.ConfirmDelete(s.ctx), resource.ErrNoDeleteTarget)

	s.Require().NoError(s.ctl.RequestDelete("2"))
	s.ctl.CancelDelete()
	s.ErrorIs(s.ctl.ConfirmDelete(s.ctx), resource.ErrNoDeleteTarget)

	s.Empty(s.backend.removed)
}

func (s *ControllerTestSuite) TestDeleteFailureClosesGuard() {
	s.backend.removeErr = apperrors.NewAppError(409, "update or delete on table \"companies\" violates foreign key constraint", nil)
	s.Require().NoError(s.ctl.RequestDelete("1"))

	err := s.ctl.ConfirmDelete(s.ctx)

	s.Require().Error(err)
	view := s.ctl.View()
	s.False(view.Delete.Open)
	s.Equal(resource.FeedbackError, view.Feedback.Kind)
	s.Contains(view.Feedback.Message, "foreign key")
	s.ErrorIs(s.ctl.ConfirmDelete(s.ctx), resource.ErrNoDeleteTarget, "stale target must not survive")
	s.Equal([]string{"1"}, s.backend.removed)
}

func (s *ControllerTestSuite) TestFetchFailureIsRecordedNotNotified() {
	s.backend.fetchErr = apperrors.NewAppError(503, "upstream timeout", nil)

	err := s.ctl.Refresh(s.ctx)

	s.Require().Error(err)
	view := s.ctl.View()
	s.Len(view.Items, 3)
	s.False(view.Loading)
	s.Equal("upstream timeout", view.Error)
	s.False(view.Feedback.Open)
	s.Contains(s.observer.ops, "rows:refresh:error")
}

func (s *ControllerTestSuite) TestFeedbackLastWriteWinsAndDismiss() {
	fb := s.ctl.Feedback()
	fb.Show(resource.FeedbackError, "Error", "first")
	fb.Show(resource.FeedbackSuccess, "Saved", "second")

	s.Equal("second", s.ctl.View().Feedback.Message)

	s.ctl.DismissFeedback()
	s.False(s.ctl.View().Feedback.Open)
}

func (s *ControllerTestSuite) TestCancelFormDiscardsDraft() {
	s.Require().NoError(s.ctl.OpenEdit("1"))
	s.ctl.CancelForm()

	s.False(s.ctl.View().Form.Open)
	s.ErrorIs(s.ctl.Submit(s.ctx), resource.ErrFormClosed)
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func TestController_ReadOnlyPageRejectsFormActions(t *testing.T) {
	ctl := resource.NewController(resource.Config[row, struct{}]{
		Page:  "readonly",
		Fetch: func(ctx context.Context) ([]row, error) { return []row{{ID: "1"}}, nil },
		IDOf:  func(r row) string { return r.ID },
	}, resource.NewFeedback())

	for _, err := range []error{
		ctl.OpenCreate(),
		ctl.OpenEdit("1"),
		ctl.UpdateField("name", "x"),
		ctl.Submit(context.Background()),
		ctl.RequestDelete("1"),
		ctl.ConfirmDelete(context.Background()),
	} {
		if !errors.Is(err, resource.ErrUnsupported) {
			t.Fatalf("expected ErrUnsupported, got %v", err)
		}
	}
}

func TestController_PagesShareFeedback(t *testing.T) {
	feedback := resource.NewFeedback()
	fetch := func(ctx context.Context) ([]row, error) { return []row{{ID: "1"}}, nil }
	remove := func(ctx context.Context, r row) error { return nil }
	first := resource.NewController(resource.Config[row, struct{}]{Page: "a", Fetch: fetch, IDOf: func(r row) string { return r.ID }, Remove: remove}, feedback)
	second := resource.NewController(resource.Config[row, struct{}]{Page: "b", Fetch: fetch, IDOf: func(r row) string { return r.ID }}, feedback)
	ctx := context.Background()
	if err := first.Mount(ctx); err != nil {
		t.Fatal(err)
	}

	if err := first.RequestDelete("1"); err != nil {
		t.Fatal(err)
	}
	if err := first.ConfirmDelete(ctx); err != nil {
		t.Fatal(err)
	}

	if got := second.View().Feedback; !got.Open || got.Message != "a deleted successfully." {
		t.Fatalf("expected shared feedback, got %+v", got)
	}
}
