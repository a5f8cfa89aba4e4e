package notes_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/notes"
	"github.com/jrsteele09/go-notes-client/notes/repofake"
	"github.com/jrsteele09/go-notes-client/ui"
	"github.com/jrsteele09/go-notes-client/ui/uifake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu      sync.Mutex
	logouts int
}

func (s *fakeSession) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logouts++
}

func (s *fakeSession) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

// testFixture holds all test dependencies
type testFixture struct {
	repo    *repofake.FakeNotesRepo
	session *fakeSession
	view    *uifake.Recorder
	list    *notes.List
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		repo:    repofake.NewFakeNotesRepo(),
		session: &fakeSession{},
		view:    uifake.NewRecorder(true),
	}
	list, err := notes.NewList(f.repo, f.session, f.view, notes.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	f.list = list
	return f
}

func seedNotes() []notes.Note {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return []notes.Note{
		{ID: "n-1", Title: "Groceries", Content: "eggs", CreatedAt: base, UpdatedAt: base},
		{ID: "n-2", Title: "Ideas", Content: "time travel", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
	}
}

func TestNewList_RequiresDependencies(t *testing.T) {
	_, err := notes.NewList(nil, &fakeSession{}, uifake.NewRecorder(true))
	require.Error(t, err)
	_, err = notes.NewList(repofake.NewFakeNotesRepo(), nil, uifake.NewRecorder(true))
	require.Error(t, err)
	_, err = notes.NewList(repofake.NewFakeNotesRepo(), &fakeSession{}, nil)
	require.Error(t, err)
}

func TestFetchAll(t *testing.T) {
	t.Run("Replaces list newest first", func(t *testing.T) {
		f := setupTestFixture(t)
		f.repo.Seed(seedNotes()...)

		require.NoError(t, f.list.FetchAll(context.Background()))
		got := f.list.Notes()
		require.Len(t, got, 2)
		require.Equal(t, "n-2", got[0].ID)
		require.Equal(t, "n-1", got[1].ID)
		require.False(t, f.list.Loading())
	})

	t.Run("Unauthorized logs out and navigates to sign in", func(t *testing.T) {
		f := setupTestFixture(t)
		f.repo.Fail(repofake.OpList, &apperrors.AuthorizationError{})

		err := f.list.FetchAll(context.Background())
		require.ErrorIs(t, err, apperrors.ErrSessionExpired)
		require.True(t, apperrors.IsAuthorization(err))
		require.Empty(t, f.list.Notes())
		require.Equal(t, 1, f.session.Logouts())
		require.Equal(t, []ui.Destination{ui.DestinationSignIn}, f.view.Destinations())
		require.Equal(t, ui.Notice{Level: ui.LevelError, Message: notes.MsgSessionExpired}, f.view.LastNotice())
	})

	t.Run("Other errors keep previous list", func(t *testing.T) {
		f := setupTestFixture(t)
		f.repo.Seed(seedNotes()...)
		require.NoError(t, f.list.FetchAll(context.Background()))

		f.repo.Fail(repofake.OpList, &apperrors.ServerError{Status: http.StatusInternalServerError})
		err := f.list.FetchAll(context.Background())
		require.Error(t, err)
		require.Len(t, f.list.Notes(), 2)
		require.Zero(t, f.session.Logouts())
		require.Empty(t, f.view.Destinations())
		require.Equal(t, notes.MsgLoadFailed, f.view.LastNotice().Message)
		require.False(t, f.list.Loading())
	})
}

func TestCreate(t *testing.T) {
	t.Run("Empty fields never reach the server", func(t *testing.T) {
		f := setupTestFixture(t)

		for _, tc := range []struct{ title, content, field string }{
			{"", "x", "title"},
			{"x", "", "content"},
			{"   ", "x", "title"},
			{"x", "\n\t", "content"},
		} {
			_, err := f.list.Create(context.Background(), tc.title, tc.content)
			require.Error(t, err)
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
		}
		require.Zero(t, f.repo.Calls(repofake.OpCreate))
		require.Equal(t, notes.MsgFillAllFields, f.view.LastNotice().Message)
	})

	t.Run("Prepends server copy", func(t *testing.T) {
		f := setupTestFixture(t)
		f.repo.Seed(seedNotes()...)
		require.NoError(t, f.list.FetchAll(context.Background()))

		created, err := f.list.Create(context.Background(), "  Trip  ", " pack bags ")
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got := f.list.Notes()
		require.Len(t, got, 3)
		require.Equal(t, created.ID, got[0].ID)
		require.Equal(t, "Trip", got[0].Title)
		require.Equal(t, "pack bags", got[0].Content)
		require.False(t, got[0].CreatedAt.IsZero())
		require.Equal(t, notes.MsgCreated, f.view.LastNotice().Message)
	})

	t.Run("Failure leaves list unchanged", func(t *testing.T) {
		f := setupTestFixture(t)
		f.repo.Fail(repofake.OpCreate, &apperrors.TransportError{Op: "POST /notes", Err: fmt.Errorf("connection refused")})

		_, err := f.list.Create(context.Background(), "a", "b")
		require.Error(t, err)
		require.Empty(t, f.list.Notes())
		require.Equal(t, notes.MsgCreateFailed, f.view.LastNotice().Message)
		require.False(t, f.list.Saving())
	})
}

func TestUpdate(t *testing.T) {
	t.Run("Replaces entry with server response", func(t *testing.T) {
		f := setupTestFixture(t)
		f.repo.Seed(seedNotes()...)
		require.NoError(t, f.list.FetchAll(context.Background()))

		_, err := f.list.Update(context.Background(), "n-1", "  Groceries v2 ", "milk ")
		require.NoError(t, err)

		got := f.list.Notes()
		require.Len(t, got, 2)
		matches := 0
		for _, n := range got {
			if n.ID == "n-1" {
				matches++
				stored, err := f.repo.Get("n-1")
				require.NoError(t, err)
				require.Equal(t, stored, n)
				require.Equal(t, "Groceries v2", n.Title)
			}
		}
		require.Equal(t, 1, matches)
		require.Equal(t, "n-2", got[0].ID, "order is preserved")
	})

	t.Run("Empty fields rejected locally", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.list.Update(context.Background(), "n-1", "", "x")
		require.True(t, apperrors.IsValidation(err))
		require.Zero(t, f.repo.Calls(repofake.OpUpdate))
	})

	t.Run("Unauthorized forces logout", func(t *testing.T) {
		f := setupTestFixture(t)
		f.repo.Seed(seedNotes()...)
		require.NoError(t, f.list.FetchAll(context.Background()))
		require.Len(t, f.list.Notes(), 2)

		f.repo.Fail(repofake.OpUpdate, &apperrors.AuthorizationError{})
		_, err := f.list.Update(context.Background(), "n-1", "a", "b")
		require.ErrorIs(t, err, apperrors.ErrSessionExpired)
		require.Empty(t, f.list.Notes())
		require.Equal(t, 1, f.session.Logouts())
		require.Equal(t, []ui.Destination{ui.DestinationSignIn}, f.view.Destinations())
	})
}

func TestDelete(t *testing.T) {
	t.Run("Confirmed delete removes entry", func(t *testing.T) {
		f := setupTestFixture(t)
		f.repo.Seed(seedNotes()...)
		require.NoError(t, f.list.FetchAll(context.Background()))

		require.NoError(t, f.list.Delete(context.Background(), "n-1"))
		got := f.list.Notes()
		require.Len(t, got, 1)
		require.Equal(t, "n-2", got[0].ID)
		require.Equal(t, []string{notes.ConfirmDeletePrompt}, f.view.Prompts())
	})

	t.Run("Declined delete makes no call", func(t *testing.T) {
		f := setupTestFixture(t)
		f.view.Answer = false
		f.repo.Seed(seedNotes()...)
		require.NoError(t, f.list.FetchAll(context.Background()))

		err := f.list.Delete(context.Background(), "n-1")
		require.ErrorIs(t, err, ui.ErrNotConfirmed)
		require.Zero(t, f.repo.Calls(repofake.OpDelete))
		require.Len(t, f.list.Notes(), 2)
	})

	t.Run("Failed delete keeps entry", func(t *testing.T) {
		f := setupTestFixture(t)
		f.repo.Seed(seedNotes()...)
		require.NoError(t, f.list.FetchAll(context.Background()))
		f.repo.Fail(repofake.OpDelete, &apperrors.ServerError{Status: http.StatusInternalServerError})

		require.Error(t, f.list.Delete(context.Background(), "n-1"))
		require.Len(t, f.list.Notes(), 2)
		require.Equal(t, notes.MsgDeleteFailed, f.view.LastNotice().Message)
	})
}

// blockingRepo holds List calls until released so two fetches can overlap.
type blockingRepo struct {
	*repofake.FakeNotesRepo
	release chan []notes.Note
	entered atomic.Int32
}

func (r *blockingRepo) List(ctx context.Context) ([]notes.Note, error) {
	r.entered.Add(1)
	return <-r.release, nil
}

func TestFetchAll_DiscardsSupersededResponse(t *testing.T) {
	repo := &blockingRepo{FakeNotesRepo: repofake.NewFakeNotesRepo(), release: make(chan []notes.Note)}
	list, err := notes.NewList(repo, &fakeSession{}, uifake.NewRecorder(true), notes.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() { firstDone <- list.FetchAll(context.Background()) }()
	require.Eventually(t, func() bool { return repo.entered.Load() == 1 }, time.Second, time.Millisecond)

	secondDone := make(chan error, 1)
	go func() { secondDone <- list.FetchAll(context.Background()) }()
	require.Eventually(t, func() bool { return repo.entered.Load() == 2 }, time.Second, time.Millisecond)

	// Whichever call receives first, only the second FetchAll started is current.
	stale := []notes.Note{{ID: "stale"}}
	fresh := []notes.Note{{ID: "fresh"}}
	repo.release <- stale
	repo.release <- fresh

	errs := []error{<-firstDone, <-secondDone}
	superseded := 0
	for _, e := range errs {
		if e != nil {
			require.ErrorIs(t, e, apperrors.ErrSuperseded)
			superseded++
		}
	}
	require.Equal(t, 1, superseded)
	require.Len(t, list.Notes(), 1)
	require.False(t, list.Loading())
}
