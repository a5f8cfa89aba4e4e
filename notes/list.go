package notes

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/ui"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	MsgFillAllFields  = "Please fill in all fields"
	MsgSessionExpired = "Session expired. Please login again."
	MsgLoadFailed     = "Failed to load notes"
	MsgCreateFailed   = "Failed to create note"
	MsgCreated        = "Note created successfully!"
	MsgUpdateFailed   = "Failed to update note"
	MsgUpdated        = "Note updated successfully!"
	MsgDeleteFailed   = "Failed to delete note"
	MsgDeleted        = "Note deleted successfully!"

	ConfirmDeletePrompt = "Are you sure you want to delete this note?"
)

// SessionEnder ends the current session. List calls it when the server
// rejects the session's credentials.
type SessionEnder interface {
	Logout(ctx context.Context)
}

// List keeps an in-memory, newest first copy of the user's notes in step with
// the server. Nothing is changed locally until the server confirms it.
type List struct {
	repo    Repo
	session SessionEnder
	view    ui.View
	logger  zerolog.Logger

	mu       sync.Mutex
	notes    []Note
	loading  bool
	saving   int
	fetchSeq uint64
}

type ListOption func(*List)

func WithLogger(logger zerolog.Logger) ListOption {
	return func(l *List) {
		l.logger = logger
	}
}

func NewList(repo Repo, session SessionEnder, view ui.View, options ...ListOption) (*List, error) {
	if repo == nil {
		return nil, errors.New("[NewList] notes repo is required")
	}
	if session == nil {
		return nil, errors.New("[NewList] session is required")
	}
	if view == nil {
		return nil, errors.New("[NewList] view is required")
	}

	l := &List{
		repo:    repo,
		session: session,
		view:    view,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(l)
	}
	return l, nil
}

// Notes returns a copy of the current list.
func (l *List) Notes() []Note {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Note(nil), l.notes...)
}

// Loading reports whether a fetch is in flight.
func (l *List) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Saving reports whether a create, update or delete is in flight.
func (l *List) Saving() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saving > 0
}

// FetchAll replaces the list with the server's. A failed fetch leaves the
// previous list in place; a fetch overtaken by a newer one is discarded.
func (l *List) FetchAll(ctx context.Context) error {
	l.mu.Lock()
	l.fetchSeq++
	seq := l.fetchSeq
	l.loading = true
	l.mu.Unlock()

	list, err := l.repo.List(ctx)

	l.mu.Lock()
	if seq != l.fetchSeq {
		l.mu.Unlock()
		l.logger.Debug().Uint64("seq", seq).Msg("discarding superseded notes fetch")
		return apperrors.ErrSuperseded
	}
	l.loading = false
	if err == nil {
		l.notes = append([]Note(nil), list...)
	}
	l.mu.Unlock()

	if err != nil {
		return l.fail(ctx, errors.Wrap(err, "[List.FetchAll] repo.List"), MsgLoadFailed)
	}
	return nil
}

// Create stores a new note and prepends the server's copy of it.
func (l *List) Create(ctx context.Context, title, content string) (*Note, error) {
	draft := Draft{Title: title, Content: content}
	if err := l.validate(draft); err != nil {
		return nil, err
	}

	done := l.startSaving()
	defer done()

	created, err := l.repo.Create(ctx, draft)
	if err != nil {
		return nil, l.fail(ctx, errors.Wrap(err, "[List.Create] repo.Create"), MsgCreateFailed)
	}

	l.mu.Lock()
	l.notes = append([]Note{*created}, l.notes...)
	l.mu.Unlock()

	ui.Success(l.view, MsgCreated)
	return created, nil
}

// Update saves new content for id and swaps in the server's copy in place.
func (l *List) Update(ctx context.Context, id, title, content string) (*Note, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &apperrors.ValidationError{Field: "id", Message: "Note id is required"}
	}
	draft := Draft{Title: title, Content: content}
	if err := l.validate(draft); err != nil {
		return nil, err
	}

	done := l.startSaving()
	defer done()

	updated, err := l.repo.Update(ctx, id, draft)
	if err != nil {
		return nil, l.fail(ctx, errors.Wrap(err, "[List.Update] repo.Update"), MsgUpdateFailed)
	}

	l.mu.Lock()
	for i := range l.notes {
		if l.notes[i].ID == id {
			l.notes[i] = *updated
		}
	}
	l.mu.Unlock()

	ui.Success(l.view, MsgUpdated)
	return updated, nil
}

// Delete asks for confirmation, then removes id once the server has deleted it.
func (l *List) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &apperrors.ValidationError{Field: "id", Message: "Note id is required"}
	}
	if !l.view.Confirm(ConfirmDeletePrompt) {
		return ui.ErrNotConfirmed
	}

	done := l.startSaving()
	defer done()

	if err := l.repo.Delete(ctx, id); err != nil {
		return l.fail(ctx, errors.Wrap(err, "[List.Delete] repo.Delete"), MsgDeleteFailed)
	}

	l.mu.Lock()
	kept := l.notes[:0]
	for _, n := range l.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	l.notes = kept
	l.mu.Unlock()

	ui.Success(l.view, MsgDeleted)
	return nil
}

func (l *List) validate(draft Draft) error {
	if draft.Complete() {
		return nil
	}
	ui.Error(l.view, MsgFillAllFields)
	field := "content"
	if strings.TrimSpace(draft.Title) == "" {
		field = "title"
	}
	return &apperrors.ValidationError{Field: field, Message: MsgFillAllFields}
}

func (l *List) startSaving() func() {
	l.mu.Lock()
	l.saving++
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		l.saving--
		l.mu.Unlock()
	}
}

// fail reports err to the user. A rejected session is ended and the view sent
// back to sign in; anything else gets the operation's failure notice.
func (l *List) fail(ctx context.Context, err error, msg string) error {
	if apperrors.IsAuthorization(err) {
		l.mu.Lock()
		l.notes = nil
		l.mu.Unlock()
		ui.Error(l.view, MsgSessionExpired)
		l.session.Logout(ctx)
		l.view.Navigate(ui.DestinationSignIn)
		return apperrors.SessionExpired(err)
	}

	l.logger.Error().Err(err).Msg(msg)
	ui.Error(l.view, msg)
	return err
}
