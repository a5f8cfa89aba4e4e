package repofake

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/notes"
)

var _ notes.Repo = (*FakeNotesRepo)(nil)

// FakeNotesRepo is an in-memory notes.Repo. Fail makes the next calls of an
// operation return the given error instead of touching the store.
type FakeNotesRepo struct {
	lock    sync.Mutex
	notes   map[string]notes.Note
	failing map[string]error
	calls   map[string]int
	nowTime func() time.Time
}

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

func NewFakeNotesRepo() *FakeNotesRepo {
	return &FakeNotesRepo{
		notes:   make(map[string]notes.Note),
		failing: make(map[string]error),
		calls:   make(map[string]int),
		nowTime: time.Now,
	}
}

// Seed stores notes as if the server had created them.
func (r *FakeNotesRepo) Seed(ns ...notes.Note) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, n := range ns {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		r.notes[n.ID] = n
	}
}

func (r *FakeNotesRepo) Fail(op string, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err == nil {
		delete(r.failing, op)
		return
	}
	r.failing[op] = err
}

// Calls returns how many times op reached the repo.
func (r *FakeNotesRepo) Calls(op string) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.calls[op]
}

func (r *FakeNotesRepo) begin(op string) error {
	r.calls[op]++
	return r.failing[op]
}

// List returns notes newest first.
func (r *FakeNotesRepo) List(ctx context.Context) ([]notes.Note, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := r.begin(OpList); err != nil {
		return nil, err
	}

	list := make([]notes.Note, 0, len(r.notes))
	for _, n := range r.notes {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Create trims the draft, the way a server normalising input would.
func (r *FakeNotesRepo) Create(ctx context.Context, draft notes.Draft) (*notes.Note, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := r.begin(OpCreate); err != nil {
		return nil, err
	}

	now := r.nowTime()
	n := notes.Note{
		ID:        uuid.New().String(),
		Title:     normalise(draft.Title),
		Content:   normalise(draft.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.notes[n.ID] = n
	return &n, nil
}

func (r *FakeNotesRepo) Update(ctx context.Context, id string, draft notes.Draft) (*notes.Note, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := r.begin(OpUpdate); err != nil {
		return nil, err
	}

	n, ok := r.notes[id]
	if !ok {
		return nil, &apperrors.ServerError{Status: 404, Message: "Note not found"}
	}
	n.Title = normalise(draft.Title)
	n.Content = normalise(draft.Content)
	n.UpdatedAt = r.nowTime()
	r.notes[id] = n
	return &n, nil
}

func (r *FakeNotesRepo) Delete(ctx context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := r.begin(OpDelete); err != nil {
		return err
	}

	if _, ok := r.notes[id]; !ok {
		return &apperrors.ServerError{Status: 404, Message: "Note not found"}
	}
	delete(r.notes, id)
	return nil
}

// Get reads a stored note directly, bypassing call counting.
func (r *FakeNotesRepo) Get(id string) (notes.Note, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	n, ok := r.notes[id]
	if !ok {
		return notes.Note{}, errors.New("not found")
	}
	return n, nil
}

func normalise(s string) string {
	return strings.TrimSpace(s)
}
