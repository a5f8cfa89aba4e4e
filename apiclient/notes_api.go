package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-notes-client/notes"
	"github.com/pkg/errors"
)

var _ notes.Repo = (*Client)(nil)

type notesResponse struct {
	Notes []notes.Note `json:"notes"`
}

type noteResponse struct {
	Note *notes.Note `json:"note"`
}

func notePath(id string) string {
	return RouteNotes + "/" + url.PathEscape(id)
}

func (c *Client) List(ctx context.Context) ([]notes.Note, error) {
	var out notesResponse
	if _, err := c.do(ctx, http.MethodGet, RouteNotes, nil, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.List]")
	}
	if out.Notes == nil {
		out.Notes = []notes.Note{}
	}
	return out.Notes, nil
}

func (c *Client) Create(ctx context.Context, draft notes.Draft) (*notes.Note, error) {
	var out noteResponse
	if _, err := c.do(ctx, http.MethodPost, RouteNotes, draft, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.Create]")
	}
	if out.Note == nil {
		return nil, errors.New("[Client.Create] response has no note")
	}
	return out.Note, nil
}

func (c *Client) Update(ctx context.Context, id string, draft notes.Draft) (*notes.Note, error) {
	var out noteResponse
	if _, err := c.do(ctx, http.MethodPut, notePath(id), draft, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.Update]")
	}
	if out.Note == nil {
		return nil, errors.New("[Client.Update] response has no note")
	}
	return out.Note, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, notePath(id), nil, nil); err != nil {
		return errors.Wrap(err, "[Client.Delete]")
	}
	return nil
}
