package token

import (
	"github.com/jrsteele09/go-notes-client/credentials"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

var _ oauth2.TokenSource = (*StoredSource)(nil)

// StoredSource reads the bearer token from the credential store on every call,
// so a logout elsewhere in the process takes effect on the next request.
type StoredSource struct {
	repo credentials.Repo
}

func NewStoredSource(repo credentials.Repo) *StoredSource {
	return &StoredSource{repo: repo}
}

// Token returns nil, nil when no token is stored.
func (s *StoredSource) Token() (*oauth2.Token, error) {
	c, err := s.repo.Load()
	if err != nil {
		return nil, errors.Wrap(err, "[StoredSource.Token] repo.Load")
	}
	if c == nil || c.Token == "" {
		return nil, nil
	}
	return FromRaw(c.Token), nil
}
