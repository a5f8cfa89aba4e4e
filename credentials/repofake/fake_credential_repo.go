package repofake

import (
	"sync"

	"github.com/jrsteele09/go-notes-client/credentials"
)

var _ credentials.Repo = (*FakeCredentialRepo)(nil)

// FakeCredentialRepo is an in-memory credentials.Repo that counts writes.
type FakeCredentialRepo struct {
	lock    sync.Mutex
	stored  *credentials.Credential
	saves   int
	clears  int
	LoadErr error
	SaveErr error
}

func NewFakeCredentialRepo() *FakeCredentialRepo {
	return &FakeCredentialRepo{}
}

func (r *FakeCredentialRepo) Save(c *credentials.Credential) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.saves++
	if r.SaveErr != nil {
		return r.SaveErr
	}
	cp := *c
	r.stored = &cp
	return nil
}

func (r *FakeCredentialRepo) Load() (*credentials.Credential, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	if r.stored == nil {
		return nil, nil
	}
	cp := *r.stored
	return &cp, nil
}

func (r *FakeCredentialRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.clears++
	r.stored = nil
	return nil
}

// Stored returns the stored credential without going through Load.
func (r *FakeCredentialRepo) Stored() *credentials.Credential {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.stored
}

func (r *FakeCredentialRepo) Saves() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.saves
}

func (r *FakeCredentialRepo) Clears() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.clears
}
