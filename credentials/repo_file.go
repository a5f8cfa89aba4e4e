package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

const (
	fileName       = "session.json"
	tempFilePrefix = "session-tmp-"
)

var _ Repo = (*FileRepo)(nil)

// FileRepo keeps the credential as JSON in the data folder, readable only by the owner.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

func NewFileRepo(dataDir string) *FileRepo {
	return &FileRepo{
		path: filepath.Join(dataDir, fileName),
	}
}

func (r *FileRepo) Path() string {
	return r.path
}

func (r *FileRepo) Save(c *Credential) error {
	if c == nil {
		return errors.New("[FileRepo.Save] credential cannot be nil")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileRepo.Save] encode credential")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0700); err != nil {
		return errors.Wrap(err, "[FileRepo.Save] create data dir")
	}
	return errors.Wrap(writeFileAtomic(r.path, data, 0600), "[FileRepo.Save]")
}

func (r *FileRepo) Load() (*Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileRepo.Load] read credential")
	}

	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "[FileRepo.Load] decode credential")
	}
	return &c, nil
}

func (r *FileRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "[FileRepo.Clear] remove credential")
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// over filename, so a crash never leaves a half written credential.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return errors.Wrapf(err, "rename temp file to %s", filename)
	}
	return nil
}
