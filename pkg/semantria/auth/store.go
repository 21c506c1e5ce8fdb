package auth

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SessionFileName is the cache file name inside the temp directory.
const SessionFileName = "semantria-session.dat"

// SessionStore persists the last session id for a user.
type SessionStore interface {
	// Load returns the cached id for username. A missing, corrupt or foreign
	// cache yields ok == false, never an error.
	Load(username string) (id string, ok bool)
	Save(username, id string) error
	Clear() error
}

// FileStore keeps the session id in a single file holding
// "<username>\n<session id>\n".
type FileStore struct {
	fs   afero.Fs
	path string
}

// DefaultSessionPath is <tmp>/semantria-session.dat.
func DefaultSessionPath() string {
	return filepath.Join(os.TempDir(), SessionFileName)
}

// NewFileStore returns a store on fs at path. A nil fs means the OS
// filesystem and an empty path means DefaultSessionPath.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultSessionPath()
	}
	return &FileStore{fs: fs, path: path}
}

// Path returns the cache file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(username string) (string, bool) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil || len(data) == 0 {
		return "", false
	}
	lines := strings.Split(string(bytes.TrimSpace(data)), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != username {
		return "", false
	}
	id := strings.TrimSpace(lines[1])
	return id, id != ""
}

// Save writes the cache through a temp file and a rename so readers never
// observe a partial file.
func (s *FileStore) Save(username, id string) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := afero.TempFile(s.fs, dir, SessionFileName+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(username + "\n" + id + "\n"); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return err
	}
	if err := s.fs.Chmod(tmp.Name(), 0o600); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return err
	}
	return s.fs.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Clear() error {
	err := s.fs.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// NopStore never caches anything.
type NopStore struct{}

func (NopStore) Load(string) (string, bool) { return "", false }
func (NopStore) Save(string, string) error  { return nil }
func (NopStore) Clear() error               { return nil }
