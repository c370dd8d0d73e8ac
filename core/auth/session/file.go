package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/IsaacT30/airport-console/errors"
)

// DefaultCredentialsFile is the credentials location used when no path is
// configured, relative to the user's home directory.
const DefaultCredentialsFile = ".airport-console/credentials.json"

// FileStore persists the session in a JSON file keyed by the three fixed
// store keys. It survives process restarts and is safe for concurrent use
// within one process.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore at path. An empty path places the file
// under the user's home directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Internal("resolve home directory: %v", err)
		}
		path = filepath.Join(home, DefaultCredentialsFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Internal("create credentials directory: %v", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the credentials file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return "", err
	}
	return data[KeyAccessToken], nil
}

func (s *FileStore) RefreshToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return "", err
	}
	return data[KeyRefreshToken], nil
}

func (s *FileStore) Identity(ctx context.Context) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	raw := data[KeyIdentity]
	if raw == "" {
		return nil, nil
	}
	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		// A corrupt cached identity behaves as an absent one.
		return nil, nil
	}
	return &identity, nil
}

func (s *FileStore) SetTokenPair(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(data map[string]string) {
		data[KeyAccessToken] = access
		data[KeyRefreshToken] = refresh
	})
}

func (s *FileStore) SetAccessToken(ctx context.Context, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(data map[string]string) {
		data[KeyAccessToken] = access
	})
}

func (s *FileStore) SetIdentity(ctx context.Context, identity *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(data map[string]string) {
		if identity == nil {
			delete(data, KeyIdentity)
			return
		}
		raw, _ := json.Marshal(identity)
		data[KeyIdentity] = string(raw)
	})
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Internal("clear credentials: %v", err)
	}
	return nil
}

// load reads the file fresh on every access so that concurrent console
// processes sharing the file observe each other's writes.
func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Internal("read credentials: %v", err)
	}
	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		// Unreadable state is treated as empty rather than fatal.
		return map[string]string{}, nil
	}
	return data, nil
}

func (s *FileStore) update(mutate func(map[string]string)) error {
	data, err := s.load()
	if err != nil {
		return err
	}
	mutate(data)

	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Internal("encode credentials: %v", err)
	}

	// Write-then-rename keeps the file whole if the process dies mid-write.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Internal("write credentials: %v", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Internal("replace credentials: %v", err)
	}
	return nil
}
