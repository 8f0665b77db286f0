package state

import (
	"os"
	"path/filepath"
)

const platformsFile = "platforms.json"

// PlatformStore persists the user's configured platform list. The
// document is a JSON array owned by the shell UI; this store treats it as
// opaque bytes and enforces no schema.
type PlatformStore struct {
	dir string
}

// NewPlatformStore creates a store rooted at the app-local data dir.
func NewPlatformStore(dataDir string) *PlatformStore {
	return &PlatformStore{dir: dataDir}
}

// Load returns the stored document, or the empty list when none exists.
func (s *PlatformStore) Load() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, platformsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []byte("[]"), nil
		}
		return nil, err
	}
	return data, nil
}

// Save writes the document verbatim, creating the data dir if needed. An
// empty payload is stored as the empty list so Load keeps its contract.
func (s *PlatformStore) Save(data []byte) error {
	if len(data) == 0 {
		data = []byte("[]")
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, platformsFile), data, filePerm)
}
