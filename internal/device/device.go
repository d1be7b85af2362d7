// Package device issues a stable anonymous identifier for the installation.
// The id survives restarts via a small file under the data directory and is
// attached to guest profiles.
package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const idFile = "device_id"

type Identity struct {
	dataPath string

	mu sync.Mutex
	id string
}

func New(dataPath string) *Identity {
	return &Identity{dataPath: dataPath}
}

// ID returns the cached identifier, reading it from disk or minting a new
// one on first use.
func (d *Identity) ID() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.id != "" {
		return d.id, nil
	}

	path := filepath.Join(d.dataPath, idFile)
	raw, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(raw))
		if uuid.Validate(id) == nil {
			d.id = id
			return d.id, nil
		}
	}

	id := uuid.NewString()
	err = os.MkdirAll(d.dataPath, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	err = os.WriteFile(path, []byte(id+"\n"), 0600)
	if err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}

	d.id = id
	return d.id, nil
}
