// SPDX-License-Identifier: EPL-2.0

package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ik5/soundscape/mixer"
)

var newID = uuid.NewString

// Sink persists a session export and returns its id.
type Sink interface {
	Save(ctx context.Context, ex mixer.Export) (string, error)
}

// FileSink writes each export to Dir/<id>.json.
type FileSink struct {
	Dir string
}

func (s FileSink) Save(_ context.Context, ex mixer.Export) (string, error) {
	if s.Dir == "" {
		return "", ErrNoDir
	}

	b, err := json.MarshalIndent(ex, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.Dir, err)
	}

	id := newID()
	name := filepath.Join(s.Dir, id+".json")
	if err := os.WriteFile(name, append(b, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	return id, nil
}

// Path returns where Save put the export with the given id.
func (s FileSink) Path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}
