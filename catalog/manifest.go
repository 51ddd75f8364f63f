// SPDX-License-Identifier: EPL-2.0

package catalog

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

type ManifestEntry struct {
	Placeholder bool   `yaml:"placeholder"`
	Note        string `yaml:"note,omitempty"`
}

// Manifest records which source files are real recordings and which are
// placeholders. Entries are keyed by locator or by bare file name.
type Manifest struct {
	Files map[string]ManifestEntry `yaml:"files"`
}

func LoadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	return &m, nil
}

func LoadManifestFile(name string) (*Manifest, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadManifest(f)
}

// Available reports false only for files marked as placeholders. A nil
// manifest treats everything as available.
func (m *Manifest) Available(locator string) bool {
	if m == nil {
		return true
	}

	key := strings.TrimPrefix(locator, "/")
	if e, ok := m.Files[key]; ok {
		return !e.Placeholder
	}
	if e, ok := m.Files[path.Base(key)]; ok {
		return !e.Placeholder
	}

	return true
}
