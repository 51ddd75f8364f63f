// SPDX-License-Identifier: EPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultVolume applies to descriptors that do not set one.
const DefaultVolume = 0.8

type Kind int

const (
	Instrument Kind = iota
	Ambient
)

func (k Kind) String() string {
	if k == Ambient {
		return "ambient"
	}

	return "instrument"
}

// TrackDescriptor is the static description of a track.
type TrackDescriptor struct {
	ID            string  `yaml:"id" json:"id"`
	DisplayName   string  `yaml:"name,omitempty" json:"name,omitempty"`
	SourceLocator string  `yaml:"source" json:"source"`
	Category      string  `yaml:"category,omitempty" json:"category,omitempty"`
	InitialVolume float64 `yaml:"volume" json:"volume"`
	InitialPan    float64 `yaml:"pan,omitempty" json:"pan,omitempty"`
}

func (d *TrackDescriptor) UnmarshalYAML(n *yaml.Node) error {
	type plain TrackDescriptor
	p := plain{InitialVolume: DefaultVolume}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*d = TrackDescriptor(p)

	return nil
}

// Region groups the tracks and presets of one place.
type Region struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name,omitempty"`
	Instruments []TrackDescriptor `yaml:"instruments"`
	Ambient     []TrackDescriptor `yaml:"ambient,omitempty"`
	Presets     []Preset          `yaml:"presets,omitempty"`
}

// Preset returns the preset called name.
func (r *Region) Preset(name string) (Preset, error) {
	for _, p := range r.Presets {
		if p.Name == name {
			return p, nil
		}
	}

	return Preset{}, fmt.Errorf("%s/%s: %w", r.ID, name, ErrUnknownPreset)
}

type Catalog struct {
	Regions []Region `yaml:"regions"`
}

// Load decodes and validates a YAML catalog. Missing display names are
// derived from ids.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c.fillNames()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}

func (c *Catalog) Region(id string) (*Region, error) {
	for i := range c.Regions {
		if c.Regions[i].ID == id {
			return &c.Regions[i], nil
		}
	}

	return nil, fmt.Errorf("%s: %w", id, ErrUnknownRegion)
}

func (c *Catalog) fillNames() {
	for i := range c.Regions {
		r := &c.Regions[i]
		if r.Name == "" {
			r.Name = DisplayName(r.ID)
		}
		for _, ts := range [][]TrackDescriptor{r.Instruments, r.Ambient} {
			for j := range ts {
				if ts[j].DisplayName == "" {
					ts[j].DisplayName = DisplayName(ts[j].ID)
				}
			}
		}
	}
}

// Validate checks structural shape only: ids are present and unique,
// every track has a source and presets name existing tracks.
func (c *Catalog) Validate() error {
	var errs []error
	add := func(format string, a ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, a...)...))
	}

	regions := make(map[string]bool)
	for _, r := range c.Regions {
		if r.ID == "" {
			add("region without id")
			continue
		}
		if regions[r.ID] {
			add("duplicate region %q", r.ID)
		}
		regions[r.ID] = true

		kinds := make(map[string]Kind)
		for kind, ts := range [][]TrackDescriptor{Instrument: r.Instruments, Ambient: r.Ambient} {
			for _, t := range ts {
				switch {
				case t.ID == "":
					add("%s: track without id", r.ID)
					continue
				case t.SourceLocator == "":
					add("%s/%s: missing source", r.ID, t.ID)
				}
				if _, dup := kinds[t.ID]; dup {
					add("%s: duplicate track %q", r.ID, t.ID)
				}
				kinds[t.ID] = Kind(kind)
			}
		}

		for _, p := range r.Presets {
			for _, o := range p.Tracks {
				if k, ok := kinds[o.ID]; !ok || k != Instrument {
					add("%s/%s: unknown instrument %q", r.ID, p.Name, o.ID)
				}
			}
			for _, o := range p.AmbientTracks {
				if k, ok := kinds[o.ID]; !ok || k != Ambient {
					add("%s/%s: unknown ambient track %q", r.ID, p.Name, o.ID)
				}
			}
		}
	}

	return errors.Join(errs...)
}

// DisplayName turns an id such as "desert_wind" into "Desert Wind".
func DisplayName(id string) string {
	return cases.Title(language.English).String(strings.NewReplacer("_", " ", "-", " ").Replace(id))
}
