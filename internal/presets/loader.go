package presets

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/conbrio/conbrio-api/internal/theory"
	"github.com/conbrio/conbrio-api/pkg/embedded"
	"gopkg.in/yaml.v3"
)

var ErrUnknownStyle = errors.New("unknown style")

// Style is a scale layout preset
type Style struct {
	Name         string
	Time         notation.TimeSignature
	Note         theory.Duration
	BeamGroup    int
	BeamLevel    int // beams per note: 1 for eighths, 2 for 16ths
	ClefQuantize theory.Duration
}

type styleFile struct {
	Styles map[string]struct {
		Time         string  `yaml:"time"`
		HiddenTime   bool    `yaml:"hidden_time"`
		Note         string  `yaml:"note"`
		BeamGroup    int     `yaml:"beam_group"`
		BeamLevel    string  `yaml:"beam_level"`
		ClefQuantize float64 `yaml:"clef_quantize"`
	} `yaml:"styles"`
}

// HandFingering maps scale degrees 1-7 to fingers for one hand
type HandFingering struct {
	Degrees []int `yaml:"degrees"`
	Top     int   `yaml:"top,omitempty"`
	Bottom  int   `yaml:"bottom,omitempty"`
}

// Finger returns the finger for a scale degree, or 0 if unknown
func (h HandFingering) Finger(degree int) int {
	if degree < 1 || degree > len(h.Degrees) {
		return 0
	}
	return h.Degrees[degree-1]
}

// FingeringTable holds both hands for one scale
type FingeringTable struct {
	Right HandFingering `yaml:"right"`
	Left  HandFingering `yaml:"left"`
}

// Fingerings holds the per-scale tables and the group fallbacks
type Fingerings struct {
	Groups map[int]FingeringTable    `yaml:"groups"`
	Scales map[string]FingeringTable `yaml:"scales"`
}

// Lookup returns the table for a scale name such as "Bb major", falling
// back to the fingering group
func (f *Fingerings) Lookup(name string, group int) (FingeringTable, bool) {
	if t, ok := f.Scales[name]; ok {
		return t, true
	}
	t, ok := f.Groups[group]
	return t, ok
}

type Loader struct {
	styles     func() (map[string]Style, error)
	fingerings func() (*Fingerings, error)
}

var defaultLoader = NewPresetLoader()

// Default returns the process-wide loader over the embedded presets
func Default() *Loader {
	return defaultLoader
}

func NewPresetLoader() *Loader {
	return &Loader{
		styles:     sync.OnceValues(func() (map[string]Style, error) { return ParseStyles(embedded.StylesYAML) }),
		fingerings: sync.OnceValues(func() (*Fingerings, error) { return ParseFingerings(embedded.FingeringsYAML) }),
	}
}

// GetStyles loads every embedded style preset
func (l *Loader) GetStyles() (map[string]Style, error) {
	return l.styles()
}

// GetStyle returns a preset by name, ignoring case
func (l *Loader) GetStyle(name string) (Style, error) {
	styles, err := l.styles()
	if err != nil {
		return Style{}, err
	}
	if s, ok := styles[name]; ok {
		return s, nil
	}
	for key, s := range styles {
		if strings.EqualFold(key, name) {
			return s, nil
		}
	}
	return Style{}, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

// StyleNames lists the preset names in sorted order
func (l *Loader) StyleNames() []string {
	styles, err := l.styles()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetFingerings loads the embedded scale fingering tables
func (l *Loader) GetFingerings() (*Fingerings, error) {
	return l.fingerings()
}

// ParseStyles decodes a styles YAML document
func ParseStyles(data []byte) (map[string]Style, error) {
	var file styleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse styles: %w", err)
	}

	styles := make(map[string]Style, len(file.Styles))
	for name, raw := range file.Styles {
		ts, err := notation.ParseTimeSignature(raw.Time)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", name, err)
		}
		ts.Hidden = raw.HiddenTime

		note, err := theory.ParseDuration(raw.Note)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", name, err)
		}
		level, err := theory.ParseDuration(raw.BeamLevel)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", name, err)
		}
		if level.Beams() == 0 {
			return nil, fmt.Errorf("style %s: beam level %q has no beams", name, raw.BeamLevel)
		}
		if raw.BeamGroup < 1 {
			return nil, fmt.Errorf("style %s: beam group must be positive", name)
		}

		styles[name] = Style{
			Name:         name,
			Time:         ts,
			Note:         note,
			BeamGroup:    raw.BeamGroup,
			BeamLevel:    level.Beams(),
			ClefQuantize: theory.Duration(raw.ClefQuantize),
		}
	}
	return styles, nil
}

// ParseFingerings decodes a fingering YAML document
func ParseFingerings(data []byte) (*Fingerings, error) {
	var f Fingerings
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fingerings: %w", err)
	}
	check := func(name string, t FingeringTable) error {
		if len(t.Right.Degrees) != 7 || len(t.Left.Degrees) != 7 {
			return fmt.Errorf("fingering %s: expected 7 degrees per hand", name)
		}
		return nil
	}
	for group, t := range f.Groups {
		if err := check(fmt.Sprintf("group %d", group), t); err != nil {
			return nil, err
		}
	}
	for name, t := range f.Scales {
		if err := check(name, t); err != nil {
			return nil, err
		}
	}
	return &f, nil
}
