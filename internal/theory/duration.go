package theory

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDuration = errors.New("invalid duration")

// Duration is a length in quarter notes
type Duration float64

const (
	ThirtySecond Duration = 0.125
	Sixteenth    Duration = 0.25
	Eighth       Duration = 0.5
	Quarter      Duration = 1
	Half         Duration = 2
	Whole        Duration = 4
)

var durationTypes = []struct {
	name  string
	value Duration
}{
	{"whole", Whole},
	{"half", Half},
	{"quarter", Quarter},
	{"eighth", Eighth},
	{"16th", Sixteenth},
	{"32nd", ThirtySecond},
}

// ParseDuration accepts MusicXML type names ("eighth", "16th") and the
// common aliases "sixteenth" and "8th"
func ParseDuration(name string) (Duration, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "sixteenth":
		n = "16th"
	case "8th":
		n = "eighth"
	case "thirtysecond":
		n = "32nd"
	}
	for _, t := range durationTypes {
		if t.name == n {
			return t.value, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, name)
}

// TypeAndDots returns the MusicXML note type and number of dots. Lengths
// that are not a dotted power of two fall back to the largest type that
// fits.
func (d Duration) TypeAndDots() (string, int) {
	for _, t := range durationTypes {
		switch d {
		case t.value:
			return t.name, 0
		case t.value * 1.5:
			return t.name, 1
		case t.value * 1.75:
			return t.name, 2
		}
	}
	for _, t := range durationTypes {
		if d > t.value {
			return t.name, 0
		}
	}
	return "32nd", 0
}

// Type returns the MusicXML note type
func (d Duration) Type() string {
	name, _ := d.TypeAndDots()
	return name
}

// Beams returns how many beams a note of this duration carries
func (d Duration) Beams() int {
	switch d.Type() {
	case "eighth":
		return 1
	case "16th":
		return 2
	case "32nd":
		return 3
	}
	return 0
}
