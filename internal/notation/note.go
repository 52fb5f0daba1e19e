package notation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/conbrio/conbrio-api/internal/theory"
)

var ErrInvalidArticulation = errors.New("invalid articulation")

// Articulation marks drawn on a note
type Articulation string

const (
	Staccato      Articulation = "staccato"
	Staccatissimo Articulation = "staccatissimo"
	Accent        Articulation = "accent"
	Tenuto        Articulation = "tenuto"
)

// ParseArticulation accepts the articulation names above, case insensitive
func ParseArticulation(name string) (Articulation, error) {
	a := Articulation(strings.ToLower(strings.TrimSpace(name)))
	switch a {
	case Staccato, Staccatissimo, Accent, Tenuto:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidArticulation, name)
}

// BeamType is a MusicXML beam value
type BeamType string

const (
	BeamBegin    BeamType = "begin"
	BeamContinue BeamType = "continue"
	BeamEnd      BeamType = "end"
)

// Placement of a mark relative to the staff
type Placement string

const (
	Above Placement = "above"
	Below Placement = "below"
)

// Fingering is a finger number attached to one member of a note or chord
type Fingering struct {
	Finger       int
	Placement    Placement
	Alternate    bool
	Substitution bool
	Member       int // chord member, 0 = lowest written pitch
}

// Note is a pitched note, a chord (several pitches) or a rest (none)
type Note struct {
	Pitches       []theory.Pitch
	Duration      theory.Duration
	Beams         []BeamType // one entry per beam level
	Articulations []Articulation
	Fingerings    []Fingering
	TieStart      bool
	TieStop       bool

	offset theory.Duration
}

func NewNote(p theory.Pitch, d theory.Duration) *Note {
	return &Note{Pitches: []theory.Pitch{p}, Duration: d}
}

// NewChordNote builds a chord note with pitches sorted low to high
func NewChordNote(c theory.Chord, d theory.Duration) *Note {
	return &Note{Pitches: c.SortAscending().Pitches, Duration: d}
}

func NewRest(d theory.Duration) *Note {
	return &Note{Duration: d}
}

func (n *Note) IsRest() bool {
	return len(n.Pitches) == 0
}

// Pitch returns the lowest pitch. It panics on rests.
func (n *Note) Pitch() theory.Pitch {
	return n.Pitches[0]
}

// Offset is the note's start within its staff, set when appended
func (n *Note) Offset() theory.Duration {
	return n.offset
}

// Clone returns a deep copy
func (n *Note) Clone() *Note {
	c := *n
	c.Pitches = slices.Clone(n.Pitches)
	c.Beams = slices.Clone(n.Beams)
	c.Articulations = slices.Clone(n.Articulations)
	c.Fingerings = slices.Clone(n.Fingerings)
	return &c
}

// Transpose returns a copy with every pitch moved by the interval
func (n *Note) Transpose(iv theory.Interval) *Note {
	c := n.Clone()
	for i, p := range c.Pitches {
		c.Pitches[i] = p.Transpose(iv)
	}
	return c
}

// SetBeams replaces the note's beams with the same type on each level
func (n *Note) SetBeams(t BeamType, levels int) {
	n.Beams = n.Beams[:0]
	for i := 0; i < levels; i++ {
		n.Beams = append(n.Beams, t)
	}
}

func (n *Note) AddArticulation(a Articulation) {
	n.Articulations = append(n.Articulations, a)
}

func (n *Note) AddFingering(f Fingering) {
	n.Fingerings = append(n.Fingerings, f)
}
