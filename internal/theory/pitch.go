package theory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultOctave is used when a pitch name carries no octave (C4 = middle C)
const DefaultOctave = 4

var (
	ErrInvalidPitch    = errors.New("invalid pitch")
	ErrInvalidInterval = errors.New("invalid interval")
)

// Step is a diatonic letter name, C through B
type Step int

const (
	StepC Step = iota
	StepD
	StepE
	StepF
	StepG
	StepA
	StepB
)

const stepsPerOctave = 7

var stepLetters = [stepsPerOctave]string{"C", "D", "E", "F", "G", "A", "B"}

// Semitones above C for each natural step
var stepSemitones = [stepsPerOctave]int{0, 2, 4, 5, 7, 9, 11}

func (s Step) String() string {
	return stepLetters[s]
}

// Pitch is a spelled pitch. Two pitches with the same MIDI number but
// different letters (G# and Ab) are distinct.
type Pitch struct {
	Step   Step
	Alter  int // -2 (double flat) .. +2 (double sharp)
	Octave int
}

// NewPitch builds a pitch from parts
func NewPitch(step Step, alter, octave int) Pitch {
	return Pitch{Step: step, Alter: alter, Octave: octave}
}

// ReplaceFancyAccidentals swaps unicode flat/sharp glyphs for ASCII
func ReplaceFancyAccidentals(fancy string) string {
	return strings.NewReplacer("♭", "b", "♯", "#").Replace(fancy)
}

// ParsePitch parses names like "C#4", "Bb3", "eb", "E-3", "C♯4" or "Fx2".
// A missing octave defaults to DefaultOctave.
func ParsePitch(name string) (Pitch, error) {
	s := strings.TrimSpace(ReplaceFancyAccidentals(name))
	if s == "" {
		return Pitch{}, fmt.Errorf("%w: empty name", ErrInvalidPitch)
	}

	letter := strings.ToUpper(s[:1])
	idx := strings.Index("CDEFGAB", letter)
	if idx < 0 {
		return Pitch{}, fmt.Errorf("%w: %q has no note letter", ErrInvalidPitch, name)
	}
	p := Pitch{Step: Step(idx), Octave: DefaultOctave}

	rest := s[1:]
accidentals:
	for len(rest) > 0 {
		switch rest[0] {
		case '#':
			p.Alter++
		case 'x':
			p.Alter += 2
		case 'b', '-':
			p.Alter--
		default:
			break accidentals
		}
		rest = rest[1:]
	}

	if rest != "" {
		oct, err := strconv.Atoi(rest)
		if err != nil || oct < 0 {
			return Pitch{}, fmt.Errorf("%w: bad octave in %q", ErrInvalidPitch, name)
		}
		p.Octave = oct
	}

	if p.Alter < -2 || p.Alter > 2 {
		return Pitch{}, fmt.Errorf("%w: too many accidentals in %q", ErrInvalidPitch, name)
	}
	return p, nil
}

// MustPitch is ParsePitch for constant names; it panics on error
func MustPitch(name string) Pitch {
	p, err := ParsePitch(name)
	if err != nil {
		panic(err)
	}
	return p
}

// MIDI returns the MIDI note number (C4 = 60)
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alter
}

// diatonicIndex counts letter steps from C0
func (p Pitch) diatonicIndex() int {
	return p.Octave*stepsPerOctave + int(p.Step)
}

// Name returns the spelled name without octave, e.g. "F#" or "Bb"
func (p Pitch) Name() string {
	return p.Step.String() + accidentalText(p.Alter, "#", "b")
}

// NameWithOctave returns e.g. "F#4"
func (p Pitch) NameWithOctave() string {
	return p.Name() + strconv.Itoa(p.Octave)
}

// UnicodeNameWithOctave returns e.g. "F♯4"
func (p Pitch) UnicodeNameWithOctave() string {
	return p.Step.String() + accidentalText(p.Alter, "♯", "♭") + strconv.Itoa(p.Octave)
}

func (p Pitch) String() string {
	return p.NameWithOctave()
}

func accidentalText(alter int, sharp, flat string) string {
	switch {
	case alter > 0:
		return strings.Repeat(sharp, alter)
	case alter < 0:
		return strings.Repeat(flat, -alter)
	}
	return ""
}

// WithOctave returns a copy placed in the given octave
func (p Pitch) WithOctave(octave int) Pitch {
	p.Octave = octave
	return p
}

// WithAlter returns a copy with the alteration replaced
func (p Pitch) WithAlter(alter int) Pitch {
	p.Alter = alter
	return p
}

// Transpose moves the pitch by an interval, keeping correct spelling
func (p Pitch) Transpose(iv Interval) Pitch {
	di := p.diatonicIndex() + iv.Generic
	natural := Pitch{Step: Step(mod(di, stepsPerOctave)), Octave: floorDiv(di, stepsPerOctave)}
	natural.Alter = p.MIDI() + iv.Semitones - natural.MIDI()
	return natural
}

// Compare orders by sounding pitch, then by letter for enharmonics
func (p Pitch) Compare(q Pitch) int {
	if d := p.MIDI() - q.MIDI(); d != 0 {
		return sign(d)
	}
	return sign(p.diatonicIndex() - q.diatonicIndex())
}

// Above reports whether p sounds higher than q
func (p Pitch) Above(q Pitch) bool {
	return p.MIDI() > q.MIDI()
}

// Below reports whether p sounds lower than q
func (p Pitch) Below(q Pitch) bool {
	return p.MIDI() < q.MIDI()
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
