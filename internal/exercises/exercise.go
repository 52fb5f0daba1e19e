package exercises

import (
	"errors"
	"fmt"
	"math"

	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/conbrio/conbrio-api/internal/theory"
)

var (
	ErrInvalidQuality   = errors.New("invalid quality")
	ErrInvalidStyle     = errors.New("invalid style")
	ErrInvalidTonic     = errors.New("invalid tonic")
	ErrInvalidNote      = errors.New("invalid note")
	ErrInvalidOctaves   = errors.New("octaves must be between 1 and 4")
	ErrInvalidInversion = errors.New("invalid inversion")
	ErrInvalidFingering = errors.New("invalid fingering detail")
	ErrInvalidRange     = errors.New("invalid key signature range")
	ErrEmptyRange       = errors.New("no notes in range")
)

const maxOctaves = 4

// Default courtesy clef thresholds for the left hand
var (
	DefaultTrebleThreshold = theory.MustPitch("F#4")
	DefaultBassThreshold   = theory.MustPitch("Bb3")
)

// Layout selects one staff or a piano grand staff
type Layout int

const (
	GrandStaff Layout = iota
	SingleStaff
)

// Hand identifies a staff of a grand staff
type Hand int

const (
	LeftHand Hand = iota
	RightHand
)

func (h Hand) String() string {
	if h == LeftHand {
		return "left"
	}
	return "right"
}

// Exercise holds the score every exercise writes into, plus the shared
// settings used while generating notes
type Exercise struct {
	Tonic        string
	Quality      string
	Duration     theory.Duration
	Octaves      int
	SeparatedBy  theory.Interval
	Key          theory.Key
	Tempo        *notation.Tempo
	Articulation notation.Articulation
	Layout       Layout

	Score *notation.Score
}

func newExercise(title string, key theory.Key, layout Layout, tempo *notation.Tempo) *Exercise {
	e := &Exercise{
		Key:         key,
		Tempo:       tempo,
		Layout:      layout,
		SeparatedBy: theory.OctaveDown,
	}
	if layout == GrandStaff {
		e.Score = notation.NewGrandStaff(title, key)
	} else {
		e.Score = notation.NewScore(title, key, notation.TrebleClef)
	}
	if tempo != nil {
		e.Score.InsertTempo(0, *tempo)
	}
	return e
}

// RightHand returns the treble staff of a grand staff, or the only staff
func (e *Exercise) RightHand() *notation.Staff {
	return e.Score.Staves[0]
}

// LeftHand returns the bass staff of a grand staff, or the only staff
func (e *Exercise) LeftHand() *notation.Staff {
	return e.Score.Staves[len(e.Score.Staves)-1]
}

// Staff returns a hand's staff
func (e *Exercise) Staff(h Hand) *notation.Staff {
	if h == LeftHand {
		return e.LeftHand()
	}
	return e.RightHand()
}

// BeamInGroups beams the notes sharing the first note's duration in runs
// of size. levels is the number of beams (1 for eighths, 2 for 16ths).
func (e *Exercise) BeamInGroups(size, levels int) {
	if size < 1 || levels < 1 {
		return
	}
	for _, staff := range e.Score.Staves {
		notes := staff.PitchedNotes()
		if len(notes) == 0 {
			continue
		}
		var beamed []*notation.Note
		for _, n := range notes {
			if n.Duration == notes[0].Duration {
				beamed = append(beamed, n)
			}
		}

		for i, n := range beamed {
			start := i - i%size
			end := min(start+size, len(beamed)) - 1
			switch {
			case start == end:
				n.Beams = nil
			case i == start:
				n.SetBeams(notation.BeamBegin, levels)
			case i == end:
				n.SetBeams(notation.BeamEnd, levels)
			default:
				n.SetBeams(notation.BeamContinue, levels)
			}
		}
	}
}

// InsertCourtesyClefs switches the left hand (or the single staff) to
// treble at the first note above asc, then back to bass at the first
// later note below desc. Clefs snap down to a grid of quantize beats.
func (e *Exercise) InsertCourtesyClefs(asc, desc theory.Pitch, quantize theory.Duration) {
	snap := func(offset theory.Duration) theory.Duration {
		if quantize <= 0 {
			return offset
		}
		return theory.Duration(math.Floor(float64(offset/quantize))) * quantize
	}

	staff := e.LeftHand()
	insertedTreble := false
	for _, n := range staff.PitchedNotes() {
		if !insertedTreble && n.Pitch().Above(asc) {
			staff.InsertClef(snap(n.Offset()), notation.TrebleClef)
			insertedTreble = true
		}
		if insertedTreble && n.Pitch().Below(desc) {
			staff.InsertClef(snap(n.Offset()), notation.BassClef)
			break
		}
	}
}

// ApplyArticulation marks every note on every staff
func (e *Exercise) ApplyArticulation(a notation.Articulation) {
	if a == "" {
		return
	}
	for _, staff := range e.Score.Staves {
		for _, n := range staff.PitchedNotes() {
			n.AddArticulation(a)
		}
	}
}

// NoteCount returns the number of pitched notes across all staves
func (e *Exercise) NoteCount() int {
	count := 0
	for _, staff := range e.Score.Staves {
		count += len(staff.PitchedNotes())
	}
	return count
}

// Render returns the exercise as MusicXML
func (e *Exercise) Render() (string, error) {
	xml, err := notation.MusicXML(e.Score)
	if err != nil {
		return "", fmt.Errorf("failed to render exercise: %w", err)
	}
	return xml, nil
}

// RenderMIDI returns the exercise as a standard MIDI file
func (e *Exercise) RenderMIDI() ([]byte, error) {
	data, err := notation.MIDI(e.Score)
	if err != nil {
		return nil, fmt.Errorf("failed to render exercise: %w", err)
	}
	return data, nil
}

// Renderer is implemented by every exercise type
type Renderer interface {
	Render() (string, error)
	RenderMIDI() ([]byte, error)
	NoteCount() int
}

func parseTonic(tonic string, mode theory.Mode) (theory.Key, error) {
	k, err := theory.NewKey(tonic, mode)
	if err != nil {
		return theory.Key{}, fmt.Errorf("%w: %q", ErrInvalidTonic, tonic)
	}
	return k, nil
}

func validateOctaves(octaves int) error {
	if octaves < 1 || octaves > maxOctaves {
		return fmt.Errorf("%w: %d", ErrInvalidOctaves, octaves)
	}
	return nil
}

func notesFromPitches(pitches []theory.Pitch, d theory.Duration) []*notation.Note {
	notes := make([]*notation.Note, len(pitches))
	for i, p := range pitches {
		notes[i] = notation.NewNote(p, d)
	}
	return notes
}

func transposeNotes(notes []*notation.Note, iv theory.Interval) []*notation.Note {
	res := make([]*notation.Note, len(notes))
	for i, n := range notes {
		res[i] = n.Transpose(iv)
	}
	return res
}
