package exercises

import (
	"fmt"
	"strings"

	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/conbrio/conbrio-api/internal/presets"
	"github.com/conbrio/conbrio-api/internal/theory"
)

// FingeringDetail controls how many notes get finger numbers
type FingeringDetail string

const (
	FingeringFull    FingeringDetail = "full"
	FingeringMinimal FingeringDetail = "minimal"
	FingeringNone    FingeringDetail = "none"
)

func ParseFingeringDetail(s string) (FingeringDetail, error) {
	d := FingeringDetail(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case FingeringFull, FingeringMinimal, FingeringNone:
		return d, nil
	case "":
		return FingeringFull, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFingering, s)
}

// Scales sharing a fingering pattern. Anything not listed is group 1.
var fingeringGroups = map[string]int{
	"Cb major": 2, "B major": 2, "B minor": 2, "F# major": 2, "F# minor": 2,
	"Gb major": 2, "C# major": 2, "C# minor": 2, "Db major": 2,

	"Ab major": 3, "Ab minor": 3, "Bb major": 3, "Bb minor": 3, "D# minor": 3,
	"Eb major": 3, "Eb minor": 3, "G# minor": 3, "A# minor": 3, "F major": 3,
	"F minor": 3,
}

// fingeringName is the table key for a scale, e.g. "Bb minor" for any
// minor form
func fingeringName(tonic theory.Pitch, quality string) string {
	mode := "minor"
	if quality == QualityMajor {
		mode = "major"
	}
	return tonic.Name() + " " + mode
}

// FingeringGroup returns the fingering pattern group (1-3) for a scale
func FingeringGroup(tonic theory.Pitch, quality string) int {
	if g, ok := fingeringGroups[fingeringName(tonic, quality)]; ok {
		return g
	}
	return 1
}

// ScaleFingering assigns finger numbers to a scale from degree tables
type ScaleFingering struct {
	scale  *Scale
	detail FingeringDetail
	table  presets.FingeringTable
	group  int
}

func NewScaleFingering(s *Scale, detail FingeringDetail) (*ScaleFingering, error) {
	tables, err := presetLoader.GetFingerings()
	if err != nil {
		return nil, err
	}
	tonic := s.scale.Tonic
	group := FingeringGroup(tonic, s.Quality)
	table, ok := tables.Lookup(fingeringName(tonic, s.Quality), group)
	if !ok {
		return nil, fmt.Errorf("no fingering for %s", fingeringName(tonic, s.Quality))
	}
	return &ScaleFingering{scale: s, detail: detail, table: table, group: group}, nil
}

// Group returns the fingering group used when no scale table exists
func (f *ScaleFingering) Group() int {
	return f.group
}

// Fingers returns the finger for each pitched note of a hand, in order
func (f *ScaleFingering) Fingers(h Hand) []int {
	notes := f.scale.Staff(h).PitchedNotes()
	if len(notes) == 0 {
		return nil
	}

	hand := f.table.Right
	if h == LeftHand {
		hand = f.table.Left
	}

	lowest, highest := notes[0].Pitch().MIDI(), notes[0].Pitch().MIDI()
	for _, n := range notes {
		lowest = min(lowest, n.Pitch().MIDI())
		highest = max(highest, n.Pitch().MIDI())
	}

	fingers := make([]int, len(notes))
	for i, n := range notes {
		fingers[i] = hand.Finger(f.scale.scale.Degree(n.Pitch()))
		// the extremes can appear at both ends of the run
		switch midi := n.Pitch().MIDI(); {
		case midi == highest && hand.Top > 0:
			fingers[i] = hand.Top
		case midi == lowest && hand.Bottom > 0:
			fingers[i] = hand.Bottom
		}
	}
	return fingers
}

// Apply annotates both hands according to the detail level
func (f *ScaleFingering) Apply() {
	if f.detail == FingeringNone {
		return
	}
	for _, h := range []Hand{LeftHand, RightHand} {
		notes := f.scale.Staff(h).PitchedNotes()
		fingers := f.Fingers(h)
		placement := notation.Above
		if h == LeftHand {
			placement = notation.Below
		}
		for i, n := range notes {
			if fingers[i] == 0 || !f.shown(fingers, i) {
				continue
			}
			n.AddFingering(notation.Fingering{Finger: fingers[i], Placement: placement})
		}
	}
}

// shown reports whether note i is annotated. Minimal detail keeps the
// ends, every thumb and the finger leading into a thumb.
func (f *ScaleFingering) shown(fingers []int, i int) bool {
	if f.detail != FingeringMinimal {
		return true
	}
	last := len(fingers) - 1
	return i == 0 || i == last || fingers[i] == 1 || (i < last && fingers[i+1] == 1)
}
