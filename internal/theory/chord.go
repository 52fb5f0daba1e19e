package theory

import (
	"slices"
	"strings"
)

// Chord qualities
const (
	QualityMajor      = "major"
	QualityMinor      = "minor"
	QualityDiminished = "diminished"
	QualityAugmented  = "augmented"
	QualityOther      = "other"
)

// Chord is a set of simultaneous pitches in the order given
type Chord struct {
	Pitches []Pitch
}

// NewChord copies the pitches into a chord
func NewChord(pitches ...Pitch) Chord {
	return Chord{Pitches: slices.Clone(pitches)}
}

// ChordFromIntervals stacks the intervals above a bass pitch
func ChordFromIntervals(bass Pitch, ivs ...Interval) Chord {
	c := Chord{Pitches: []Pitch{bass}}
	for _, iv := range ivs {
		c.Pitches = append(c.Pitches, bass.Transpose(iv))
	}
	return c
}

func (c Chord) Len() int {
	return len(c.Pitches)
}

// SortAscending returns a copy ordered from lowest to highest
func (c Chord) SortAscending() Chord {
	res := NewChord(c.Pitches...)
	slices.SortStableFunc(res.Pitches, Pitch.Compare)
	return res
}

// Transpose returns a copy moved by the interval
func (c Chord) Transpose(iv Interval) Chord {
	res := Chord{Pitches: make([]Pitch, len(c.Pitches))}
	for i, p := range c.Pitches {
		res.Pitches[i] = p.Transpose(iv)
	}
	return res
}

// Bass returns the lowest pitch
func (c Chord) Bass() Pitch {
	return c.SortAscending().Pitches[0]
}

// Invert returns the chord in the given inversion, counted from root
// position: each step lifts the current bass an octave.
func (c Chord) Invert(inversion int) Chord {
	res := c.rootPosition()
	for i := 0; i < inversion; i++ {
		res.Pitches[0] = res.Pitches[0].Transpose(Octave)
		res = res.SortAscending()
	}
	return res
}

// rootPosition drops pitches that sit below the root up by octaves until
// the root is the bass
func (c Chord) rootPosition() Chord {
	res := c.SortAscending()
	root := c.Root()
	for res.Pitches[0].Step != root.Step || res.Pitches[0].Alter != root.Alter {
		res.Pitches[0] = res.Pitches[0].Transpose(Octave)
		res = res.SortAscending()
	}
	return res
}

// Root finds the pitch above which every other chord member stacks in
// thirds (a third, fifth or seventh by letter). Falls back to the bass.
func (c Chord) Root() Pitch {
	sorted := c.SortAscending()
	best, bestScore := sorted.Pitches[0], -1
	for _, candidate := range sorted.Pitches {
		score := 0
		for _, other := range sorted.Pitches {
			switch letterDistance(candidate, other) {
			case 0:
			case 2, 4, 6:
				score++
			default:
				score -= len(sorted.Pitches)
			}
		}
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best
}

func letterDistance(from, to Pitch) int {
	return mod(int(to.Step)-int(from.Step), stepsPerOctave)
}

// member returns the chord tone a given number of letters above the root
func (c Chord) member(letters int) (Pitch, bool) {
	root := c.Root()
	for _, p := range c.Pitches {
		if letterDistance(root, p) == letters {
			return p, true
		}
	}
	return Pitch{}, false
}

// semitonesAbove returns the pitch-class distance from root up to p
func semitonesAbove(root, p Pitch) int {
	return mod(p.MIDI()-root.MIDI(), 12)
}

// Third returns the chord's third, if any
func (c Chord) Third() (Pitch, bool) {
	return c.member(2)
}

// Fifth returns the chord's fifth, if any
func (c Chord) Fifth() (Pitch, bool) {
	return c.member(4)
}

// Seventh returns the chord's seventh, if any
func (c Chord) Seventh() (Pitch, bool) {
	return c.member(6)
}

// Quality classifies the triad formed by the root, third and fifth
func (c Chord) Quality() string {
	root := c.Root()
	third, ok := c.Third()
	if !ok {
		return QualityOther
	}
	fifth, hasFifth := c.Fifth()

	t := semitonesAbove(root, third)
	f := 7
	if hasFifth {
		f = semitonesAbove(root, fifth)
	}

	switch {
	case t == 4 && f == 7:
		return QualityMajor
	case t == 3 && f == 7:
		return QualityMinor
	case t == 3 && f == 6:
		return QualityDiminished
	case t == 4 && f == 8:
		return QualityAugmented
	}
	return QualityOther
}

func (c Chord) String() string {
	names := make([]string, len(c.Pitches))
	for i, p := range c.Pitches {
		names[i] = p.NameWithOctave()
	}
	return "<" + strings.Join(names, " ") + ">"
}
