package exercises

import (
	"fmt"
	"slices"
	"strings"

	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/conbrio/conbrio-api/internal/theory"
)

var (
	triadShapes = [][]string{
		{"M3", "p5"},
		{"m3", "p5"},
		{"m3", "m6"},
		{"M3", "m6"},
		{"M3", "M6"},
		{"p4", "M6"},
		{"p4", "m6"},
	}
	seventhShapes = [][]string{
		{"M3", "p5", "m7"},
		{"m3", "d5", "m6"},
		{"m3", "p4", "M6"},
		{"M2", "a4", "M6"},
		{"a2", "a4", "M6"},
	}

	rightHandFingers = map[int][]int{3: {1, 3, 5}, 4: {1, 2, 3, 5}}
	leftHandFingers  = map[int][]int{3: {5, 3, 1}, 4: {5, 3, 2, 1}}
)

// ChordExercise is the common-tone chord drill: every chord shares the
// tonic note and is played through its inversions up and back
type ChordExercise struct {
	*Exercise
	Chords []theory.Chord
}

// CommonToneChords builds seven triads and five seventh chords that all
// contain the given note. Seventh chords on G or Ab start an octave lower.
func CommonToneChords(note theory.Pitch) []theory.Chord {
	build := func(bass theory.Pitch, shapes [][]string) []theory.Chord {
		chords := make([]theory.Chord, 0, len(shapes))
		for _, shape := range shapes {
			ivs := make([]theory.Interval, len(shape))
			for i, name := range shape {
				ivs[i] = theory.MustInterval(name)
			}
			chords = append(chords, theory.ChordFromIntervals(bass, ivs...))
		}
		return chords
	}

	chords := build(note, triadShapes)
	if name := note.Name(); name == "G" || name == "Ab" {
		note = note.Transpose(theory.OctaveDown)
	}
	return append(chords, build(note, seventhShapes)...)
}

// KeyFromChord picks the key a chord is written in
func KeyFromChord(c theory.Chord) theory.Key {
	root := c.Root().WithOctave(theory.DefaultOctave)
	switch c.Quality() {
	case theory.QualityAugmented:
		return theory.Key{Tonic: root, Mode: theory.Major}
	case theory.QualityDiminished:
		return theory.Key{Tonic: c.Bass().Transpose(theory.Fifth).WithOctave(theory.DefaultOctave), Mode: theory.Major}
	}
	if _, ok := c.Seventh(); ok {
		return theory.Key{Tonic: root.Transpose(theory.Fourth).WithOctave(theory.DefaultOctave), Mode: theory.Major}
	}
	if c.Quality() == theory.QualityMinor {
		return theory.Key{Tonic: root, Mode: theory.Minor}
	}
	return theory.Key{Tonic: root, Mode: theory.Major}
}

// ChordSeries returns the chord, each inversion upward, then each
// inversion back down to the start
func ChordSeries(c theory.Chord) []theory.Chord {
	c = c.SortAscending()
	series := []theory.Chord{c}
	pitches := slices.Clone(c.Pitches)
	n := len(pitches)

	for i := 0; i < n; i++ {
		pitches[0] = pitches[0].Transpose(theory.Octave)
		next := theory.NewChord(pitches...).SortAscending()
		pitches = slices.Clone(next.Pitches)
		series = append(series, next)
	}
	for i := n; i > 0; i-- {
		pitches[n-1] = pitches[n-1].Transpose(theory.OctaveDown)
		next := theory.NewChord(pitches...).SortAscending()
		pitches = slices.Clone(next.Pitches)
		series = append(series, next)
	}
	return series
}

// NewChordExercise lays out every common-tone chord series from the tonic
// on a single treble staff, one series per system
func NewChordExercise(tonic string) (*ChordExercise, error) {
	tonic = strings.TrimSpace(tonic)
	if tonic == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidTonic)
	}
	name := strings.ToUpper(tonic[:1]) + tonic[1:]
	key, err := parseTonic(name, theory.Major)
	if err != nil {
		return nil, err
	}

	octave := theory.DefaultOctave
	switch key.Tonic.Name() {
	case "A", "B", "Bb":
		octave = 3
	}
	chords := CommonToneChords(key.Tonic.WithOctave(octave))

	e := &ChordExercise{
		Exercise: newExercise(key.Tonic.Name()+" common tone chords", key, SingleStaff, nil),
		Chords:   chords,
	}
	e.Tonic = key.Tonic.Name()
	e.Duration = theory.Half
	e.Score.Time = notation.CommonTime

	staff := e.RightHand()
	for _, c := range chords {
		e.Score.InsertKey(staff.Length(), KeyFromChord(c))

		series := ChordSeries(c)
		for i, sc := range series {
			d := theory.Half
			if i == len(series)-1 {
				d = theory.Whole
			}
			staff.Append(fingeredChord(sc, d))
		}
		e.Score.InsertSystemBreak(staff.Length())
	}
	return e, nil
}

// fingeredChord carries the right hand fingering above as a substitution
// and the left hand fingering below as an alternate
func fingeredChord(c theory.Chord, d theory.Duration) *notation.Note {
	n := notation.NewChordNote(c, d)
	size := len(n.Pitches)
	for i, f := range rightHandFingers[size] {
		n.AddFingering(notation.Fingering{Finger: f, Placement: notation.Above, Substitution: true, Member: i})
	}
	for i, f := range leftHandFingers[size] {
		n.AddFingering(notation.Fingering{Finger: f, Placement: notation.Below, Alternate: true, Member: i})
	}
	return n
}
