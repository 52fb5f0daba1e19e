package exercises

import (
	"fmt"
	"slices"
	"strings"

	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/conbrio/conbrio-api/internal/theory"
)

// Arpeggio qualities beyond major and minor
const (
	QualityDominant   = "dominant"
	QualityDiminished = "diminished"
)

// ArpeggioOptions configures an arpeggio. Zero values take defaults: two
// octaves, ABRSM style, root position.
type ArpeggioOptions struct {
	Tonic        string
	Quality      string
	Style        string
	Octaves      int
	Inversion    int
	SeparatedBy  *theory.Interval
	Tempo        *notation.Tempo
	Articulation notation.Articulation
}

// Arpeggio is a broken chord exercise over several octaves
type Arpeggio struct {
	*Exercise
	Style     string
	Inversion int
	Chord     theory.Chord

	rendered bool
}

var (
	arpeggioDropFrom   = theory.MustPitch("F4")
	arpeggioTrebleLow  = theory.MustPitch("F4")
	arpeggioTrebleHigh = theory.MustPitch("G4")
)

func NewArpeggio(opts ArpeggioOptions) (*Arpeggio, error) {
	if opts.Octaves == 0 {
		opts.Octaves = 2
	}
	if err := validateOctaves(opts.Octaves); err != nil {
		return nil, err
	}
	if opts.Style == "" {
		opts.Style = DefaultStyle
	}
	if _, err := presetLoader.GetStyle(opts.Style); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStyle, opts.Style)
	}

	quality := strings.ToLower(opts.Quality)
	var (
		key   theory.Key
		chord theory.Chord
		err   error
	)
	switch quality {
	case QualityMajor:
		if key, err = parseTonic(opts.Tonic, theory.Major); err != nil {
			return nil, err
		}
		chord = theory.ChordFromIntervals(key.PitchFromDegree(1), theory.MajorThird, theory.Fifth)
	case QualityMinor:
		if key, err = parseTonic(opts.Tonic, theory.Minor); err != nil {
			return nil, err
		}
		chord = theory.ChordFromIntervals(key.PitchFromDegree(1), theory.MinorThird, theory.Fifth)
	case QualityDominant:
		home, err := parseTonic(opts.Tonic, theory.Major)
		if err != nil {
			return nil, err
		}
		// Written in the key a fifth below, where the tonic is the dominant
		key = theory.KeyFromSharps(home.Sharps()-1, theory.Major)
		root := key.PitchFromDegree(5).WithOctave(theory.DefaultOctave)
		chord = theory.ChordFromIntervals(root, theory.MajorThird, theory.Fifth, theory.MustInterval("m7"))
	case QualityDiminished:
		home, err := parseTonic(opts.Tonic, theory.Major)
		if err != nil {
			return nil, err
		}
		key = theory.KeyFromSharps(0, theory.Major)
		chord = theory.ChordFromIntervals(home.Tonic, theory.MinorThird, theory.MustInterval("d5"), theory.MustInterval("d7"))
	default:
		return nil, fmt.Errorf("%w: arpeggio quality %q", ErrInvalidQuality, opts.Quality)
	}

	if opts.Inversion < 0 || opts.Inversion >= chord.Len() {
		return nil, fmt.Errorf("%w: %d for a %d-note chord", ErrInvalidInversion, opts.Inversion, chord.Len())
	}

	title := fmt.Sprintf("%s %s arpeggio", chord.Pitches[0].Name(), quality)
	a := &Arpeggio{
		Exercise:  newExercise(title, key, GrandStaff, opts.Tempo),
		Style:     opts.Style,
		Inversion: opts.Inversion,
	}
	a.Tonic = chord.Pitches[0].Name()
	a.Quality = quality
	a.Octaves = opts.Octaves
	a.Duration = theory.Eighth
	a.Articulation = opts.Articulation
	if opts.SeparatedBy != nil {
		a.SeparatedBy = *opts.SeparatedBy
	}

	// Four-note chords need a longer bar
	a.Score.Time = notation.TimeSignature{Beats: 7, BeatType: 4, Hidden: true}
	if chord.Len() == 4 {
		a.Score.Time.Beats = 9
	}

	a.Chord = a.voice(chord)
	a.spell()
	a.ApplyArticulation(a.Articulation)
	return a, nil
}

// voice places the chord so the exercise starts below F4, lowering
// further for wide ranges, then applies the inversion
func (a *Arpeggio) voice(c theory.Chord) theory.Chord {
	c = c.SortAscending()
	if !c.Bass().Below(arpeggioDropFrom) {
		c = c.Transpose(theory.OctaveDown)
	}
	if a.Octaves >= 3 {
		c = c.Transpose(theory.Octaves(-(a.Octaves - 2)))
	}
	if a.Inversion != 0 {
		c = c.Invert(a.Inversion)
	}
	return c.SortAscending()
}

func (a *Arpeggio) spell() {
	var up []theory.Pitch
	c := a.Chord
	for i := 0; i < a.Octaves; i++ {
		up = append(up, c.Pitches...)
		c = c.Transpose(theory.Octave)
	}
	top := a.Chord.Pitches[0].Transpose(theory.Octaves(a.Octaves))

	pitches := slices.Clone(up)
	pitches = append(pitches, top)
	slices.Reverse(up)
	pitches = append(pitches, up...)

	if a.Quality == QualityDominant && strings.EqualFold(a.Style, "ABRSM") {
		// resolve onto the tonic of the key
		pitches[len(pitches)-1] = pitches[len(pitches)-2].Transpose(theory.MustInterval("m2"))
	}

	rh := notesFromPitches(pitches, a.Duration)
	rh[len(rh)-1].Duration = theory.Quarter
	lh := transposeNotes(rh, a.SeparatedBy)

	a.RightHand().Append(rh...)
	a.LeftHand().Append(lh...)
}

func (a *Arpeggio) finish() {
	if a.rendered {
		return
	}
	asc := arpeggioTrebleHigh
	if a.Tonic == "A" || a.Tonic == "Ab" {
		asc = arpeggioTrebleLow
	}
	a.InsertCourtesyClefs(asc, DefaultBassThreshold, 2)
	a.BeamInGroups(4, 1)
	a.rendered = true
}

// Render adds courtesy clefs and beams, then returns MusicXML
func (a *Arpeggio) Render() (string, error) {
	a.finish()
	return a.Exercise.Render()
}

// RenderMIDI returns the finished arpeggio as a MIDI file
func (a *Arpeggio) RenderMIDI() ([]byte, error) {
	a.finish()
	return a.Exercise.RenderMIDI()
}
