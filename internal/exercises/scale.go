package exercises

import (
	"fmt"
	"strings"

	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/conbrio/conbrio-api/internal/presets"
	"github.com/conbrio/conbrio-api/internal/theory"
)

// Scale qualities
const (
	QualityMajor    = "major"
	QualityMinor    = "minor"
	QualityMelodic  = "melodic"
	QualityHarmonic = "harmonic"
)

// DefaultStyle is used when no style is requested
const DefaultStyle = "ABRSM"

var (
	presetLoader  = presets.Default()
	scaleDropFrom = theory.MustPitch("F4")
)

// ScaleOptions configures a scale exercise. Zero values take defaults:
// two octaves, ABRSM style, full fingering and the left hand an octave
// below the right.
type ScaleOptions struct {
	Tonic        string
	Quality      string
	Style        string
	Octaves      int
	SeparatedBy  *theory.Interval
	Contrary     bool
	Tempo        *notation.Tempo
	Articulation notation.Articulation
	Fingering    FingeringDetail
}

// Scale is a two-handed scale exercise
type Scale struct {
	*Exercise
	Style    presets.Style
	Contrary bool
	Detail   FingeringDetail

	scale    theory.Scale
	rendered bool
}

// NewScale spells the scale for both hands. The bottom note is the tonic
// below F4; the right hand climbs the given number of octaves and comes
// back down.
func NewScale(opts ScaleOptions) (*Scale, error) {
	if opts.Octaves == 0 {
		opts.Octaves = 2
	}
	if err := validateOctaves(opts.Octaves); err != nil {
		return nil, err
	}
	if opts.Style == "" {
		opts.Style = DefaultStyle
	}
	if opts.Fingering == "" {
		opts.Fingering = FingeringFull
	}

	quality := strings.ToLower(opts.Quality)
	mode := theory.Minor
	if quality == QualityMajor {
		mode = theory.Major
	}
	key, err := parseTonic(opts.Tonic, mode)
	if err != nil {
		return nil, err
	}

	var sc theory.Scale
	switch quality {
	case QualityMajor:
		sc = theory.MajorScale(key.Tonic)
	case QualityMinor:
		sc = theory.NaturalMinorScale(key.Tonic)
	case QualityMelodic:
		sc = theory.MelodicMinorScale(key.Tonic)
	case QualityHarmonic:
		sc = theory.HarmonicMinorScale(key.Tonic)
	default:
		return nil, fmt.Errorf("%w: scale quality %q", ErrInvalidQuality, opts.Quality)
	}

	style, err := presetLoader.GetStyle(opts.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStyle, opts.Style)
	}

	title := fmt.Sprintf("%s %s scale", key.Tonic.Name(), sc.Name)
	s := &Scale{
		Exercise: newExercise(title, key, GrandStaff, opts.Tempo),
		Style:    style,
		Contrary: opts.Contrary,
		Detail:   opts.Fingering,
		scale:    sc,
	}
	s.Tonic = key.Tonic.Name()
	s.Quality = quality
	s.Octaves = opts.Octaves
	s.Duration = style.Note
	s.Articulation = opts.Articulation
	if opts.SeparatedBy != nil {
		s.SeparatedBy = *opts.SeparatedBy
	}
	s.Score.Time = style.Time

	s.spell()
	s.ApplyArticulation(s.Articulation)
	return s, nil
}

func (s *Scale) spell() {
	bottom := s.scale.PitchFromDegree(1)
	if !bottom.Below(scaleDropFrom) {
		bottom = bottom.Transpose(theory.OctaveDown)
	}
	top := bottom.Transpose(theory.Octaves(s.Octaves))

	rh := s.updown(bottom, top, theory.Ascending, theory.Descending)

	var lh []*notation.Note
	if s.Contrary {
		lhBottom := bottom.Transpose(theory.Octaves(-s.Octaves))
		lh = s.updown(lhBottom, bottom, theory.Descending, theory.Ascending)
	} else {
		lh = transposeNotes(rh, s.SeparatedBy)
	}

	s.RightHand().Append(rh...)
	s.LeftHand().Append(lh...)
}

// updown walks the scale in one direction then back, without repeating
// the turning note, ending on a quarter
func (s *Scale) updown(lo, hi theory.Pitch, first, second theory.Direction) []*notation.Note {
	notes := notesFromPitches(s.scale.Pitches(lo, hi, first), s.Duration)
	back := notesFromPitches(s.scale.Pitches(lo, hi, second), s.Duration)
	if len(back) > 0 {
		notes = append(notes, back[1:]...)
	}
	if len(notes) > 0 {
		notes[len(notes)-1].Duration = theory.Quarter
	}
	return notes
}

// ApplyFingering annotates both hands at the given detail
func (s *Scale) ApplyFingering(detail FingeringDetail) error {
	f, err := NewScaleFingering(s, detail)
	if err != nil {
		return err
	}
	f.Apply()
	return nil
}

func (s *Scale) finish() error {
	if s.rendered {
		return nil
	}
	s.BeamInGroups(s.Style.BeamGroup, s.Style.BeamLevel)
	if err := s.ApplyFingering(s.Detail); err != nil {
		return err
	}
	s.InsertCourtesyClefs(DefaultTrebleThreshold, DefaultBassThreshold, s.Style.ClefQuantize)
	s.rendered = true
	return nil
}

// Render beams by style, adds fingering and courtesy clefs, then returns
// MusicXML
func (s *Scale) Render() (string, error) {
	if err := s.finish(); err != nil {
		return "", err
	}
	return s.Exercise.Render()
}

// RenderMIDI returns the finished scale as a MIDI file
func (s *Scale) RenderMIDI() ([]byte, error) {
	if err := s.finish(); err != nil {
		return nil, err
	}
	return s.Exercise.RenderMIDI()
}
