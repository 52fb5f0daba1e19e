package exercises

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/conbrio/conbrio-api/internal/theory"
)

func noteNames(notes []*notation.Note) []string {
	res := make([]string, len(notes))
	for i, n := range notes {
		res[i] = n.Pitch().NameWithOctave()
	}
	return res
}

func assertMonotonic(t *testing.T, notes []*notation.Note, turn int) {
	t.Helper()
	for i := 1; i < len(notes); i++ {
		prev, cur := notes[i-1].Pitch(), notes[i].Pitch()
		if i <= turn {
			assert.True(t, cur.Above(prev), "note %d %s should rise from %s", i, cur, prev)
		} else {
			assert.True(t, cur.Below(prev), "note %d %s should fall from %s", i, cur, prev)
		}
	}
}

func TestNewScale_CMajor(t *testing.T) {
	s, err := NewScale(ScaleOptions{Tonic: "c", Quality: "major"})
	require.NoError(t, err)

	rh := s.RightHand().PitchedNotes()
	lh := s.LeftHand().PitchedNotes()
	require.Len(t, rh, 29)
	require.Len(t, lh, 29)

	assert.Equal(t, []string{"C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5"}, noteNames(rh[:8]))
	assert.Equal(t, "C6", rh[14].Pitch().NameWithOctave())
	assert.Equal(t, "C4", rh[28].Pitch().NameWithOctave())
	assert.Equal(t, "C3", lh[0].Pitch().NameWithOctave())
	assertMonotonic(t, rh, 14)

	assert.Equal(t, theory.Eighth, rh[0].Duration)
	assert.Equal(t, theory.Quarter, rh[28].Duration)
	assert.Equal(t, notation.TimeSignature{Beats: 15, BeatType: 4, Hidden: true}, s.Score.Time)
	assert.Equal(t, theory.Duration(15), s.RightHand().Length())
}

func TestNewScale_MelodicMinorDropsOctave(t *testing.T) {
	s, err := NewScale(ScaleOptions{Tonic: "ab", Quality: "melodic", Octaves: 1})
	require.NoError(t, err)

	got := noteNames(s.RightHand().PitchedNotes())
	want := []string{
		"Ab3", "Bb3", "Cb4", "Db4", "Eb4", "F4", "G4", "Ab4",
		"Gb4", "Fb4", "Eb4", "Db4", "Cb4", "Bb3", "Ab3",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("melodic minor mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, -7, s.Key.Sharps())
	assert.Equal(t, "Ab", s.Tonic)
}

func TestNewScale_Contrary(t *testing.T) {
	s, err := NewScale(ScaleOptions{Tonic: "C", Quality: "harmonic", Style: "standard", Contrary: true})
	require.NoError(t, err)

	lh := s.LeftHand().PitchedNotes()
	require.Len(t, lh, 29)
	assert.Equal(t, "C4", lh[0].Pitch().NameWithOctave())
	assert.Equal(t, "B3", lh[1].Pitch().NameWithOctave())
	assert.Equal(t, "C2", lh[14].Pitch().NameWithOctave())
	assert.Equal(t, "C4", lh[28].Pitch().NameWithOctave())
	assert.Equal(t, theory.Quarter, lh[28].Duration)
	assert.Equal(t, theory.Sixteenth, lh[0].Duration)
	assert.False(t, s.Score.Time.Hidden)
}

func TestNewScale_SeparatedByAndArticulation(t *testing.T) {
	third := theory.MustInterval("-M10")
	s, err := NewScale(ScaleOptions{Tonic: "G", Quality: "major", SeparatedBy: &third, Articulation: notation.Staccato})
	require.NoError(t, err)

	assert.Equal(t, "G3", s.RightHand().PitchedNotes()[0].Pitch().NameWithOctave())
	assert.Equal(t, "E2", s.LeftHand().PitchedNotes()[0].Pitch().NameWithOctave())
	for _, n := range s.LeftHand().PitchedNotes() {
		assert.Equal(t, []notation.Articulation{notation.Staccato}, n.Articulations)
	}
}

func TestNewScale_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts ScaleOptions
		err  error
	}{
		{"quality", ScaleOptions{Tonic: "C", Quality: "dorian"}, ErrInvalidQuality},
		{"style", ScaleOptions{Tonic: "C", Quality: "major", Style: "Trinity"}, ErrInvalidStyle},
		{"tonic", ScaleOptions{Tonic: "H", Quality: "major"}, ErrInvalidTonic},
		{"octaves", ScaleOptions{Tonic: "C", Quality: "major", Octaves: 9}, ErrInvalidOctaves},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScale(tt.opts)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBeamInGroups(t *testing.T) {
	e := newExercise("", theory.KeyFromSharps(0, theory.Major), SingleStaff, nil)
	for _, name := range []string{"C4", "D4", "E4", "F4", "G4"} {
		e.RightHand().Append(notation.NewNote(theory.MustPitch(name), theory.Sixteenth))
	}
	e.RightHand().Append(notation.NewNote(theory.MustPitch("A4"), theory.Quarter))

	e.BeamInGroups(4, 2)
	notes := e.RightHand().Notes()
	assert.Equal(t, []notation.BeamType{notation.BeamBegin, notation.BeamBegin}, notes[0].Beams)
	assert.Equal(t, []notation.BeamType{notation.BeamContinue, notation.BeamContinue}, notes[1].Beams)
	assert.Equal(t, []notation.BeamType{notation.BeamEnd, notation.BeamEnd}, notes[3].Beams)
	assert.Empty(t, notes[4].Beams, "a lone note gets no beam")
	assert.Empty(t, notes[5].Beams)
}

func TestBeamInGroups_LastNoteEnds(t *testing.T) {
	e := newExercise("", theory.KeyFromSharps(0, theory.Major), SingleStaff, nil)
	for _, name := range []string{"C4", "D4", "E4", "F4", "G4", "A4"} {
		e.RightHand().Append(notation.NewNote(theory.MustPitch(name), theory.Eighth))
	}
	e.BeamInGroups(4, 1)
	notes := e.RightHand().Notes()
	assert.Equal(t, []notation.BeamType{notation.BeamBegin}, notes[4].Beams)
	assert.Equal(t, []notation.BeamType{notation.BeamEnd}, notes[5].Beams)
}

func TestInsertCourtesyClefs(t *testing.T) {
	s, err := NewScale(ScaleOptions{Tonic: "C", Quality: "major"})
	require.NoError(t, err)

	// Left hand C3-C5: G4 at 5.5 beats, A3 on the way down at 11.5
	s.InsertCourtesyClefs(DefaultTrebleThreshold, DefaultBassThreshold, 2)
	lh := s.LeftHand()
	assert.Equal(t, notation.BassClef, lh.ClefAt(3.5))
	assert.Equal(t, notation.TrebleClef, lh.ClefAt(4))
	assert.Equal(t, notation.TrebleClef, lh.ClefAt(9.5))
	assert.Equal(t, notation.BassClef, lh.ClefAt(10))
	assert.Equal(t, notation.TrebleClef, s.RightHand().ClefAt(10))
}

func TestScaleFingering_Full(t *testing.T) {
	s, err := NewScale(ScaleOptions{Tonic: "C", Quality: "major"})
	require.NoError(t, err)

	f, err := NewScaleFingering(s, FingeringFull)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Group())

	rh := f.Fingers(RightHand)
	assert.Equal(t, []int{1, 2, 3, 1, 2, 3, 4, 1}, rh[:8])
	assert.Equal(t, 5, rh[14])
	assert.Equal(t, 1, rh[28])

	lh := f.Fingers(LeftHand)
	assert.Equal(t, 5, lh[0])
	assert.Equal(t, 4, lh[1])
	assert.Equal(t, 1, lh[7])
	assert.Equal(t, 5, lh[28])

	f.Apply()
	first := s.RightHand().PitchedNotes()[0]
	require.Len(t, first.Fingerings, 1)
	assert.Equal(t, notation.Above, first.Fingerings[0].Placement)
	assert.Equal(t, notation.Below, s.LeftHand().PitchedNotes()[0].Fingerings[0].Placement)
}

func TestScaleFingering_GroupTable(t *testing.T) {
	s, err := NewScale(ScaleOptions{Tonic: "Bb", Quality: "major", Fingering: FingeringNone})
	require.NoError(t, err)

	f, err := NewScaleFingering(s, FingeringFull)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Group())

	rh := f.Fingers(RightHand)
	assert.Equal(t, []int{2, 1, 2, 3, 1, 2, 3, 4}, rh[:8], "Bb starts on 2 and turns over on 4")
	assert.Equal(t, 4, rh[14])
	assert.Equal(t, 2, rh[len(rh)-1])
	assert.Equal(t, 3, f.Fingers(LeftHand)[0])
}

func TestScaleFingering_Minimal(t *testing.T) {
	s, err := NewScale(ScaleOptions{Tonic: "C", Quality: "major", Fingering: FingeringMinimal})
	require.NoError(t, err)
	_, err = s.Render()
	require.NoError(t, err)

	notes := s.RightHand().PitchedNotes()
	annotated := 0
	for _, n := range notes {
		annotated += len(n.Fingerings)
	}
	assert.Less(t, annotated, len(notes))
	assert.NotEmpty(t, notes[0].Fingerings)
	assert.NotEmpty(t, notes[len(notes)-1].Fingerings)
	assert.Empty(t, notes[1].Fingerings, "D4 finger 2 is not near a thumb")
	assert.NotEmpty(t, notes[2].Fingerings, "E4 leads into the thumb on F4")
}

func TestFingeringGroup(t *testing.T) {
	assert.Equal(t, 1, FingeringGroup(theory.MustPitch("C"), QualityMajor))
	assert.Equal(t, 2, FingeringGroup(theory.MustPitch("B"), QualityMinor))
	assert.Equal(t, 2, FingeringGroup(theory.MustPitch("C#"), QualityMelodic))
	assert.Equal(t, 3, FingeringGroup(theory.MustPitch("Bb"), QualityMajor))
	assert.Equal(t, 3, FingeringGroup(theory.MustPitch("F"), QualityHarmonic))

	_, err := ParseFingeringDetail("some")
	assert.ErrorIs(t, err, ErrInvalidFingering)
	d, err := ParseFingeringDetail("")
	require.NoError(t, err)
	assert.Equal(t, FingeringFull, d)
}

func TestScaleRender(t *testing.T) {
	tempo := &notation.Tempo{BPM: 80, Referent: theory.Quarter}
	s, err := NewScale(ScaleOptions{Tonic: "ab", Quality: "melodic", Tempo: tempo})
	require.NoError(t, err)

	xml, err := s.Render()
	require.NoError(t, err)
	assert.Contains(t, xml, `<time print-object="no">`)
	assert.Contains(t, xml, "<fingering")
	assert.Contains(t, xml, "<beam number=\"1\">begin</beam>")
	assert.Contains(t, xml, "<per-minute>80</per-minute>")

	again, err := s.Render()
	require.NoError(t, err)
	assert.Equal(t, xml, again)

	data, err := s.RenderMIDI()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "MThd"))
}

func TestNewArpeggio_CMajor(t *testing.T) {
	a, err := NewArpeggio(ArpeggioOptions{Tonic: "C", Quality: "major"})
	require.NoError(t, err)

	want := []string{"C4", "E4", "G4", "C5", "E5", "G5", "C6", "G5", "E5", "C5", "G4", "E4", "C4"}
	if diff := cmp.Diff(want, noteNames(a.RightHand().PitchedNotes())); diff != "" {
		t.Errorf("arpeggio mismatch (-want +got):\n%s", diff)
	}
	lh := a.LeftHand().PitchedNotes()
	assert.Equal(t, "C3", lh[0].Pitch().NameWithOctave())
	assert.Equal(t, theory.Quarter, lh[len(lh)-1].Duration)
	assert.Equal(t, 7, a.Score.Time.Beats)
	assert.True(t, a.Score.Time.Hidden)
}

func TestNewArpeggio_DominantResolves(t *testing.T) {
	a, err := NewArpeggio(ArpeggioOptions{Tonic: "G", Quality: "dominant"})
	require.NoError(t, err)

	rh := noteNames(a.RightHand().PitchedNotes())
	require.Len(t, rh, 17)
	assert.Equal(t, []string{"G3", "B3", "D4", "F4"}, rh[:4])
	assert.Equal(t, "G5", rh[8])
	assert.Equal(t, "C4", rh[16])
	assert.Equal(t, 0, a.Key.Sharps())
	assert.Equal(t, 9, a.Score.Time.Beats)

	cooke, err := NewArpeggio(ArpeggioOptions{Tonic: "G", Quality: "dominant", Style: "Cooke"})
	require.NoError(t, err)
	cookeNotes := cooke.RightHand().PitchedNotes()
	assert.Equal(t, "G3", cookeNotes[len(cookeNotes)-1].Pitch().NameWithOctave())
}

func TestNewArpeggio_Diminished(t *testing.T) {
	a, err := NewArpeggio(ArpeggioOptions{Tonic: "C", Quality: "diminished", Octaves: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"C4", "Eb4", "Gb4", "Bbb4", "C5", "Bbb4", "Gb4", "Eb4", "C4"}, noteNames(a.RightHand().PitchedNotes()))
	assert.Equal(t, 0, a.Key.Sharps())
}

func TestNewArpeggio_InversionAndOctaves(t *testing.T) {
	a, err := NewArpeggio(ArpeggioOptions{Tonic: "C", Quality: "major", Inversion: 1})
	require.NoError(t, err)
	rh := noteNames(a.RightHand().PitchedNotes())
	assert.Equal(t, []string{"E4", "G4", "C5", "E5", "G5", "C6", "E6"}, rh[:7])

	wide, err := NewArpeggio(ArpeggioOptions{Tonic: "C", Quality: "minor", Octaves: 3})
	require.NoError(t, err)
	assert.Equal(t, "C3", wide.RightHand().PitchedNotes()[0].Pitch().NameWithOctave())
	assert.Equal(t, "Eb3", wide.RightHand().PitchedNotes()[1].Pitch().NameWithOctave())

	_, err = NewArpeggio(ArpeggioOptions{Tonic: "C", Quality: "major", Inversion: 3})
	assert.ErrorIs(t, err, ErrInvalidInversion)
	_, err = NewArpeggio(ArpeggioOptions{Tonic: "C", Quality: "sus4"})
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestArpeggioRender(t *testing.T) {
	a, err := NewArpeggio(ArpeggioOptions{Tonic: "A", Quality: "minor", Tempo: &notation.Tempo{BPM: 110, Referent: theory.Half}})
	require.NoError(t, err)

	xml, err := a.Render()
	require.NoError(t, err)
	assert.Contains(t, xml, "<beat-unit>half</beat-unit>")
	assert.Contains(t, xml, `<sound tempo="220">`)

	// the left hand climbs to A4 in treble and is back in bass by the end
	assert.Equal(t, notation.TrebleClef, a.LeftHand().ClefAt(2))
	assert.Equal(t, notation.BassClef, a.LeftHand().ClefAt(a.LeftHand().Length()))
}

func TestCommonToneChords(t *testing.T) {
	chords := CommonToneChords(theory.MustPitch("C4"))
	require.Len(t, chords, 12)
	for _, c := range chords[:7] {
		assert.Equal(t, 3, c.Len())
	}
	for _, c := range chords[7:] {
		assert.Equal(t, 4, c.Len())
		assert.Equal(t, "C4", c.Pitches[0].NameWithOctave())
	}

	g := CommonToneChords(theory.MustPitch("G4"))
	assert.Equal(t, "G4", g[0].Pitches[0].NameWithOctave())
	assert.Equal(t, "G3", g[7].Pitches[0].NameWithOctave())
}

func TestKeyFromChord(t *testing.T) {
	c4 := theory.MustPitch("C4")
	iv := theory.MustInterval
	tests := []struct {
		name  string
		chord theory.Chord
		key   string
	}{
		{"major", theory.ChordFromIntervals(c4, iv("M3"), iv("p5")), "C major"},
		{"minor", theory.ChordFromIntervals(c4, iv("m3"), iv("p5")), "C minor"},
		{"augmented", theory.ChordFromIntervals(c4, iv("M3"), iv("a5")), "C major"},
		{"second inversion minor", theory.ChordFromIntervals(c4, iv("p4"), iv("m6")), "F minor"},
		{"dominant seventh", theory.ChordFromIntervals(c4, iv("M3"), iv("p5"), iv("m7")), "F major"},
		{"diminished seventh", theory.ChordFromIntervals(c4, iv("a2"), iv("a4"), iv("M6")), "G major"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, KeyFromChord(tt.chord).String())
		})
	}
}

func TestChordSeries(t *testing.T) {
	series := ChordSeries(theory.ChordFromIntervals(theory.MustPitch("C4"), theory.MajorThird, theory.Fifth))
	require.Len(t, series, 7)

	voicings := make([]string, len(series))
	for i, c := range series {
		var names []string
		for _, p := range c.Pitches {
			names = append(names, p.NameWithOctave())
		}
		voicings[i] = strings.Join(names, " ")
	}
	want := []string{
		"C4 E4 G4", "E4 G4 C5", "G4 C5 E5", "C5 E5 G5",
		"G4 C5 E5", "E4 G4 C5", "C4 E4 G4",
	}
	if diff := cmp.Diff(want, voicings); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestNewChordExercise(t *testing.T) {
	e, err := NewChordExercise("ab")
	require.NoError(t, err)

	assert.Equal(t, "Ab", e.Tonic)
	require.Len(t, e.Chords, 12)
	assert.Equal(t, "Ab4", e.Chords[0].Pitches[0].NameWithOctave())
	assert.Equal(t, "Ab3", e.Chords[7].Pitches[0].NameWithOctave())

	staff := e.RightHand()
	assert.Len(t, staff.Notes(), 7*7+5*9)
	assert.Equal(t, theory.Duration(7*16+5*20), staff.Length())
	assert.Equal(t, theory.Whole, staff.Notes()[6].Duration)
	assert.Equal(t, -4, e.Score.Key.Sharps())
	assert.Equal(t, "Ab minor", e.Score.KeyAt(16).String())

	first := staff.Notes()[0]
	require.Len(t, first.Fingerings, 6)
	assert.Equal(t, notation.Fingering{Finger: 1, Placement: notation.Above, Substitution: true, Member: 0}, first.Fingerings[0])
	assert.Equal(t, notation.Fingering{Finger: 5, Placement: notation.Below, Alternate: true, Member: 0}, first.Fingerings[3])

	xml, err := e.Render()
	require.NoError(t, err)
	assert.Contains(t, xml, `<print new-system="yes">`)
	assert.Contains(t, xml, `alternate="yes"`)
	assert.Contains(t, xml, `substitution="yes"`)
}

func TestNewChordExercise_LowTonics(t *testing.T) {
	for _, tonic := range []string{"a", "B", "bb"} {
		e, err := NewChordExercise(tonic)
		require.NoError(t, err)
		assert.Equal(t, 3, e.Chords[0].Pitches[0].Octave, tonic)
	}
	_, err := NewChordExercise("")
	assert.ErrorIs(t, err, ErrInvalidTonic)
	_, err = NewChordExercise("q")
	assert.ErrorIs(t, err, ErrInvalidTonic)
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestNewRandomNote(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		opts := DefaultRandomNoteOptions()
		opts.MinNote = "C2"
		opts.MaxNote = "C6"
		opts.Accidentals = false
		opts.Rand = seeded(seed)

		r, err := NewRandomNote(opts)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, r.Pitch.MIDI(), 36)
		assert.LessOrEqual(t, r.Pitch.MIDI(), 84)
		assert.Equal(t, 0, r.Signature.Alter(r.Pitch.Step)-r.Pitch.Alter, "pitch %s is diatonic", r.Pitch)
		assert.GreaterOrEqual(t, r.Signature.Sharps, -7)
		assert.LessOrEqual(t, r.Signature.Sharps, 7)

		if r.Pitch.Below(theory.MustPitch("Ab3")) {
			assert.Equal(t, LeftHand, r.Hand)
		}
		if r.Pitch.Above(theory.MustPitch("F#4")) {
			assert.Equal(t, RightHand, r.Hand)
		}

		played := r.Staff(r.Hand).Notes()
		require.Len(t, played, 1)
		assert.Equal(t, theory.Whole, played[0].Duration)
		other := r.Staff(1 - r.Hand).Notes()
		require.Len(t, other, 1)
		assert.True(t, other[0].IsRest())
	}
}

func TestNewRandomNote_ForcedHands(t *testing.T) {
	low, err := NewRandomNote(RandomNoteOptions{MinNote: "C2", MaxNote: "C2", Rand: seeded(1)})
	require.NoError(t, err)
	assert.Equal(t, LeftHand, low.Hand)
	assert.Equal(t, 36, low.Pitch.MIDI())

	high, err := NewRandomNote(RandomNoteOptions{MinNote: "C♯6", MaxNote: "D6", MaxSharps: 0, Rand: seeded(2)})
	require.NoError(t, err)
	assert.Equal(t, RightHand, high.Hand)
	assert.Equal(t, "D6", high.Pitch.NameWithOctave())

	xml, err := high.Render()
	require.NoError(t, err)
	assert.Contains(t, xml, `<rest measure="yes">`)
}

func TestNewRandomNote_Accidentals(t *testing.T) {
	seen := map[int]bool{}
	for seed := uint64(0); seed < 100; seed++ {
		r, err := NewRandomNote(RandomNoteOptions{MinNote: "C4", MaxNote: "C5", Accidentals: true, Rand: seeded(seed)})
		require.NoError(t, err)
		seen[r.Pitch.Alter] = true
		assert.LessOrEqual(t, r.Pitch.Alter, 2)
		assert.GreaterOrEqual(t, r.Pitch.Alter, -2)
	}
	assert.Len(t, seen, 5)
}

func TestNewRandomNote_Errors(t *testing.T) {
	_, err := NewRandomNote(RandomNoteOptions{MinNote: "C#4", MaxNote: "C#4"})
	assert.ErrorIs(t, err, ErrEmptyRange)

	_, err = NewRandomNote(RandomNoteOptions{MinNote: "H9", MaxNote: "C5"})
	assert.ErrorIs(t, err, ErrInvalidNote)

	_, err = NewRandomNote(RandomNoteOptions{MaxSharps: 8, MinNote: "C4", MaxNote: "C5"})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNewRandomNote_OutsideKeyboard(t *testing.T) {
	for _, tt := range []struct{ min, max string }{
		{"C4", "C300000"},
		{"G0", "C4"},
		{"C4", "D8"},
		{"Cb0", "C4"},
	} {
		_, err := NewRandomNote(RandomNoteOptions{MinNote: tt.min, MaxNote: tt.max, Rand: seeded(1)})
		assert.ErrorIs(t, err, ErrInvalidNote, "%s to %s", tt.min, tt.max)
	}

	low, err := NewRandomNote(RandomNoteOptions{MinNote: "A0", MaxNote: "A0", Rand: seeded(1)})
	require.NoError(t, err)
	assert.Equal(t, 21, low.Pitch.MIDI())

	high, err := NewRandomNote(RandomNoteOptions{MinNote: "C8", MaxNote: "C8", Rand: seeded(1)})
	require.NoError(t, err)
	assert.Equal(t, 108, high.Pitch.MIDI())
}

func TestChromaticNotes(t *testing.T) {
	notes := ChromaticNotes()
	require.Len(t, notes, 88)
	assert.Equal(t, "A0", notes[0])
	assert.Equal(t, "A♯0", notes[1])
	assert.Equal(t, "C8", notes[87])
}
