package notation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/conbrio/conbrio-api/internal/theory"
)

func mustKey(t *testing.T, tonic string, mode theory.Mode) theory.Key {
	t.Helper()
	k, err := theory.NewKey(tonic, mode)
	require.NoError(t, err)
	return k
}

func parseXML(t *testing.T, sc *Score) *xmlquery.Node {
	t.Helper()
	out, err := MusicXML(sc)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<!DOCTYPE score-partwise")

	doc, err := xmlquery.Parse(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func quarterNotes(names ...string) []*Note {
	notes := make([]*Note, len(names))
	for i, n := range names {
		notes[i] = NewNote(theory.MustPitch(n), theory.Quarter)
	}
	return notes
}

func TestMakeMeasures_SplitsAcrossBarline(t *testing.T) {
	sc := NewScore("", mustKey(t, "C", theory.Major), TrebleClef)
	staff := sc.Staves[0]
	staff.Append(quarterNotes("C4", "D4", "E4")...)
	long := NewNote(theory.MustPitch("F4"), theory.Half)
	long.AddArticulation(Accent)
	staff.Append(long)

	measures := sc.MakeMeasures()
	require.Len(t, measures, 2)

	first := measures[0].Staves[0]
	require.Len(t, first, 4)
	assert.True(t, first[3].TieStart)
	assert.False(t, first[3].TieStop)
	assert.Equal(t, theory.Quarter, first[3].Duration)
	assert.Equal(t, []Articulation{Accent}, first[3].Articulations)

	second := measures[1].Staves[0]
	require.Len(t, second, 1)
	assert.True(t, second[0].TieStop)
	assert.False(t, second[0].TieStart)
	assert.Empty(t, second[0].Articulations)
	assert.Equal(t, theory.Duration(0), second[0].Offset())
}

func TestMakeMeasures_PadsShorterStaff(t *testing.T) {
	sc := NewGrandStaff("", mustKey(t, "C", theory.Major))
	sc.Staves[0].Append(quarterNotes("C5", "D5", "E5", "F5")...)
	sc.Staves[1].Append(NewNote(theory.MustPitch("C3"), theory.Half))

	measures := sc.MakeMeasures()
	require.Len(t, measures, 1)
	left := measures[0].Staves[1]
	require.Len(t, left, 2)
	assert.True(t, left[1].IsRest())
	assert.Equal(t, theory.Half, left[1].Duration)
}

func TestMusicXML_Basics(t *testing.T) {
	sc := NewScore("C major", mustKey(t, "C", theory.Major), TrebleClef)
	sc.Staves[0].Append(quarterNotes("C4", "D4", "E4", "F4", "G4")...)

	doc := parseXML(t, sc)

	assert.Equal(t, "4.0", xmlquery.FindOne(doc, "//score-partwise").SelectAttr("version"))
	assert.Equal(t, "C major", xmlquery.FindOne(doc, "//work/work-title").InnerText())
	assert.Len(t, xmlquery.Find(doc, "//measure"), 2)
	assert.Equal(t, "16", xmlquery.FindOne(doc, "//measure[@number='1']/attributes/divisions").InnerText())
	assert.Equal(t, "0", xmlquery.FindOne(doc, "//attributes/key/fifths").InnerText())
	assert.Equal(t, "major", xmlquery.FindOne(doc, "//attributes/key/mode").InnerText())
	assert.Equal(t, "G", xmlquery.FindOne(doc, "//attributes/clef/sign").InnerText())
	assert.Len(t, xmlquery.Find(doc, "//measure[@number='1']/note"), 4)
	assert.Equal(t, "16", xmlquery.FindOne(doc, "//note/duration").InnerText())
	assert.Equal(t, "quarter", xmlquery.FindOne(doc, "//note/type").InnerText())

	barline := xmlquery.FindOne(doc, "//measure[@number='2']/barline/bar-style")
	require.NotNil(t, barline)
	assert.Equal(t, "light-heavy", barline.InnerText())
	assert.Nil(t, xmlquery.FindOne(doc, "//measure[@number='1']/barline"))
}

func TestMusicXML_HiddenTimeSignature(t *testing.T) {
	sc := NewScore("", mustKey(t, "C", theory.Major), TrebleClef)
	sc.Time = TimeSignature{Beats: 15, BeatType: 4, Hidden: true}
	sc.Staves[0].Append(quarterNotes("C4")...)

	doc := parseXML(t, sc)
	tm := xmlquery.FindOne(doc, "//attributes/time")
	require.NotNil(t, tm)
	assert.Equal(t, "no", tm.SelectAttr("print-object"))
	assert.Equal(t, "15", xmlquery.FindOne(tm, "beats").InnerText())
}

func TestMusicXML_Accidentals(t *testing.T) {
	sc := NewScore("", mustKey(t, "G", theory.Major), TrebleClef)
	sc.Staves[0].Append(quarterNotes("F#4", "F4", "F4", "Bb4", "F#4")...)

	doc := parseXML(t, sc)
	notes := xmlquery.Find(doc, "//note")
	require.Len(t, notes, 5)

	accidental := func(n *xmlquery.Node) string {
		if a := xmlquery.FindOne(n, "accidental"); a != nil {
			return a.InnerText()
		}
		return ""
	}
	assert.Equal(t, "", accidental(notes[0]))
	assert.Equal(t, "natural", accidental(notes[1]))
	assert.Equal(t, "", accidental(notes[2]))
	assert.Equal(t, "flat", accidental(notes[3]))
	// new measure resets to the key signature
	assert.Equal(t, "", accidental(notes[4]))
	assert.Equal(t, "1", xmlquery.FindOne(notes[0], "pitch/alter").InnerText())
}

func TestMusicXML_Ties(t *testing.T) {
	sc := NewScore("", mustKey(t, "F", theory.Major), TrebleClef)
	sc.Staves[0].Append(NewNote(theory.MustPitch("C4"), 3))
	sc.Staves[0].Append(NewNote(theory.MustPitch("Bb4"), theory.Half))

	doc := parseXML(t, sc)
	notes := xmlquery.Find(doc, "//note")
	require.Len(t, notes, 3)

	assert.Equal(t, "half", xmlquery.FindOne(notes[0], "type").InnerText())
	assert.Len(t, xmlquery.Find(notes[0], "dot"), 1)
	assert.Equal(t, "start", xmlquery.FindOne(notes[1], "tie").SelectAttr("type"))
	assert.Equal(t, "stop", xmlquery.FindOne(notes[2], "tie").SelectAttr("type"))
	assert.Equal(t, "stop", xmlquery.FindOne(notes[2], "notations/tied").SelectAttr("type"))
	assert.Nil(t, xmlquery.FindOne(notes[2], "accidental"))
}

func TestMusicXML_GrandStaff(t *testing.T) {
	sc := NewGrandStaff("", mustKey(t, "D", theory.Minor))
	sc.Staves[0].Append(quarterNotes("D5", "E5", "F5", "G5")...)
	sc.Staves[1].Append(NewNote(theory.MustPitch("D3"), theory.Whole))

	doc := parseXML(t, sc)

	assert.Equal(t, "2", xmlquery.FindOne(doc, "//attributes/staves").InnerText())
	assert.Equal(t, "-1", xmlquery.FindOne(doc, "//attributes/key/fifths").InnerText())
	clefs := xmlquery.Find(doc, "//attributes/clef")
	require.Len(t, clefs, 2)
	assert.Equal(t, "1", clefs[0].SelectAttr("number"))
	assert.Equal(t, "F", xmlquery.FindOne(clefs[1], "sign").InnerText())

	assert.Equal(t, "64", xmlquery.FindOne(doc, "//backup/duration").InnerText())
	assert.Len(t, xmlquery.Find(doc, "//note[staff='1']"), 4)
	left := xmlquery.Find(doc, "//note[staff='2']")
	require.Len(t, left, 1)
	assert.Equal(t, "2", xmlquery.FindOne(left[0], "voice").InnerText())
}

func TestMusicXML_MeasureRest(t *testing.T) {
	sc := NewGrandStaff("", mustKey(t, "C", theory.Major))
	sc.Staves[0].Append(NewNote(theory.MustPitch("E5"), theory.Whole))
	sc.Staves[1].Append(NewRest(theory.Whole))

	doc := parseXML(t, sc)
	rest := xmlquery.FindOne(doc, "//note/rest")
	require.NotNil(t, rest)
	assert.Equal(t, "yes", rest.SelectAttr("measure"))
}

func TestMusicXML_ChordsFingeringAndArticulations(t *testing.T) {
	sc := NewScore("", mustKey(t, "C", theory.Major), TrebleClef)
	chord := NewChordNote(theory.ChordFromIntervals(theory.MustPitch("C4"), theory.MajorThird, theory.Fifth), theory.Whole)
	for i, f := range []int{1, 3, 5} {
		chord.AddFingering(Fingering{Finger: f, Placement: Above, Member: i})
	}
	chord.AddArticulation(Staccato)
	sc.Staves[0].Append(chord)

	doc := parseXML(t, sc)
	notes := xmlquery.Find(doc, "//note")
	require.Len(t, notes, 3)
	assert.Nil(t, xmlquery.FindOne(notes[0], "chord"))
	assert.NotNil(t, xmlquery.FindOne(notes[1], "chord"))
	assert.NotNil(t, xmlquery.FindOne(notes[0], "notations/articulations/staccato"))

	fingers := xmlquery.Find(doc, "//technical/fingering")
	require.Len(t, fingers, 3)
	assert.Equal(t, "5", fingers[2].InnerText())
	assert.Equal(t, "above", fingers[2].SelectAttr("placement"))
}

func TestMusicXML_BeamsAndTempo(t *testing.T) {
	sc := NewScore("", mustKey(t, "C", theory.Major), TrebleClef)
	sc.InsertTempo(0, Tempo{BPM: 60, Referent: theory.Half})
	types := []BeamType{BeamBegin, BeamContinue, BeamContinue, BeamEnd}
	for i, name := range []string{"C4", "D4", "E4", "F4"} {
		n := NewNote(theory.MustPitch(name), theory.Sixteenth)
		n.SetBeams(types[i], 2)
		sc.Staves[0].Append(n)
	}

	doc := parseXML(t, sc)
	beams := xmlquery.Find(doc, "//note[1]/beam")
	require.Len(t, beams, 2)
	assert.Equal(t, "begin", beams[0].InnerText())
	assert.Equal(t, "2", beams[1].SelectAttr("number"))

	assert.Equal(t, "half", xmlquery.FindOne(doc, "//direction/direction-type/metronome/beat-unit").InnerText())
	assert.Equal(t, "60", xmlquery.FindOne(doc, "//direction/direction-type/metronome/per-minute").InnerText())
	assert.Equal(t, "120", xmlquery.FindOne(doc, "//direction/sound").SelectAttr("tempo"))
}

func TestMusicXML_ClefKeyAndSystemBreak(t *testing.T) {
	sc := NewScore("", mustKey(t, "C", theory.Major), TrebleClef)
	sc.Staves[0].Append(quarterNotes("C4", "D4", "E4", "F4", "G3", "A3", "B3", "C4", "Eb4")...)
	sc.Staves[0].InsertClef(4, BassClef)
	sc.InsertKey(8, mustKey(t, "Eb", theory.Major))
	sc.InsertSystemBreak(8)

	doc := parseXML(t, sc)
	assert.Equal(t, "F", xmlquery.FindOne(doc, "//measure[@number='2']/attributes/clef/sign").InnerText())
	assert.Equal(t, "-3", xmlquery.FindOne(doc, "//measure[@number='3']/attributes/key/fifths").InnerText())
	assert.Equal(t, "yes", xmlquery.FindOne(doc, "//measure[@number='3']/print").SelectAttr("new-system"))
	assert.Nil(t, xmlquery.FindOne(doc, "//measure[@number='3']/note/accidental"))
}

func TestMusicXML_GrandStaffSharesScoreMarks(t *testing.T) {
	sc := NewGrandStaff("", mustKey(t, "C", theory.Major))
	sc.InsertTempo(0, Tempo{BPM: 80, Referent: theory.Quarter})
	sc.Staves[0].Append(quarterNotes("C5", "D5", "E5", "F5", "G5", "A5", "B5", "C6")...)
	sc.Staves[1].Append(quarterNotes("C3", "D3", "E3", "F3", "G3", "A3", "B3", "C4")...)
	sc.InsertKey(4, mustKey(t, "G", theory.Major))
	sc.InsertSystemBreak(4)

	doc := parseXML(t, sc)

	keys := xmlquery.Find(doc, "//measure[@number='2']/attributes/key")
	require.Len(t, keys, 1)
	assert.Equal(t, "1", xmlquery.FindOne(keys[0], "fifths").InnerText())
	assert.Len(t, xmlquery.Find(doc, "//measure[@number='2']/print"), 1)
	assert.Len(t, xmlquery.Find(doc, "//direction/direction-type/metronome"), 1)
}

func TestWriteMIDI(t *testing.T) {
	sc := NewGrandStaff("", mustKey(t, "C", theory.Major))
	sc.InsertTempo(0, Tempo{BPM: 90, Referent: theory.Quarter})
	sc.Staves[0].Append(quarterNotes("C5", "D5")...)
	sc.Staves[0].Append(NewRest(theory.Quarter))
	sc.Staves[0].Append(quarterNotes("E5")...)
	sc.Staves[1].Append(NewChordNote(theory.ChordFromIntervals(theory.MustPitch("C3"), theory.MajorThird), theory.Whole))

	data, err := MIDI(sc)
	require.NoError(t, err)

	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 2)

	type hit struct {
		tick uint64
		key  uint8
	}
	noteOns := func(tr smf.Track) []hit {
		var res []hit
		var abs uint64
		for _, ev := range tr {
			abs += uint64(ev.Delta)
			var ch, key, vel uint8
			if midi.Message(ev.Message).GetNoteOn(&ch, &key, &vel) && vel > 0 {
				res = append(res, hit{abs, key})
			}
		}
		return res
	}

	assert.Equal(t, []hit{{0, 72}, {960, 74}, {2880, 76}}, noteOns(s.Tracks[0]))
	assert.Equal(t, []hit{{0, 48}, {0, 52}}, noteOns(s.Tracks[1]))

	var sawTempo bool
	for _, ev := range s.Tracks[0] {
		var bpm float64
		if ev.Message.GetMetaTempo(&bpm) {
			sawTempo = true
			assert.InDelta(t, 90, bpm, 0.01)
		}
	}
	assert.True(t, sawTempo)
	assert.False(t, s.Tracks[0][0].Message.Is(midi.NoteOnMsg))
}
