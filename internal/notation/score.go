package notation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/conbrio/conbrio-api/internal/theory"
)

var ErrInvalidTimeSignature = errors.New("invalid time signature")

// Clef is a MusicXML clef sign on a staff line
type Clef struct {
	Sign string
	Line int
}

var (
	TrebleClef = Clef{Sign: "G", Line: 2}
	BassClef   = Clef{Sign: "F", Line: 4}
)

// TimeSignature may be hidden when it only drives measure grouping
type TimeSignature struct {
	Beats    int
	BeatType int
	Hidden   bool
}

// CommonTime is 4/4
var CommonTime = TimeSignature{Beats: 4, BeatType: 4}

// ParseTimeSignature parses "7/4" style text
func ParseTimeSignature(text string) (TimeSignature, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(text), "/")
	if !ok {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, text)
	}
	beats, err1 := strconv.Atoi(num)
	beatType, err2 := strconv.Atoi(den)
	if err1 != nil || err2 != nil || beats <= 0 || beatType <= 0 || beatType&(beatType-1) != 0 {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, text)
	}
	return TimeSignature{Beats: beats, BeatType: beatType}, nil
}

// BarLength returns the measure length in quarter notes
func (ts TimeSignature) BarLength() theory.Duration {
	return theory.Duration(ts.Beats) * 4 / theory.Duration(ts.BeatType)
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Beats, ts.BeatType)
}

// Tempo is a metronome mark: BPM beats of the referent duration per minute
type Tempo struct {
	BPM      float64
	Referent theory.Duration
}

// QuarterBPM converts the mark to quarter notes per minute
func (t Tempo) QuarterBPM() float64 {
	return t.BPM * float64(t.Referent)
}

type clefChange struct {
	offset theory.Duration
	clef   Clef
}

type keyChange struct {
	offset theory.Duration
	key    theory.Key
}

type tempoMark struct {
	offset theory.Duration
	tempo  Tempo
}

// Staff is one line of music: notes appended in sequence plus clef
// changes anchored at offsets
type Staff struct {
	Name  string
	Clef  Clef
	notes []*Note
	clefs []clefChange
	end   theory.Duration
}

func NewStaff(name string, clef Clef) *Staff {
	return &Staff{Name: name, Clef: clef}
}

// Append adds notes after the current end of the staff
func (s *Staff) Append(notes ...*Note) {
	for _, n := range notes {
		n.offset = s.end
		s.end += n.Duration
		s.notes = append(s.notes, n)
	}
}

// Notes returns the staff's notes and rests in order
func (s *Staff) Notes() []*Note {
	return s.notes
}

// PitchedNotes returns the notes that are not rests
func (s *Staff) PitchedNotes() []*Note {
	var res []*Note
	for _, n := range s.notes {
		if !n.IsRest() {
			res = append(res, n)
		}
	}
	return res
}

// Length returns the total duration of the staff
func (s *Staff) Length() theory.Duration {
	return s.end
}

// InsertClef places a clef change at an offset. A later insert at the
// same offset replaces the earlier one.
func (s *Staff) InsertClef(offset theory.Duration, clef Clef) {
	for i, c := range s.clefs {
		if c.offset == offset {
			s.clefs[i].clef = clef
			return
		}
	}
	s.clefs = append(s.clefs, clefChange{offset: offset, clef: clef})
	sort.SliceStable(s.clefs, func(i, j int) bool { return s.clefs[i].offset < s.clefs[j].offset })
}

// ClefAt returns the clef in effect at an offset
func (s *Staff) ClefAt(offset theory.Duration) Clef {
	clef := s.Clef
	for _, c := range s.clefs {
		if c.offset > offset {
			break
		}
		clef = c.clef
	}
	return clef
}

// Score holds one staff or a braced pair, plus score-wide key, time,
// tempo and layout marks
type Score struct {
	Title  string
	Key    theory.Key
	Time   TimeSignature
	Staves []*Staff

	keys   []keyChange
	tempos []tempoMark
	breaks []theory.Duration
}

// NewScore builds a single-staff score
func NewScore(title string, key theory.Key, clef Clef) *Score {
	return &Score{
		Title:  title,
		Key:    key,
		Time:   CommonTime,
		Staves: []*Staff{NewStaff("", clef)},
	}
}

// NewGrandStaff builds a piano score: right hand in treble, left hand in bass
func NewGrandStaff(title string, key theory.Key) *Score {
	return &Score{
		Title: title,
		Key:   key,
		Time:  CommonTime,
		Staves: []*Staff{
			NewStaff("right", TrebleClef),
			NewStaff("left", BassClef),
		},
	}
}

func (sc *Score) IsGrandStaff() bool {
	return len(sc.Staves) == 2
}

// Length returns the length of the longest staff
func (sc *Score) Length() theory.Duration {
	var l theory.Duration
	for _, s := range sc.Staves {
		if s.Length() > l {
			l = s.Length()
		}
	}
	return l
}

// InsertKey changes the key from an offset on. A change at offset 0
// replaces the initial key.
func (sc *Score) InsertKey(offset theory.Duration, key theory.Key) {
	if offset == 0 {
		sc.Key = key
		return
	}
	sc.keys = append(sc.keys, keyChange{offset: offset, key: key})
	sort.SliceStable(sc.keys, func(i, j int) bool { return sc.keys[i].offset < sc.keys[j].offset })
}

// KeyAt returns the key in effect at an offset
func (sc *Score) KeyAt(offset theory.Duration) theory.Key {
	key := sc.Key
	for _, k := range sc.keys {
		if k.offset > offset {
			break
		}
		key = k.key
	}
	return key
}

// InsertTempo places a metronome mark above the first staff
func (sc *Score) InsertTempo(offset theory.Duration, t Tempo) {
	sc.tempos = append(sc.tempos, tempoMark{offset: offset, tempo: t})
	sort.SliceStable(sc.tempos, func(i, j int) bool { return sc.tempos[i].offset < sc.tempos[j].offset })
}

// TempoAt returns the mark in effect at an offset, if any
func (sc *Score) TempoAt(offset theory.Duration) (Tempo, bool) {
	var (
		t  Tempo
		ok bool
	)
	for _, m := range sc.tempos {
		if m.offset > offset {
			break
		}
		t, ok = m.tempo, true
	}
	return t, ok
}

// InsertSystemBreak starts a new system at the measure holding offset
func (sc *Score) InsertSystemBreak(offset theory.Duration) {
	sc.breaks = append(sc.breaks, offset)
}
