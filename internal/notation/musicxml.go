package notation

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/conbrio/conbrio-api/internal/theory"
)

const (
	musicXMLVersion     = "4.0"
	divisionsPerQuarter = 16
	encodingSoftware    = "conbrio-api"
	partID              = "P1"

	musicXMLDoctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">`
)

type xmlScore struct {
	XMLName        xml.Name          `xml:"score-partwise"`
	Version        string            `xml:"version,attr"`
	Work           *xmlWork          `xml:"work,omitempty"`
	Identification xmlIdentification `xml:"identification"`
	PartList       xmlPartList       `xml:"part-list"`
	Parts          []xmlPart         `xml:"part"`
}

type xmlWork struct {
	Title string `xml:"work-title"`
}

type xmlIdentification struct {
	Encoding xmlEncoding `xml:"encoding"`
}

type xmlEncoding struct {
	Software string `xml:"software"`
}

type xmlPartList struct {
	ScoreParts []xmlScorePart `xml:"score-part"`
}

type xmlScorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type xmlPart struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

// xmlMeasure keeps its children in document order, which MusicXML
// relies on for backup and mid-measure attributes
type xmlMeasure struct {
	Number int
	Items  []any
}

func (m xmlMeasure) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "measure"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "number"}, Value: strconv.Itoa(m.Number)}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, item := range m.Items {
		if err := e.Encode(item); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

type xmlPrint struct {
	XMLName   xml.Name `xml:"print"`
	NewSystem string   `xml:"new-system,attr,omitempty"`
}

type xmlAttributes struct {
	XMLName   xml.Name  `xml:"attributes"`
	Divisions int       `xml:"divisions,omitempty"`
	Key       *xmlKey   `xml:"key,omitempty"`
	Time      *xmlTime  `xml:"time,omitempty"`
	Staves    int       `xml:"staves,omitempty"`
	Clefs     []xmlClef `xml:"clef"`
}

type xmlKey struct {
	Fifths int    `xml:"fifths"`
	Mode   string `xml:"mode,omitempty"`
}

type xmlTime struct {
	PrintObject string `xml:"print-object,attr,omitempty"`
	Beats       int    `xml:"beats"`
	BeatType    int    `xml:"beat-type"`
}

type xmlClef struct {
	Number int    `xml:"number,attr,omitempty"`
	Sign   string `xml:"sign"`
	Line   int    `xml:"line"`
}

type xmlDirection struct {
	XMLName       xml.Name         `xml:"direction"`
	Placement     string           `xml:"placement,attr,omitempty"`
	DirectionType xmlDirectionType `xml:"direction-type"`
	Staff         int              `xml:"staff,omitempty"`
	Sound         *xmlSound        `xml:"sound,omitempty"`
}

type xmlDirectionType struct {
	Metronome *xmlMetronome `xml:"metronome,omitempty"`
}

type xmlMetronome struct {
	BeatUnit    string     `xml:"beat-unit"`
	BeatUnitDot []struct{} `xml:"beat-unit-dot"`
	PerMinute   string     `xml:"per-minute"`
}

type xmlSound struct {
	Tempo string `xml:"tempo,attr"`
}

type xmlBackup struct {
	XMLName  xml.Name `xml:"backup"`
	Duration int      `xml:"duration"`
}

type xmlNote struct {
	XMLName    xml.Name      `xml:"note"`
	Chord      *struct{}     `xml:"chord"`
	Pitch      *xmlPitch     `xml:"pitch,omitempty"`
	Rest       *xmlRest      `xml:"rest,omitempty"`
	Duration   int           `xml:"duration"`
	Ties       []xmlTie      `xml:"tie"`
	Voice      string        `xml:"voice,omitempty"`
	Type       string        `xml:"type,omitempty"`
	Dots       []struct{}    `xml:"dot"`
	Accidental string        `xml:"accidental,omitempty"`
	Staff      int           `xml:"staff,omitempty"`
	Beams      []xmlBeam     `xml:"beam"`
	Notations  *xmlNotations `xml:"notations,omitempty"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

type xmlRest struct {
	Measure string `xml:"measure,attr,omitempty"`
}

type xmlTie struct {
	Type string `xml:"type,attr"`
}

type xmlBeam struct {
	Number int    `xml:"number,attr"`
	Value  string `xml:",chardata"`
}

type xmlNotations struct {
	Tied          []xmlTie          `xml:"tied"`
	Articulations *xmlArticulations `xml:"articulations,omitempty"`
	Technical     *xmlTechnical     `xml:"technical,omitempty"`
}

type xmlArticulations struct {
	Accent        *struct{} `xml:"accent"`
	Staccato      *struct{} `xml:"staccato"`
	Tenuto        *struct{} `xml:"tenuto"`
	Staccatissimo *struct{} `xml:"staccatissimo"`
}

type xmlTechnical struct {
	Fingerings []xmlFingering `xml:"fingering"`
}

type xmlFingering struct {
	Placement    string `xml:"placement,attr,omitempty"`
	Alternate    string `xml:"alternate,attr,omitempty"`
	Substitution string `xml:"substitution,attr,omitempty"`
	Value        int    `xml:",chardata"`
}

type xmlBarline struct {
	XMLName  xml.Name `xml:"barline"`
	Location string   `xml:"location,attr"`
	BarStyle string   `xml:"bar-style"`
}

var accidentalNames = map[int]string{
	-2: "flat-flat",
	-1: "flat",
	0:  "natural",
	1:  "sharp",
	2:  "double-sharp",
}

func divisions(d theory.Duration) int {
	return int(math.Round(float64(d) * divisionsPerQuarter))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// MusicXML renders the score as a MusicXML 4.0 partwise document. A grand
// staff becomes a single two-staff part.
func MusicXML(sc *Score) (string, error) {
	doc := xmlScore{
		Version:        musicXMLVersion,
		Identification: xmlIdentification{Encoding: xmlEncoding{Software: encodingSoftware}},
		PartList: xmlPartList{ScoreParts: []xmlScorePart{{
			ID:   partID,
			Name: partName(sc),
		}}},
	}
	if sc.Title != "" {
		doc.Work = &xmlWork{Title: sc.Title}
	}

	w := newMeasureWriter(sc)
	measures := sc.MakeMeasures()
	part := xmlPart{ID: partID}
	for i := range measures {
		part.Measures = append(part.Measures, w.measure(&measures[i], i == len(measures)-1))
	}
	doc.Parts = []xmlPart{part}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode MusicXML: %w", err)
	}
	return xml.Header + musicXMLDoctype + "\n" + string(body) + "\n", nil
}

func partName(sc *Score) string {
	if sc.IsGrandStaff() {
		return "Piano"
	}
	return "Music"
}

// measureWriter carries state across measures: the key used for
// accidentals and the clef currently shown on each staff
type measureWriter struct {
	score *Score
	clefs []Clef
}

func newMeasureWriter(sc *Score) *measureWriter {
	w := &measureWriter{score: sc, clefs: make([]Clef, len(sc.Staves))}
	for i, s := range sc.Staves {
		w.clefs[i] = s.Clef
	}
	return w
}

func (w *measureWriter) measure(m *Measure, last bool) xmlMeasure {
	sc := w.score
	out := xmlMeasure{Number: m.Number}

	if m.NewSystem {
		out.Items = append(out.Items, xmlPrint{NewSystem: "yes"})
	}

	if m.Number == 1 {
		attrs := xmlAttributes{
			Divisions: divisionsPerQuarter,
			Key:       keyElement(sc.Key),
			Time:      timeElement(sc.Time),
		}
		if sc.IsGrandStaff() {
			attrs.Staves = len(sc.Staves)
		}
		for si := range sc.Staves {
			// A clef change at the very start replaces the initial clef
			for _, c := range m.clefs[si] {
				if c.offset < epsilon {
					w.clefs[si] = c.clef
				}
			}
			attrs.Clefs = append(attrs.Clefs, w.clefElement(si, w.clefs[si]))
		}
		out.Items = append(out.Items, attrs)
	}

	for si, notes := range m.Staves {
		if si > 0 {
			if back := divisions(m.Content()); back > 0 {
				out.Items = append(out.Items, xmlBackup{Duration: back})
			}
		}
		out.Items = append(out.Items, w.staffItems(m, si, notes)...)
	}

	if last {
		out.Items = append(out.Items, xmlBarline{Location: "right", BarStyle: "light-heavy"})
	}
	return out
}

// staffItems writes one staff's notes for a measure, interleaving key,
// clef and tempo changes at their offsets
func (w *measureWriter) staffItems(m *Measure, si int, notes []*Note) []any {
	sc := w.score
	var items []any
	shown := map[[2]int]int{}
	clefs := m.clefs[si]
	keys := m.keys
	tempos := m.tempos

	for _, n := range notes {
		var attrs xmlAttributes
		changed := false

		for len(keys) > 0 && keys[0].offset <= n.offset+epsilon {
			if si == 0 || !sc.IsGrandStaff() {
				attrs.Key = keyElement(keys[0].key)
				changed = true
			}
			shown = map[[2]int]int{}
			keys = keys[1:]
		}
		for len(clefs) > 0 && clefs[0].offset <= n.offset+epsilon {
			if clefs[0].clef != w.clefs[si] {
				w.clefs[si] = clefs[0].clef
				attrs.Clefs = append(attrs.Clefs, w.clefElement(si, clefs[0].clef))
				changed = true
			}
			clefs = clefs[1:]
		}
		if changed {
			items = append(items, attrs)
		}

		if si == 0 {
			for len(tempos) > 0 && tempos[0].offset <= n.offset+epsilon {
				items = append(items, w.tempoDirection(tempos[0].tempo))
				tempos = tempos[1:]
			}
		}

		key := sc.KeyAt(m.Offset + n.offset).Signature()
		items = append(items, w.noteElements(n, si, key, shown, m)...)
	}
	return items
}

func (w *measureWriter) noteElements(n *Note, si int, key theory.KeySignature, shown map[[2]int]int, m *Measure) []any {
	sc := w.score
	staff := 0
	voice := "1"
	if sc.IsGrandStaff() {
		staff = si + 1
		voice = strconv.Itoa(si + 1)
	}

	base := xmlNote{
		Duration: divisions(n.Duration),
		Voice:    voice,
		Staff:    staff,
	}
	if n.IsRest() && n.offset < epsilon && n.Duration >= m.Length-epsilon {
		base.Rest = &xmlRest{Measure: "yes"}
		return []any{base}
	}

	noteType, dots := n.Duration.TypeAndDots()
	base.Type = noteType
	base.Dots = make([]struct{}, dots)

	if n.IsRest() {
		base.Rest = &xmlRest{}
		return []any{base}
	}

	var items []any
	for i, p := range n.Pitches {
		el := base
		el.Dots = make([]struct{}, dots)
		if i > 0 {
			el.Chord = &struct{}{}
		}
		el.Pitch = &xmlPitch{Step: p.Step.String(), Alter: p.Alter, Octave: p.Octave}

		// Accidentals: shown when the alteration differs from what the
		// key signature or an earlier note in this bar implies
		slot := [2]int{int(p.Step), p.Octave}
		expected, seen := shown[slot]
		if !seen {
			expected = key.Alter(p.Step)
		}
		if p.Alter != expected && !n.TieStop {
			el.Accidental = accidentalNames[p.Alter]
		}
		shown[slot] = p.Alter

		var notations xmlNotations
		if n.TieStop {
			el.Ties = append(el.Ties, xmlTie{Type: "stop"})
			notations.Tied = append(notations.Tied, xmlTie{Type: "stop"})
		}
		if n.TieStart {
			el.Ties = append(el.Ties, xmlTie{Type: "start"})
			notations.Tied = append(notations.Tied, xmlTie{Type: "start"})
		}

		if i == 0 {
			for level, b := range n.Beams {
				el.Beams = append(el.Beams, xmlBeam{Number: level + 1, Value: string(b)})
			}
			notations.Articulations = articulationsElement(n.Articulations)
		}
		for _, f := range n.Fingerings {
			if f.Member != i {
				continue
			}
			if notations.Technical == nil {
				notations.Technical = &xmlTechnical{}
			}
			notations.Technical.Fingerings = append(notations.Technical.Fingerings, xmlFingering{
				Placement:    string(f.Placement),
				Alternate:    yesNo(f.Alternate),
				Substitution: yesNo(f.Substitution),
				Value:        f.Finger,
			})
		}
		if len(notations.Tied) > 0 || notations.Articulations != nil || notations.Technical != nil {
			el.Notations = &notations
		}
		items = append(items, el)
	}
	return items
}

func (w *measureWriter) clefElement(si int, c Clef) xmlClef {
	el := xmlClef{Sign: c.Sign, Line: c.Line}
	if w.score.IsGrandStaff() {
		el.Number = si + 1
	}
	return el
}

func keyElement(k theory.Key) *xmlKey {
	return &xmlKey{Fifths: k.Sharps(), Mode: string(k.Mode)}
}

func timeElement(ts TimeSignature) *xmlTime {
	el := &xmlTime{Beats: ts.Beats, BeatType: ts.BeatType}
	if ts.Hidden {
		el.PrintObject = "no"
	}
	return el
}

func (w *measureWriter) tempoDirection(t Tempo) xmlDirection {
	unit, dots := t.Referent.TypeAndDots()
	staff := 0
	if w.score.IsGrandStaff() {
		staff = 1
	}
	return xmlDirection{
		Placement: "above",
		DirectionType: xmlDirectionType{Metronome: &xmlMetronome{
			BeatUnit:    unit,
			BeatUnitDot: make([]struct{}, dots),
			PerMinute:   strconv.FormatFloat(t.BPM, 'f', -1, 64),
		}},
		Staff: staff,
		Sound: &xmlSound{Tempo: strconv.FormatFloat(t.QuarterBPM(), 'f', -1, 64)},
	}
}

func articulationsElement(arts []Articulation) *xmlArticulations {
	if len(arts) == 0 {
		return nil
	}
	el := &xmlArticulations{}
	for _, a := range arts {
		switch a {
		case Accent:
			el.Accent = &struct{}{}
		case Staccato:
			el.Staccato = &struct{}{}
		case Tenuto:
			el.Tenuto = &struct{}{}
		case Staccatissimo:
			el.Staccatissimo = &struct{}{}
		}
	}
	return el
}
