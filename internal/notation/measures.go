package notation

import (
	"math"

	"github.com/conbrio/conbrio-api/internal/theory"
)

const epsilon = 1e-9

// Measure is one bar across every staff. Note offsets inside a measure
// are relative to its start.
type Measure struct {
	Number    int
	Offset    theory.Duration
	Length    theory.Duration
	Staves    [][]*Note
	NewSystem bool

	clefs  [][]clefChange
	keys   []keyChange
	tempos []tempoMark
}

// Content returns the length actually filled by the longest staff
func (m *Measure) Content() theory.Duration {
	var l theory.Duration
	for _, notes := range m.Staves {
		if len(notes) == 0 {
			continue
		}
		last := notes[len(notes)-1]
		if end := last.offset + last.Duration; end > l {
			l = end
		}
	}
	return l
}

func measureIndex(offset, bar theory.Duration) int {
	return int(math.Floor(float64(offset/bar) + epsilon))
}

// MakeMeasures splits every staff into bars of the score's time signature.
// Notes crossing a barline are split into tied pieces; staves shorter than
// the others within a bar are padded with rests.
func (sc *Score) MakeMeasures() []Measure {
	bar := sc.Time.BarLength()
	count := int(math.Ceil(float64(sc.Length()/bar) - epsilon))
	if count < 1 {
		count = 1
	}

	measures := make([]Measure, count)
	for i := range measures {
		measures[i] = Measure{
			Number: i + 1,
			Offset: theory.Duration(i) * bar,
			Length: bar,
			Staves: make([][]*Note, len(sc.Staves)),
			clefs:  make([][]clefChange, len(sc.Staves)),
		}
	}

	for si, staff := range sc.Staves {
		for _, n := range staff.Notes() {
			splitIntoMeasures(measures, si, n, bar)
		}
		for _, c := range staff.clefs {
			idx := min(measureIndex(c.offset, bar), count-1)
			m := &measures[idx]
			m.clefs[si] = append(m.clefs[si], clefChange{offset: c.offset - m.Offset, clef: c.clef})
		}
	}

	for _, k := range sc.keys {
		idx := min(measureIndex(k.offset, bar), count-1)
		m := &measures[idx]
		m.keys = append(m.keys, keyChange{offset: k.offset - m.Offset, key: k.key})
	}
	for _, t := range sc.tempos {
		idx := min(measureIndex(t.offset, bar), count-1)
		m := &measures[idx]
		m.tempos = append(m.tempos, tempoMark{offset: t.offset - m.Offset, tempo: t.tempo})
	}
	for _, b := range sc.breaks {
		idx := int(math.Ceil(float64(b/bar) - epsilon))
		if idx > 0 && idx < count {
			measures[idx].NewSystem = true
		}
	}

	for i := range measures {
		padWithRests(&measures[i])
	}
	return measures
}

func splitIntoMeasures(measures []Measure, staff int, n *Note, bar theory.Duration) {
	start := n.offset
	end := n.offset + n.Duration
	first := true

	for start < end-epsilon {
		idx := measureIndex(start, bar)
		if idx >= len(measures) {
			return
		}
		m := &measures[idx]
		pieceEnd := min(end, m.Offset+bar)

		piece := n.Clone()
		piece.offset = start - m.Offset
		piece.Duration = pieceEnd - start
		if !first {
			piece.TieStop = true
			piece.Beams = nil
			piece.Articulations = nil
			piece.Fingerings = nil
		}
		if pieceEnd < end-epsilon {
			piece.TieStart = true
		}

		m.Staves[staff] = append(m.Staves[staff], piece)
		start = pieceEnd
		first = false
	}
}

func padWithRests(m *Measure) {
	content := m.Content()
	if content == 0 {
		return
	}
	for si, notes := range m.Staves {
		var end theory.Duration
		if len(notes) > 0 {
			last := notes[len(notes)-1]
			end = last.offset + last.Duration
		}
		if end < content-epsilon {
			rest := NewRest(content - end)
			rest.offset = end
			m.Staves[si] = append(m.Staves[si], rest)
		}
	}
}
