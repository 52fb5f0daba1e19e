package notation

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/conbrio/conbrio-api/internal/theory"
)

const (
	midiResolution = smf.MetricTicks(960)
	midiVelocity   = 80
	defaultBPM     = 120
)

type timedMessage struct {
	tick  uint64
	order int // note-offs sort before note-ons on the same tick
	msg   []byte
}

// WriteMIDI writes the score as a type 1 standard MIDI file with one
// track per staff. Key and clef changes have no MIDI equivalent and are
// skipped.
func WriteMIDI(sc *Score, w io.Writer) error {
	s := smf.New()
	s.TimeFormat = midiResolution

	for si, staff := range sc.Staves {
		var events []timedMessage
		if si == 0 {
			events = append(events, timedMessage{msg: smf.MetaMeter(uint8(sc.Time.Beats), uint8(sc.Time.BeatType))})
			if _, ok := sc.TempoAt(0); !ok {
				events = append(events, timedMessage{msg: smf.MetaTempo(defaultBPM)})
			}
			for _, t := range sc.tempos {
				events = append(events, timedMessage{tick: ticks(t.offset), msg: smf.MetaTempo(t.tempo.QuarterBPM())})
			}
		}
		if staff.Name != "" {
			events = append(events, timedMessage{msg: smf.MetaTrackSequenceName(staff.Name)})
		}
		events = append(events, staffEvents(staff, uint8(si))...)

		sort.SliceStable(events, func(i, j int) bool {
			if events[i].tick != events[j].tick {
				return events[i].tick < events[j].tick
			}
			return events[i].order < events[j].order
		})

		var (
			tr   smf.Track
			last uint64
		)
		for _, ev := range events {
			tr.Add(uint32(ev.tick-last), ev.msg)
			last = ev.tick
		}
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return fmt.Errorf("failed to add track %d: %w", si, err)
		}
	}

	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write MIDI: %w", err)
	}
	return nil
}

// MIDI returns the score as standard MIDI file bytes
func MIDI(sc *Score) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteMIDI(sc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ticks(d theory.Duration) uint64 {
	return uint64(math.Round(float64(d) * float64(midiResolution.Ticks4th())))
}

func staffEvents(staff *Staff, channel uint8) []timedMessage {
	var events []timedMessage
	for _, n := range staff.Notes() {
		if n.IsRest() {
			continue
		}
		on := ticks(n.offset)
		off := ticks(n.offset + n.Duration)
		for _, p := range n.Pitches {
			key := uint8(p.MIDI())
			if !n.TieStop {
				events = append(events, timedMessage{tick: on, order: 1, msg: midi.NoteOn(channel, key, midiVelocity)})
			}
			if !n.TieStart {
				events = append(events, timedMessage{tick: off, order: 0, msg: midi.NoteOff(channel, key)})
			}
		}
	}
	return events
}
