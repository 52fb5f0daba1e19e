package theory

import "sort"

// Direction of a scale walk
type Direction int

const (
	Ascending Direction = iota
	Descending
)

var (
	majorDegrees         = intervals("P1", "M2", "M3", "P4", "P5", "M6", "M7")
	naturalMinorDegrees  = intervals("P1", "M2", "m3", "P4", "P5", "m6", "m7")
	harmonicMinorDegrees = intervals("P1", "M2", "m3", "P4", "P5", "m6", "M7")
	melodicMinorDegrees  = intervals("P1", "M2", "m3", "P4", "P5", "M6", "M7")
	chromaticDegrees     = intervals("P1", "a1", "M2", "a2", "M3", "P4", "a4", "P5", "a5", "M6", "a6", "M7")
)

func intervals(names ...string) []Interval {
	res := make([]Interval, len(names))
	for i, n := range names {
		res[i] = MustInterval(n)
	}
	return res
}

// Scale is a tonic plus the intervals of each degree above it. Scales
// whose descending form differs (melodic minor) carry both.
type Scale struct {
	Name  string
	Tonic Pitch
	asc   []Interval
	desc  []Interval
}

func MajorScale(tonic Pitch) Scale {
	return Scale{Name: "major", Tonic: tonic, asc: majorDegrees, desc: majorDegrees}
}

func NaturalMinorScale(tonic Pitch) Scale {
	return Scale{Name: "minor", Tonic: tonic, asc: naturalMinorDegrees, desc: naturalMinorDegrees}
}

func HarmonicMinorScale(tonic Pitch) Scale {
	return Scale{Name: "harmonic minor", Tonic: tonic, asc: harmonicMinorDegrees, desc: harmonicMinorDegrees}
}

// MelodicMinorScale raises the sixth and seventh on the way up only
func MelodicMinorScale(tonic Pitch) Scale {
	return Scale{Name: "melodic minor", Tonic: tonic, asc: melodicMinorDegrees, desc: naturalMinorDegrees}
}

// ChromaticScale spells every semitone, using sharps for black keys
func ChromaticScale(tonic Pitch) Scale {
	return Scale{Name: "chromatic", Tonic: tonic, asc: chromaticDegrees, desc: chromaticDegrees}
}

// PitchFromDegree returns the 1-based degree above the tonic. Degrees past
// the scale length continue into higher octaves.
func (s Scale) PitchFromDegree(degree int) Pitch {
	n := len(s.asc)
	idx := degree - 1
	iv := s.asc[mod(idx, n)]
	return s.Tonic.Transpose(iv).Transpose(Octaves(floorDiv(idx, n)))
}

// Degree returns the letter-based degree (1-7) of p within the scale
func (s Scale) Degree(p Pitch) int {
	return mod(int(p.Step)-int(s.Tonic.Step), stepsPerOctave) + 1
}

// Pitches returns every pitch of the scale sounding within [lo, hi],
// ordered in the requested direction
func (s Scale) Pitches(lo, hi Pitch, dir Direction) []Pitch {
	degrees := s.asc
	if dir == Descending {
		degrees = s.desc
	}

	var res []Pitch
	if lo.MIDI() > hi.MIDI() {
		return res
	}

	// Walk enough tonic octaves to cover the range, including spellings
	// like Cb or B# that cross the octave number.
	for oct := lo.Octave - 1; oct <= hi.Octave+1; oct++ {
		base := s.Tonic.WithOctave(oct)
		for _, iv := range degrees {
			p := base.Transpose(iv)
			if p.MIDI() >= lo.MIDI() && p.MIDI() <= hi.MIDI() {
				res = append(res, p)
			}
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		if dir == Descending {
			return res[i].Compare(res[j]) > 0
		}
		return res[i].Compare(res[j]) < 0
	})
	return res
}
