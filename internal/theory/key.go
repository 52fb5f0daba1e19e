package theory

import (
	"errors"
	"fmt"
)

var ErrInvalidMode = errors.New("invalid mode")

// Mode of a key
type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

// Position of each natural step on the line of fifths (C = 0)
var stepFifths = [stepsPerOctave]int{0, 2, 4, -1, 1, 3, 5}

// Order of natural steps along the line of fifths starting at F
var fifthsOrder = [stepsPerOctave]Step{StepF, StepC, StepG, StepD, StepA, StepE, StepB}

// Key is a tonic plus a mode
type Key struct {
	Tonic Pitch
	Mode  Mode
}

// KeySignature is the number of sharps (negative for flats)
type KeySignature struct {
	Sharps int
}

// NewKey parses the tonic name and builds a key. The tonic is placed in
// DefaultOctave regardless of any octave in the name.
func NewKey(tonic string, mode Mode) (Key, error) {
	if mode != Major && mode != Minor {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	p, err := ParsePitch(tonic)
	if err != nil {
		return Key{}, err
	}
	return Key{Tonic: p.WithOctave(DefaultOctave), Mode: mode}, nil
}

// fifths returns the pitch's position on the line of fifths
func fifths(p Pitch) int {
	return stepFifths[p.Step] + 7*p.Alter
}

// pitchFromFifths inverts fifths, returning a pitch in DefaultOctave
func pitchFromFifths(f int) Pitch {
	return Pitch{
		Step:   fifthsOrder[mod(f+1, stepsPerOctave)],
		Alter:  floorDiv(f+1, stepsPerOctave),
		Octave: DefaultOctave,
	}
}

// KeyFromSharps returns the key with the given signature
func KeyFromSharps(sharps int, mode Mode) Key {
	if mode == Minor {
		return Key{Tonic: pitchFromFifths(sharps + 3), Mode: Minor}
	}
	return Key{Tonic: pitchFromFifths(sharps), Mode: Major}
}

// Sharps returns the number of sharps in the key signature
func (k Key) Sharps() int {
	if k.Mode == Minor {
		return fifths(k.Tonic) - 3
	}
	return fifths(k.Tonic)
}

// Signature returns the key signature
func (k Key) Signature() KeySignature {
	return KeySignature{Sharps: k.Sharps()}
}

// Scale returns the major or natural minor scale of the key
func (k Key) Scale() Scale {
	if k.Mode == Minor {
		return NaturalMinorScale(k.Tonic)
	}
	return MajorScale(k.Tonic)
}

// PitchFromDegree returns the given degree of the key's scale above the
// tonic in DefaultOctave
func (k Key) PitchFromDegree(degree int) Pitch {
	return k.Scale().PitchFromDegree(degree)
}

func (k Key) String() string {
	return k.Tonic.Name() + " " + string(k.Mode)
}

// MajorScale returns the major scale that uses this signature
func (ks KeySignature) MajorScale() Scale {
	return MajorScale(pitchFromFifths(ks.Sharps))
}

// Alter returns the alteration the signature applies to a step
func (ks KeySignature) Alter(step Step) int {
	pos := stepFifths[step]
	alter := 0
	// Sharps are added in order F C G D A E B (fifths -1..5), flats reversed
	for s := ks.Sharps; s > 0; s -= 7 {
		if pos < s-1 {
			alter++
		}
	}
	for s := ks.Sharps; s < 0; s += 7 {
		if pos >= s+6 {
			alter--
		}
	}
	return alter
}
