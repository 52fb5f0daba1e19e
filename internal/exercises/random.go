package exercises

import (
	"fmt"
	"math/rand/v2"

	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/conbrio/conbrio-api/internal/theory"
)

const maxSignature = 7

var (
	leftHandBelow  = theory.MustPitch("Ab3")
	rightHandAbove = theory.MustPitch("F#4")
)

// RandomNoteOptions bounds the reading drill
type RandomNoteOptions struct {
	MaxSharps   int
	MaxFlats    int
	MinNote     string
	MaxNote     string
	Accidentals bool
	Rand        *rand.Rand
}

// DefaultRandomNoteOptions covers the whole keyboard in every key
func DefaultRandomNoteOptions() RandomNoteOptions {
	return RandomNoteOptions{
		MaxSharps:   maxSignature,
		MaxFlats:    maxSignature,
		MinNote:     "A0",
		MaxNote:     "C8",
		Accidentals: true,
	}
}

// RandomNote is a single whole note to read, in a random key
type RandomNote struct {
	*Exercise
	Pitch     theory.Pitch
	Hand      Hand
	Signature theory.KeySignature
}

// range of an 88 key piano
var (
	lowestNote  = theory.MustPitch("A0")
	highestNote = theory.MustPitch("C8")
)

func parseNote(name string) (theory.Pitch, error) {
	p, err := theory.ParsePitch(theory.ReplaceFancyAccidentals(name))
	if err != nil {
		return theory.Pitch{}, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	if p.Below(lowestNote) || p.Above(highestNote) {
		return theory.Pitch{}, fmt.Errorf("%w: %q is outside %s to %s", ErrInvalidNote, name,
			lowestNote.NameWithOctave(), highestNote.NameWithOctave())
	}
	return p, nil
}

func NewRandomNote(opts RandomNoteOptions) (*RandomNote, error) {
	if opts.MaxSharps < 0 || opts.MaxSharps > maxSignature || opts.MaxFlats < 0 || opts.MaxFlats > maxSignature {
		return nil, fmt.Errorf("%w: %d sharps, %d flats", ErrInvalidRange, opts.MaxSharps, opts.MaxFlats)
	}
	lo, err := parseNote(opts.MinNote)
	if err != nil {
		return nil, err
	}
	hi, err := parseNote(opts.MaxNote)
	if err != nil {
		return nil, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	sig := theory.KeySignature{Sharps: rng.IntN(opts.MaxFlats+opts.MaxSharps+1) - opts.MaxFlats}
	candidates := sig.MajorScale().Pitches(lo, hi, theory.Ascending)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s to %s", ErrEmptyRange, lo.NameWithOctave(), hi.NameWithOctave())
	}
	p := candidates[rng.IntN(len(candidates))]
	if opts.Accidentals {
		p = p.WithAlter(rng.IntN(5) - 2)
	}

	hand := Hand(rng.IntN(2))
	switch {
	case p.Below(leftHandBelow):
		hand = LeftHand
	case p.Above(rightHandAbove):
		hand = RightHand
	}

	key := theory.KeyFromSharps(sig.Sharps, theory.Major)
	r := &RandomNote{
		Exercise:  newExercise("", key, GrandStaff, nil),
		Pitch:     p,
		Hand:      hand,
		Signature: sig,
	}
	r.Duration = theory.Whole

	for _, h := range []Hand{RightHand, LeftHand} {
		if h == hand {
			r.Staff(h).Append(notation.NewNote(p, theory.Whole))
		} else {
			r.Staff(h).Append(notation.NewRest(theory.Whole))
		}
	}
	return r, nil
}

// ChromaticNotes names every piano key from A0 to C8 with unicode
// accidentals
func ChromaticNotes() []string {
	pitches := theory.ChromaticScale(theory.MustPitch("C")).Pitches(theory.MustPitch("A0"), theory.MustPitch("C8"), theory.Ascending)
	names := make([]string, len(pitches))
	for i, p := range pitches {
		names[i] = p.UnicodeNameWithOctave()
	}
	return names
}
