package theory

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a spelled interval. Generic counts letter steps (a third is
// 2, an octave is 7) and carries the direction; Semitones is the signed
// chromatic size.
type Interval struct {
	Generic   int
	Semitones int
}

// Semitone sizes of major/perfect simple intervals, indexed by number-1
var simpleSemitones = [stepsPerOctave]int{0, 2, 4, 5, 7, 9, 11}

// Common intervals
var (
	MinorThird = MustInterval("m3")
	MajorThird = MustInterval("M3")
	Fourth     = MustInterval("P4")
	Fifth      = MustInterval("P5")
	Octave     = MustInterval("P8")
	OctaveDown = MustInterval("-P8")
)

// ParseInterval parses names like "M3", "m7", "p5", "a4", "d5" or "-p8".
// Quality letters are case sensitive for M/m only.
func ParseInterval(name string) (Interval, error) {
	s := strings.TrimSpace(name)
	descending := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	quality, numText := s[:i], s[i:]
	number, err := strconv.Atoi(numText)
	if quality == "" || err != nil || number < 1 {
		return Interval{}, fmt.Errorf("%w: %q", ErrInvalidInterval, name)
	}

	simple := (number-1)%stepsPerOctave + 1
	octaves := (number - 1) / stepsPerOctave
	semitones := simpleSemitones[simple-1] + 12*octaves
	perfectType := simple == 1 || simple == 4 || simple == 5

	offset, ok := qualityOffset(quality, perfectType)
	if !ok {
		return Interval{}, fmt.Errorf("%w: quality %q not valid for %d", ErrInvalidInterval, quality, number)
	}

	iv := Interval{Generic: number - 1, Semitones: semitones + offset}
	if descending {
		iv = iv.Reverse()
	}
	return iv, nil
}

func qualityOffset(quality string, perfectType bool) (int, bool) {
	switch {
	case quality == "M" && !perfectType:
		return 0, true
	case quality == "m" && !perfectType:
		return -1, true
	case strings.EqualFold(quality, "p") && perfectType:
		return 0, true
	}

	lower := strings.ToLower(quality)
	switch {
	case strings.Trim(lower, "a") == "":
		return len(lower), true
	case strings.Trim(lower, "d") == "":
		if perfectType {
			return -len(lower), true
		}
		return -1 - len(lower), true
	}
	return 0, false
}

// MustInterval is ParseInterval for constant names; it panics on error
func MustInterval(name string) Interval {
	iv, err := ParseInterval(name)
	if err != nil {
		panic(err)
	}
	return iv
}

// Reverse flips the direction
func (iv Interval) Reverse() Interval {
	return Interval{Generic: -iv.Generic, Semitones: -iv.Semitones}
}

// Octaves returns an interval of n octaves (negative n goes down)
func Octaves(n int) Interval {
	return Interval{Generic: 7 * n, Semitones: 12 * n}
}
