package handlers

const (
	// Scale defaults
	defaultScaleTonic     = "ab"
	defaultScaleQuality   = "melodic"
	defaultScaleOctaves   = 2
	defaultScaleTempoUnit = "quarter"

	// Arpeggio defaults
	defaultArpeggioTonic     = "C"
	defaultArpeggioQuality   = "major"
	defaultArpeggioOctaves   = 2
	defaultArpeggioInversion = 0
	defaultArpeggioTempo     = 110
	defaultArpeggioTempoUnit = "half"

	// Chord exercise default
	defaultChordTonic = "ab"

	// Random note defaults
	defaultMaxSharps = 7
	defaultMaxFlats  = 7
	defaultMinNote   = "A0"
	defaultMaxNote   = "C8"

	midiContentType = "audio/midi"
)
