package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/conbrio/conbrio-api/internal/config"
	"github.com/conbrio/conbrio-api/internal/exercises"
	"github.com/conbrio/conbrio-api/internal/logger"
	"github.com/conbrio/conbrio-api/internal/metrics"
	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/conbrio/conbrio-api/internal/theory"
	"github.com/gin-gonic/gin"
)

var errInvalidParameter = errors.New("invalid parameter")

// clientErrors are reported as 400 with the error message
var clientErrors = []error{
	errInvalidParameter,
	exercises.ErrInvalidQuality,
	exercises.ErrInvalidStyle,
	exercises.ErrInvalidTonic,
	exercises.ErrInvalidNote,
	exercises.ErrInvalidOctaves,
	exercises.ErrInvalidInversion,
	exercises.ErrInvalidFingering,
	exercises.ErrInvalidRange,
	exercises.ErrEmptyRange,
	notation.ErrInvalidArticulation,
	theory.ErrInvalidDuration,
	theory.ErrInvalidPitch,
}

func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type ExerciseHandler struct {
	defaultStyle  string
	cloudwatch    *metrics.Client
	sentryMetrics *metrics.SentryMetrics
}

func NewExerciseHandler(cfg *config.Config, cloudwatch *metrics.Client) *ExerciseHandler {
	return &ExerciseHandler{
		defaultStyle:  cfg.DefaultScaleStyle,
		cloudwatch:    cloudwatch,
		sentryMetrics: metrics.NewSentryMetrics(),
	}
}

// RandomNoteResponse is a reading drill: the note's MIDI number and the
// score showing it
type RandomNoteResponse struct {
	Note int    `json:"note"`
	XML  string `json:"xml"`
}

// ExerciseResponse wraps a rendered MusicXML document
type ExerciseResponse struct {
	XML string `json:"xml"`
}

// RandomNote handles GET /api/exercise/
func (h *ExerciseHandler) RandomNote(c *gin.Context) {
	opts, err := randomNoteOptions(c)
	if err != nil {
		h.fail(c, "random_note", err)
		return
	}

	start := time.Now()
	note, err := exercises.NewRandomNote(opts)
	if err != nil {
		h.fail(c, "random_note", err)
		return
	}
	xml, err := note.Render()
	if err != nil {
		h.fail(c, "random_note", err)
		return
	}
	h.record(c, "random_note", note, time.Since(start))

	fields := logger.WithContext(c)
	fields["note"] = note.Pitch.NameWithOctave()
	fields["hand"] = note.Hand.String()
	fields["fifths"] = note.Signature.Sharps
	logger.Debug("Random note drawn", fields)

	c.JSON(http.StatusOK, RandomNoteResponse{Note: note.Pitch.MIDI(), XML: xml})
}

// Chromatic handles GET /api/chromatic/
func (h *ExerciseHandler) Chromatic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notes": exercises.ChromaticNotes()})
}

// Scale handles GET /api/scale/
func (h *ExerciseHandler) Scale(c *gin.Context) {
	h.renderXML(c, "scale", h.buildScale)
}

// ScaleMIDI handles GET /api/scale/midi
func (h *ExerciseHandler) ScaleMIDI(c *gin.Context) {
	h.renderMIDI(c, "scale", h.buildScale)
}

// Arpeggio handles GET /api/arpeggio/
func (h *ExerciseHandler) Arpeggio(c *gin.Context) {
	h.renderXML(c, "arpeggio", h.buildArpeggio)
}

// ArpeggioMIDI handles GET /api/arpeggio/midi
func (h *ExerciseHandler) ArpeggioMIDI(c *gin.Context) {
	h.renderMIDI(c, "arpeggio", h.buildArpeggio)
}

// Chords handles GET /api/chords/
func (h *ExerciseHandler) Chords(c *gin.Context) {
	h.renderXML(c, "chords", func(c *gin.Context) (exercises.Renderer, error) {
		return exercises.NewChordExercise(c.DefaultQuery("tonic", defaultChordTonic))
	})
}

type builder func(c *gin.Context) (exercises.Renderer, error)

func (h *ExerciseHandler) renderXML(c *gin.Context, name string, build builder) {
	start := time.Now()
	ex, err := build(c)
	if err != nil {
		h.fail(c, name, err)
		return
	}
	xml, err := ex.Render()
	if err != nil {
		h.fail(c, name, err)
		return
	}
	h.record(c, name, ex, time.Since(start))

	c.JSON(http.StatusOK, ExerciseResponse{XML: xml})
}

func (h *ExerciseHandler) renderMIDI(c *gin.Context, name string, build builder) {
	start := time.Now()
	ex, err := build(c)
	if err != nil {
		h.fail(c, name, err)
		return
	}
	data, err := ex.RenderMIDI()
	if err != nil {
		h.fail(c, name, err)
		return
	}
	h.record(c, name, ex, time.Since(start))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.mid"`, name))
	c.Data(http.StatusOK, midiContentType, data)
}

func (h *ExerciseHandler) buildScale(c *gin.Context) (exercises.Renderer, error) {
	octaves, err := queryInt(c, "octaves", defaultScaleOctaves)
	if err != nil {
		return nil, err
	}
	contrary, err := queryBool(c, "contrary", false)
	if err != nil {
		return nil, err
	}
	articulation, err := queryArticulation(c)
	if err != nil {
		return nil, err
	}
	tempo, err := queryTempo(c, 0, defaultScaleTempoUnit)
	if err != nil {
		return nil, err
	}
	fingering, err := exercises.ParseFingeringDetail(c.Query("fingering"))
	if err != nil {
		return nil, err
	}

	return exercises.NewScale(exercises.ScaleOptions{
		Tonic:        c.DefaultQuery("tonic", defaultScaleTonic),
		Quality:      c.DefaultQuery("quality", defaultScaleQuality),
		Style:        c.DefaultQuery("style", h.defaultStyle),
		Octaves:      octaves,
		Contrary:     contrary,
		Tempo:        tempo,
		Articulation: articulation,
		Fingering:    fingering,
	})
}

func (h *ExerciseHandler) buildArpeggio(c *gin.Context) (exercises.Renderer, error) {
	octaves, err := queryInt(c, "octaves", defaultArpeggioOctaves)
	if err != nil {
		return nil, err
	}
	inversion, err := queryInt(c, "inversion", defaultArpeggioInversion)
	if err != nil {
		return nil, err
	}
	articulation, err := queryArticulation(c)
	if err != nil {
		return nil, err
	}
	tempo, err := queryTempo(c, defaultArpeggioTempo, defaultArpeggioTempoUnit)
	if err != nil {
		return nil, err
	}

	return exercises.NewArpeggio(exercises.ArpeggioOptions{
		Tonic:        c.DefaultQuery("tonic", defaultArpeggioTonic),
		Quality:      c.DefaultQuery("quality", defaultArpeggioQuality),
		Style:        c.DefaultQuery("style", h.defaultStyle),
		Octaves:      octaves,
		Inversion:    inversion,
		Tempo:        tempo,
		Articulation: articulation,
	})
}

func randomNoteOptions(c *gin.Context) (exercises.RandomNoteOptions, error) {
	opts := exercises.DefaultRandomNoteOptions()
	var err error
	if opts.MaxSharps, err = queryInt(c, "max_sharps", defaultMaxSharps); err != nil {
		return opts, err
	}
	if opts.MaxFlats, err = queryInt(c, "max_flats", defaultMaxFlats); err != nil {
		return opts, err
	}
	if opts.Accidentals, err = queryBool(c, "accidentals", true); err != nil {
		return opts, err
	}
	opts.MinNote = c.DefaultQuery("min_note", defaultMinNote)
	opts.MaxNote = c.DefaultQuery("max_note", defaultMaxNote)
	return opts, nil
}

func (h *ExerciseHandler) fail(c *gin.Context, name string, err error) {
	fields := logger.WithContext(c)
	fields["exercise"] = name
	fields["query"] = c.Request.URL.RawQuery

	if isClientError(err) {
		logger.Warn("Invalid exercise request", fields)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Error("Failed to generate exercise", err, fields)
	h.sentryMetrics.RecordExerciseGeneration(c.Request.Context(), name, 0, false)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      "Failed to generate exercise",
		"request_id": c.GetString("request_id"),
	})
}

func (h *ExerciseHandler) record(c *gin.Context, name string, ex exercises.Renderer, d time.Duration) {
	notes := ex.NoteCount()
	logger.LogExerciseGenerated(c.Request.Context(), name, d, notes, logger.WithContext(c))
	h.sentryMetrics.RecordExerciseGeneration(c.Request.Context(), name, d, true)
	h.cloudwatch.RecordExerciseGenerated(name, notes, d)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errInvalidParameter, key, raw)
	}
	return v, nil
}

func queryBool(c *gin.Context, key string, def bool) (bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean, got %q", errInvalidParameter, key, raw)
	}
	return v, nil
}

func queryArticulation(c *gin.Context) (notation.Articulation, error) {
	raw := c.Query("articulation")
	if raw == "" {
		return "", nil
	}
	return notation.ParseArticulation(raw)
}

// queryTempo reads tempo and tempo_unit. A zero default means no mark
// unless the request asks for one.
func queryTempo(c *gin.Context, defBPM int, defUnit string) (*notation.Tempo, error) {
	bpm, err := queryInt(c, "tempo", defBPM)
	if err != nil {
		return nil, err
	}
	if bpm == 0 {
		return nil, nil
	}
	if bpm < 0 {
		return nil, fmt.Errorf("%w: tempo must be positive, got %d", errInvalidParameter, bpm)
	}
	unit, err := theory.ParseDuration(c.DefaultQuery("tempo_unit", defUnit))
	if err != nil {
		return nil, err
	}
	return &notation.Tempo{BPM: float64(bpm), Referent: unit}, nil
}
