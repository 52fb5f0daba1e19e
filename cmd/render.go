package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/conbrio/conbrio-api/internal/exercises"
	"github.com/conbrio/conbrio-api/internal/notation"
	"github.com/spf13/cobra"
)

type outputFlags struct {
	format string
	out    string
}

// exerciseFlags holds one subcommand's options
type exerciseFlags struct {
	tonic        string
	quality      string
	style        string
	octaves      int
	inversion    int
	contrary     bool
	articulation string
	fingering    string
	seed         uint64
	maxSharps    int
	maxFlats     int
	minNote      string
	maxNote      string
	accidentals  bool
}

func init() {
	rootCmd.AddCommand(newRenderCmd())
}

func newRenderCmd() *cobra.Command {
	o := &outputFlags{}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render an exercise to MusicXML or MIDI",
	}
	renderCmd.PersistentFlags().StringVar(&o.format, "format", "xml", "Output format: xml or midi")
	renderCmd.PersistentFlags().StringVarP(&o.out, "out", "o", "", "Output file (default: stdout)")

	sf := &exerciseFlags{}
	scaleCmd := &cobra.Command{
		Use:   "scale",
		Short: "Two-handed scale",
		RunE: func(cmd *cobra.Command, args []string) error {
			articulation, err := parseArticulation(sf.articulation)
			if err != nil {
				return err
			}
			fingering, err := exercises.ParseFingeringDetail(sf.fingering)
			if err != nil {
				return err
			}
			s, err := exercises.NewScale(exercises.ScaleOptions{
				Tonic:        sf.tonic,
				Quality:      sf.quality,
				Style:        sf.style,
				Octaves:      sf.octaves,
				Contrary:     sf.contrary,
				Articulation: articulation,
				Fingering:    fingering,
			})
			if err != nil {
				return err
			}
			return o.write(cmd, s)
		},
	}
	scaleCmd.Flags().StringVar(&sf.tonic, "tonic", "C", "Tonic, e.g. C, F#, Bb")
	scaleCmd.Flags().StringVar(&sf.quality, "quality", exercises.QualityMajor, "major, minor, melodic or harmonic")
	scaleCmd.Flags().StringVar(&sf.style, "style", exercises.DefaultStyle, "Style preset")
	scaleCmd.Flags().IntVar(&sf.octaves, "octaves", 2, "Octaves (1-4)")
	scaleCmd.Flags().BoolVar(&sf.contrary, "contrary", false, "Contrary motion")
	scaleCmd.Flags().StringVar(&sf.articulation, "articulation", "", "staccato, staccatissimo, accent or tenuto")
	scaleCmd.Flags().StringVar(&sf.fingering, "fingering", string(exercises.FingeringFull), "full, minimal or none")

	af := &exerciseFlags{}
	arpeggioCmd := &cobra.Command{
		Use:   "arpeggio",
		Short: "Arpeggio over several octaves",
		RunE: func(cmd *cobra.Command, args []string) error {
			articulation, err := parseArticulation(af.articulation)
			if err != nil {
				return err
			}
			a, err := exercises.NewArpeggio(exercises.ArpeggioOptions{
				Tonic:        af.tonic,
				Quality:      af.quality,
				Style:        af.style,
				Octaves:      af.octaves,
				Inversion:    af.inversion,
				Articulation: articulation,
			})
			if err != nil {
				return err
			}
			return o.write(cmd, a)
		},
	}
	arpeggioCmd.Flags().StringVar(&af.tonic, "tonic", "C", "Tonic, e.g. C, F#, Bb")
	arpeggioCmd.Flags().StringVar(&af.quality, "quality", exercises.QualityMajor, "major, minor, dominant or diminished")
	arpeggioCmd.Flags().StringVar(&af.style, "style", exercises.DefaultStyle, "Style preset")
	arpeggioCmd.Flags().IntVar(&af.octaves, "octaves", 2, "Octaves (1-4)")
	arpeggioCmd.Flags().IntVar(&af.inversion, "inversion", 0, "Inversion, 0 for root position")
	arpeggioCmd.Flags().StringVar(&af.articulation, "articulation", "", "staccato, staccatissimo, accent or tenuto")

	cf := &exerciseFlags{}
	chordsCmd := &cobra.Command{
		Use:   "chords",
		Short: "Common tone chord series",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := exercises.NewChordExercise(cf.tonic)
			if err != nil {
				return err
			}
			return o.write(cmd, e)
		},
	}
	chordsCmd.Flags().StringVar(&cf.tonic, "tonic", "Ab", "Common tone")

	rf := &exerciseFlags{}
	randomCmd := &cobra.Command{
		Use:   "random",
		Short: "Random note reading drill",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := exercises.RandomNoteOptions{
				MaxSharps:   rf.maxSharps,
				MaxFlats:    rf.maxFlats,
				MinNote:     rf.minNote,
				MaxNote:     rf.maxNote,
				Accidentals: rf.accidentals,
			}
			if rf.seed != 0 {
				opts.Rand = rand.New(rand.NewPCG(rf.seed, rf.seed))
			}
			r, err := exercises.NewRandomNote(opts)
			if err != nil {
				return err
			}
			return o.write(cmd, r)
		},
	}
	randomCmd.Flags().Uint64Var(&rf.seed, "seed", 0, "Random seed (0 picks one)")
	randomCmd.Flags().IntVar(&rf.maxSharps, "max-sharps", 7, "Most sharps in the key signature")
	randomCmd.Flags().IntVar(&rf.maxFlats, "max-flats", 7, "Most flats in the key signature")
	randomCmd.Flags().StringVar(&rf.minNote, "min-note", "A0", "Lowest note")
	randomCmd.Flags().StringVar(&rf.maxNote, "max-note", "C8", "Highest note")
	randomCmd.Flags().BoolVar(&rf.accidentals, "accidentals", true, "Allow accidentals outside the key")

	renderCmd.AddCommand(scaleCmd, arpeggioCmd, chordsCmd, randomCmd)
	return renderCmd
}

func parseArticulation(name string) (notation.Articulation, error) {
	if name == "" {
		return "", nil
	}
	return notation.ParseArticulation(name)
}

func (o *outputFlags) write(cmd *cobra.Command, ex exercises.Renderer) error {
	var data []byte
	switch o.format {
	case "xml", "musicxml":
		xml, err := ex.Render()
		if err != nil {
			return err
		}
		data = []byte(xml)
	case "midi", "mid":
		var err error
		if data, err = ex.RenderMIDI(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q, expected xml or midi", o.format)
	}

	var w io.Writer = cmd.OutOrStdout()
	if o.out != "" {
		file, err := os.Create(o.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", o.out, err)
		}
		defer file.Close()
		w = file
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write exercise: %w", err)
	}
	return nil
}
