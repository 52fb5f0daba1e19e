package cmd

import (
	"github.com/spf13/cobra"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "conbrio",
	Short:   "Piano practice exercise generator",
	Long:    `Generates scales, arpeggios, common tone chords and note reading drills as MusicXML or MIDI.`,
	Version: releaseVersion,
}

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
