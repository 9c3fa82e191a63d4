package cli

import (
	"github.com/spf13/cobra"

	"bleep/internal/config"
	"bleep/internal/logging"
)

var (
	verbose bool
	cfgPath string
	logger  *logging.Logger
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bleep",
	Short: "Censor profanity in audio and video files",
	Long: `Bleep removes profanity from audio and video files.

It matches a word-level speech transcript against a swear list, builds an
edit plan of mute or beep intervals, and runs ffmpeg to produce the cleaned
audio. Transcripts are stored and reused so a file only has to be
transcribed once.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)
		var err error
		cfg, err = config.Load(cfgPath)
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&cfgPath, "config", "", "Config file path (default ~/.config/bleep/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
