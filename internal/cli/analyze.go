package cli

import (
	"os"

	"github.com/spf13/cobra"

	"bleep/internal/stats"
	"bleep/internal/transcript"
)

var (
	analyzeJSON     bool
	analyzeDuration float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [transcript]",
	Short: "Report censorship statistics for a stored transcript",
	Long: `Analyze rebuilds the censorship report from a transcript file.

The argument is a transcript JSON path, or a media filename whose most
recent stored transcript is used. The report counts the words flagged for
suppression when the transcript was produced.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the report as JSON")
	analyzeCmd.Flags().Float64Var(&analyzeDuration, "duration", 0, "Total media duration in seconds (default: span of the transcript)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	store := transcript.NewStore(cfg.TranscriptDir, logger)

	rec, err := loadTranscriptArg(store, args[0])
	if err != nil {
		return err
	}

	var suppressed []transcript.Word
	for _, w := range rec.Words {
		if w.Suppress {
			suppressed = append(suppressed, w)
		}
	}

	duration := analyzeDuration
	if duration <= 0 {
		duration = rec.TotalDuration()
	}

	report := stats.Analyze(rec.Words, suppressed, duration)
	return printReport(report, analyzeJSON)
}

// loadTranscriptArg treats the argument as a file path first, then as a media
// source name to look up in the store.
func loadTranscriptArg(store *transcript.Store, arg string) (*transcript.Record, error) {
	if _, err := os.Stat(arg); err == nil {
		return store.Load(arg)
	}
	return store.LoadMostRecent(arg)
}
