package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bleep/internal/cleaner"
	"bleep/internal/media"
	"bleep/internal/stats"
	"bleep/internal/swears"
	"bleep/internal/transcribe"
	"bleep/internal/transcript"
)

var (
	cleanListID       string
	cleanListFile     string
	cleanReuse        bool
	cleanProvider     string
	cleanAPIKey       string
	cleanModel        string
	cleanLanguage     string
	cleanBeep         bool
	cleanToneHz       int
	cleanPrePad       float64
	cleanPostPad      float64
	cleanFormat       string
	cleanSaveTrans    bool
	cleanStatsJSON    bool
	cleanStatsFile    string
	cleanChunkMinutes int
	cleanConcurrency  int
)

var cleanCmd = &cobra.Command{
	Use:   "clean [media file]",
	Short: "Censor profanity in a media file",
	Long: `Clean censors the prohibited words spoken in an audio or video file.

A stored transcript for the file is reused when one exists; otherwise the
audio is extracted, chunked, and transcribed through the selected provider.
Matched words are muted or replaced with a tone and the result is re-encoded
into the requested container.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVar(&cleanListID, "list", "", "Swear list identifier (default from config)")
	cleanCmd.Flags().StringVar(&cleanListFile, "list-file", "", "Path to a custom swear list file")
	cleanCmd.Flags().BoolVar(&cleanReuse, "reuse", true, "Reuse a stored transcript when available")
	cleanCmd.Flags().StringVar(&cleanProvider, "provider", "openai", "Transcription provider (openai, gemini)")
	cleanCmd.Flags().StringVar(&cleanAPIKey, "api-key", "", "Provider API key (or OPENAI_API_KEY / GEMINI_API_KEY)")
	cleanCmd.Flags().StringVar(&cleanModel, "model", "", "Transcription model (provider default when empty)")
	cleanCmd.Flags().StringVar(&cleanLanguage, "language", "", "Source language of the audio")
	cleanCmd.Flags().BoolVar(&cleanBeep, "beep", false, "Replace words with a tone instead of muting")
	cleanCmd.Flags().IntVar(&cleanToneHz, "tone-hz", 0, "Tone frequency in Hz (default from config)")
	cleanCmd.Flags().Float64Var(&cleanPrePad, "pre-pad", 0, "Seconds to extend each interval backward")
	cleanCmd.Flags().Float64Var(&cleanPostPad, "post-pad", 0, "Seconds to extend each interval forward")
	cleanCmd.Flags().StringVar(&cleanFormat, "format", cleaner.FormatMatch,
		"Output audio format: match keeps the input container, or one of "+strings.Join(media.SupportedFormats(), ", "))
	cleanCmd.Flags().BoolVar(&cleanSaveTrans, "save-transcript", true, "Store freshly produced transcripts for reuse")
	cleanCmd.Flags().BoolVar(&cleanStatsJSON, "stats-json", false, "Print the censorship report as JSON")
	cleanCmd.Flags().StringVar(&cleanStatsFile, "stats-file", "", "Also write the JSON report to a file")
	cleanCmd.Flags().IntVar(&cleanChunkMinutes, "chunk-duration", 5, "Transcription chunk length in minutes")
	cleanCmd.Flags().IntVar(&cleanConcurrency, "concurrency", 3, "Parallel transcription requests")
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	mediaPath := args[0]

	info, err := os.Stat(mediaPath)
	if err != nil {
		return fmt.Errorf("media file: %w", err)
	}
	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf("unrecognized media file: %s", mediaPath)
	}
	if maxBytes := int64(cfg.MaxFileSizeMB) * 1024 * 1024; info.Size() > maxBytes {
		return fmt.Errorf("file exceeds %d MB limit: %s", cfg.MaxFileSizeMB, mediaPath)
	}

	manager := newManager()
	set, err := resolveSet(manager)
	if err != nil {
		return err
	}
	logger.Infow("Using swear list",
		"id", set.ID,
		"words", set.Len(),
	)

	store := transcript.NewStore(cfg.TranscriptDir, logger)

	rec, fresh, err := obtainTranscript(cmd, store, mediaPath)
	if err != nil {
		return err
	}

	opts := cleaner.Options{
		PrePadSeconds:   cfg.PrePadSeconds,
		PostPadSeconds:  cfg.PostPadSeconds,
		Treatment:       cleaner.TreatmentMute,
		ToneFrequencyHz: cfg.ToneFrequencyHz,
		OutputFormat:    cleanFormat,
		SaveTranscript:  cleanSaveTrans && fresh,
	}
	if cmd.Flags().Changed("pre-pad") {
		opts.PrePadSeconds = cleanPrePad
	}
	if cmd.Flags().Changed("post-pad") {
		opts.PostPadSeconds = cleanPostPad
	}
	if cleanBeep || cfg.Treatment == "tone" {
		opts.Treatment = cleaner.TreatmentTone
	}
	if cleanToneHz > 0 {
		opts.ToneFrequencyHz = cleanToneHz
	}

	if f := strings.TrimPrefix(strings.ToLower(opts.OutputFormat), "."); f != "" && f != cleaner.FormatMatch {
		if !slices.Contains(cfg.SupportedFormats, f) {
			return fmt.Errorf("output format %q not in supported_formats (%s)",
				f, strings.Join(cfg.SupportedFormats, ", "))
		}
	}

	outputPath, err := resolveOutputPath(cmd, mediaPath, opts.OutputFormat)
	if err != nil {
		return err
	}

	engine := media.NewEngine(logger)
	c := cleaner.New(engine, store, logger)

	result, err := c.Clean(ctx, mediaPath, outputPath, rec, set, opts)
	if err != nil {
		return err
	}

	if result.NoOp() {
		logger.Infow("No prohibited words detected; output is a passthrough copy",
			"output", result.OutputPath,
		)
	}
	if result.TranscriptPath != "" {
		logger.Infow("Transcript stored for reuse", "path", result.TranscriptPath)
	}

	duration := rec.TotalDuration()
	if d, err := media.Duration(mediaPath); err == nil {
		duration = d.Seconds()
	}

	report := stats.Analyze(result.Words, result.Censored, duration)
	if err := printReport(report, cleanStatsJSON); err != nil {
		return err
	}
	if cleanStatsFile != "" {
		if err := writeReportFile(report, cleanStatsFile); err != nil {
			return err
		}
		logger.Infow("Report written", "path", cleanStatsFile)
	}

	fmt.Printf("\nCleaned audio written to: %s\n", result.OutputPath)
	return nil
}

// obtainTranscript returns the word sequence for the media file, preferring a
// stored transcript. The second return reports whether it was freshly produced.
func obtainTranscript(cmd *cobra.Command, store *transcript.Store, mediaPath string) (*transcript.Record, bool, error) {
	base := filepath.Base(mediaPath)

	if cleanReuse {
		rec, err := store.LoadMostRecent(base)
		switch {
		case err == nil:
			logger.Infow("Reusing stored transcript",
				"source", rec.Source,
				"words", len(rec.Words),
				"created_at", rec.CreatedAt.Format(time.RFC3339),
			)
			return rec, false, nil
		case errors.Is(err, transcript.ErrNotFound):
			logger.Debugw("No stored transcript; transcribing", "source", base)
		default:
			return nil, false, err
		}
	}

	words, err := transcribeMedia(cmd, mediaPath)
	if err != nil {
		return nil, false, err
	}

	return &transcript.Record{
		Words:     words,
		Source:    base,
		CreatedAt: time.Now(),
	}, true, nil
}

// transcribeMedia prepares the audio, chunks it, and runs the provider over
// the chunks in parallel.
func transcribeMedia(cmd *cobra.Command, mediaPath string) ([]transcript.Word, error) {
	ctx := cmd.Context()

	apiKey, err := resolveAPIKey(cleanProvider, cleanAPIKey)
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "bleep-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath := filepath.Join(tempDir, "audio.mp3")
	logger.Infow("Preparing audio for transcription", "input", mediaPath)
	if err := media.PrepareAudio(ctx, mediaPath, audioPath, media.DefaultCompressionOptions()); err != nil {
		return nil, err
	}

	chunks, err := media.ChunkAudio(
		ctx,
		audioPath,
		time.Duration(cleanChunkMinutes)*time.Minute,
		filepath.Join(tempDir, "chunks"),
		cleanConcurrency,
	)
	if err != nil {
		return nil, err
	}
	defer media.CleanupChunks(chunks)

	tr, err := transcribe.Factory(ctx, transcribe.Provider(cleanProvider), apiKey, transcribe.Options{
		Language: cleanLanguage,
		Model:    cleanModel,
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("Transcribing audio",
		"provider", cleanProvider,
		"chunks", len(chunks),
		"concurrency", cleanConcurrency,
	)
	words, err := transcribe.TranscribeChunks(ctx, tr, chunks, cleanConcurrency)
	if err != nil {
		return nil, err
	}

	logger.Infow("Transcription complete", "words", len(words))
	return words, nil
}

// resolveSet picks the swear list for this run: an explicit file beats an
// identifier beats the configured default.
func resolveSet(manager *swears.Manager) (*swears.Set, error) {
	if cleanListFile != "" {
		id := cleanListID
		if id == "" {
			id = strings.TrimSuffix(filepath.Base(cleanListFile), filepath.Ext(cleanListFile))
		}
		return manager.LoadCustom(cleanListFile, id)
	}

	id := cleanListID
	if id == "" {
		id = cfg.DefaultSwearListID
	}
	return loadListByID(manager, id)
}

func resolveAPIKey(provider, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	var envVar string
	switch transcribe.Provider(provider) {
	case transcribe.ProviderOpenAI:
		envVar = "OPENAI_API_KEY"
	case transcribe.ProviderGemini:
		envVar = "GEMINI_API_KEY"
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("no API key: pass --api-key or set %s", envVar)
}

// resolveOutputPath honors -o when given, otherwise derives a timestamped
// sibling of the input with the requested container extension.
func resolveOutputPath(cmd *cobra.Command, mediaPath, format string) (string, error) {
	if out, err := cmd.Flags().GetString("output"); err == nil && out != "" {
		return out, nil
	}

	ext := filepath.Ext(mediaPath)
	if format != "" && format != cleaner.FormatMatch {
		ext = "." + strings.TrimPrefix(format, ".")
	}

	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	name := fmt.Sprintf("%s_clean_%s%s", base, time.Now().Format("20060102150405"), ext)
	return filepath.Join(filepath.Dir(mediaPath), name), nil
}

func writeReportFile(report *stats.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func printReport(report *stats.Report, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(report.Text())
	return nil
}
