package cleaner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bleep/internal/logging"
	"bleep/internal/swears"
	"bleep/internal/transcript"
)

var (
	// ErrEmptyTranscript signals a transcript with zero words. Distinct from
	// the no-op case where words exist but none are censored.
	ErrEmptyTranscript = errors.New("transcript contains no words")

	// ErrUnsupportedFormat is raised before any expensive work begins.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

const defaultToneHz = 1000

// FormatMatch asks for an output container matching the input's extension.
const FormatMatch = "match"

// Options are the recognized processing options for a cleaning run.
type Options struct {
	PrePadSeconds   float64
	PostPadSeconds  float64
	Treatment       Treatment
	ToneFrequencyHz int

	// OutputFormat is a container name or FormatMatch.
	OutputFormat string

	// SaveTranscript persists the word sequence after a successful run.
	// Off unless the caller asks for it.
	SaveTranscript bool
}

// Engine executes an edit plan against a media file. An empty plan means
// pass the audio through unmodified.
type Engine interface {
	Apply(ctx context.Context, inputPath string, plan Plan, outputPath, outputFormat string) (string, error)
	Supports(format string) bool
}

// Result is the outcome of a cleaning run.
type Result struct {
	OutputPath     string
	Words          []transcript.Word
	Censored       []transcript.Word
	Plan           Plan
	TranscriptPath string // set when SaveTranscript was requested
}

// NoOp reports that the transcript contained no prohibited words and the
// input passed through unmodified.
func (r *Result) NoOp() bool {
	return len(r.Censored) == 0
}

// Cleaner turns a transcript and a swear set into an edit plan and delegates
// execution to the media engine.
type Cleaner struct {
	engine Engine
	store  *transcript.Store
	logger *logging.Logger
}

func New(engine Engine, store *transcript.Store, logger *logging.Logger) *Cleaner {
	return &Cleaner{
		engine: engine,
		store:  store,
		logger: logger,
	}
}

// Mark normalizes every word with the same rule the swear lists use and sets
// the Suppress flag on members of the set. Returns the suppressed words in
// transcript order. Deterministic for a fixed set and transcript.
func Mark(words []transcript.Word, set *swears.Set) []transcript.Word {
	var censored []transcript.Word
	for i := range words {
		// assign rather than or-in, so a reused transcript matched against a
		// different list does not inherit stale flags
		member := set.Contains(swears.Normalize(words[i].Text))
		words[i].Suppress = member
		if member {
			censored = append(censored, words[i])
		}
	}
	return censored
}

// Clean runs the full pass: validate the requested format, match words, build
// the padded and merged edit plan, and hand it to the media engine. A
// transcript with words but no matches is a no-op result, not an error.
func (c *Cleaner) Clean(
	ctx context.Context,
	inputPath, outputPath string,
	rec *transcript.Record,
	set *swears.Set,
	opts Options,
) (*Result, error) {
	format := resolveFormat(opts.OutputFormat, inputPath)
	if !c.engine.Supports(format) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if len(rec.Words) == 0 {
		return nil, ErrEmptyTranscript
	}

	censored := Mark(rec.Words, set)
	plan := BuildPlan(censored, opts)

	if len(censored) == 0 {
		c.logger.Infow("No prohibited words found",
			"input", inputPath,
			"words", len(rec.Words),
		)
	} else {
		c.logger.Infow("Built edit plan",
			"censored_words", len(censored),
			"intervals", len(plan.Intervals),
			"treatment", string(plan.Intervals[0].Treatment),
		)
	}

	out, err := c.engine.Apply(ctx, inputPath, plan, outputPath, format)
	if err != nil {
		return nil, err
	}

	result := &Result{
		OutputPath: out,
		Words:      rec.Words,
		Censored:   censored,
		Plan:       plan,
	}

	if opts.SaveTranscript {
		source := rec.Source
		if source == "" {
			source = inputPath
		}
		path, err := c.store.Save(rec.Words, source)
		if err != nil {
			return nil, err
		}
		result.TranscriptPath = path
	}

	return result, nil
}

func resolveFormat(format, inputPath string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" || format == FormatMatch {
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(inputPath)), ".")
	}
	return strings.TrimPrefix(format, ".")
}
