package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"bleep/internal/cleaner"
	ffmpegbin "bleep/internal/ffmpeg"
	"bleep/internal/logging"
)

// ErrEngine marks failures reported by the delegated ffmpeg run.
var ErrEngine = errors.New("media engine failed")

const (
	defaultChannels   = 2
	defaultSampleRate = 48000
)

// Engine executes edit plans with ffmpeg. Implements cleaner.Engine.
type Engine struct {
	channels   int
	sampleRate int
	logger     *logging.Logger
}

func NewEngine(logger *logging.Logger) *Engine {
	return &Engine{
		channels:   defaultChannels,
		sampleRate: defaultSampleRate,
		logger:     logger,
	}
}

// Supports reports whether the output container is encodable.
func (e *Engine) Supports(format string) bool {
	return Supported(format)
}

// Apply runs the edit plan against the input and writes the cleaned audio to
// outputPath. An empty plan passes the audio through unmodified. The single
// external ffmpeg call honors ctx cancellation; nothing else is touched.
func (e *Engine) Apply(
	ctx context.Context,
	inputPath string,
	plan cleaner.Plan,
	outputPath, outputFormat string,
) (string, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return "", fmt.Errorf("input file not found: %s", inputPath)
	}

	spec, ok := encodeSpecs[strings.ToLower(outputFormat)]
	if !ok {
		return "", fmt.Errorf("%w: no encoder for format %q", ErrEngine, outputFormat)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngine, err)
	}

	// nothing to edit and the container already matches: plain copy
	if plan.Empty() && sameContainer(inputPath, outputFormat) {
		if err := copyFile(inputPath, outputPath); err != nil {
			return "", fmt.Errorf("%w: %v", ErrEngine, err)
		}
		e.logger.Infow("No edits requested, copied input",
			"output", outputPath,
		)
		return outputPath, nil
	}

	kwargs := ffmpeg.KwArgs{
		"vn":     "", // output is an audio container
		"sn":     "",
		"dn":     "",
		"acodec": spec.Codec,
		"ar":     e.sampleRate,
		"ac":     e.channels,
	}
	if spec.Bitrate != "" {
		kwargs["b:a"] = spec.Bitrate
	}
	if spec.Quality != "" {
		kwargs["qscale:a"] = spec.Quality
	}
	if spec.Container != "" {
		kwargs["f"] = spec.Container
	}

	if !plan.Empty() {
		switch plan.Intervals[0].Treatment {
		case cleaner.TreatmentTone:
			kwargs["filter_complex"] = toneFilter(plan.Intervals)
		default:
			kwargs["af"] = muteFilter(plan.Intervals)
		}
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngine, err)
	}

	cmd := ffmpeg.Input(inputPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Compile()

	e.logger.Debugw("Running ffmpeg",
		"args", strings.Join(cmd.Args, " "),
	)

	if err := runWithContext(ctx, cmd); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngine, err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("%w: output file was not created: %s", ErrEngine, outputPath)
	}

	return outputPath, nil
}

// runWithContext starts the command and kills it if ctx is canceled, so a
// long encode can be abandoned without corrupting in-memory state.
func runWithContext(ctx context.Context, cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err := <-done:
		if err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return fmt.Errorf("%v: %s", err, lastLine(msg))
			}
			return err
		}
		return nil
	}
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func sameContainer(inputPath, outputFormat string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(inputPath)), ".")
	return ext == strings.ToLower(outputFormat)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
