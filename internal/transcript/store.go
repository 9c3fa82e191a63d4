package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bleep/internal/logging"
)

var (
	// ErrNotFound is a result, not a failure: the caller must transcribe.
	ErrNotFound = errors.New("no stored transcript for source")

	ErrLoad  = errors.New("transcript load failed")
	ErrParse = errors.New("transcript parse failed")
	ErrWrite = errors.New("transcript write failed")
)

const (
	nameInfix     = "_transcript_"
	nameExt       = ".json"
	timestampForm = "20060102150405"
)

// Store persists word-level transcripts under a dedicated directory so later
// runs against the same source can skip re-transcription.
type Store struct {
	dir    string
	now    func() time.Time
	logger *logging.Logger
}

func NewStore(dir string, logger *logging.Logger) *Store {
	return &Store{
		dir:    dir,
		now:    time.Now,
		logger: logger,
	}
}

// Save writes the words as a timestamped JSON file derived from the source
// filename and returns the path. An existing file is never overwritten; a
// same-second collision gets a numeric suffix.
func (s *Store) Save(words []Word, sourceFilename string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	data, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	data = append(data, '\n')

	base := baseName(sourceFilename)
	stamp := s.now().Format(timestampForm)

	path := filepath.Join(s.dir, base+nameInfix+stamp+nameExt)
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(s.dir, fmt.Sprintf("%s%s%s_%d%s", base, nameInfix, stamp, n, nameExt))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	s.logger.Infow("Saved transcript",
		"path", path,
		"words", len(words),
	)
	return path, nil
}

// LoadMostRecent scans the store for transcripts of the given source and
// loads the one with the latest timestamp. Returns ErrNotFound when none
// match; callers treat that as "must transcribe".
func (s *Store) LoadMostRecent(sourceFilename string) (*Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	prefix := baseName(sourceFilename) + nameInfix

	// The YYYYMMDDHHMMSS stamp sorts lexicographically, and a collision
	// suffix sorts after its bare stamp, so a plain string comparison picks
	// the latest save without depending on directory order or mtimes.
	var best string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, nameExt) {
			continue
		}
		if best == "" || name > best {
			best = name
		}
	}
	if best == "" {
		return nil, ErrNotFound
	}

	return s.Load(filepath.Join(s.dir, best))
}

// Load reads a transcript directly by path.
func (s *Store) Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}

	var words []Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	return &Record{
		Words:     words,
		Source:    sourceFromName(filepath.Base(path)),
		CreatedAt: createdFromName(filepath.Base(path)),
	}, nil
}

// baseName strips the directory and extension from a source filename.
func baseName(sourceFilename string) string {
	base := filepath.Base(sourceFilename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sourceFromName(name string) string {
	if i := strings.LastIndex(name, nameInfix); i > 0 {
		return name[:i]
	}
	return strings.TrimSuffix(name, nameExt)
}

func createdFromName(name string) time.Time {
	i := strings.LastIndex(name, nameInfix)
	if i < 0 {
		return time.Time{}
	}
	stamp := strings.TrimSuffix(name[i+len(nameInfix):], nameExt)
	if j := strings.Index(stamp, "_"); j >= 0 {
		stamp = stamp[:j]
	}
	t, err := time.ParseInLocation(timestampForm, stamp, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
