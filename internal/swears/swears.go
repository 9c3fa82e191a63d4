package swears

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

var (
	ErrLoad  = errors.New("swear list load failed")
	ErrParse = errors.New("swear list parse failed")
	ErrWrite = errors.New("swear list write failed")
)

// SourceFormat tags how a list was stored on disk.
type SourceFormat string

const (
	FormatPlainText SourceFormat = "text"
	FormatJSON      SourceFormat = "json"
)

// Set is an immutable set of normalized prohibited word keys.
type Set struct {
	ID     string
	Source SourceFormat

	// normalized word -> replacement metadata ("*****" when none given)
	words map[string]string
}

const defaultReplacement = "*****"

// Contains reports membership of an already-normalized key.
func (s *Set) Contains(normalized string) bool {
	_, ok := s.words[normalized]
	return ok
}

func (s *Set) Len() int {
	return len(s.words)
}

// Words returns the normalized keys in sorted order.
func (s *Set) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Replacement returns the metadata stored for a key, if any.
func (s *Set) Replacement(normalized string) (string, bool) {
	r, ok := s.words[normalized]
	return r, ok
}

// apostrophe variants collapsed to ASCII ' before trimming
var apostrophes = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"`", "'",
)

// Normalize lower-cases a word, collapses apostrophe variants, and strips
// leading/trailing punctuation and whitespace. Idempotent.
func Normalize(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	w = apostrophes.Replace(w)
	return strings.TrimFunc(w, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
	})
}

// newSet normalizes raw word/replacement pairs into a Set, discarding words
// that normalize to the empty string. Returns the discarded originals.
func newSet(id string, source SourceFormat, raw map[string]string) (*Set, []string) {
	words := make(map[string]string, len(raw))
	var dropped []string
	for w, repl := range raw {
		key := Normalize(w)
		if key == "" {
			dropped = append(dropped, w)
			continue
		}
		words[key] = repl
	}
	sort.Strings(dropped)
	return &Set{ID: id, Source: source, words: words}, dropped
}

// DetectFormat decides between plain-text and JSON input. A .json path or
// content starting with a JSON array/object marker is treated as JSON.
func DetectFormat(path string, data []byte) SourceFormat {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatPlainText
}

// parsePlainText reads newline-delimited words. Lines may carry replacement
// metadata after a pipe; blank lines and # comments are skipped.
func parsePlainText(data []byte) (map[string]string, error) {
	raw := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word := line
		repl := defaultReplacement
		if i := strings.Index(line, "|"); i >= 0 {
			word = strings.TrimSpace(line[:i])
			if r := strings.TrimSpace(line[i+1:]); r != "" {
				repl = r
			}
		}
		if word != "" {
			raw[word] = repl
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return raw, nil
}

// parseJSON accepts either an array of words or an object mapping words to
// replacement metadata.
func parseJSON(data []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty JSON document", ErrParse)
	}

	raw := make(map[string]string)
	switch trimmed[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: expected array of strings: %v", ErrParse, err)
		}
		for _, w := range list {
			if strings.TrimSpace(w) != "" {
				raw[w] = defaultReplacement
			}
		}
	case '{':
		var obj map[string]string
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("%w: expected object of word to replacement: %v", ErrParse, err)
		}
		for w, repl := range obj {
			if strings.TrimSpace(w) == "" {
				continue
			}
			if strings.TrimSpace(repl) == "" {
				repl = defaultReplacement
			}
			raw[w] = repl
		}
	default:
		return nil, fmt.Errorf("%w: document is neither a JSON array nor object", ErrParse)
	}
	return raw, nil
}

// parse resolves the tagged source format once; downstream code only ever
// sees the canonical Set representation.
func parse(id string, format SourceFormat, data []byte) (*Set, []string, error) {
	var (
		raw map[string]string
		err error
	)
	switch format {
	case FormatJSON:
		raw, err = parseJSON(data)
	default:
		raw, err = parsePlainText(data)
	}
	if err != nil {
		return nil, nil, err
	}
	set, dropped := newSet(id, format, raw)
	return set, dropped, nil
}
