package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"bleep/internal/swears"
	"bleep/internal/transcript"
)

// WordCount is one entry of the censored word frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TimelineEntry places one censored word in time.
type TimelineEntry struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Report aggregates the results of a censoring run. Recomputed on each
// invocation, never persisted by this package itself.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`

	TotalWordCount       int     `json:"total_word_count"`
	CensoredWordCount    int     `json:"censored_word_count"`
	CensorshipPercentage float64 `json:"censorship_percentage"`
	UniqueCensoredWords  int     `json:"unique_censored_words"`

	WordFrequency []WordCount     `json:"word_frequency"`
	Timeline      []TimelineEntry `json:"timeline"`

	TotalDurationSeconds       float64 `json:"total_duration_seconds"`
	CensoredDurationSeconds    float64 `json:"censored_duration_seconds"`
	CensoredDurationPercentage float64 `json:"censored_duration_percentage"`
}

// Analyze is a pure function over the final transcript and suppressed word
// list. Durations are the unpadded word intervals.
func Analyze(allWords, suppressed []transcript.Word, totalDurationSeconds float64) *Report {
	report := &Report{
		GeneratedAt:          time.Now(),
		TotalWordCount:       len(allWords),
		CensoredWordCount:    len(suppressed),
		TotalDurationSeconds: totalDurationSeconds,
	}

	if report.TotalWordCount > 0 {
		report.CensorshipPercentage = 100 * float64(report.CensoredWordCount) / float64(report.TotalWordCount)
	}

	// frequency by normalized word, descending count, ties by first occurrence
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, w := range suppressed {
		key := swears.Normalize(w.Text)
		if _, ok := counts[key]; !ok {
			firstSeen[key] = i
		}
		counts[key]++
	}
	report.UniqueCensoredWords = len(counts)

	report.WordFrequency = make([]WordCount, 0, len(counts))
	for word, count := range counts {
		report.WordFrequency = append(report.WordFrequency, WordCount{Word: word, Count: count})
	}
	sort.SliceStable(report.WordFrequency, func(i, j int) bool {
		a, b := report.WordFrequency[i], report.WordFrequency[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return firstSeen[a.Word] < firstSeen[b.Word]
	})

	report.Timeline = make([]TimelineEntry, 0, len(suppressed))
	var censoredDuration float64
	for _, w := range suppressed {
		censoredDuration += w.Duration()
		report.Timeline = append(report.Timeline, TimelineEntry{
			Word:       w.Text,
			Start:      w.Start,
			End:        w.End,
			Confidence: w.Confidence,
		})
	}
	sort.SliceStable(report.Timeline, func(i, j int) bool {
		return report.Timeline[i].Start < report.Timeline[j].Start
	})

	report.CensoredDurationSeconds = censoredDuration
	if totalDurationSeconds > 0 {
		report.CensoredDurationPercentage = 100 * censoredDuration / totalDurationSeconds
	}

	return report
}

const (
	maxFrequencyRows = 20
	maxTimelineRows  = 50
	ruleWidth        = 60
)

// Text renders the human-readable report. The structured rendering is the
// Report's own JSON form; both present identical numbers.
func (r *Report) Text() string {
	var sb strings.Builder
	rule := strings.Repeat("=", ruleWidth)
	sep := strings.Repeat("-", ruleWidth)

	sb.WriteString(rule + "\n")
	sb.WriteString("CENSORSHIP STATISTICS REPORT\n")
	sb.WriteString(rule + "\n")
	sb.WriteString("Generated: " + r.GeneratedAt.Format("2006-01-02 15:04:05") + "\n\n")

	sb.WriteString("SUMMARY\n" + sep + "\n")
	fmt.Fprintf(&sb, "Total words transcribed: %d\n", r.TotalWordCount)
	fmt.Fprintf(&sb, "Words censored: %d\n", r.CensoredWordCount)
	fmt.Fprintf(&sb, "Censorship rate: %.2f%%\n\n", r.CensorshipPercentage)

	if r.TotalDurationSeconds > 0 {
		sb.WriteString("AUDIO DETAILS\n" + sep + "\n")
		fmt.Fprintf(&sb, "Total audio duration: %s\n", formatDuration(r.TotalDurationSeconds))
		fmt.Fprintf(&sb, "Censored duration: %s\n", formatDuration(r.CensoredDurationSeconds))
		fmt.Fprintf(&sb, "Censored time: %.2f%%\n\n", r.CensoredDurationPercentage)
	}

	if len(r.WordFrequency) > 0 {
		sb.WriteString("CENSORED WORDS FREQUENCY\n" + sep + "\n")
		for i, wc := range r.WordFrequency {
			if i == maxFrequencyRows {
				fmt.Fprintf(&sb, "  ... and %d more\n", len(r.WordFrequency)-maxFrequencyRows)
				break
			}
			fmt.Fprintf(&sb, "  %s: %d occurrence(s)\n", wc.Word, wc.Count)
		}
		sb.WriteString("\n")
	}

	if len(r.Timeline) > 0 {
		sb.WriteString("CENSORED WORDS TIMELINE\n" + sep + "\n")
		for i, entry := range r.Timeline {
			if i == maxTimelineRows {
				fmt.Fprintf(&sb, "  ... and %d more\n", len(r.Timeline)-maxTimelineRows)
				break
			}
			fmt.Fprintf(&sb, "  [%s] %s (confidence: %.2f)\n",
				formatTimestamp(entry.Start), entry.Word, entry.Confidence)
		}
	}

	sb.WriteString(rule + "\n")
	return sb.String()
}

func formatDuration(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func formatTimestamp(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600+minutes*60)

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%05.2f", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%05.2f", minutes, secs)
}
