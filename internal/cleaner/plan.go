package cleaner

import "bleep/internal/transcript"

// Treatment is the suppression method applied to a censored interval.
type Treatment string

const (
	TreatmentMute Treatment = "mute"
	TreatmentTone Treatment = "tone"
)

// EditInterval is a padded time range the media engine silences or beeps
// over. ToneHz is only meaningful for TreatmentTone.
type EditInterval struct {
	Start     float64
	End       float64
	Treatment Treatment
	ToneHz    int
}

// Plan is the ordered, merged interval sequence handed to the media engine.
type Plan struct {
	Intervals []EditInterval
}

// Empty reports whether the plan carries no edits.
func (p Plan) Empty() bool {
	return len(p.Intervals) == 0
}

// BuildPlan pads each suppressed word's interval and merges overlapping or
// touching intervals. Merging is transitive: a chain of overlaps collapses
// into a single interval spanning min(start) to max(end).
func BuildPlan(censored []transcript.Word, opts Options) Plan {
	treatment := opts.Treatment
	if treatment == "" {
		treatment = TreatmentMute
	}
	toneHz := opts.ToneFrequencyHz
	if treatment == TreatmentTone && toneHz <= 0 {
		toneHz = defaultToneHz
	}

	var intervals []EditInterval
	for _, w := range censored {
		start := w.Start - opts.PrePadSeconds
		if start < 0 {
			start = 0
		}
		end := w.End + opts.PostPadSeconds

		if n := len(intervals); n > 0 && start <= intervals[n-1].End {
			if end > intervals[n-1].End {
				intervals[n-1].End = end
			}
			continue
		}
		intervals = append(intervals, EditInterval{
			Start:     start,
			End:       end,
			Treatment: treatment,
			ToneHz:    toneHz,
		})
	}

	return Plan{Intervals: intervals}
}
