package stream

import "github.com/dkoosis/morphd/pkg/morph"

// Stats summarises one run of the loop.
type Stats struct {
	Lines     int // raw lines read, when the source reports them
	Blank     int // blank lines skipped
	Words     int // words dispatched
	Succeeded int // records without error
	Failed    int // records with error
	Empty     int // successful records with zero analyses
}

func (s *Stats) record(r morph.AnalysisResult) {
	switch {
	case r.Failed():
		s.Failed++
	case len(r.Analyses) == 0:
		s.Succeeded++
		s.Empty++
	default:
		s.Succeeded++
	}
}

// LogAttrs returns the stats as slog key/value pairs.
func (s Stats) LogAttrs() []any {
	return []any{
		"lines", s.Lines,
		"blank", s.Blank,
		"words", s.Words,
		"succeeded", s.Succeeded,
		"failed", s.Failed,
		"empty", s.Empty,
	}
}
