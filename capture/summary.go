package capture

import (
	"fmt"
	"io"
	"time"
)

// Result is the outcome of capturing one project.
type Result struct {
	ProjectTitle string
	Succeeded    bool

	// Attempt is the attempt that succeeded, or the number of attempts made.
	Attempt int

	// Err is the terminal failure; nil on success.
	Err error
}

// Summary tallies a run. It is reported once and not persisted.
type Summary struct {
	RunID        string        `json:"run_id"`
	Total        int           `json:"total"`
	Succeeded    int           `json:"succeeded"`
	Failed       int           `json:"failed"`
	FailedTitles []string      `json:"failed_titles"`
	DurationMS   int64         `json:"duration_ms"`
	Duration     time.Duration `json:"-"`
	Results      []Result      `json:"-"`
}

// Add records r.
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
	if r.Succeeded {
		s.Succeeded++
		return
	}
	s.Failed++
	s.FailedTitles = append(s.FailedTitles, r.ProjectTitle)
}

// Print writes the end-of-run report.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Screenshot generation complete!")
	fmt.Fprintf(w, "Successful: %d\n", s.Succeeded)
	fmt.Fprintf(w, "Failed: %d\n", s.Failed)
	if len(s.FailedTitles) > 0 {
		fmt.Fprintln(w, "Failed projects:")
		for _, title := range s.FailedTitles {
			fmt.Fprintf(w, "  - %s\n", title)
		}
	}
	fmt.Fprintf(w, "Run %s took %s\n", s.RunID, s.Duration.Round(time.Millisecond))
}
