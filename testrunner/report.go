package testrunner

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// PassRate is the share of non-skipped tests that passed, in percent.
func (s Summary) PassRate() float64 {
	run := s.Total - s.Skipped
	if run == 0 {
		return 0
	}
	return float64(s.Passed) / float64(run) * 100
}

// Throughput is the number of source bytes parsed per second.
func (s Summary) Throughput() uint64 {
	secs := s.Elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return uint64(float64(s.Bytes) / secs)
}

// WriteReport prints failures followed by the summary block.
func WriteReport(w io.Writer, results []TestResult, s Summary, verbose bool) {
	for _, tr := range results {
		if tr.Result == Pass || tr.Result == Skip {
			if !verbose {
				continue
			}
		}
		msg := ""
		if tr.Message != "" {
			msg = " " + tr.Message
		}
		fmt.Fprintf(w, "%s %s%s\n", tr.Result, tr.Path, msg)
	}

	fmt.Fprintf(w, "\nrun %s\n", s.RunID)
	fmt.Fprintf(w, "total:   %s\n", humanize.Comma(int64(s.Total)))
	fmt.Fprintf(w, "passed:  %s (%.1f%%)\n", humanize.Comma(int64(s.Passed)), s.PassRate())
	fmt.Fprintf(w, "failed:  %s\n", humanize.Comma(int64(s.Failed)))
	fmt.Fprintf(w, "skipped: %s\n", humanize.Comma(int64(s.Skipped)))
	fmt.Fprintf(w, "errors:  %s\n", humanize.Comma(int64(s.Errors)))
	fmt.Fprintf(w, "parsed %s in %s (%s/s)\n",
		humanize.Bytes(uint64(s.Bytes)), s.Elapsed.Round(time.Millisecond), humanize.Bytes(s.Throughput()))
}
