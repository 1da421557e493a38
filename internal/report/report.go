// Package report writes the end-of-run summary that the source system
// produced as an Excel workbook (DWM10_Parms.workbook). No Go library
// in the retrieved example pack writes .xlsx, so the workbook is
// replaced with a plain-text report covering the same content: one
// line per iteration plus a final totals section, using
// go-humanize for the same kind of human-readable number and duration
// formatting the workbook's summary tab provided.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oysterer/dwm/pkg/dwm/pipeline"
)

// Write renders a run's full result to w: a header naming the run and
// its input, one line per iteration, and a closing totals section.
func Write(w io.Writer, runID string, inputFile string, started time.Time, result *pipeline.Result) error {
	elapsed := time.Since(started)

	fmt.Fprintf(w, "washing machine run %s\n", runID)
	fmt.Fprintf(w, "input: %s\n", inputFile)
	fmt.Fprintf(w, "started: %s (%s ago)\n", started.Format(time.RFC3339), humanize.Time(started))
	fmt.Fprintf(w, "elapsed: %s\n\n", elapsed.Round(time.Millisecond))

	fmt.Fprintf(w, "%-10s %-6s %-8s %-12s %-10s %-10s %-10s %-10s %-10s\n",
		"iteration", "mu", "epsilon", "candidates", "linked", "clusters", "precision", "recall", "f-measure")
	for _, it := range result.Iterations {
		precision, recall, fmeasure := "-", "-", "-"
		if it.Quality != nil {
			precision = humanize.Ftoa(it.Quality.Precision)
			recall = humanize.Ftoa(it.Quality.Recall)
			fmeasure = humanize.Ftoa(it.Quality.FMeasure)
		}
		fmt.Fprintf(w, "%-10d %-6.2f %-8.2f %-12s %-10s %-10s %-10s %-10s %-10s\n",
			it.Iteration, it.Mu, it.Epsilon,
			humanize.Comma(int64(it.CandidatePairs)),
			humanize.Comma(int64(it.LinkedPairs)),
			humanize.Comma(int64(it.Clusters)),
			precision, recall, fmeasure,
		)
	}

	fmt.Fprintf(w, "\nfinal references: %s\n", humanize.Comma(int64(len(result.RefDict))))
	fmt.Fprintf(w, "final distinct tokens: %s\n", humanize.Comma(result.FinalProfile.DistinctTokens))
	fmt.Fprintf(w, "average token length: %.2f\n", result.FinalProfile.AverageLength)
	fmt.Fprintf(w, "numeric token ratio: %s\n", humanize.Ftoa(result.FinalProfile.NumericRatio))

	if result.FinalQuality != nil {
		fmt.Fprintf(w, "\nfinal precision: %s\n", humanize.Ftoa(result.FinalQuality.Precision))
		fmt.Fprintf(w, "final recall: %s\n", humanize.Ftoa(result.FinalQuality.Recall))
		fmt.Fprintf(w, "final f-measure: %s\n", humanize.Ftoa(result.FinalQuality.FMeasure))
	}

	return nil
}
