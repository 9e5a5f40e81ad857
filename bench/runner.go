package bench

import (
	"fmt"
	"io"
	"time"
)

const steadyStateTolerance = 0.05

// RunMultiple executes runFn N times, checks steady-state, returns median.
// runFn receives the run index (0-based) and returns the summary for that
// run. The first error stops the series.
func RunMultiple(w io.Writer, runs int, cooldown time.Duration, label string, runFn func(run int) (Summary, error)) (Summary, error) {
	if runs <= 1 {
		return runFn(0)
	}

	fmt.Fprintf(w, "\n╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║  %d-RUN BENCHMARK: %-38s║\n", runs, label)
	fmt.Fprintf(w, "║  Methodology: median of %d runs, steady-state verified    ║\n", runs)
	fmt.Fprintf(w, "╚═══════════════════════════════════════════════════════════╝\n")

	allRuns := make([]Summary, 0, runs)

	for i := 0; i < runs; i++ {
		fmt.Fprintf(w, "\n── Run %d/%d ──\n", i+1, runs)
		s, err := runFn(i)
		if err != nil {
			return s, fmt.Errorf("run %d: %w", i+1, err)
		}
		allRuns = append(allRuns, s)

		fmt.Fprintf(w, "  Run %d: QPS=%.1f  elapsed=%s  rows=%d  errors=%d\n",
			i+1, s.QPS, FmtDur(s.Elapsed), s.Rows, s.Failures)

		// Cleanup pause between runs (not after last)
		if i < runs-1 && cooldown > 0 {
			fmt.Fprintf(w, "  Cooling down (%s)...", cooldown)
			time.Sleep(cooldown)
			fmt.Fprintln(w, " done")
		}
	}

	steady, maxDev := SteadyState(allRuns, steadyStateTolerance)
	fmt.Fprintf(w, "\n── Steady-State Check ──\n")
	fmt.Fprintf(w, "  Max QPS deviation: %.1f%%\n", maxDev*100)
	if steady {
		fmt.Fprintln(w, "  ✅ PASSED (within ±5%)")
	} else {
		fmt.Fprintf(w, "  ⚠️  FAILED (%.1f%% > 5%%), results still reported as median\n", maxDev*100)
	}

	median := MedianStats(allRuns)
	median.Label = fmt.Sprintf("%s (median of %d runs)", label, runs)

	fmt.Fprintf(w, "\n╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║  ALL RUNS SUMMARY                                        ║\n")
	fmt.Fprintf(w, "╠═════╦══════════╦══════════╦══════════╦═══════════════════╣\n")
	fmt.Fprintf(w, "║ Run ║   QPS    ║ Elapsed  ║   Rows   ║ Errors            ║\n")
	fmt.Fprintf(w, "╠═════╬══════════╬══════════╬══════════╬═══════════════════╣\n")
	for i, r := range allRuns {
		marker := "  "
		if r.Elapsed == median.Elapsed && r.QPS == median.QPS {
			marker = "→ "
		}
		fmt.Fprintf(w, "║ %s%d  ║ %8.1f ║ %8s ║ %8d ║ %-17d ║\n",
			marker, i+1, r.QPS, FmtDur(r.Elapsed), r.Rows, r.Failures)
	}
	fmt.Fprintf(w, "╚═════╩══════════╩══════════╩══════════╩═══════════════════╝\n")
	fmt.Fprintln(w, "  → = median (reported)")

	return median, nil
}
