package main

import (
	"fmt"
	"io"
	"time"

	"dv6/internal/pipeline"
)

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	if timings.Has(pipeline.StageWalk) {
		fmt.Fprintf(out, "walked %.1f ms\n", toMillis(timings.Duration(pipeline.StageWalk)))
	}
	if timings.Has(pipeline.StageParse) {
		fmt.Fprintf(out, "parsed %.1f ms\n", toMillis(timings.Duration(pipeline.StageParse)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
