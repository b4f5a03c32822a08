package main

import (
	"fmt"
	"io"

	"tpgen/internal/observ"
	"tpgen/internal/pipeline"
)

func recordStageTimings(timer *observ.Timer, timings pipeline.Timings) {
	for _, stage := range pipeline.Stages {
		if timings.Has(stage) {
			timer.Add(string(stage), timings.Duration(stage), "")
		}
	}
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
}
