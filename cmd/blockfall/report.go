package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Frame      time.Duration
	ActionRate float64

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	Actions        int64
	UpdateTime     Stats
	Totals         game.Totals
	Final          game.Snapshot
	Scheduler      engine.SchedulerStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Blockfall Soak Report

## Run Configuration
- **Virtual Duration:** {{.Duration}}
- **Frame:** {{.Frame}}
- **Action Rate:** {{printf "%.2f" .ActionRate}}

## Gameplay
- **Actions:** {{.Actions}}
- **Sessions:** {{.Totals.Sessions}}
- **Game Overs:** {{.Totals.GameOvers}}
- **Locks:** {{.Totals.Locks}}
- **Hard Drops:** {{.Totals.HardDrops}}
- **Holds:** {{.Totals.Holds}}
- **Final Session:** {{.Final.State}} at level {{.Final.Level}}, {{.Final.Lines}} lines, {{.Final.Score}} points

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Wall Time:** {{.TotalTime}}
- **Commands Applied:** {{.Scheduler.CommandsApplied}}
- **Timers Fired:** {{.Scheduler.TimersFired}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{range .Scheduler.Systems}}- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Heap (MB):** {{mb .MemStatsEnd.HeapAlloc}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
