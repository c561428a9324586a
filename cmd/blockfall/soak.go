package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// soakOptions configure a headless soak run.
type soakOptions struct {
	// Duration is virtual play time.
	Duration       time.Duration
	Frame          time.Duration
	ActionRate     float64
	Seed           uint64
	GCPauseMetrics bool
}

// driverSystem plays randomly: each frame it taps a random action with
// probability rate and restarts finished sessions.
type driverSystem struct {
	rng  *rand.Rand
	rate float64
	game *game.Game
	ctrl *input.Controller

	actions int64
}

func (d *driverSystem) Execute(frame *engine.UpdateFrame) {
	if d.game.State() != game.StateStart {
		frame.Commands.Defer(func() { d.ctrl.Tap(input.Confirm) })
		d.actions++
		return
	}
	if d.rng.Float64() >= d.rate {
		return
	}

	// confirm would pause; leave it out of the random pool
	a := input.Actions[d.rng.IntN(len(input.Actions)-1)]
	frame.Commands.Defer(func() { d.ctrl.Tap(a) })
	d.actions++
}

func runSoak(s *session, opts soakOptions) *Report {
	driver := &driverSystem{
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed+1)),
		rate: opts.ActionRate,
		game: s.game,
		ctrl: s.ctrl,
	}
	s.sched.Register(driver)

	frames := int(opts.Duration / opts.Frame)
	report := &Report{
		Duration:       opts.Duration,
		Frame:          opts.Frame,
		ActionRate:     opts.ActionRate,
		GCPauseMetrics: opts.GCPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0, frames),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)
	startTime := time.Now()

	for range frames {
		updateStart := time.Now()
		s.sched.Step(opts.Frame)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = int64(frames)
	report.Actions = driver.actions
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Totals = s.game.Totals()
	report.Final = s.game.Snapshot()
	report.Scheduler = *s.sched.GetStats()
	return report
}

func newSoakCmd(a *app) *cobra.Command {
	opts := soakOptions{}

	cmd := &cobra.Command{
		Use:   "soak",
		Short: "Run a headless randomized session and report engine timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Frame <= 0 {
				return fmt.Errorf("frame must be positive, got %s", opts.Frame)
			}

			t, err := a.tuning()
			if err != nil {
				return err
			}
			log, closer, err := a.logger(t, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			opts.Seed = t.Seed
			if opts.Seed == 0 {
				opts.Seed = rand.Uint64()
			}
			t.Seed = opts.Seed

			log.WithFields(logrus.Fields{
				"duration": opts.Duration,
				"seed":     opts.Seed,
			}).Info("starting soak run")

			report := runSoak(newSession(t, log), opts)

			log.WithField("updates", report.TotalUpdates).Info("soak run finished")
			return report.Generate(os.Stdout)
		},
	}

	cmd.Flags().DurationVar(&opts.Duration, "duration", 10*time.Minute, "virtual play time to simulate")
	cmd.Flags().DurationVar(&opts.Frame, "frame", 16*time.Millisecond, "virtual frame length")
	cmd.Flags().Float64Var(&opts.ActionRate, "action-rate", 0.2, "probability of an action per frame")
	cmd.Flags().BoolVar(&opts.GCPauseMetrics, "gc-pause-metrics", false, "include GC pause metrics in the report")
	return cmd
}
