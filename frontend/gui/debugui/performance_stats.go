package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/engine"
)

// FrameHistory is a ring of recent frame times in milliseconds.
type FrameHistory struct {
	values []float32
	index  int
}

func NewFrameHistory(frames int) *FrameHistory {
	return &FrameHistory{values: make([]float32, frames)}
}

// Push records one frame time.
func (h *FrameHistory) Push(d time.Duration) {
	h.values[h.index] = float32(d.Seconds() * 1000.0)
	h.index = (h.index + 1) % len(h.values)
}

// Average returns the mean over the whole ring, unfilled slots included.
func (h *FrameHistory) Average() float32 {
	var total float32
	for _, v := range h.values {
		total += v
	}
	return total / float32(len(h.values))
}

// PerformanceStats renders scheduler counters, per-system timings and a
// frame time graph.
type PerformanceStats struct {
	sched   *engine.Scheduler
	history *FrameHistory
}

func NewPerformanceStats(sched *engine.Scheduler, historyFrames int) *PerformanceStats {
	return &PerformanceStats{
		sched:   sched,
		history: NewFrameHistory(historyFrames),
	}
}

func (ps *PerformanceStats) Render(delta time.Duration) {
	ps.history.Push(delta)

	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := ps.sched.GetStats()

	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	imgui.Text(fmt.Sprintf("Commands Applied: %d", stats.CommandsApplied))
	imgui.Text(fmt.Sprintf("Timers Fired: %d", stats.TimersFired))
	imgui.Text(fmt.Sprintf("Pending Timers: %d", ps.sched.Timers().Len()))

	avg := ps.history.Average()
	fps := float32(0)
	if avg > 0 {
		fps = 1000.0 / avg
	}
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, fps))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.history.values[0], int32(len(ps.history.values)))

	if imgui.TreeNodeStr("System Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// FrameTimer measures wall time between frames.
type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) Delta() time.Duration {
	now := time.Now()
	delta := now.Sub(ft.lastFrameTime)
	ft.lastFrameTime = now
	return delta
}
