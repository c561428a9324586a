// Package term is the terminal frontend: a tcell screen renderer and a key
// event pump feeding the input controller.
//
// Terminals report key presses only, so every key event is delivered as a
// tap; holding a key relies on the terminal's own key repeat.
package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Frontend ties a screen to a running scheduler.
type Frontend struct {
	screen tcell.Screen
	sched  *engine.Scheduler
	ctrl   *input.Controller
	keys   Keymap
	log    logrus.FieldLogger
}

// New registers the render system on sched and returns the frontend. The
// screen must already be initialised.
func New(screen tcell.Screen, sched *engine.Scheduler, ctrl *input.Controller, g *game.Game, log logrus.FieldLogger) *Frontend {
	sched.Register(&RenderSystem{Screen: screen, Game: g})
	return &Frontend{
		screen: screen,
		sched:  sched,
		ctrl:   ctrl,
		keys:   DefaultKeymap(),
		log:    log,
	}
}

// SetKeymap replaces the key bindings.
func (f *Frontend) SetKeymap(k Keymap) {
	f.keys = k
}

// Run drives the scheduler at interval and pumps key events until the
// player quits or ctx is done.
func (f *Frontend) Run(ctx context.Context, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	f.sched.Enqueue(f.ctrl.Bind)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f.sched.Run(gctx, interval)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return f.pump(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		// wake PollEvent so the pump can observe cancellation
		_ = f.screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})
	err := g.Wait()
	// the loop has stopped, so the controller can be touched directly
	f.ctrl.Unbind()
	return err
}

func (f *Frontend) pump(ctx context.Context) error {
	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isQuit(ev) {
				f.log.Debug("quit requested")
				return nil
			}
			if a, ok := f.keys.Lookup(ev); ok {
				f.sched.Enqueue(func() { f.ctrl.Tap(a) })
			}
		case *tcell.EventResize:
			f.screen.Sync()
		}
	}
}
