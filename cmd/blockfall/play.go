package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/frontend/term"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.tuning()
			if err != nil {
				return err
			}
			log, closer, err := a.logger(t, true)
			if err != nil {
				return err
			}
			defer closer.Close()

			keymap, err := term.ParseKeymap(t.Keys.Term)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			s := newSession(t, log)
			frontend := term.New(screen, s.sched, s.ctrl, s.game, log)
			frontend.SetKeymap(keymap)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				defer cancel()
				return frontend.Run(gctx, t.FrameInterval)
			})
			if w := a.watcher(s, log); w != nil {
				g.Go(func() error { return w.Run(gctx) })
			}
			return g.Wait()
		},
	}
}
