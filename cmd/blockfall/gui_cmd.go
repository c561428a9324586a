package main

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/frontend/gui"
	"github.com/plus3/blockfall/frontend/gui/debugui"
	"github.com/spf13/cobra"
)

func newGUICmd(a *app) *cobra.Command {
	var overlay bool

	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Play in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.tuning()
			if err != nil {
				return err
			}
			log, closer, err := a.logger(t, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			keys, err := gui.ParseKeys(t.Keys.GUI)
			if err != nil {
				return err
			}

			s := newSession(t, log)
			width, height := gui.WindowSize(t.Height, t.Width)

			opts := []gui.Option{gui.WithKeys(keys)}
			if overlay {
				backend := debugui.NewBackend("blockfall", width+400, height)
				opts = append(opts, gui.WithOverlay(backend, t.GameConfig()))
			} else {
				ebiten.SetWindowTitle("blockfall")
				ebiten.SetWindowSize(width, height)
			}

			ebiten.SetTPS(max(int(time.Second/t.FrameInterval), 1))

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if w := a.watcher(s, log); w != nil {
				go func() {
					if err := w.Run(ctx); err != nil {
						log.WithError(err).Warn("tuning watcher stopped")
					}
				}()
			}

			return ebiten.RunGame(gui.New(s.sched, s.ctrl, s.game, opts...))
		},
	}

	cmd.Flags().BoolVar(&overlay, "debug", false, "show the Dear ImGui debug overlay")
	return cmd
}
