package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vecviz/internal/logging"
	"vecviz/internal/session"
	"vecviz/internal/tui"
	"vecviz/internal/viewer"
	"vecviz/internal/viewer/window"
)

func newTUICmd(a *app) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Edit the vector and matrix in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the terminal belongs to the UI; logs go to a file or nowhere
			logging.SetLogger(nil)
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				l, err := a.cfg.Logger(f)
				if err != nil {
					return err
				}
				logging.SetLogger(l)
			}
			return tui.Run(session.New(a.cfg.SessionOptions()), tea.WithAltScreen())
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}

func newViewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive 3D viewer window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := viewer.NewShell(session.New(a.cfg.SessionOptions()), a.cfg.Camera())
			return window.Run(sh, "vecviz")
		},
	}
	cmd.Flags().Int("width", 1024, "window width in pixels")
	cmd.Flags().Int("height", 768, "window height in pixels")
	a.flagKeys(cmd, map[string]string{"width": "render.width", "height": "render.height"})
	return cmd
}
