package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vecviz/internal/logging"
	"vecviz/internal/render"
	"vecviz/internal/session"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		out    string
		noMath bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the scene to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := session.New(a.cfg.SessionOptions())
			raster, err := render.NewRaster()
			if err != nil {
				return err
			}
			var overlay []string
			if !noMath {
				overlay = strings.Split(sess.MathText(), "\n")
			}
			return writeOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return raster.WritePNG(w, sess.Scene(), a.cfg.Camera(), overlay)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "scene.png", `output file, "-" for stdout`)
	f.BoolVar(&noMath, "no-math", false, "omit the u = T · v overlay")
	f.Int("width", 1024, "image width in pixels")
	f.Int("height", 768, "image height in pixels")
	f.Float64("yaw", 35, "camera yaw in degrees")
	f.Float64("pitch", 25, "camera pitch in degrees")
	f.Float64("frustum", render.DefaultFrustum, "visible world height")
	a.flagKeys(cmd, map[string]string{
		"width":   "render.width",
		"height":  "render.height",
		"yaw":     "render.yaw",
		"pitch":   "render.pitch",
		"frustum": "render.frustum",
	})
	return cmd
}

func newSceneCmd(a *app) *cobra.Command {
	var (
		out    string
		format string
	)
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Print the derived scene primitives as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := session.New(a.cfg.SessionOptions()).Scene()
			return writeOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				switch strings.ToLower(format) {
				case "json":
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(sc)
				case "yaml":
					enc := yaml.NewEncoder(w)
					enc.SetIndent(2)
					if err := enc.Encode(sc); err != nil {
						return err
					}
					return enc.Close()
				}
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", `output file, "-" for stdout`)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	return cmd
}

func newTransformCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transform [vector] [matrix]",
		Short: "Validate the inputs and print u = T · v",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := session.New(a.cfg.SessionOptions())
			if len(args) > 0 {
				sess.SetVectorText(args[0])
			}
			if len(args) > 1 {
				sess.SetMatrixText(args[1])
			}
			if err := sess.Transform(); err != nil {
				n, _ := sess.Notification()
				if n.Detail != "" {
					return fmt.Errorf("%s (%s)", n.Message, n.Detail)
				}
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), sess.MathText())
			return err
		},
	}
}

// writeOutput runs write against the named file, or stdout for "-".
func writeOutput(name string, stdout io.Writer, write func(io.Writer) error) error {
	if name == "-" || name == "" {
		bw := bufio.NewWriter(stdout)
		if err := write(bw); err != nil {
			return err
		}
		return bw.Flush()
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logging.Logger().Info("wrote output", "file", name)
	return nil
}
