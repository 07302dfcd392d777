package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vecviz/internal/config"
	"vecviz/internal/logging"
)

// app carries what every subcommand needs once the root has loaded the
// configuration.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config

	// keys maps a subcommand's flag names to the config keys they set.
	keys map[*cobra.Command]map[string]string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), keys: map[*cobra.Command]map[string]string{}}

	root := &cobra.Command{
		Use:   "vecviz",
		Short: "Visualize a 3x3 matrix acting on a 3D vector",

		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for name, key := range a.keys[cmd] {
				a.bind(key, cmd.Flags().Lookup(name))
			}
			return a.load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML config file")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("vector", "", `starting vector, e.g. "1,2,1"`)
	pf.String("matrix", "", `starting matrix, row-major, e.g. "1,0,0,0,1,0,0,0,1"`)
	pf.Bool("auto-scale", false, "derive unit and length from the vectors")
	a.bind("log.level", pf.Lookup("log-level"))
	a.bind("log.format", pf.Lookup("log-format"))
	a.bind("scene.vector", pf.Lookup("vector"))
	a.bind("scene.matrix", pf.Lookup("matrix"))
	a.bind("scene.auto_scale", pf.Lookup("auto-scale"))

	root.AddCommand(
		newServeCmd(a),
		newRenderCmd(a),
		newSceneCmd(a),
		newTransformCmd(a),
		newTUICmd(a),
		newViewCmd(a),
	)
	return root
}

// bind lets a flag override a config key when it is set on the command
// line.
func (a *app) bind(key string, f *pflag.Flag) {
	if err := a.v.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind %s: %v", key, err))
	}
}

// flagKeys records which config key each of cmd's flags overrides. The
// binding happens only when cmd runs, so subcommands may share keys.
func (a *app) flagKeys(cmd *cobra.Command, keys map[string]string) {
	a.keys[cmd] = keys
}

func (a *app) load() error {
	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	l, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	logging.SetLogger(l)
	a.cfg = cfg
	return nil
}
