// Package cli holds the flag, configuration and logging wiring shared by the
// command line programs.
package cli

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vkngwrapper/compute-tutorial/internal/config"
	"github.com/vkngwrapper/compute-tutorial/internal/logging"
	"github.com/vkngwrapper/compute-tutorial/internal/vkcompute"
)

// App is the state a command sees once its configuration is loaded.
type App struct {
	Viper  *viper.Viper
	Config *config.Config
	Log    *logrus.Logger

	cmd     *cobra.Command
	cfgFile string
}

// New attaches the common flags to cmd and loads the configuration before
// cmd runs.
func New(cmd *cobra.Command) *App {
	app := &App{
		Viper: config.New(),
		Log:   logging.Get(),
		cmd:   cmd,
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.cfgFile, "config", "", "config file (YAML)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "also write logs to this file")
	flags.Bool("validation", false, "enable the Vulkan validation layer")
	flags.Bool("strict-sync", true, "treat a failed submit or fence wait as fatal")
	flags.Duration("fence-timeout", 0, "how long to wait for the GPU (default 100s)")
	flags.String("video-driver", "", "SDL video driver used to load Vulkan (offscreen or dummy on hosts without a display)")

	app.bind("logging.level", flags.Lookup("log-level"))
	app.bind("logging.file", flags.Lookup("log-file"))
	app.bind("vulkan.validation", flags.Lookup("validation"))
	app.bind("vulkan.strict_sync", flags.Lookup("strict-sync"))
	app.bind("vulkan.fence_timeout", flags.Lookup("fence-timeout"))
	app.bind("vulkan.video_driver", flags.Lookup("video-driver"))

	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return app.load()
	}

	return app
}

// BindFlag ties a local flag of the command to a configuration key. Only a
// flag that was set on the command line overrides the file and environment.
func (a *App) BindFlag(key, flag string) {
	a.bind(key, a.cmd.Flags().Lookup(flag))
}

func (a *App) bind(key string, flag *pflag.Flag) {
	if err := a.Viper.BindPFlag(key, flag); err != nil {
		panic(errors.Wrapf(err, "cli: bind %s", key))
	}
}

func (a *App) load() error {
	cfg, err := config.Load(a.Viper, a.cfgFile)
	if err != nil {
		return err
	}
	a.Config = cfg

	if err = logging.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return err
	}
	a.Log = logging.Get()

	if a.cfgFile != "" {
		a.Log.WithField("file", a.cfgFile).Debug("configuration loaded")
	}
	return nil
}

// VulkanOptions translates the vulkan section of the configuration.
func (a *App) VulkanOptions() vkcompute.Options {
	return vkcompute.Options{
		ApplicationName: a.Config.Vulkan.ApplicationName,
		Validation:      a.Config.Vulkan.Validation,
		FenceTimeout:    a.Config.Vulkan.FenceTimeout,
		StrictSync:      a.Config.Vulkan.StrictSync,
		VideoDriver:     a.Config.Vulkan.VideoDriver,
		Logger:          a.Log,
	}
}

// Execute runs cmd and exits with status 1 on error.
func (a *App) Execute() {
	if err := a.cmd.Execute(); err != nil {
		a.Log.Fatalf("%+v", err)
	}
	if err := logging.Close(); err != nil {
		a.Log.WithError(err).Warn("log file not closed cleanly")
	}
}

// DimensionArgs accepts at most one argument, a positive matrix dimension.
func DimensionArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errors.Newf("usage: %s", cmd.UseLine())
	}
	if len(args) == 1 {
		if _, err := ParseDimension(args[0]); err != nil {
			return err
		}
	}
	return nil
}

// ParseDimension parses a positive integer.
func ParseDimension(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Newf("dimension %q is not an integer", s)
	}
	if n <= 0 {
		return 0, errors.Newf("dimension must be positive, got %d", n)
	}
	return n, nil
}
