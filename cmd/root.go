package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"chronos/internal/app"
	"chronos/internal/core/model"
	"chronos/internal/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	workMinutes float64
	restMinutes float64
	logDir      string
	configDir   string
	debugMode   bool
	logLevel    string
	logToFile   bool
)

var rootCmd = &cobra.Command{
	Use:   "chronos",
	Short: "Work/rest focus timer with a reflection journal",
	Long: `Chronos runs a work phase, a rest phase and a short reflection,
then records the session. It lives in the system tray while running.

Keys: Space pauses, Enter starts, Escape steps back, Ctrl+D shows the debug overlay.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closer, err := newLogger()
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx, app.Options{
			ConfigDir: configDir,
			Overrides: overrides(cmd),
			Debug:     debugMode,
			Logger:    &logger,
		})
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Float64Var(&workMinutes, "work", 0, "work length in minutes for the setup form")
	rootCmd.Flags().Float64Var(&restMinutes, "rest", 0, "rest length in minutes for the setup form")
	rootCmd.Flags().StringVar(&logDir, "log-dir", "", "reflection journal directory for the setup form")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "show the debug overlay on start")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings and history directory (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-file", false, "also write JSON logs to the config directory")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// overrides collects the session flags the user actually set.
func overrides(cmd *cobra.Command) model.SettingsPatch {
	var patch model.SettingsPatch
	if cmd.Flags().Changed("work") {
		work := model.ClampMinutes(workMinutes, model.MaxWorkMinutes)
		patch.WorkMinutes = &work
	}
	if cmd.Flags().Changed("rest") {
		rest := model.ClampMinutes(restMinutes, model.MaxRestMinutes)
		patch.RestMinutes = &rest
	}
	if cmd.Flags().Changed("log-dir") {
		patch.LogDir = &logDir
	}
	return patch
}

func newLogger() (zerolog.Logger, io.Closer, error) {
	options := logging.Options{Level: logLevel, Console: true}
	if debugMode && !rootCmdFlagChanged("log-level") {
		options.Level = "debug"
	}
	if logToFile {
		dir, err := resolveConfigDir()
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		options.Dir = dir
	}
	return logging.New(options)
}

func rootCmdFlagChanged(name string) bool {
	flag := rootCmd.PersistentFlags().Lookup(name)
	return flag != nil && flag.Changed
}
