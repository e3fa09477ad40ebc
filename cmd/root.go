package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/securehide/internal/configs"
	logger "github.com/PolarWolf314/securehide/internal/logging"

	"github.com/spf13/cobra"
)

// Version is reported by --version and the health endpoint.
var Version = "1.0.0"

var (
	verbose    bool
	debug      bool
	configFile string
	Logger     logger.Logger

	RootCmd = &cobra.Command{
		Use:   "securehide",
		Short: "SecureHide - hide encrypted messages inside lossless images.",
		Long: `SecureHide encrypts a message with a password and hides it in the
least significant bits of a PNG, BMP or TIFF image. The image looks
unchanged; only someone with the password can recover the message.

Usage:
  securehide <command> [flags]

Available Commands:
  hide       Hide a message in an image
  reveal     Recover a hidden message
  capacity   Show how much an image can hold
  log        View the audit log
  config     Manage configuration
  serve      Run the HTTP API

Run 'securehide help <command>' for more details on a specific command.
`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			if configFile != "" {
				configs.SecureHideSettings.ConfigPath = configFile
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t, config=%s",
				cmd.Name(), verbose, debug, configs.SecureHideSettings.ConfigPath)
		},
	}
)

// errReported marks a failure whose message was already shown to the user.
var errReported = errors.New("command failed")

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/securehide/config.toml)")

	RootCmd.AddCommand(hideCmd)
	RootCmd.AddCommand(revealCmd)
	RootCmd.AddCommand(capacityCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(serveCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configFile = ""
	resetHideCommandState()
	resetRevealCommandState()
	resetCapacityCommandState()
	resetLogCommandState()
	resetConfigCommandState()
	resetServeCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
