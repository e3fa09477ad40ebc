package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/securehide/internal/configs"
	"github.com/PolarWolf314/securehide/internal/ui"
	"github.com/PolarWolf314/securehide/internal/utils"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var (
	configInitForce bool
	configShowJSON  bool

	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage SecureHide configuration",
		Long: `Creates and displays the SecureHide configuration file.

The file lives at $XDG_CONFIG_HOME/securehide/config.toml unless --config or
SECUREHIDE_CONFIG points elsewhere. Missing files mean built-in defaults.`,
	}
)

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigCommandState resets the config commands' global state for testing.
func resetConfigCommandState() {
	configInitForce = false
	configShowJSON = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		path := configs.SecureHideSettings.ConfigPath

		if utils.FileExists(path) && !configInitForce {
			fmt.Println(ui.Error.Sprint("✗") + " Config already exists at " + ui.Path.Sprint(path) + "\n" +
				ui.Info.Sprint("→") + " Pass " + ui.Flag.Sprint("--force") + " to overwrite it")
			return errReported
		}

		Logger.Debugf("Writing default config to %s", path)
		if err := configs.Save(path, configs.Default()); err != nil {
			return Logger.ErrorfAndReturn("Failed to write config: %v", err)
		}

		fmt.Println(ui.Success.Sprint("✓") + " Config written to " + ui.Path.Sprint(path))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Displays the configuration SecureHide will run with, after defaults are applied.

Examples:
  securehide config show
  securehide config show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		cfg, err := loadConfig()
		if err != nil {
			fmt.Println(ui.Error.Sprint("✗") + " " + err.Error())
			return errReported
		}

		if configShowJSON {
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config to JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		source := configs.SecureHideSettings.ConfigPath
		if !utils.FileExists(source) {
			source += " " + ui.Muted.Sprint("not found, using defaults")
		}
		fmt.Println(ui.Info.Sprint("#") + " " + source)

		if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	},
}
