package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/dashdrop/internal/config"
	"github.com/yildizm/dashdrop/internal/emoji"
	"gopkg.in/yaml.v3"
)

const defaultConfigName = ".dashdrop.yaml"

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dashdrop configuration",
		Long: `Manage dashdrop configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new dashdrop configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only essential settings.`,
		Example: `  # Create full config in current directory
  dashdrop config init

  # Create minimal config
  dashdrop config init --minimal

  # Create config at specific path
  dashdrop config init --output ~/.config/dashdrop/config.yaml

  # Overwrite existing config
  dashdrop config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = defaultConfigName
			}

			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			content := config.SampleConfig()
			if minimal {
				content = config.MinimalSampleConfig()
			}

			if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, emoji.Prefix("success", "Configuration file created at: "+outputPath))
			if minimal {
				fmt.Fprintln(out, emoji.Prefix("file", "Created minimal configuration with essential settings"))
			} else {
				fmt.Fprintln(out, emoji.Prefix("file", "Created full configuration with all options and documentation"))
			}
			return nil
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path for config file (default: "+defaultConfigName+")")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from defaults, config files, the .env file
and DASHDROP_ environment variable overrides.`,
		Example: `  # Show config in YAML format
  dashdrop config show

  # Show config in JSON format
  dashdrop config show --format json

  # Show config from specific file
  dashdrop --config /path/to/config.yaml config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}
			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a dashdrop configuration file for syntax and semantic errors.

Checks the configuration file for:
- Valid YAML syntax
- A reachable-looking server URL and endpoint
- Valid values for enums
- Positive chart sizes and hex colors`,
		Example: `  # Validate current config
  dashdrop config validate

  # Validate specific config file
  dashdrop --config /path/to/config.yaml config validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				fmt.Fprintln(out, emoji.Prefix("error", "Configuration validation failed:"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			fmt.Fprintln(out, emoji.Prefix("success", "Configuration is valid"))
			fmt.Fprintln(out, emoji.Prefix("config", "Configuration summary:"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   Server: %s%s\n", cfg.Server.URL, cfg.Server.Endpoint)
			fmt.Fprintf(out, "   Overlap Policy: %s\n", cfg.Upload.Overlap)
			fmt.Fprintf(out, "   Output Format: %s\n", cfg.Output.DefaultFormat)
			if cfg.Render.Images {
				fmt.Fprintf(out, "   Chart Images: %s\n", cfg.Render.OutputDir)
			} else {
				fmt.Fprintln(out, "   Chart Images: disabled")
			}
			return nil
		},
	}

	return validateCmd
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths dashdrop searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  dashdrop config path`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, emoji.Prefix("file", "Configuration file search paths (in priority order):"))
			fmt.Fprintln(out)

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				exists := " (not found)"
				if fileExists(path) {
					exists = " (exists)"
				}

				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
				fmt.Fprintln(out)
			}

			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Fprintln(out, emoji.Prefix("info", "Current config file: "+currentConfig))
			} else {
				fmt.Fprintln(out, emoji.Prefix("info", "No config file found, using defaults"))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, emoji.Prefix("help", "Environment variables with DASHDROP_ prefix override file settings"))
		},
	}

	return pathCmd
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
