package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the stored CLI configuration",
	}

	cmd.AddCommand(newConfigSetKeyCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigSetKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key",
		Short: "Store the API key",
		Long:  "Prompt for the API key without echo and store it in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(os.Stderr, "API key: ")

			keyBytes, err := term.ReadPassword(int(syscall.Stdin))

			fmt.Fprintln(os.Stderr)

			if err != nil {
				return fmt.Errorf("reading API key: %w", err)
			}

			return persistConfigValue("api-key", string(keyBytes))
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			masked := "***"
			if viper.GetString("api-key") == "" {
				masked = NotAvailable
			}

			settings := map[string]string{
				"api-key":  masked,
				"base-url": viper.GetString("base-url"),
				"output":   viper.GetString("output"),
			}

			return StandardYAMLRenderer(settings)
		},
	}
}

// persistConfigValue writes one setting to the config file, creating the
// file if needed.
func persistConfigValue(key, value string) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locating home directory: %w", err)
		}

		path = filepath.Join(home, ".fub", "config.yml")
	}

	settings := map[string]interface{}{}

	if raw, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(raw, &settings)
	}

	settings[key] = value

	encoded, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, encoded, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Saved %s to %s\n", key, path)

	return nil
}
