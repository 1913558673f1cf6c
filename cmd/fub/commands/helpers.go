package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/realworks-io/fub-client/pkg/fub"
	"github.com/realworks-io/fub-client/pkg/fubclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatCSV  = "csv"

	defaultJSONIndent = 2

	NotAvailable = "N/A"
)

// Static errors for err113 compliance.
var (
	ErrAPIKeyNotConfigured = errors.New("API key not configured (use --api-key, FUB_API_KEY, or 'fub config set-key')")
	ErrPondIDRequired      = errors.New("pond ID is required")
)

// CreateClient builds a client from the resolved configuration.
func CreateClient() (fub.Client, error) {
	apiKey := viper.GetString("api-key")
	if apiKey == "" {
		return nil, ErrAPIKeyNotConfigured
	}

	config := &fub.Config{
		APIKey:  apiKey,
		BaseURL: viper.GetString("base-url"),
	}

	if viper.GetBool("verbose") {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		config.Logger = fub.NewZerologLogger(logger)
		config.Debug = true
	}

	return fubclient.New(config)
}

// StandardJSONRenderer writes data as indented JSON to stdout.
func StandardJSONRenderer(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML to stdout.
func StandardYAMLRenderer(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(defaultJSONIndent)

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	return encoder.Close()
}

// itemString renders one field of an item for table and CSV output.
func itemString(item fub.Item, key string) string {
	value, ok := item[key]
	if !ok || value == nil {
		return NotAvailable
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}

		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
