package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"covid-spread/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up your configuration file
with the data tables, chart and video options, the plotted regions,
and the optional Google Drive folder for publishing.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath
	}
	return RunSetupWithPrompter(DefaultPrompter, path, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to covid-spread setup!")
	fmt.Fprintln(output)

	cfg := config.Defaults()

	if err := promptData(prompter, cfg); err != nil {
		return err
	}
	if err := promptRender(prompter, cfg); err != nil {
		return err
	}
	if err := promptVideo(prompter, cfg); err != nil {
		return err
	}
	if err := promptRegions(prompter, cfg); err != nil {
		return err
	}
	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Anchor(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

// ask prompts for a value, falling back to defaultValue when the answer is empty
func ask(prompter Prompter, message, defaultValue string) (string, error) {
	v, err := prompter.Input(message, defaultValue)
	if err != nil {
		return "", fmt.Errorf("prompt cancelled")
	}
	v = strings.TrimSpace(v)
	if v == "" {
		v = defaultValue
	}
	return v, nil
}

func askInt(prompter Prompter, message string, defaultValue int) (int, error) {
	v, err := ask(prompter, message, strconv.Itoa(defaultValue))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", v)
	}
	return n, nil
}

func promptData(prompter Prompter, cfg *config.Config) error {
	var err error
	if cfg.Data.Confirmed, err = ask(prompter, "Path to the confirmed cases CSV?", cfg.Data.Confirmed); err != nil {
		return err
	}
	if cfg.Data.Deaths, err = ask(prompter, "Path to the deaths CSV?", cfg.Data.Deaths); err != nil {
		return err
	}
	if cfg.Data.Recovered, err = ask(prompter, "Path to the recovered CSV (optional)?", ""); err != nil {
		return err
	}
	if cfg.Data.ReferenceDate, err = ask(prompter, "Date of the first data column (YYYY-MM-DD)?", cfg.Data.ReferenceDate); err != nil {
		return err
	}
	return nil
}

func promptRender(prompter Prompter, cfg *config.Config) error {
	var err error
	if cfg.Render.Normalization, err = ask(prompter, "Normalization (peak_share or per_capita)?", cfg.Render.Normalization); err != nil {
		return err
	}
	if cfg.Render.Backend, err = ask(prompter, "Chart backend (gonum or gochart)?", cfg.Render.Backend); err != nil {
		return err
	}
	if cfg.Render.FramesDir, err = ask(prompter, "Where should frames be written?", cfg.Render.FramesDir); err != nil {
		return err
	}
	return nil
}

func promptVideo(prompter Prompter, cfg *config.Config) error {
	var err error
	if cfg.Video.Output, err = ask(prompter, "Video output path?", cfg.Video.Output); err != nil {
		return err
	}
	if cfg.Video.FPS, err = askInt(prompter, "Frames per second?", cfg.Video.FPS); err != nil {
		return err
	}
	if cfg.Video.Encoder, err = ask(prompter, "Video encoder (ffmpeg or opencv)?", cfg.Video.Encoder); err != nil {
		return err
	}
	return nil
}

func promptRegions(prompter Prompter, cfg *config.Config) error {
	useDefaults, err := prompter.Confirm("Plot the default regions (Hubei, Italy, Germany, France, UK, USA)?", true)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if useDefaults {
		return nil
	}

	cfg.Regions = nil
	for {
		r, err := promptRegion(prompter)
		if err != nil {
			return err
		}
		cfg.Regions = append(cfg.Regions, r)

		more, err := prompter.Confirm("Add another region?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !more {
			break
		}
	}

	anchor, err := ask(prompter, "Anchor region (its days drive the frames)?", cfg.Regions[0].Name)
	if err != nil {
		return err
	}
	cfg.Render.AnchorRegion = anchor
	return nil
}

func promptRegion(prompter Prompter) (config.RegionConfig, error) {
	var r config.RegionConfig
	var err error

	if r.Name, err = ask(prompter, "  Region name:", ""); err != nil {
		return r, err
	}
	if r.Name == "" {
		return r, fmt.Errorf("region name is required")
	}
	if r.Country, err = ask(prompter, "  Country/Region column value:", r.Name); err != nil {
		return r, err
	}
	if r.Province, err = ask(prompter, "  Province/State (empty = all, - = country level only):", ""); err != nil {
		return r, err
	}
	if r.Color, err = ask(prompter, "  Color (name or #rrggbb):", "black"); err != nil {
		return r, err
	}
	population, err := ask(prompter, "  Population:", "0")
	if err != nil {
		return r, err
	}
	if r.Population, err = strconv.ParseFloat(population, 64); err != nil {
		return r, fmt.Errorf("%q is not a number", population)
	}
	if r.RestrictionDate, err = ask(prompter, "  Restriction start date (YYYY-MM-DD, optional):", ""); err != nil {
		return r, err
	}
	return r, nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	var err error
	if cfg.Google.FolderID, err = ask(prompter, "Google Drive folder ID for publishing (optional)?", ""); err != nil {
		return err
	}
	if cfg.Google.FolderID == "" {
		return nil
	}
	if cfg.Google.CredentialsFile, err = ask(prompter, "Path to Google credentials file?", cfg.Google.CredentialsFile); err != nil {
		return err
	}
	return nil
}
