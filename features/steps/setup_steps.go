//go:build integration

package steps

import (
	"bytes"
	"fmt"
	"os"

	"covid-spread/cmd"

	"github.com/cucumber/godog"
)

// MockPrompter implements cmd.Prompter for testing. Inputs are matched by
// prompt message; unknown prompts get their default.
type MockPrompter struct {
	inputs   map[string]string
	confirms map[string]bool
}

func NewMockPrompter() *MockPrompter {
	return &MockPrompter{inputs: map[string]string{}, confirms: map[string]bool{}}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if v, ok := m.inputs[message]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if v, ok := m.confirms[message]; ok {
		return v, nil
	}
	return defaultValue, nil
}

var _ cmd.Prompter = (*MockPrompter)(nil)

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^no config file exists$`, noConfigFileExists)
	ctx.Step(`^I run setup accepting all defaults$`, iRunSetupAcceptingAllDefaults)
	ctx.Step(`^I run setup and decline to overwrite$`, iRunSetupAndDeclineToOverwrite)
	ctx.Step(`^I run setup choosing normalization "([^"]*)"$`, iRunSetupChoosingNormalization)
	ctx.Step(`^the config file should exist$`, theConfigFileShouldExist)
	ctx.Step(`^the config file should be unchanged$`, theConfigFileShouldBeUnchanged)
	ctx.Step(`^the config should have (\d+) regions with anchor "([^"]*)"$`, theConfigShouldHaveRegionsWithAnchor)
	ctx.Step(`^the config normalization should be "([^"]*)"$`, theConfigNormalizationShouldBe)
}

func noConfigFileExists() error {
	if _, err := os.Stat(shared.configPath); err == nil {
		return os.Remove(shared.configPath)
	}
	return nil
}

func iRunSetupAcceptingAllDefaults() error {
	shared.err = cmd.RunSetupWithPrompter(NewMockPrompter(), shared.configPath, shared.output)
	return nil
}

func iRunSetupAndDeclineToOverwrite() error {
	p := NewMockPrompter()
	p.confirms["config.yaml already exists. Overwrite?"] = false
	shared.err = cmd.RunSetupWithPrompter(p, shared.configPath, shared.output)
	return nil
}

func iRunSetupChoosingNormalization(mode string) error {
	p := NewMockPrompter()
	p.inputs["Normalization (peak_share or per_capita)?"] = mode
	shared.err = cmd.RunSetupWithPrompter(p, shared.configPath, shared.output)
	return nil
}

func theConfigFileShouldExist() error {
	if _, err := os.Stat(shared.configPath); err != nil {
		return fmt.Errorf("config file not created: %w", err)
	}
	return nil
}

func theConfigFileShouldBeUnchanged() error {
	data, err := os.ReadFile(shared.configPath)
	if err != nil {
		return err
	}
	if !bytes.Equal(data, shared.original) {
		return fmt.Errorf("config file was modified")
	}
	return nil
}

func theConfigShouldHaveRegionsWithAnchor(count int, anchor string) error {
	cfg, err := reloadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Regions) != count {
		return fmt.Errorf("expected %d regions, got %d", count, len(cfg.Regions))
	}
	if cfg.Render.AnchorRegion != anchor {
		return fmt.Errorf("expected anchor %q, got %q", anchor, cfg.Render.AnchorRegion)
	}
	return nil
}

func theConfigNormalizationShouldBe(mode string) error {
	cfg, err := reloadConfig()
	if err != nil {
		return err
	}
	if cfg.Render.Normalization != mode {
		return fmt.Errorf("expected normalization %q, got %q", mode, cfg.Render.Normalization)
	}
	return nil
}
