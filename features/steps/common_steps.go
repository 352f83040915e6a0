//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"covid-spread/infrastructure/config"

	"github.com/cucumber/godog"
)

// world is the state shared by the steps of one scenario
type world struct {
	tempDir    string
	configPath string
	config     *config.Config
	original   []byte
	output     *bytes.Buffer
	err        error
}

var shared = &world{}

func InitializeCommonScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "covid-spread-test-*")
		if err != nil {
			return c, err
		}
		shared = &world{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "config.yaml"),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if shared.tempDir != "" {
			os.RemoveAll(shared.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^a config file exists with the default regions$`, aConfigFileExistsWithTheDefaultRegions)
	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
	ctx.Step(`^the output should contain "((?:[^"\\]|\\.)*)"$`, theOutputShouldContain)
}

func aConfigFileExistsWithTheDefaultRegions() error {
	if err := os.MkdirAll(filepath.Dir(shared.configPath), 0755); err != nil {
		return err
	}
	shared.config = config.Defaults()
	if err := config.Save(shared.config, shared.configPath); err != nil {
		return err
	}
	data, err := os.ReadFile(shared.configPath)
	if err != nil {
		return err
	}
	shared.original = data
	return nil
}

func theCommandShouldSucceed() error {
	if shared.err != nil {
		return fmt.Errorf("expected success, got error: %v\noutput:\n%s", shared.err, shared.output.String())
	}
	return nil
}

func theCommandShouldFailWith(expected string) error {
	if shared.err == nil {
		return fmt.Errorf("expected error containing %q, got success", expected)
	}
	if !strings.Contains(shared.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, shared.err)
	}
	return nil
}

func theOutputShouldContain(expected string) error {
	expected = strings.ReplaceAll(expected, `\"`, `"`)
	if !strings.Contains(shared.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, shared.output.String())
	}
	return nil
}

func reloadConfig() (*config.Config, error) {
	return config.Load(shared.configPath)
}
