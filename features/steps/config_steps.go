//go:build integration

package steps

import (
	"fmt"
	"strings"

	"covid-spread/cmd"
	"covid-spread/infrastructure/config"

	"github.com/cucumber/godog"
)

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^I run config add region "([^"]*)" for country "([^"]*)" with color "([^"]*)"$`, iRunConfigAddRegion)
	ctx.Step(`^I run config list$`, iRunConfigList)
	ctx.Step(`^I run config update region "([^"]*)" with color "([^"]*)"$`, iRunConfigUpdateRegionColor)
	ctx.Step(`^I run config remove region "([^"]*)"$`, iRunConfigRemoveRegion)
	ctx.Step(`^the config should contain region "([^"]*)" with color "([^"]*)"$`, theConfigShouldContainRegionWithColor)
	ctx.Step(`^the config should not contain region "([^"]*)"$`, theConfigShouldNotContainRegion)
}

func iRunConfigAddRegion(name, country, color string) error {
	r := config.RegionConfig{Name: name, Country: country, Color: color, Population: 1_000_000}
	shared.err = cmd.RunConfigAddWithDependencies(shared.config, shared.configPath, r, shared.output)
	return nil
}

func iRunConfigList() error {
	shared.err = cmd.RunConfigListWithDependencies(shared.config, shared.configPath, shared.output)
	return nil
}

func iRunConfigUpdateRegionColor(name, color string) error {
	shared.err = cmd.RunConfigUpdateWithDependencies(shared.config, shared.configPath, name, config.RegionConfig{Color: color}, shared.output)
	return nil
}

func iRunConfigRemoveRegion(name string) error {
	shared.err = cmd.RunConfigRemoveWithDependencies(shared.config, shared.configPath, name, shared.output)
	return nil
}

func theConfigShouldContainRegionWithColor(name, color string) error {
	cfg, err := reloadConfig()
	if err != nil {
		return err
	}
	for _, r := range cfg.Regions {
		if strings.EqualFold(r.Name, name) {
			if r.Color != color {
				return fmt.Errorf("region %q has color %q, want %q", name, r.Color, color)
			}
			return nil
		}
	}
	return fmt.Errorf("region %q not found in config", name)
}

func theConfigShouldNotContainRegion(name string) error {
	cfg, err := reloadConfig()
	if err != nil {
		return err
	}
	for _, r := range cfg.Regions {
		if strings.EqualFold(r.Name, name) {
			return fmt.Errorf("region %q still in config", name)
		}
	}
	return nil
}
