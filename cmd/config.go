package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"covid-spread/infrastructure/config"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput io.Writer = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage plotted regions",
	Long: `Manage the regions plotted in every frame.

Examples:
  covid-spread config list
  covid-spread config add --name Spain --country Spain --color orange --population 47100000
  covid-spread config update Spain --restriction-date 2020-03-14
  covid-spread config remove Spain`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configRemoveCmd)
	configCmd.AddCommand(configUpdateCmd)
}

// regionFlags binds the region fields shared by add and update
type regionFlags struct {
	name            string
	country         string
	province        string
	color           string
	population      float64
	restrictionDate string
}

func (f *regionFlags) bind(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVar(&f.name, "name", "", "Region name shown in the legend (required)")
	}
	cmd.Flags().StringVar(&f.country, "country", "", "Country/Region column value")
	cmd.Flags().StringVar(&f.province, "province", "", `Province/State column value ("-" for country-level rows only, "*" for all rows)`)
	cmd.Flags().StringVar(&f.color, "color", "", "Line color (name or #rrggbb)")
	cmd.Flags().Float64Var(&f.population, "population", 0, "Population, used for per-capita rates")
	cmd.Flags().StringVar(&f.restrictionDate, "restriction-date", "", "Date restrictions started (YYYY-MM-DD)")
}

func (f *regionFlags) region() config.RegionConfig {
	return config.RegionConfig{
		Name:            f.name,
		Country:         f.country,
		Province:        f.province,
		Color:           f.color,
		Population:      f.population,
		RestrictionDate: f.restrictionDate,
	}
}

// --- ADD command ---

var addFlags regionFlags

var configAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a region",
	Long: `Add a region to the end of the drawing order.

Examples:
  covid-spread config add --name Spain --country Spain --color orange --population 47100000
  covid-spread config add --name Quebec --country Canada --province Quebec --color purple`,
	Args: cobra.NoArgs,
	RunE: runConfigAdd,
}

func init() {
	addFlags.bind(configAddCmd, true)
	configAddCmd.MarkFlagRequired("name")
	configAddCmd.MarkFlagRequired("country")
	configAddCmd.MarkFlagRequired("color")
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	return RunConfigAddWithDependencies(cfg, cfgFile, addFlags.region(), DefaultOutput)
}

// RunConfigAddWithDependencies runs the add command with injected dependencies
func RunConfigAddWithDependencies(cfg *config.Config, configPath string, r config.RegionConfig, out io.Writer) error {
	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.AddRegion(r); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added region %q (%s)\n", strings.TrimSpace(r.Name), strings.TrimSpace(r.Country))
	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List regions",
	Long: `List all regions in drawing order. The anchor region is marked with *.

Example:
  covid-spread config list`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	return RunConfigListWithDependencies(cfg, cfgFile, DefaultOutput)
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath string, out io.Writer) error {
	mgr := config.NewConfigManager(cfg, configPath)
	regions := mgr.ListRegions()
	if len(regions) == 0 {
		fmt.Fprintln(out, "No regions configured.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOUNTRY\tPROVINCE\tCOLOR\tPOPULATION\tRESTRICTION\tANCHOR")
	for _, r := range regions {
		anchor := ""
		if strings.EqualFold(r.Name, cfg.Render.AnchorRegion) {
			anchor = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name,
			r.Country,
			dash(r.Province),
			r.Color,
			humanize.Comma(int64(r.Population)),
			dash(r.RestrictionDate),
			anchor,
		)
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// --- REMOVE command ---

var configRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a region",
	Long: `Remove a region from the configuration. The anchor region cannot be removed.

Example:
  covid-spread config remove Spain`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigRemove,
}

func runConfigRemove(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	return RunConfigRemoveWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigRemoveWithDependencies runs the remove command with injected dependencies
func RunConfigRemoveWithDependencies(cfg *config.Config, configPath, name string, out io.Writer) error {
	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.RemoveRegion(name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed region %q\n", name)
	return nil
}

// --- UPDATE command ---

var updateFlags regionFlags

var configUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a region",
	Long: `Update the given fields of an existing region.

Examples:
  covid-spread config update Italy --color forestgreen
  covid-spread config update Spain --restriction-date 2020-03-14 --population 47100000`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigUpdate,
}

func init() {
	updateFlags.bind(configUpdateCmd, false)
}

func runConfigUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	return RunConfigUpdateWithDependencies(cfg, cfgFile, args[0], updateFlags.region(), DefaultOutput)
}

// RunConfigUpdateWithDependencies runs the update command with injected dependencies
func RunConfigUpdateWithDependencies(cfg *config.Config, configPath, name string, update config.RegionConfig, out io.Writer) error {
	if update == (config.RegionConfig{}) {
		return fmt.Errorf("at least one of --country, --province, --color, --population or --restriction-date is required")
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.UpdateRegion(name, update); err != nil {
		return err
	}

	var changed []string
	if update.Country != "" {
		changed = append(changed, "country")
	}
	if update.Province != "" {
		changed = append(changed, "province")
	}
	if update.Color != "" {
		changed = append(changed, "color")
	}
	if update.Population > 0 {
		changed = append(changed, "population="+strconv.FormatFloat(update.Population, 'f', -1, 64))
	}
	if update.RestrictionDate != "" {
		changed = append(changed, "restriction date")
	}
	fmt.Fprintf(out, "Updated region %q (%s)\n", name, strings.Join(changed, ", "))
	return nil
}
