package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"covid-spread/infrastructure/config"
	"covid-spread/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "covid-spread",
	Short: "Animate the spread of COVID-19 across regions",
	Long: `covid-spread turns the Johns Hopkins CSSE time-series tables into an
animated chart of cumulative cases and deaths per region:

  - Load the confirmed, deaths and recovered CSV tables
  - Render one chart frame per day of the anchor region
  - Encode the frames into an MP4 video
  - Export the latest figures and publish the video to Google Drive

Example:
  covid-spread render
  covid-spread render --normalization per_capita --backend gochart`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, json := config.DefaultLogLevel, false
		if cfg != nil {
			level, json = cfg.Logging.Level, cfg.Logging.JSON
		}
		l, err := logging.New(level, json, verbose)
		if err != nil {
			return err
		}
		logger = l
		if cfgErr != nil {
			logger.Debug("config not loaded", zap.String("path", cfgFile), zap.Error(cfgErr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath
	}

	// Config file is optional for some commands (like help and setup);
	// commands that need it call requireConfig
	cfg, cfgErr = config.Load(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

func requireConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	if cfgErr != nil && !errors.Is(cfgErr, fs.ErrNotExist) {
		return nil, cfgErr
	}
	return nil, fmt.Errorf("config file %s not found. Run 'covid-spread setup' first", cfgFile)
}
