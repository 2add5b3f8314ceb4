package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/ppiankov/quotex/internal/logging"
	"github.com/ppiankov/quotex/internal/model"
	"github.com/ppiankov/quotex/internal/pipeline"
	"github.com/ppiankov/quotex/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

var (
	cfgFile string
	dbPath  string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quotex",
	Short: "quotex - find quotes in news stories and attribute them to speakers",
	Long: `quotex ingests news stories, splits them into paragraphs and decides
which paragraphs are quotes using a maximum entropy classifier trained on
human-labeled paragraphs.

Quotes are attributed to speakers by matching the person mentions an
entity extraction service finds in each story.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	// A missing .env file is not an error
	_ = godotenv.Load()
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quotex v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.quotex/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides database.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	home, _ := os.UserHomeDir()
	if err := configure(viper.GetViper(), cfgFile, home); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		return
	}
	if verbose && viper.ConfigFileUsed() != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// app bundles what the data commands share
type app struct {
	cfg      *model.Config
	logger   *log.Logger
	store    *store.Store
	pipeline *pipeline.Pipeline
}

// newApp loads configuration and opens the record store
func newApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	st, err := store.Open(cfg.Database.Path, logger.WithPrefix("store"))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		pipeline: pipeline.New(cfg, st, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing database", "err", err)
	}
}
