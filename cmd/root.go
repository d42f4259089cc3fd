package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/config"
)

var (
	cfgFile   string
	logLevel  string
	appConfig config.Config
	logger    = newLogger(os.Stderr, log.InfoLevel)

	// appFs is the filesystem every command reads docs from and writes to.
	appFs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "autonav",
	Short: "autonav - front-matter driven navigation for mkdocs sites",
	Long: `autonav reads the front-matter of your markdown documents and turns it
into navigation: ".pages" ordering manifests per folder, section cards for
index pages and warnings for sidebar weight collisions. It can also build
and serve a plain HTML preview of the docs folder.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./autonav.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

func initializeConfig(cmd *cobra.Command) error {
	cfg, used, err := config.Load(cfgFile, ".")
	if err != nil {
		return err
	}
	appConfig = cfg

	level := appConfig.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger = newLogger(cmd.ErrOrStderr(), lvl)

	if used != "" {
		logger.Debug("using config file", "path", used)
	} else {
		logger.Debug("no config file found, using defaults and environment")
	}
	return nil
}

// newLogger returns the CLI logger with autonav's level colours.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix: "autonav",
		Level:  level,
	})
	styles := log.DefaultStyles()
	styles.Prefix = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Foreground(lipgloss.Color("214"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Bold(true).
		Foreground(lipgloss.Color("196"))
	l.SetStyles(styles)
	return l
}
