package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/site"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site from the docs directory",
	Long: `The build command generates the ".pages" manifests in memory, assembles
the navigation, checks sidebar weights, renders every markdown page through
the layout (expanding section_cards() placeholders) and copies the other
files of the docs directory into the site directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runBuildProcess()
		return err
	},
}

func runBuildProcess() (*site.Result, error) {
	logger.Info("starting build", "docs", appConfig.DocsDir, "site", appConfig.SiteDir)
	b, err := site.New(appFs, appConfig, logger)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
