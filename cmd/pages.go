package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/pages"
)

var pagesDryRun bool

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Writes a .pages manifest into every first-level docs folder",
	Long: `The pages command scans each first-level folder of the docs directory,
orders its markdown documents by their front-matter "order" and writes the
result as a ".pages" manifest next to them. With --dry-run the manifests are
printed instead of written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPages(cmd)
	},
}

func runPages(cmd *cobra.Command) error {
	out := appFs
	if pagesDryRun {
		out = afero.NewMemMapFs()
	}
	scanner := pages.New(appFs, pages.Options{
		DocsDir:      appConfig.DocsDir,
		ManifestName: appConfig.ManifestName,
		IndexName:    appConfig.IndexName,
		Output:       out,
		Logger:       logger,
	})
	written, err := scanner.Run()
	if err != nil {
		return err
	}

	if !pagesDryRun {
		logger.Info("manifests written", "count", len(written))
		return nil
	}
	for _, path := range written {
		content, err := afero.ReadFile(out, path)
		if err != nil {
			return fmt.Errorf("reading generated %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n\n", path, content)
	}
	return nil
}

func init() {
	pagesCmd.Flags().BoolVar(&pagesDryRun, "dry-run", false, "print manifests instead of writing them")
	rootCmd.AddCommand(pagesCmd)
}
