package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/cards"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/site"
)

var cardsIncludeSelf bool

var cardsCmd = &cobra.Command{
	Use:   "cards <file>",
	Short: "Prints the section cards HTML for a page",
	Long: `The cards command prints the card grid that a section_cards() placeholder
in the given page expands to. The file is relative to the docs directory;
a path that starts with the docs directory is accepted too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCards(cmd, args[0])
	},
}

func runCards(cmd *cobra.Command, file string) error {
	b, err := site.New(appFs, appConfig, logger)
	if err != nil {
		return err
	}
	project, err := b.Load()
	if err != nil {
		return err
	}

	rel := docsRelative(file)
	page := project.Nav.PageByFile(rel)
	if page == nil {
		return fmt.Errorf("page %s is not part of the navigation", rel)
	}

	html, err := cards.Render(cards.Entries(project.Nav, page, cards.Options{IncludeSelf: cardsIncludeSelf}))
	if err != nil {
		return err
	}
	if html == "" {
		logger.Info("no cards for page", "file", rel)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), html)
	return nil
}

// docsRelative turns file into a slash path relative to the docs folder.
func docsRelative(file string) string {
	clean := filepath.Clean(file)
	docs := filepath.Clean(appConfig.DocsDir)
	if rel, err := filepath.Rel(docs, clean); err == nil && !strings.HasPrefix(rel, "..") {
		clean = rel
	}
	return filepath.ToSlash(clean)
}

func init() {
	cardsCmd.Flags().BoolVar(&cardsIncludeSelf, "include-self", false, "add a card for the page itself")
	rootCmd.AddCommand(cardsCmd)
}
