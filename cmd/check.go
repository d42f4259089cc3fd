package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/site"
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Reports sibling pages sharing a sidebar weight",
	Long: `The check command builds the navigation of the docs directory, copies
"sidebar_position" into "weight" where only the former is set and prints
one line per weight shared by two or more siblings. With --strict any such
collision makes the command fail.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd)
	},
}

func runCheck(cmd *cobra.Command) error {
	b, err := site.New(appFs, appConfig, logger)
	if err != nil {
		return err
	}
	project, err := b.Load()
	if err != nil {
		return err
	}

	for _, w := range project.Warnings {
		fmt.Fprintln(cmd.OutOrStdout(), w.String())
	}
	if checkStrict && len(project.Warnings) > 0 {
		return fmt.Errorf("%d duplicate weight(s) found", len(project.Warnings))
	}
	return nil
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "fail when duplicate weights are found")
	rootCmd.AddCommand(checkCmd)
}
