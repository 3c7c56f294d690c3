package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform"
	"github.com/goliatone/go-stepform/pkg/catalog"
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Check catalog documents for structural problems",
	Long: `Loads every catalog document and reports missing ids, duplicate ids,
choice questions without choices and similar issues. With no paths the
--catalog document (or the bundled survey) is checked.`,
	RunE: runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{catalogPath}
	}

	failed := 0
	for _, path := range paths {
		name := path
		if name == "" {
			name = "(bundled survey)"
		}
		cat, err := stepform.LoadCatalog(path)
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d steps, %d questions)\n", name, cat.Len(), len(cat.IDs()))
			continue
		}
		failed++

		var catErr *catalog.Error
		if !errors.As(err, &catErr) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, err)
			continue
		}
		for _, issue := range catErr.Issues {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s: %s\n", name, issue.Path, issue.Message)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d catalog(s) failed lint", failed, len(paths))
	}
	return nil
}
