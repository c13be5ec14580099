package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/pytestgen/errors"
	"github.com/teranos/pytestgen/maker"
)

var (
	makeWatch    bool
	makeNoFormat bool
)

// MakeCmd represents the make command
var MakeCmd = &cobra.Command{
	Use:   "make [path ...]",
	Short: "Convert YAML/JSON testcases to pytest files",
	Long: `Convert YAML/JSON testcase and testsuite documents to pytest files.

Paths may be single documents or folders; folders are scanned recursively.
Referenced testcases are generated automatically and imported by the
referencing artifact. Generated files are formatted with the project
formatter (black by default) on a best-effort basis.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMake,
}

func init() {
	MakeCmd.Flags().BoolVarP(&makeWatch, "watch", "w", false, "Watch documents and regenerate on change")
	MakeCmd.Flags().BoolVar(&makeNoFormat, "no-format", false, "Skip the external formatter")
}

func runMake(cmd *cobra.Command, args []string) error {
	m := maker.New()
	m.SkipFormat = makeNoFormat

	if makeWatch {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err := m.Watch(ctx, args)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	files, err := m.Make(args)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("generated %d pytest files", len(files))
	for _, file := range files {
		pterm.Printf("  %s\n", pterm.Green(file))
	}
	return nil
}
