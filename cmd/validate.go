package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/faqtree/internal/graph"
	"github.com/agentic-research/faqtree/internal/ingest"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a FAQ document without touching the live data",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := documentPath(args)
		ds, err := loadDocument(path)
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), path, ds.Stats())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func loadDocument(path string) (*graph.DataSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ds, err := ingest.Parse(data, parseOptions())
	if err != nil {
		return nil, describeParseError(path, err)
	}
	return ds, nil
}

func describeParseError(path string, err error) error {
	var se *ingest.SchemaError
	if errors.As(err, &se) {
		return fmt.Errorf("%s: [%s] %w", path, se.Code, err)
	}
	return fmt.Errorf("%s: %w", path, err)
}

func printStats(w io.Writer, path string, st graph.Stats) {
	_, _ = fmt.Fprintf(w, "%s: ok\n", path)
	_, _ = fmt.Fprintf(w, "  categories: %d (%d wrapping top-level questions)\n", st.Categories, st.Wrappers)
	_, _ = fmt.Fprintf(w, "  questions:  %d\n", st.Questions)
	_, _ = fmt.Fprintf(w, "  top level:  %d\n", st.TopLevel)
}
