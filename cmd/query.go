package cmd

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/faqtree/internal/ingest"
)

var queryCmd = &cobra.Command{
	Use:   "query <jsonpath> [file]",
	Short: "Run a JSONPath expression against a FAQ document",
	Long: `Run a JSONPath expression against the raw document, e.g.

  faqtree query '$.questions.Billing.*'
  faqtree query '$.texts.start' draft.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := documentPath(args[1:])
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		results, err := ingest.Select(data, args[0])
		if err != nil {
			return err
		}
		for _, r := range results {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), oj.JSON(r, 2))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
