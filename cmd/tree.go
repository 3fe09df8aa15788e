package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-research/faqtree/internal/graph"
)

var treeJSON bool

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Print the compiled question tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDocument(documentPath(args))
		if err != nil {
			return err
		}
		if treeJSON {
			return writeNested(cmd.OutOrStdout(), ds)
		}
		writeTree(cmd.OutOrStdout(), ds, graph.RootID, 0)
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Print the nested id structure as JSON")
	rootCmd.AddCommand(treeCmd)
}

// writeNested prints the tree in its embedded form: questions as ids,
// categories as {"id": [children]}.
func writeNested(w io.Writer, ds *graph.DataSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string][]graph.NestedRef{"0": ds.Nested(graph.RootID)})
}

func writeTree(w io.Writer, ds *graph.DataSet, parent graph.ID, depth int) {
	refs, _ := ds.Children(parent)
	indent := strings.Repeat("  ", depth)
	for _, ref := range refs {
		name, _ := ds.Name(ref.ID)
		if !ref.IsSubcategory() {
			_, _ = fmt.Fprintf(w, "%s? %s [%d]\n", indent, name, ref.ID)
			continue
		}
		if c, _ := ds.Category(ref.ID); !c.IsCategory {
			// Wrappers show only their question.
			writeTree(w, ds, ref.ID, depth)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s# %s [%d]\n", indent, name, ref.ID)
		writeTree(w, ds, ref.ID, depth+1)
	}
}
