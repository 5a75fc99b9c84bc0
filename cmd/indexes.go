package cmd

import (
	"fmt"
	"os"

	"github.com/censys-research/censys-search-go/pkg/search"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "list the searchable indexes by api generation",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(os.Stdout, indexTree().String())
	},
}

func indexTree() treeprint.Tree {
	tree := treeprint.NewWithRoot("censys")
	for _, gen := range search.Generations() {
		branch := tree.AddBranch(gen.String())
		for _, name := range search.Indexes(gen) {
			spec, err := search.Resolve(name, gen)
			if err != nil {
				continue
			}
			branch.AddMetaNode(spec.Path, name)
		}
	}
	return tree
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
