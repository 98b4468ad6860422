package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "gat",
		Short: "A minimal content-addressed version control engine",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newHashObjectCmd())
	root.AddCommand(newCatFileCmd())
	root.AddCommand(newLsTreeCmd())
	root.AddCommand(newWriteTreeCmd())
	root.AddCommand(newCommitTreeCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newCloneCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("gat 0.1.0-dev")
		},
	}
}
