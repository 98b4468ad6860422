package main

import (
	"fmt"

	"github.com/gat-vcs/gat/pkg/object"
	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var nameOnly bool

	cmd := &cobra.Command{
		Use:   "ls-tree <tree>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			tree, err := r.Store.ReadTree(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range tree.Entries {
				if nameOnly {
					fmt.Fprintln(out, e.Name)
					continue
				}
				kind := object.TypeBlob
				if e.IsDir() {
					kind = object.TypeTree
				}
				fmt.Fprintf(out, "%s %s %s\t%s\n", e.Mode, kind, e.Hash, e.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "print only entry names")

	return cmd
}
