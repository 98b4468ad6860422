package main

import (
	"fmt"

	"github.com/gat-vcs/gat/pkg/object"
	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitTreeCmd() *cobra.Command {
	var message string
	var parent string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree>",
		Short: "Create a commit object for a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			tree, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}

			var parentHash object.Hash
			if parent != "" {
				parentHash, err = object.ParseHash(parent)
				if err != nil {
					return err
				}
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.CommitTree(tree, parentHash, message)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent commit id")

	return cmd
}
