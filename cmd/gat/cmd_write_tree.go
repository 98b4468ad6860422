package main

import (
	"fmt"

	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newWriteTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Snapshot the working directory into tree objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.Snapshot()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
