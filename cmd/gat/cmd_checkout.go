package main

import (
	"fmt"
	"path/filepath"

	"github.com/gat-vcs/gat/pkg/object"
	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <tree> [directory]",
		Short: "Materialize a tree object into a directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			dir := r.RootDir
			if len(args) == 2 {
				dir, err = filepath.Abs(args[1])
				if err != nil {
					return fmt.Errorf("resolve directory: %w", err)
				}
			}

			return r.CheckoutTree(h, dir)
		},
	}
}
