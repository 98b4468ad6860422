package main

import (
	"fmt"
	"os"

	"github.com/gat-vcs/gat/pkg/object"
	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute the object id of a file, optionally storing it as a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %q: %w", args[0], err)
			}

			var h object.Hash
			if write {
				r, err := repo.Open(".")
				if err != nil {
					return err
				}
				h, err = r.Store.WriteBlob(&object.Blob{Data: data})
				if err != nil {
					return err
				}
			} else {
				h = object.HashObject(object.TypeBlob, data)
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "store the blob in the object database")

	return cmd
}
