package main

import (
	"fmt"

	"github.com/gat-vcs/gat/pkg/object"
	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var showType bool
	var showSize bool

	cmd := &cobra.Command{
		Use:   "cat-file <object>",
		Short: "Show the content, type, or size of a stored object",
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

			objType, content, err := r.Store.Read(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case showType:
				fmt.Fprintln(out, objType)
			case showSize:
				fmt.Fprintln(out, len(content))
			default:
				out.Write(content)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object's type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the object's size in bytes")

	return cmd
}
