package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gat-vcs/gat/pkg/object"
	"github.com/gat-vcs/gat/pkg/remote"
	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone <remote-url> [directory]",
		Short: "Clone a repository over the smart HTTP protocol",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := remote.NewClient(args[0])
			if err != nil {
				return err
			}

			dest := ""
			if len(args) == 2 {
				dest = args[1]
			} else {
				dest = strings.TrimSuffix(path.Base(client.BaseURL()), ".git")
			}
			if strings.TrimSpace(dest) == "" {
				return fmt.Errorf("destination directory is required")
			}
			absDest, err := filepath.Abs(dest)
			if err != nil {
				return fmt.Errorf("resolve destination: %w", err)
			}
			if err := ensureEmptyDir(absDest); err != nil {
				return err
			}

			r, err := repo.Init(absDest)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			refsRaw, err := client.FetchRefs(ctx)
			if err != nil {
				return err
			}
			refs, err := remote.ParseAdvertisement(refsRaw)
			if err != nil {
				return err
			}
			head, err := remote.HeadCommit(refs)
			if err != nil {
				return err
			}

			packRaw, err := client.FetchPack(ctx, head)
			if err != nil {
				return err
			}

			res, err := object.Unpack(packRaw, r.Store)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "unpacked %d objects", len(res.Stored))
			if res.SkippedDeltas > 0 {
				fmt.Fprintf(out, ", skipped %d delta objects", res.SkippedDeltas)
			}
			if res.SkippedCorrupt > 0 {
				fmt.Fprintf(out, ", skipped %d corrupt objects", res.SkippedCorrupt)
			}
			fmt.Fprintln(out)

			if err := r.WriteRef("refs/heads/main", head); err != nil {
				return err
			}

			if err := r.CheckoutCommit(head, absDest); err != nil {
				return err
			}

			fmt.Fprintf(out, "cloned into %s\n", absDest)
			return nil
		},
	}
}

// ensureEmptyDir creates dir if missing and verifies it has no entries.
func ensureEmptyDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read destination: %w", err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("destination %q is not empty", dir)
	}
	return nil
}
