package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/govm/internal/messages"
)

func newRehashCmd() *cobra.Command {
	return &cobra.Command{
		Use:         messages.RehashUse,
		Short:       messages.RehashShort,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoShimRefresh: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, messages.RehashStarting)
			results, err := a.manager.Rehash()
			if err != nil {
				return err
			}
			printShimResults(out, results, verbosity(cmd) > 0)
			_, _ = fmt.Fprintf(out, messages.RehashDoneFmt, a.layout.ShimsDir)
			return nil
		},
	}
}
