package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/govm/internal/manager"
	"github.com/conn-castle/govm/internal/messages"
)

func newPruneCmd() *cobra.Command {
	var keep int
	var yes bool
	cmd := &cobra.Command{
		Use:   messages.PruneUse,
		Short: messages.PruneShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = a.cfg.PruneKeep
			}
			out := cmd.OutOrStdout()
			confirmer := manager.ConfirmFunc(func(plan manager.PrunePlan) (bool, error) {
				printPrunePlan(out, plan)
				if yes {
					return true, nil
				}
				return confirm(cmd.InOrStdin(), out, messages.PruneConfirmPrompt, false)
			})
			res, err := a.manager.Prune(keep, confirmer)
			if err != nil {
				return err
			}
			if len(res.Plan.Remove) == 0 {
				if res.Plan.Protected != "" {
					_, _ = fmt.Fprintf(out, messages.PruneProtectedFmt, res.Plan.Protected)
				}
				_, _ = fmt.Fprintf(out, messages.PruneNothingFmt, len(res.Plan.Installed), res.Plan.Keep)
				return nil
			}
			if !res.Confirmed {
				_, _ = fmt.Fprintln(out, messages.PruneCancelled)
				return nil
			}
			for _, v := range res.Removed {
				_, _ = fmt.Fprintf(out, messages.PruneRemovedFmt, v)
			}
			_, _ = fmt.Fprintf(out, messages.PruneDoneFmt, len(res.Removed))
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, messages.PruneFlagKeep)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.PruneFlagYes)
	return cmd
}
