package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/version"
)

func newGlobalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.GlobalUse,
		Short: messages.GlobalShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				v, ok := a.manager.Global()
				if !ok {
					_, _ = fmt.Fprint(out, messages.GlobalUnsetFmt)
					return nil
				}
				_, _ = fmt.Fprintln(out, v)
				return nil
			}
			if _, err := a.manager.SetGlobal(args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, messages.GlobalSetFmt, version.Canonical(args[0]))
			return nil
		},
	}
}

func newLocalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.LocalUse,
		Short: messages.LocalShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			path, err := a.manager.SetScopedPin(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.LocalSetFmt, version.Canonical(args[0]), path)
			return nil
		},
	}
}
