package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/govm/internal/manager"
	"github.com/conn-castle/govm/internal/messages"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     messages.InstallUse,
		Aliases: []string{"i"},
		Short:   messages.InstallShort,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			res, err := a.manager.Install(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printInstallResult(cmd.OutOrStdout(), res, a.layout.ShimsDir, verbosity(cmd) > 0)
			return nil
		},
	}
}

func newUseCmd() *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   messages.UseUse,
		Short: messages.UseShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			scope := manager.ScopeGlobal
			if local {
				scope = manager.ScopeLocal
			}
			res, err := a.manager.Use(cmd.Context(), args[0], scope)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Install.AlreadyInstalled {
				printInstallResult(out, res.Install, a.layout.ShimsDir, verbosity(cmd) > 0)
			}
			_, _ = fmt.Fprintf(out, messages.UseSelectedFmt, res.Install.Version, res.Scope, res.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, messages.UseFlagLocal)
	return cmd
}

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:     messages.UninstallUse,
		Aliases: []string{"rm"},
		Short:   messages.UninstallShort,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			res, err := a.manager.Uninstall(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Removed {
				_, _ = fmt.Fprintf(out, messages.UninstallNotInstalledFmt, res.Version)
				return nil
			}
			if res.ClearedGlobal {
				_, _ = fmt.Fprintln(out, messages.UninstallClearedGlobal)
			}
			_, _ = fmt.Fprintf(out, messages.UninstallDoneFmt, res.Version)
			return nil
		},
	}
}
