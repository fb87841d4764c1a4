package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/govm/internal/messages"
)

const defaultWhichBinary = "go"

func newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.CurrentUse,
		Short: messages.CurrentShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			status := a.manager.Current()
			printStatus(cmd.OutOrStdout(), status)
			if !status.Configured {
				return &SilentExitError{Code: 1}
			}
			return nil
		},
	}
}

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     messages.VersionsUse,
		Aliases: []string{"ls"},
		Short:   messages.VersionsShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			versions, err := a.manager.List()
			if err != nil {
				return err
			}
			printInstalled(cmd.OutOrStdout(), versions)
			return nil
		},
	}
}

func newListRemoteCmd() *cobra.Command {
	var all bool
	var limit int
	cmd := &cobra.Command{
		Use:     messages.ListRemoteUse,
		Aliases: []string{"ls-remote"},
		Short:   messages.ListRemoteShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.ListLimit
			}
			versions, err := a.manager.ListRemote(cmd.Context(), all, limit)
			if err != nil {
				return err
			}
			printRemote(cmd.OutOrStdout(), versions, all)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, messages.ListRemoteFlagAll)
	cmd.Flags().IntVar(&limit, "limit", 0, messages.ListRemoteFlagLimit)
	return cmd
}

func newWhichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.WhichUse,
		Short: messages.WhichShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			binary := defaultWhichBinary
			if len(args) == 1 {
				binary = args[0]
			}
			target, err := a.manager.Which(binary)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), target.Path)
			return nil
		},
	}
}
