package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/conn-castle/govm/internal/dispatch"
	"github.com/conn-castle/govm/internal/messages"
)

// newExecCmd is the shim entry point. Flags after the binary name belong to
// the binary, so flag parsing is disabled.
func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:                messages.ExecUse,
		Short:              messages.ExecShort,
		DisableFlagParsing: true,
		Annotations:        map[string]string{annotationNoShimRefresh: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(messages.ExecBinaryRequired)
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			err = a.manager.Exec(args[0], args[1:])
			if errors.Is(err, dispatch.ErrDispatched) {
				return nil
			}
			return err
		},
	}
}
