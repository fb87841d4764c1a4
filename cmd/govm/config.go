package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/govm/internal/config"
	"github.com/conn-castle/govm/internal/messages"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:         messages.ConfigUse,
		Short:       messages.ConfigShort,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoShimRefresh: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			data, err := config.Marshal(a.cfg, a.layout)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
