package main

import "github.com/spf13/cobra"

// newEnableCmd builds "enable" or "disable".
func newEnableCmd(opts *rootOptions, enabled bool) *cobra.Command {
	use, short := "enable <id>", "Enable a model"
	if !enabled {
		use, short = "disable <id>", "Disable a model"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(s *session) error {
				return s.svc.Registry.SetEnabledByID(args[0], enabled)
			})
		},
	}
}
