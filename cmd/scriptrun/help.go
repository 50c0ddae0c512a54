package main

import (
	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Help about scripts or any command",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				target, _, err := cmd.Root().Find(args)
				if err != nil || target == nil {
					return cmd.Root().Usage()
				}
				return target.Help()
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			a.rt.Console.Execute(cmd.Context(), "script help")
			return cmd.Root().Usage()
		},
	}
}
