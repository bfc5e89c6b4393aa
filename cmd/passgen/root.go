package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "passgen",
		Short: "A quick and safe password generator",
		Long: `passgen generates random passwords, or derives repeatable ones from a
passphrase and a service name. Without a subcommand it behaves like
"passgen generate".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindGenerate(a, root)

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.AddCommand(newGenerateCmd(a), newDeriveCmd(a))
	return root
}
