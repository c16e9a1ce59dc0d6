package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/cmdx"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "kerbside <command> <subcommand> [flags]",
		Short:         "Roads Asset Inspection Service",
		Long:          "Map-centric inspection tool for municipal roads assets.",
		SilenceErrors: true,
		SilenceUsage:  false,
		Example: heredoc.Doc(`
		$ kerbside serve
		$ kerbside upload photo.jpg --asset-id G-100
		$ kerbside storage test
		`),
		Annotations: map[string]string{
			"group": "core",
			"help:learn": heredoc.Doc(`
				Use 'kerbside <command> --help' for info about a command.
			`),
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		uploadCmd(),
		storageCmd(),
		configCommand(),
		versionCmd(),
	)

	// Help topics
	rootCmd.AddCommand(cmdx.SetCompletionCmd("kerbside"))
	rootCmd.AddCommand(cmdx.SetRefCmd(rootCmd))
	cmdx.SetHelp(rootCmd)

	rootCmd.PersistentFlags().StringP(configFlag, "c", "", "Override config file")

	return rootCmd
}
