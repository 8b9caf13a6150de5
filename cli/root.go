package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/cmdx"
	"github.com/spf13/cobra"
)

var envHelp = map[string]string{
	"short": "List of supported environment variables",
	"long": heredoc.Doc(`
		NINJA_CONFIG: the path of the configuration file to load.

		Every key of the configuration file can also be set through the
		environment by upper casing it, replacing "." with "_" and prefixing
		it with NINJA_, e.g. NINJA_DB_HOST or NINJA_SERVICE_PORT.

		A ".env" file in the working directory is read before the
		configuration is loaded.
	`),
}

func New(cfg *Config) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "ninja <command> <subcommand> [flags]",
		Short:         "Investor relationship service",
		Long:          "Search limited partners, curate lists and track raises.",
		SilenceErrors: true,
		SilenceUsage:  false,
		Example: heredoc.Doc(`
		$ ninja investors search --location MENA
		$ ninja lists list
		$ ninja server start
		`),
		Annotations: map[string]string{
			"group": "core",
			"help:learn": heredoc.Doc(`
				Use 'ninja <command> --help' for info about a command.
			`),
		},
	}

	if cfg.Client.ServerHeaderKeyUserID == "" {
		cfg.Client.ServerHeaderKeyUserID = cfg.Service.Identity.HeaderKeyUserID
	}

	rootCmd.AddCommand(
		serverCmd(cfg),
		configCommand(cfg),
		investorsCommand(cfg),
		listsCommand(cfg),
		versionCmd(),
	)

	// Help topics
	rootCmd.AddCommand(cmdx.SetCompletionCmd("ninja"))
	rootCmd.AddCommand(cmdx.SetRefCmd(rootCmd))
	rootCmd.AddCommand(cmdx.SetHelpTopicCmd("environment", envHelp))
	cmdx.SetHelp(rootCmd)

	rootCmd.PersistentFlags().StringP(configFlag, "c", "", "Override config file")

	return rootCmd
}
