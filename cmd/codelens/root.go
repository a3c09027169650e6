package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/codelens/internal/app"
)

// NewRootCmd creates the codelens command tree. Without a subcommand it runs
// the TUI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codelens [IMAGE]",
		Short: "Extract code from screenshots and review it",
		Long: `codelens sends a screenshot of source code to an analysis service, shows
the extracted code in an editor, and asks the service whether the code is
readable and what kind of bug it may contain.

The service URL comes from api_url in the config file or CODELENS_API_URL
(default http://localhost:5000).`,
		Version:       getVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default $XDG_CONFIG_HOME/codelens/config.toml)")
	pf.BoolP("verbose", "v", false, "log to stderr (headless commands)")

	cmd.Flags().String("prefs", "", "preferences file (default $XDG_CONFIG_HOME/codelens/prefs.toml)")
	cmd.Flags().String("theme", "", "color theme: Nightfox, Kanagawa or Slate")

	cmd.AddCommand(NewHealthCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := app.Options{}
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.PrefsPath, _ = cmd.Flags().GetString("prefs")
	opts.ThemeName, _ = cmd.Flags().GetString("theme")
	if len(args) == 1 {
		opts.Image = args[0]
	}
	return app.Run(cmd.Context(), opts)
}
