package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barlind/bleurgh/cliout"
	"github.com/barlind/bleurgh/logutil"
	"github.com/barlind/bleurgh/purge"
	"github.com/barlind/bleurgh/setup"
	"github.com/barlind/bleurgh/version"
)

// Set at build time via -ldflags.
var (
	buildVersion = "0.0.0-dev"
	buildDate    = "unknown"
	gitCommit    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var outputFormat string

	root := &cobra.Command{
		Use:   "bleurgh",
		Short: "Purge Fastly CDN caches and share team configuration",
		Long: `bleurgh purges Fastly CDN caches by surrogate key, URL or service,
and encodes team configuration as a portable string that teammates can
apply to their own shells.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logutil.SetupLogger(logutil.IsDebugEnabled(), false)
			return cliout.SetFormat(outputFormat)
		},
	}

	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format (json or yaml)")

	info := version.New("bleurgh")
	info.Version = buildVersion
	info.BuildDate = buildDate
	info.GitCommit = gitCommit

	root.AddCommand(purge.NewCommand())
	root.AddCommand(setup.NewCommand())
	root.AddCommand(version.NewCommand(info, &outputFormat))

	return root
}
