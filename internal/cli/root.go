// Package cli wires the meetscribe commands: serve runs the HTTP service,
// analyze runs the extraction pipeline over a saved transcript.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/notewell/meetscribe/internal/version"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

// NewRootCmd builds the meetscribe command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "meetscribe",
		Short: "Live meeting transcription aggregator and notes extractor",
		Long: `meetscribe ingests finalized speech-recognition fragments, maintains a
deduplicated live transcript per recording session, and on stop produces
structured meeting notes (summary, action items, meeting details, calendar
events) by reconciling an OpenAI extraction with deterministic heuristics.`,
		SilenceUsage: true,
	}

	root.Version = version.Version
	root.SetVersionTemplate(version.Full() + "\n")

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to TOML config file (built-in defaults apply when omitted)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newAnalyzeCmd(opts))

	return root
}
