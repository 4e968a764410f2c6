package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notewell/meetscribe/internal/analysis"
	"github.com/notewell/meetscribe/internal/config"
	"github.com/notewell/meetscribe/internal/transcript"
	"github.com/notewell/meetscribe/pkg/logger"
)

// modelExtractor is the slice of the OpenAI client the offline pipeline
// needs.
type modelExtractor interface {
	Extract(ctx context.Context, text string) (*analysis.Result, error)
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var withModel bool

	cmd := &cobra.Command{
		Use:   "analyze [transcript-file]",
		Short: "Analyze a saved transcript and print the result as JSON",
		Long: `Run the cleanup and extraction pipeline over a raw transcript read from a
file, or from stdin when the argument is "-" or omitted. Each input line is
treated as one finalized recognition fragment. By default only the
deterministic heuristics run; --model adds the OpenAI extraction pass and
reconciles the two.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			log, err := logger.New(logger.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = log.Sync()
			}()

			raw, err := readTranscript(cmd, args)
			if err != nil {
				return err
			}

			var model modelExtractor
			if withModel {
				model = analysis.NewOpenAIClient(cfg.OpenAI, log)
			}

			result, err := analyzeTranscript(cmd.Context(), cfg, model, log, string(raw))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withModel, "model", false, "also run the OpenAI extraction (requires an API key)")

	return cmd
}

// analyzeTranscript runs the offline pipeline: fragment aggregation with
// phrase deduplication, near-duplicate cleanup, optional model extraction,
// then reconciliation with the heuristics. A nil model reconciles against an
// empty result, which routes every field through the heuristic fallbacks
// rather than discarding them the way an unusable model result would.
func analyzeTranscript(ctx context.Context, cfg *config.Config, model modelExtractor, log *logger.Logger, raw string) (*analysis.Result, error) {
	agg := transcript.NewAggregator()
	for _, line := range strings.Split(raw, "\n") {
		agg.AppendFinal(line)
	}

	full := agg.Current()
	if strings.TrimSpace(full) == "" {
		return nil, errors.New("no speech detected in transcript")
	}

	cleaned := transcript.NewCleaner(cfg.Transcript.OverlapThreshold).Clean(full)

	aiResult := &analysis.Result{}
	if model != nil {
		var err error
		aiResult, err = model.Extract(ctx, cleaned)
		if err != nil {
			if !analysis.Unusable(err) {
				return nil, err
			}
			log.Warn("Model extraction unusable, falling back", logger.Error(err))
			aiResult = nil
		}
	}

	heuristics := analysis.NewExtractor(cfg.Extraction.Stoplist)
	return analysis.NewReconciler().Reconcile(aiResult, heuristics.Extract(cleaned)), nil
}

// readTranscript reads the raw transcript from the named file, or from stdin
// when the argument is "-" or omitted.
func readTranscript(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read transcript from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}
	return data, nil
}
