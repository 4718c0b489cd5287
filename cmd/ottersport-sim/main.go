package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ottersport/ottersport/internal/config"
	"github.com/ottersport/ottersport/internal/engine"
	"github.com/ottersport/ottersport/internal/logging"
	"github.com/ottersport/ottersport/internal/scoreclient"
	"github.com/ottersport/ottersport/internal/service"
	"github.com/ottersport/ottersport/internal/version"
)

var (
	decksFile string
	deckIndex int
	games     int
	seed      int64
	handSize  int
	scoreURL  string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:     "ottersport-sim",
	Short:   "Play headless OtterSport card battles",
	Version: version.String(),
	Long: `Plays battles from the deck seed file without a server. The player side
always plays its highest-point card; the AI uses the regular opponent
heuristic. Results are deterministic for a given --seed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetLogger(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runSimulation,
}

func init() {
	rootCmd.Flags().StringVar(&decksFile, "decks", "decks.yaml", "path to the deck seed YAML file")
	rootCmd.Flags().IntVar(&deckIndex, "deck", 0, "deck number to play (1-indexed); 0 plays every deck")
	rootCmd.Flags().IntVarP(&games, "games", "n", 100, "battles per deck")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	rootCmd.Flags().IntVar(&handSize, "hand-size", engine.DefaultHandSize, "hand cap for both sides")
	rootCmd.Flags().StringVar(&scoreURL, "score-url", "", "base URL of a warmup scoring service")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	if games < 1 {
		return fmt.Errorf("--games must be at least 1")
	}
	df, err := config.LoadDeckFile(decksFile)
	if err != nil {
		return err
	}
	if deckIndex != 0 {
		if deckIndex < 1 || deckIndex > len(df.Decks) {
			return fmt.Errorf("deck %d not found (have %d decks)", deckIndex, len(df.Decks))
		}
		df = &config.DeckFile{Decks: df.Decks[deckIndex-1 : deckIndex]}
	}

	opts := simOptions{Games: games, Seed: seed, HandSize: handSize}
	if scoreURL != "" {
		opts.Scorer = service.NewRemoteScorer(scoreclient.New(scoreURL, scoreclient.DefaultTimeout))
	}
	results, err := simulate(df, opts)
	if err != nil {
		return err
	}
	return printResults(cmd.OutOrStdout(), results)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
