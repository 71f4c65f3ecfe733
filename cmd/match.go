package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/dinehop/matchd/config"
	"github.com/dinehop/matchd/core/match"
	"github.com/dinehop/matchd/core/model"
	"github.com/dinehop/matchd/core/units"
	"github.com/dinehop/matchd/infra/logger"
	infratravel "github.com/dinehop/matchd/infra/travel"
)

var (
	matchEventID    string
	matchAlgorithms []string
	matchWeights    string
	matchJSON       bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run one matching pass synchronously and print a summary",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchEventID, "event", "e", "", "event id to match")
	matchCmd.Flags().StringSliceVarP(&matchAlgorithms, "algorithms", "a", []string{"greedy"}, "algorithms to race")
	matchCmd.Flags().StringVarP(&matchWeights, "weights", "w", "", "weights override file (json or yaml)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "print the full result as json")
	if err := matchCmd.MarkFlagRequired("event"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if matchWeights != "" {
		w, err := config.LoadWeights(matchWeights)
		if err != nil {
			return fmt.Errorf("load weights: %w", err)
		}
		cfg.Matching.WeightDefaults = w
	}
	rosterStore, err := loadRoster(rosterPath)
	if err != nil {
		return err
	}

	logg := logger.New("match-command")
	oracle := infratravel.NewHTTPOracle(
		cfg.Travel.GeocodeURL,
		cfg.Travel.RouteURL,
		timeout(cfg.Travel.TimeoutSeconds),
	)
	builder := units.NewBuilder(rosterStore, logg)
	manager, err := match.NewManager(match.NewRegistry(), builder, oracle, nil, nil, logg)
	if err != nil {
		return fmt.Errorf("match manager: %w", err)
	}

	snap, err := manager.Snapshot(ctx, matchEventID, cfg.Matching)
	if err != nil {
		return err
	}
	results, err := manager.RunAlgorithms(ctx, snap, matchAlgorithms)
	if err != nil {
		return err
	}
	best := match.PickBest(results, cfg.Matching.WeightDefaults)
	algos, err := manager.Registry().Resolve([]string{best.Algorithm})
	if err != nil {
		return err
	}
	best, err = match.Optimize(ctx, algos[0], snap.Context, best, cfg.Matching.WeightDefaults, cfg.Matching.MaxOptimizeAttempts)
	if err != nil {
		return err
	}

	if matchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(best)
	}
	printSummary(best, snap, cfg.Matching.WeightDefaults)
	return nil
}

func timeout(secs int) time.Duration {
	return time.Duration(secs) * time.Second
}

func printSummary(res model.MatchResult, snap *match.Snapshot, w match.Weights) {
	scores := make([]float64, len(res.Groups))
	travelSecs := make([]float64, len(res.Groups))
	for i, g := range res.Groups {
		scores[i] = g.Score
		travelSecs[i] = g.TravelSeconds
	}
	fmt.Printf("algorithm          %s\n", res.Algorithm)
	fmt.Printf("units              %d (solos %d, teams %d, pairs %d)\n",
		res.Metrics.TotalUnitCount, snap.Report.SoloCount, snap.Report.TeamCount, len(snap.Pairings))
	fmt.Printf("assigned           %d\n", res.Metrics.AssignedUnitCount)
	fmt.Printf("unmatched          %d units, %d participants\n",
		res.Metrics.UnmatchedUnitCount, res.Metrics.UnmatchedParticipantCount)
	fmt.Printf("groups             %d\n", len(res.Groups))
	if len(scores) > 0 {
		mean, std := stat.MeanStdDev(scores, nil)
		fmt.Printf("group score        mean %.1f, stddev %.1f\n", mean, std)
		tMean, tStd := stat.MeanStdDev(travelSecs, nil)
		fmt.Printf("travel seconds     mean %.0f, stddev %.0f\n", tMean, tStd)
	}
	fmt.Printf("overall score      %.1f\n", match.OverallScore(res, w))
	iss := match.AnalyzeIssues(res)
	fmt.Printf("open issues        %d\n", iss.Total())
}
