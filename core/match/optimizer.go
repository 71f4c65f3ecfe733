package match

import (
	"context"
	"fmt"

	"github.com/dinehop/matchd/core/model"
)

// Optimize runs a bounded repair loop over a candidate result. Issue-free
// inputs return unchanged without re-running the algorithm. Otherwise each
// attempt re-derives an assignment with the flagged hosts demoted, the
// unmatched units prioritized and the deterministic ordering rotated, keeps
// the best-scoring candidate observed (the original counts as attempt zero)
// and stops early once a candidate is issue-free. The returned result never
// scores below the original. Cancellation is observed between attempts.
func Optimize(ctx context.Context, algo Algorithm, mc *Context, res model.MatchResult, w Weights, maxAttempts int) (model.MatchResult, error) {
	issues := AnalyzeIssues(res)
	if issues.Empty() {
		return res, nil
	}

	best := res
	bestScore := OverallScore(res, w)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return best, fmt.Errorf("optimize attempt %d: %w", attempt, ctx.Err())
		default:
		}
		demoted := map[string]struct{}{}
		for id := range issues.HostReuse {
			demoted[id] = struct{}{}
		}
		for id := range issues.CapacityMismatches {
			demoted[id] = struct{}{}
		}
		hinted := mc.WithRepairHints(demoted, issues.MissingParticipants, attempt)

		candidate, err := algo.Run(ctx, hinted)
		if err != nil {
			return best, err
		}
		optimizerAttempts.Inc()
		candScore := OverallScore(candidate, w)
		candIssues := AnalyzeIssues(candidate)
		mc.Log.Debugw("repair attempt", map[string]any{
			"attempt": attempt,
			"score":   candScore,
			"issues":  candIssues.Total(),
		})
		if candScore > bestScore {
			best, bestScore = candidate, candScore
			issues = candIssues
		}
		if candIssues.Empty() {
			break
		}
	}
	return best, nil
}
