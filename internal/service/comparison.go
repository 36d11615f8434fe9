package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchup-engine/internal/engine"
	"github.com/yourusername/matchup-engine/internal/logger"
	"github.com/yourusername/matchup-engine/internal/metrics"
	"github.com/yourusername/matchup-engine/internal/models"
	"github.com/yourusername/matchup-engine/internal/repository"
)

// ComparisonResult is everything the presentation layer needs for one
// matchup.
type ComparisonResult struct {
	TeamA       *models.TeamRanking      `json:"team_a"`
	TeamB       *models.TeamRanking      `json:"team_b"`
	Prediction  *models.MatchPrediction  `json:"prediction"`
	Explanation *models.MatchExplanation `json:"explanation"`
	Cached      bool                     `json:"cached"`
}

// ComparisonService fetches ranking snapshots and game history, runs the
// prediction engine, and caches served comparisons.
type ComparisonService struct {
	teamRepo  repository.TeamRankingRepository
	gameRepo  repository.GameRepository
	predictor *engine.Predictor
	explainer *engine.Explainer
	cache     *ComparisonCache
	log       *logrus.Logger
	audit     *logger.PredictionLogger
}

// NewComparisonService creates a comparison service.
func NewComparisonService(
	teamRepo repository.TeamRankingRepository,
	gameRepo repository.GameRepository,
	predictor *engine.Predictor,
	explainer *engine.Explainer,
	cache *ComparisonCache,
	log *logrus.Logger,
) *ComparisonService {
	return &ComparisonService{
		teamRepo:  teamRepo,
		gameRepo:  gameRepo,
		predictor: predictor,
		explainer: explainer,
		cache:     cache,
		log:       log,
		audit:     logger.NewPredictionLogger(log),
	}
}

// CompareTeams serves a full comparison of team A versus team B.
func (s *ComparisonService) CompareTeams(ctx context.Context, teamAID, teamBID uuid.UUID) (*ComparisonResult, error) {
	start := time.Now()
	defer func() {
		metrics.PredictionLatency.Observe(time.Since(start).Seconds())
	}()

	if teamAID == teamBID {
		metrics.ComparisonErrorsTotal.WithLabelValues("same_team").Inc()
		s.audit.LogComparisonRejected(teamAID.String(), teamBID.String(), "same_team")
		return nil, models.ErrSameTeam
	}

	teamA, err := s.teamRepo.GetByID(ctx, teamAID)
	if err != nil {
		metrics.ComparisonErrorsTotal.WithLabelValues("team_not_found").Inc()
		return nil, fmt.Errorf("team A %s: %w", teamAID, err)
	}
	teamB, err := s.teamRepo.GetByID(ctx, teamBID)
	if err != nil {
		metrics.ComparisonErrorsTotal.WithLabelValues("team_not_found").Inc()
		return nil, fmt.Errorf("team B %s: %w", teamBID, err)
	}

	if teamA.AgeGroup != teamB.AgeGroup {
		metrics.ComparisonErrorsTotal.WithLabelValues("age_group_mixed").Inc()
		s.audit.LogComparisonRejected(teamAID.String(), teamBID.String(), "age_group_mixed")
		return nil, models.ErrAgeGroupMixed
	}

	key := CacheKey{TeamAID: teamAID, TeamBID: teamBID}
	if cached := s.cache.Get(key); cached != nil {
		metrics.PredictionsTotal.WithLabelValues("cached").Inc()
		s.audit.LogPrediction(cached.Prediction, true)
		return &ComparisonResult{
			TeamA:       teamA,
			TeamB:       teamB,
			Prediction:  cached.Prediction,
			Explanation: cached.Explanation,
			Cached:      true,
		}, nil
	}

	games, err := s.gameRepo.GetByTeams(ctx, teamAID, teamBID)
	if err != nil {
		metrics.ComparisonErrorsTotal.WithLabelValues("game_history").Inc()
		return nil, fmt.Errorf("game history for %s vs %s: %w", teamAID, teamBID, err)
	}

	prediction := s.predictor.Predict(ctx, teamA, teamB, games)
	explanation := s.explainer.Explain(ctx, teamA, teamB, prediction)

	s.cache.Set(key, &CachedComparison{Prediction: prediction, Explanation: explanation})

	metrics.PredictionsTotal.WithLabelValues("computed").Inc()
	metrics.PredictionsByConfidence.WithLabelValues(string(prediction.Confidence.Label)).Inc()
	s.audit.LogPrediction(prediction, false)

	return &ComparisonResult{
		TeamA:       teamA,
		TeamB:       teamB,
		Prediction:  prediction,
		Explanation: explanation,
		Cached:      false,
	}, nil
}

// TeamForm exposes a team's recent-form value for the API's form endpoint.
func (s *ComparisonService) TeamForm(ctx context.Context, teamID uuid.UUID, window int) (float64, error) {
	if window <= 0 {
		window = engine.DefaultFormWindow
	}

	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		metrics.ComparisonErrorsTotal.WithLabelValues("team_not_found").Inc()
		return 0, fmt.Errorf("team %s: %w", teamID, err)
	}

	// Pull a little more history than the window in case recent games lack
	// scores.
	games, err := s.gameRepo.GetByTeam(ctx, teamID, window*3)
	if err != nil {
		metrics.ComparisonErrorsTotal.WithLabelValues("game_history").Inc()
		return 0, fmt.Errorf("game history for %s: %w", teamID, err)
	}

	return engine.RecentForm(teamID, games, window, nil), nil
}

// FlushCache clears cached comparisons, typically after the upstream ranking
// pipeline publishes a refresh.
func (s *ComparisonService) FlushCache() {
	s.cache.Flush()
	s.log.Info("Comparison cache flushed")
}

// WarmPair precomputes and caches a comparison for a watched team pair.
func (s *ComparisonService) WarmPair(ctx context.Context, teamAID, teamBID uuid.UUID) error {
	_, err := s.CompareTeams(ctx, teamAID, teamBID)
	return err
}

// CacheStats exposes cache statistics for operational tooling.
func (s *ComparisonService) CacheStats() (hits, misses uint64, ratio float64) {
	return s.cache.Stats()
}
