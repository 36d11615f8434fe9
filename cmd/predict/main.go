// Package main provides a CLI for running one-off matchup predictions against
// local JSON fixtures, without a database or API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/matchup-engine/internal/calibration"
	"github.com/yourusername/matchup-engine/internal/engine"
	"github.com/yourusername/matchup-engine/internal/models"
)

var (
	teamsFile      string
	gamesFile      string
	calibrationDir string
	teamAID        string
	teamBID        string
	asJSON         bool
)

func init() {
	rootCmd.Flags().StringVar(&teamsFile, "teams", "teams.json", "Path to team rankings JSON file")
	rootCmd.Flags().StringVar(&gamesFile, "games", "", "Path to game history JSON file (optional)")
	rootCmd.Flags().StringVar(&calibrationDir, "calibration-dir", "", "Directory of calibration documents (optional)")
	rootCmd.Flags().StringVar(&teamAID, "team-a", "", "Team A UUID")
	rootCmd.Flags().StringVar(&teamBID, "team-b", "", "Team B UUID")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON instead of a readable report")

	rootCmd.MarkFlagRequired("team-a")
	rootCmd.MarkFlagRequired("team-b")
}

var rootCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the outcome of a matchup between two ranked teams",
	Long: `Runs the prediction engine against local JSON fixtures and prints the
predicted winner, win probability, expected scoreline, confidence, and a
plain-language explanation.`,
	RunE: runPredict,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	aID, err := uuid.Parse(teamAID)
	if err != nil {
		return fmt.Errorf("team-a %q: %w", teamAID, models.ErrInvalidID)
	}
	bID, err := uuid.Parse(teamBID)
	if err != nil {
		return fmt.Errorf("team-b %q: %w", teamBID, models.ErrInvalidID)
	}
	if aID == bID {
		return models.ErrSameTeam
	}

	teams, err := loadTeams(teamsFile)
	if err != nil {
		return err
	}

	teamA, ok := teams[aID]
	if !ok {
		return fmt.Errorf("team %s not found in %s: %w", aID, teamsFile, models.ErrNotFound)
	}
	teamB, ok := teams[bID]
	if !ok {
		return fmt.Errorf("team %s not found in %s: %w", bID, teamsFile, models.ErrNotFound)
	}
	if teamA.AgeGroup != teamB.AgeGroup {
		return models.ErrAgeGroupMixed
	}

	var games []*models.Game
	if gamesFile != "" {
		games, err = loadGames(gamesFile)
		if err != nil {
			return err
		}
	}

	quietLog := logrus.New()
	quietLog.SetLevel(logrus.WarnLevel)

	var calib *calibration.Provider
	if calibrationDir != "" {
		calib = calibration.NewProvider(calibration.NewFileSource(calibrationDir), quietLog)
	}

	predictor := engine.NewPredictor(calib, quietLog)
	explainer := engine.NewExplainer(calib)

	prediction := predictor.Predict(ctx, teamA, teamB, games)
	explanation := explainer.Explain(ctx, teamA, teamB, prediction)

	if asJSON {
		return printJSON(prediction, explanation)
	}

	printReport(teamA, teamB, prediction, explanation)
	return nil
}

func loadTeams(path string) (map[uuid.UUID]*models.TeamRanking, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read teams file: %w", err)
	}

	var list []*models.TeamRanking
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse teams file: %w", err)
	}

	teams := make(map[uuid.UUID]*models.TeamRanking, len(list))
	for _, t := range list {
		teams[t.ID] = t
	}
	return teams, nil
}

func loadGames(path string) ([]*models.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read games file: %w", err)
	}

	var games []*models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("failed to parse games file: %w", err)
	}
	return games, nil
}

func printJSON(prediction *models.MatchPrediction, explanation *models.MatchExplanation) error {
	out := struct {
		Prediction  *models.MatchPrediction  `json:"prediction"`
		Explanation *models.MatchExplanation `json:"explanation"`
	}{prediction, explanation}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printReport(teamA, teamB *models.TeamRanking, prediction *models.MatchPrediction, explanation *models.MatchExplanation) {
	winner := teamA.Name
	winProb := prediction.WinProbabilityA
	if prediction.PredictedWinner == models.WinnerTeamB {
		winner = teamB.Name
		winProb = prediction.WinProbabilityB
	}

	fmt.Printf("\n%s vs %s (%s)\n\n", teamA.Name, teamB.Name, teamA.AgeGroup)
	fmt.Printf("Predicted winner:  %s (%.1f%%)\n", winner, winProb*100)
	fmt.Printf("Expected score:    %.1f - %.1f\n", prediction.ExpectedScoreA, prediction.ExpectedScoreB)
	fmt.Printf("Expected margin:   %.1f\n", prediction.ExpectedMargin)
	fmt.Printf("Confidence:        %s (%.2f)\n", prediction.Confidence.Label, prediction.Confidence.Score)

	fmt.Printf("\n%s\n", explanation.Summary)

	fmt.Println("\nKey factors:")
	for _, f := range explanation.Factors {
		fmt.Printf("  %s %s\n", f.Icon, f.Description)
	}

	fmt.Println("\nInsights:")
	for _, insight := range explanation.KeyInsights {
		fmt.Printf("  - %s\n", insight)
	}

	fmt.Printf("\nReliability: %s\n\n", explanation.Reliability)
}
