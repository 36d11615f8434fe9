package models

// FactorCategory tags which signal an explanation factor describes.
type FactorCategory string

const (
	FactorPower      FactorCategory = "overall_power"
	FactorSchedule   FactorCategory = "schedule_strength"
	FactorForm       FactorCategory = "recent_form"
	FactorMatchup    FactorCategory = "matchup"
	FactorCloseMatch FactorCategory = "close_match"
)

// FactorMagnitude buckets how strongly a factor favors one side. Factors
// below the moderate threshold are dropped, never emitted.
type FactorMagnitude string

const (
	MagnitudeSignificant FactorMagnitude = "significant"
	MagnitudeModerate    FactorMagnitude = "moderate"
)

// FactorSide identifies which team a factor favors.
type FactorSide string

const (
	SideTeamA   FactorSide = "team_a"
	SideTeamB   FactorSide = "team_b"
	SideNeither FactorSide = "neither"
)

// ExplanationFactor is one ranked, human-readable contributor to a
// prediction.
type ExplanationFactor struct {
	Category    FactorCategory  `json:"category"`
	Favors      FactorSide      `json:"favors"`
	Magnitude   FactorMagnitude `json:"magnitude"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Importance  float64         `json:"importance"`
}

// MatchExplanation is the natural-language companion to a MatchPrediction.
// Factors are ordered most-important first. KeyInsights are complete
// sentences rendered directly to end users.
type MatchExplanation struct {
	Factors     []ExplanationFactor `json:"factors"`
	Summary     string              `json:"summary"`
	KeyInsights []string            `json:"key_insights"`
	Reliability string              `json:"reliability"`
}
