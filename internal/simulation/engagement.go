package simulation

import (
	"math"

	"DataDigest/internal/domain"
)

// Engagement holds the per-platform calibration derived from one article.
type Engagement struct {
	SocialProbability float64
	ForumProbability  float64
	// Intensity is the baseline the social counter draws are scaled by.
	Intensity float64
	// ForumIntensity is the mean of the forum score draw.
	ForumIntensity float64
}

// EngagementModel turns article quality signals into participation probabilities.
// It is a pure function of the article and its tables.
type EngagementModel struct {
	tables Tables
}

// NewEngagementModel binds the model to its coefficient tables.
func NewEngagementModel(tables Tables) EngagementModel {
	return EngagementModel{tables: tables}
}

// Evaluate computes the engagement parameters for article.
func (m EngagementModel) Evaluate(article domain.Article) Engagement {
	score := article.EngagementScore()

	return Engagement{
		SocialProbability: participation(score, m.tables.Social),
		ForumProbability:  participation(score, m.tables.Forum),
		Intensity:         baseline(score, m.tables.IntensityDivisor),
		ForumIntensity:    baseline(score, m.tables.ForumScoreDivisor),
	}
}

// baseline is max(1, score/divisor) with integer division.
func baseline(score, divisor int) float64 {
	if divisor <= 0 {
		divisor = 1
	}
	return math.Max(1, float64(score/divisor))
}

func participation(score int, c PlatformCoefficients) float64 {
	if c.Divisor <= 0 {
		return c.Floor
	}
	return math.Min(c.Cap, float64(score)/c.Divisor+c.Floor)
}
