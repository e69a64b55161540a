package simulation

import (
	"math"
	"math/rand"
	"time"

	"DataDigest/internal/domain"
)

const dateLayout = "2006-01-02"

// TrafficSynthesizer fabricates a fixed-length daily analytics series per article.
type TrafficSynthesizer struct {
	tables Tables
}

// NewTrafficSynthesizer binds the synthesizer to its tables.
func NewTrafficSynthesizer(tables Tables) TrafficSynthesizer {
	return TrafficSynthesizer{tables: tables}
}

// BaseSessions is max(floor, score/divisor) × publication multiplier × jitter.
func (s TrafficSynthesizer) BaseSessions(rng *rand.Rand, article domain.Article) int {
	divisor := s.tables.BaseSessionsDivisor
	if divisor <= 0 {
		divisor = 1
	}
	base := article.EngagementScore() / divisor
	if base < s.tables.BaseSessionsFloor {
		base = s.tables.BaseSessionsFloor
	}
	return int(float64(base) * s.tables.Multiplier(article.Publication) * uniform(rng, s.tables.SessionJitter))
}

// Series produces one record per day, generated from the oldest day (Days ago) to yesterday.
func (s TrafficSynthesizer) Series(rng *rand.Rand, article domain.Article, now time.Time) []domain.TrafficDay {
	base := s.BaseSessions(rng, article)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	series := make([]domain.TrafficDay, 0, s.tables.Days)
	for daysAgo := s.tables.Days; daysAgo >= 1; daysAgo-- {
		date := today.AddDate(0, 0, -daysAgo)
		series = append(series, s.day(rng, article, date, s.DailySessions(base, daysAgo, date)))
	}

	return series
}

// DailySessions applies decay past the grace window and the weekend dip, flooring at one session.
func (s TrafficSynthesizer) DailySessions(base, daysAgo int, date time.Time) int {
	sessions := float64(base)
	if daysAgo > s.tables.DecayGraceDays {
		sessions *= math.Pow(s.tables.DecayBase, float64(daysAgo-s.tables.DecayGraceDays)/7)
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		sessions *= s.tables.WeekendFactor
	}
	if sessions < 1 {
		return 1
	}
	return int(sessions)
}

func (s TrafficSynthesizer) day(rng *rand.Rand, article domain.Article, date time.Time, sessions int) domain.TrafficDay {
	d := domain.TrafficDay{
		Date:         date.Format(dateLayout),
		ArticleURL:   article.URL,
		ArticleTitle: truncateRunes(article.Title, s.tables.TitleColumn),
		Publication:  article.Publication,
		Sessions:     sessions,
	}

	total := float64(sessions)
	d.Users = int(total * uniform(rng, s.tables.UsersRatio))
	d.NewUsers = int(total * uniform(rng, s.tables.NewUsersRatio))
	d.Pageviews = int(total * uniform(rng, s.tables.PageviewsRatio))
	d.BounceRate = round(uniform(rng, s.tables.BounceRate), 3)
	d.AvgSessionDuration = round(uniform(rng, s.tables.SessionSeconds), 1)
	d.PagesPerSession = round(float64(d.Pageviews)/total, 2)

	src := SplitRemainder(rng, sessions, s.tables.Sources)
	d.SourceBreakdown = domain.SourceBreakdown{
		Organic: at(src, 0), Social: at(src, 1), Direct: at(src, 2), Referral: at(src, 3), Email: at(src, 4),
	}

	dev := SplitRemainder(rng, sessions, s.tables.Devices)
	d.DeviceBreakdown = domain.DeviceBreakdown{Desktop: at(dev, 0), Mobile: at(dev, 1), Tablet: at(dev, 2)}

	return d
}

// SplitRemainder is the canonical remainder assignment: every category but the
// last takes floor(total × U(range)), capped by what is still unassigned, and the
// last takes max(0, total − assigned). The parts always sum to total.
func SplitRemainder(rng *rand.Rand, total int, shares []ShareRange) []int {
	if len(shares) == 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}

	parts := make([]int, len(shares))
	remaining := total
	for i := 0; i < len(shares)-1; i++ {
		part := int(float64(total) * uniform(rng, shares[i].Range))
		if part > remaining {
			part = remaining
		}
		parts[i] = part
		remaining -= part
	}
	parts[len(parts)-1] = remaining

	return parts
}

func at(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}
