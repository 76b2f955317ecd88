// Package progress holds the derived-metric arithmetic shared by the region
// endpoints. The formulas are load-bearing for behavioral compatibility with
// the dashboard client and must not drift.
package progress

import "math"

const (
	// LostFraction is the assumed share of a region's population far from God
	// before any disciple-making activity is counted.
	LostFraction = 0.85
	// GoalFraction sets the disciple-maker goal at 10% of population.
	GoalFraction = 0.10
)

type Summary struct {
	Population        int     `json:"population"`
	DiscipleMakers    int     `json:"discipleMakers"`
	Goal              int     `json:"goal"`
	Progress          float64 `json:"progress"`
	PeopleFarFromGod  int     `json:"peopleFarFromGod"`
	PercentFarFromGod float64 `json:"percentFarFromGod"`
}

// Compute derives the goal metrics for a region:
//
//	peopleFarFromGod  = max(0, population*0.85 - discipleMakers)
//	percentFarFromGod = peopleFarFromGod/population*100  (0 if population <= 0)
//	goal              = round(0.10*population)
//	progress          = clamp(discipleMakers/goal, 0, 1)
func Compute(population, discipleMakers int) Summary {
	s := Summary{
		Population:     population,
		DiscipleMakers: discipleMakers,
	}

	if population > 0 {
		farFromGod := math.Max(0, float64(population)*LostFraction-float64(discipleMakers))
		s.PeopleFarFromGod = int(math.Round(farFromGod))
		s.PercentFarFromGod = farFromGod / float64(population) * 100
	}

	s.Goal = int(math.Round(GoalFraction * float64(population)))
	switch {
	case s.Goal > 0:
		s.Progress = clamp(float64(discipleMakers)/float64(s.Goal), 0, 1)
	case discipleMakers > 0:
		s.Progress = 1
	}

	return s
}

// FillRatio is the variant used for map fills: the goal divisor falls back to
// 1 when the population is missing, so empty regions still color red.
func FillRatio(population, discipleMakers int) float64 {
	pop := float64(population)
	if pop <= 0 {
		pop = 1
	}
	goal := GoalFraction * pop
	return clamp(float64(discipleMakers)/goal, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
