package region

import (
	"context"

	"npl-dashboard/internal/authz"
	"npl-dashboard/internal/colorscale"
	"npl-dashboard/internal/geo"
	"npl-dashboard/internal/progress"
	"npl-dashboard/internal/tract/repository"
)

// Summary is one region row for the map client: identity, derived goal
// metrics and ready-to-apply polygon styling.
type Summary struct {
	ID             string           `json:"id"`
	Name           string           `json:"name,omitempty"`
	Countyfp       string           `json:"countyfp,omitempty"`
	SimpleChurches int              `json:"simpleChurches"`
	LegacyChurches int              `json:"legacyChurches"`
	Metrics        progress.Summary `json:"metrics"`
	Style          colorscale.Style `json:"style"`
}

type RegionService struct {
	index *geo.Index
	repo  *repository.TractRepository
}

func NewService(index *geo.Index, repo *repository.TractRepository) *RegionService {
	return &RegionService{index: index, repo: repo}
}

// CountySummaries derives county rows. County disciple-maker counts are not
// persisted as such; they are the sum of the county's stored tract rows,
// grouped by the county prefix of each tract GEOID.
func (s *RegionService) CountySummaries(ctx context.Context) ([]Summary, error) {
	stored, err := s.repo.ListMetrics(ctx)
	if err != nil {
		return nil, err
	}

	type countyTotals struct {
		discipleMakers int
		simpleChurches int
		legacyChurches int
	}
	totals := make(map[string]countyTotals)
	for tractID, m := range stored {
		fp := authz.CountyOfTract(tractID)
		if fp == "" {
			continue
		}
		t := totals[fp]
		t.discipleMakers += m.DiscipleMakers
		t.simpleChurches += m.SimpleChurches
		t.legacyChurches += m.LegacyChurches
		totals[fp] = t
	}

	counties := s.index.Counties()
	summaries := make([]Summary, 0, len(counties))
	for _, c := range counties {
		t := totals[c.Countyfp]
		summaries = append(summaries, Summary{
			ID:             c.ID,
			Name:           c.Name,
			Countyfp:       c.Countyfp,
			SimpleChurches: t.simpleChurches,
			LegacyChurches: t.legacyChurches,
			Metrics:        progress.Compute(c.Population, t.discipleMakers),
			Style:          colorscale.BaseStyle(progress.FillRatio(c.Population, t.discipleMakers)),
		})
	}
	return summaries, nil
}

// TractSummaries derives the rows for one county's tract view.
func (s *RegionService) TractSummaries(ctx context.Context, countyfp string) ([]Summary, error) {
	stored, err := s.repo.ListMetrics(ctx)
	if err != nil {
		return nil, err
	}

	tracts := s.index.TractsByCounty(countyfp)
	summaries := make([]Summary, 0, len(tracts))
	for _, t := range tracts {
		var dm, simple, legacy int
		if m, ok := stored[t.ID]; ok {
			dm = m.DiscipleMakers
			simple = m.SimpleChurches
			legacy = m.LegacyChurches
		}
		summaries = append(summaries, Summary{
			ID:             t.ID,
			Countyfp:       t.Countyfp,
			SimpleChurches: simple,
			LegacyChurches: legacy,
			Metrics:        progress.Compute(t.Population, dm),
			Style:          colorscale.BaseStyle(progress.FillRatio(t.Population, dm)),
		})
	}
	return summaries, nil
}
