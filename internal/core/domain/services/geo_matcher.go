package services

import (
	"math"
	"sort"

	"meddispatch/internal/core/domain/model/candidate"
	"meddispatch/internal/core/domain/model/kernel"
)

// GeoMatcher ranks candidates by great-circle distance to a reference point.
//
// Ranking rules:
//   - Nearest candidate first, by haversine distance
//   - Ties keep the directory's original order (stable sort)
//   - An empty input produces an empty ranking, never an error
type GeoMatcher struct{}

// NewGeoMatcher creates a new GeoMatcher instance.
func NewGeoMatcher() GeoMatcher {
	return GeoMatcher{}
}

// Rank returns the candidates ordered by ascending distance to origin.
// A candidate whose location cannot be measured against the origin sorts
// last. The input slice is not modified.
func (m GeoMatcher) Rank(origin kernel.GeoPoint, candidates []candidate.Candidate) []candidate.Candidate {
	type measured struct {
		candidate candidate.Candidate
		km        float64
	}

	ranked := make([]measured, 0, len(candidates))
	for _, c := range candidates {
		km, err := origin.DistanceTo(c.Location())
		if err != nil {
			km = math.MaxFloat64
		}
		ranked = append(ranked, measured{candidate: c, km: km})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].km < ranked[j].km
	})

	result := make([]candidate.Candidate, 0, len(ranked))
	for _, entry := range ranked {
		result = append(result, entry.candidate)
	}
	return result
}
