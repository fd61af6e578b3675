// internal/buddies/recommendations.go

package buddies

import "sort"

// Recommend ranks the candidate pool for the viewer. Three strategies run
// over the pool (shared goal, shared interests, proximity); their results
// are merged per candidate keeping the higher score, sorted by score
// descending, and only then paginated. Candidates scoring zero are dropped.
func Recommend(viewer *Profile, pool []*Profile, params SearchParams) []*MatchCandidate {
	pool = applyFilters(viewer, pool, params)

	merged := map[int64]*MatchCandidate{}
	mergeCandidates(merged, strategyGoal(viewer, pool))
	mergeCandidates(merged, strategyTags(viewer, pool))
	mergeCandidates(merged, strategyLocation(viewer, pool))

	candidates := make([]*MatchCandidate, 0, len(merged))
	for _, c := range merged {
		candidates = append(candidates, c)
	}
	sortByScore(candidates)

	return paginate(candidates, params.Skip, params.Limit)
}

// RecommendNearby returns candidates within radiusKm of the viewer,
// closest first, with score breaking ties. A viewer without a location
// gets an empty list.
func RecommendNearby(viewer *Profile, pool []*Profile, radiusKm float64, limit int) []*MatchCandidate {
	if !viewer.HasLocation() {
		return []*MatchCandidate{}
	}

	var candidates []*MatchCandidate
	for _, p := range pool {
		if !p.HasLocation() {
			continue
		}
		d := Haversine(*viewer.Latitude, *viewer.Longitude, *p.Latitude, *p.Longitude)
		if d > radiusKm {
			continue
		}
		dist := d
		score, reasons := MatchScore(viewer, p)
		candidates = append(candidates, &MatchCandidate{
			Profile:  p,
			Score:    score,
			Reasons:  reasons,
			Distance: &dist,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if *candidates[i].Distance != *candidates[j].Distance {
			return *candidates[i].Distance < *candidates[j].Distance
		}
		return candidates[i].Score > candidates[j].Score
	})

	return paginate(candidates, 0, limit)
}

// RecommendSimilar returns candidates whose training style resembles the
// viewer's, highest similarity first. Only candidates at or above the
// similarity floor are included.
func RecommendSimilar(viewer *Profile, pool []*Profile, limit int) []*MatchCandidate {
	var candidates []*MatchCandidate
	for _, p := range pool {
		sim := SimilarityScore(viewer, p)
		if sim < similarityFloor {
			continue
		}
		_, reasons := MatchScore(viewer, p)
		candidates = append(candidates, &MatchCandidate{
			Profile: p,
			Score:   sim,
			Reasons: reasons,
		})
	}
	sortByScore(candidates)
	return paginate(candidates, 0, limit)
}

// strategyGoal scores candidates sharing the viewer's goal
func strategyGoal(viewer *Profile, pool []*Profile) []*MatchCandidate {
	if viewer.FitnessGoal == nil {
		return nil
	}
	var out []*MatchCandidate
	for _, p := range pool {
		if p.FitnessGoal == nil || *p.FitnessGoal != *viewer.FitnessGoal {
			continue
		}
		score, reasons := MatchScore(viewer, p)
		if score == 0 {
			continue
		}
		out = append(out, &MatchCandidate{Profile: p, Score: score, Reasons: reasons})
	}
	return out
}

// strategyTags scores candidates with at least one shared interest
func strategyTags(viewer *Profile, pool []*Profile) []*MatchCandidate {
	if len(viewer.FitnessTags) == 0 {
		return nil
	}
	var out []*MatchCandidate
	for _, p := range pool {
		if len(sharedTags(viewer.FitnessTags, p.FitnessTags)) == 0 {
			continue
		}
		score, reasons := MatchScore(viewer, p)
		if score == 0 {
			continue
		}
		out = append(out, &MatchCandidate{Profile: p, Score: score, Reasons: reasons})
	}
	return out
}

// strategyLocation scores every candidate with a known location and
// annotates the distance. Radius filtering belongs to RecommendNearby.
func strategyLocation(viewer *Profile, pool []*Profile) []*MatchCandidate {
	if !viewer.HasLocation() {
		return nil
	}
	var out []*MatchCandidate
	for _, p := range pool {
		if !p.HasLocation() {
			continue
		}
		score, reasons := MatchScore(viewer, p)
		if score == 0 {
			continue
		}
		dist := Haversine(*viewer.Latitude, *viewer.Longitude, *p.Latitude, *p.Longitude)
		out = append(out, &MatchCandidate{Profile: p, Score: score, Reasons: reasons, Distance: &dist})
	}
	return out
}

// mergeCandidates folds a strategy's results into the accumulator,
// keeping the higher-scored entry per candidate. A distance annotation
// survives a merge even when the scores tie.
func mergeCandidates(acc map[int64]*MatchCandidate, batch []*MatchCandidate) {
	for _, c := range batch {
		existing, ok := acc[c.Profile.UserID]
		if !ok || c.Score > existing.Score {
			if ok && c.Distance == nil {
				c.Distance = existing.Distance
			}
			acc[c.Profile.UserID] = c
			continue
		}
		if existing.Distance == nil && c.Distance != nil {
			existing.Distance = c.Distance
		}
	}
}

func applyFilters(viewer *Profile, pool []*Profile, params SearchParams) []*Profile {
	var out []*Profile
	for _, p := range pool {
		if params.FitnessLevel != "" {
			if p.FitnessLevel == nil || *p.FitnessLevel != params.FitnessLevel {
				continue
			}
		}
		if params.FitnessGoal != "" {
			if p.FitnessGoal == nil || *p.FitnessGoal != params.FitnessGoal {
				continue
			}
		}
		if len(params.FitnessTags) > 0 {
			if len(sharedTags(params.FitnessTags, p.FitnessTags)) == 0 {
				continue
			}
		}
		if params.AgeMin > 0 {
			if p.Age == nil || *p.Age < params.AgeMin {
				continue
			}
		}
		if params.AgeMax > 0 {
			if p.Age == nil || *p.Age > params.AgeMax {
				continue
			}
		}
		if params.MaxDistance > 0 && viewer.HasLocation() {
			if !p.HasLocation() {
				continue
			}
			if Haversine(*viewer.Latitude, *viewer.Longitude, *p.Latitude, *p.Longitude) > params.MaxDistance {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// sortByScore orders candidates by score descending with user ID breaking
// ties, so repeated calls paginate identically
func sortByScore(candidates []*MatchCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Profile.UserID < candidates[j].Profile.UserID
	})
}

// paginate slices after sorting so pages never reshuffle
func paginate(candidates []*MatchCandidate, skip, limit int) []*MatchCandidate {
	if candidates == nil {
		return []*MatchCandidate{}
	}
	if skip >= len(candidates) {
		return []*MatchCandidate{}
	}
	candidates = candidates[skip:]
	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	return candidates
}
