// internal/buddies/matching.go

package buddies

import (
	"fmt"
	"math"
)

// Scoring weights. Component scores add up to at most 100:
// age 20 + level 30 + shared interests 30 + goal 20.
const (
	ageScoreClose    = 20
	ageScoreNear     = 15
	ageScoreFar      = 10
	levelScoreSame   = 30
	levelScoreNear   = 20
	tagScorePerMatch = 10
	tagScoreCap      = 30
	goalScoreSame    = 20
	maxMatchScore    = 100

	similarityFloor = 60
	earthRadiusKm   = 6371.0
)

// MatchScore computes the 0-100 compatibility score between two profiles
// along with human-readable reasons for each contributing dimension.
// The function is symmetric: MatchScore(a, b) == MatchScore(b, a).
func MatchScore(a, b *Profile) (int, []string) {
	score := 0
	reasons := []string{}

	// Age proximity. A missing age on either side contributes nothing.
	if a.Age != nil && b.Age != nil {
		diff := *a.Age - *b.Age
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff <= 2:
			score += ageScoreClose
			reasons = append(reasons, "Very close in age")
		case diff <= 5:
			score += ageScoreNear
			reasons = append(reasons, "Similar age group")
		case diff <= 10:
			score += ageScoreFar
			reasons = append(reasons, "Compatible age range")
		}
	}

	// Fitness level: identical beats adjacent, never both
	if a.FitnessLevel != nil && b.FitnessLevel != nil {
		if *a.FitnessLevel == *b.FitnessLevel {
			score += levelScoreSame
			reasons = append(reasons, fmt.Sprintf("Same fitness level (%s)", *a.FitnessLevel))
		} else if levelsAdjacent(*a.FitnessLevel, *b.FitnessLevel) {
			score += levelScoreNear
			reasons = append(reasons, "Similar fitness level")
		}
	}

	// Shared interests, capped so broad tag lists cannot dominate
	shared := sharedTags(a.FitnessTags, b.FitnessTags)
	if len(shared) > 0 {
		tagScore := len(shared) * tagScorePerMatch
		if tagScore > tagScoreCap {
			tagScore = tagScoreCap
		}
		score += tagScore
		reasons = append(reasons, fmt.Sprintf("%d shared interests", len(shared)))
	}

	// Goal match is exact; "Weight Loss" and "weight loss" are distinct goals
	if a.FitnessGoal != nil && b.FitnessGoal != nil && *a.FitnessGoal == *b.FitnessGoal {
		score += goalScoreSame
		reasons = append(reasons, fmt.Sprintf("Same goal: %s", *a.FitnessGoal))
	}

	if score > maxMatchScore {
		score = maxMatchScore
	}
	return score, reasons
}

// SimilarityScore measures how alike two profiles train, independent of
// age or goal. Tag overlap (Jaccard) carries 60 points and level affinity
// up to 40. Callers use the similarityFloor to decide inclusion.
func SimilarityScore(a, b *Profile) int {
	score := 0

	union := tagUnion(a.FitnessTags, b.FitnessTags)
	if len(union) > 0 {
		shared := sharedTags(a.FitnessTags, b.FitnessTags)
		score += int(math.Round(float64(len(shared)) / float64(len(union)) * 60))
	}

	if a.FitnessLevel != nil && b.FitnessLevel != nil {
		if *a.FitnessLevel == *b.FitnessLevel {
			score += 40
		} else if levelsAdjacent(*a.FitnessLevel, *b.FitnessLevel) {
			score += 25
		}
	}

	return score
}

// CompatibilityOf builds the per-dimension breakdown used by the
// pairwise match-info view
func CompatibilityOf(a, b *Profile) Compatibility {
	c := Compatibility{
		InterestOverlap: len(sharedTags(a.FitnessTags, b.FitnessTags)),
	}
	if a.Age != nil && b.Age != nil {
		diff := *a.Age - *b.Age
		if diff < 0 {
			diff = -diff
		}
		c.AgeCompatible = diff <= 10
	}
	if a.FitnessLevel != nil && b.FitnessLevel != nil {
		c.LevelCompatible = *a.FitnessLevel == *b.FitnessLevel || levelsAdjacent(*a.FitnessLevel, *b.FitnessLevel)
	}
	if a.FitnessGoal != nil && b.FitnessGoal != nil {
		c.GoalCompatible = *a.FitnessGoal == *b.FitnessGoal
	}
	return c
}

// SuggestedActivities returns shared interests as joint activity ideas,
// falling back to general suggestions when nothing overlaps
func SuggestedActivities(a, b *Profile) []string {
	shared := sharedTags(a.FitnessTags, b.FitnessTags)
	if len(shared) > 0 {
		if len(shared) > 5 {
			shared = shared[:5]
		}
		return shared
	}
	return []string{"gym session", "running", "stretching"}
}

// Haversine returns the great-circle distance in kilometers between two
// coordinate pairs
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func levelsAdjacent(a, b string) bool {
	ra, oka := fitnessLevelRank[a]
	rb, okb := fitnessLevelRank[b]
	if !oka || !okb {
		return false
	}
	diff := ra - rb
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}

// sharedTags preserves the order of the first list
func sharedTags(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	var shared []string
	for _, t := range a {
		if _, ok := set[t]; ok {
			shared = append(shared, t)
		}
	}
	return shared
}

func tagUnion(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	var union []string
	for _, t := range a {
		if _, ok := set[t]; !ok {
			set[t] = struct{}{}
			union = append(union, t)
		}
	}
	for _, t := range b {
		if _, ok := set[t]; !ok {
			set[t] = struct{}{}
			union = append(union, t)
		}
	}
	return union
}
