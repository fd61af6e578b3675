// internal/buddies/matching_test.go

package buddies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func testProfile(id int64, age int, level, goal string, tags ...string) *Profile {
	return &Profile{
		UserID:       id,
		Nickname:     "user",
		Age:          intPtr(age),
		FitnessLevel: strPtr(level),
		FitnessGoal:  strPtr(goal),
		FitnessTags:  tags,
	}
}

func TestMatchScorePerfectMatch(t *testing.T) {
	a := testProfile(1, 25, LevelIntermediate, "lose weight", "running", "yoga", "hiit")
	b := testProfile(2, 26, LevelIntermediate, "lose weight", "running", "yoga", "hiit")

	score, reasons := MatchScore(a, b)

	assert.Equal(t, 100, score)
	assert.Len(t, reasons, 4)
}

func TestMatchScoreSymmetric(t *testing.T) {
	a := testProfile(1, 30, LevelBeginner, "build muscle", "weights", "swimming")
	b := testProfile(2, 36, LevelIntermediate, "lose weight", "swimming", "running")

	scoreAB, _ := MatchScore(a, b)
	scoreBA, _ := MatchScore(b, a)

	assert.Equal(t, scoreAB, scoreBA)
}

func TestMatchScoreAgeBands(t *testing.T) {
	base := testProfile(1, 30, LevelAdvanced, "endurance")

	tests := []struct {
		name     string
		otherAge int
		want     int
	}{
		{"within two years", 32, 20},
		{"within five years", 35, 15},
		{"within ten years", 40, 10},
		{"beyond ten years", 45, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Distinct goals and no tags so only age and level contribute
			other := testProfile(2, tt.otherAge, LevelBeginner, "flexibility")
			score, _ := MatchScore(base, other)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestMatchScoreMissingAgeContributesNothing(t *testing.T) {
	a := testProfile(1, 25, LevelIntermediate, "lose weight", "running", "yoga", "cycling")
	b := testProfile(2, 25, LevelIntermediate, "lose weight", "running", "yoga", "cycling")
	b.Age = nil

	score, _ := MatchScore(a, b)

	// level 30 + tags 30 + goal 20, no age points
	assert.Equal(t, 80, score)
}

func TestMatchScoreLevelAdjacency(t *testing.T) {
	a := testProfile(1, 25, LevelBeginner, "a")
	b := testProfile(2, 50, LevelIntermediate, "b")
	score, _ := MatchScore(a, b)
	assert.Equal(t, 20, score)

	c := testProfile(3, 50, LevelAdvanced, "b")
	score, _ = MatchScore(a, c)
	assert.Equal(t, 0, score)

	d := testProfile(4, 50, LevelProfessional, "b")
	e := testProfile(5, 25, LevelAdvanced, "a")
	score, _ = MatchScore(e, d)
	assert.Equal(t, 20, score)
}

func TestMatchScoreSharedTagsCapped(t *testing.T) {
	tags := []string{"running", "yoga", "hiit", "swimming", "cycling"}
	a := testProfile(1, 25, LevelBeginner, "a", tags...)
	b := testProfile(2, 50, LevelProfessional, "b", tags...)

	score, reasons := MatchScore(a, b)

	// Five shared tags still cap at the interest ceiling
	assert.Equal(t, tagScoreCap, score)
	assert.Contains(t, reasons, "5 shared interests")
}

func TestMatchScoreGoalIsCaseSensitive(t *testing.T) {
	a := testProfile(1, 25, LevelBeginner, "Weight Loss")
	b := testProfile(2, 25, LevelBeginner, "weight loss")

	score, _ := MatchScore(a, b)

	// age 20 + level 30, no goal points
	assert.Equal(t, 50, score)
}

func TestMatchScoreEmptyProfiles(t *testing.T) {
	a := &Profile{UserID: 1}
	b := &Profile{UserID: 2}

	score, reasons := MatchScore(a, b)

	assert.Equal(t, 0, score)
	assert.Empty(t, reasons)
}

func TestSimilarityScore(t *testing.T) {
	a := testProfile(1, 25, LevelIntermediate, "x", "running", "yoga")

	t.Run("identical style scores 100", func(t *testing.T) {
		b := testProfile(2, 60, LevelIntermediate, "y", "running", "yoga")
		assert.Equal(t, 100, SimilarityScore(a, b))
	})

	t.Run("same level alone stays below floor", func(t *testing.T) {
		b := testProfile(2, 60, LevelIntermediate, "y", "boxing")
		assert.Less(t, SimilarityScore(a, b), similarityFloor)
	})

	t.Run("half overlap with same level clears floor", func(t *testing.T) {
		b := testProfile(2, 60, LevelIntermediate, "y", "running", "boxing")
		// Jaccard 1/3 of 60 = 20, level 40
		assert.Equal(t, 60, SimilarityScore(a, b))
	})

	t.Run("adjacent level counts less", func(t *testing.T) {
		b := testProfile(2, 60, LevelAdvanced, "y", "running", "yoga")
		assert.Equal(t, 85, SimilarityScore(a, b))
	})
}

func TestHaversine(t *testing.T) {
	assert.Zero(t, Haversine(51.5, -0.12, 51.5, -0.12))

	// London to Paris, roughly 344 km
	d := Haversine(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 344, d, 5)
	assert.InDelta(t, d, Haversine(48.8566, 2.3522, 51.5074, -0.1278), 0.001)
}

func TestCompatibilityOf(t *testing.T) {
	a := testProfile(1, 25, LevelIntermediate, "lose weight", "running", "yoga")
	b := testProfile(2, 33, LevelAdvanced, "build muscle", "yoga", "weights")

	c := CompatibilityOf(a, b)

	assert.True(t, c.AgeCompatible)
	assert.True(t, c.LevelCompatible)
	assert.False(t, c.GoalCompatible)
	assert.Equal(t, 1, c.InterestOverlap)
}
