// internal/buddies/recommendations_test.go

package buddies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendRanksByScoreDescending(t *testing.T) {
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running", "yoga")
	pool := []*Profile{
		testProfile(2, 40, LevelBeginner, "lose weight"),                        // goal only
		testProfile(3, 26, LevelIntermediate, "lose weight", "running", "yoga"), // near perfect
		testProfile(4, 25, LevelIntermediate, "build muscle", "running"),        // age + level + one tag
	}

	resp := Recommend(viewer, pool, SearchParams{Limit: 10})

	require.Len(t, resp, 3)
	assert.Equal(t, int64(3), resp[0].Profile.UserID)
	assert.Equal(t, int64(4), resp[1].Profile.UserID)
	assert.Equal(t, int64(2), resp[2].Profile.UserID)
	for i := 1; i < len(resp); i++ {
		assert.GreaterOrEqual(t, resp[i-1].Score, resp[i].Score)
	}
}

func TestRecommendDeduplicatesAcrossStrategies(t *testing.T) {
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	viewer.Latitude = floatPtr(51.50)
	viewer.Longitude = floatPtr(-0.12)

	// Matches on goal, tags and location simultaneously
	candidate := testProfile(2, 25, LevelIntermediate, "lose weight", "running")
	candidate.Latitude = floatPtr(51.51)
	candidate.Longitude = floatPtr(-0.12)

	resp := Recommend(viewer, []*Profile{candidate}, SearchParams{Limit: 10, MaxDistance: 10})

	require.Len(t, resp, 1)
	// The location strategy's distance annotation survives the merge
	require.NotNil(t, resp[0].Distance)
	assert.InDelta(t, 1.1, *resp[0].Distance, 0.2)
}

func TestRecommendIncludesLocatedCandidatesByDefault(t *testing.T) {
	// Same age and level but nothing in common on goal or tags, so only
	// the location strategy can surface this candidate
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	viewer.Latitude = floatPtr(51.50)
	viewer.Longitude = floatPtr(-0.12)

	candidate := testProfile(2, 25, LevelIntermediate, "build muscle", "boxing")
	candidate.Latitude = floatPtr(51.60)
	candidate.Longitude = floatPtr(-0.12)

	resp := Recommend(viewer, []*Profile{candidate}, SearchParams{Limit: 10})

	require.Len(t, resp, 1)
	assert.Equal(t, int64(2), resp[0].Profile.UserID)
	assert.Equal(t, ageScoreClose+levelScoreSame, resp[0].Score)
	require.NotNil(t, resp[0].Distance)
	assert.InDelta(t, 11.1, *resp[0].Distance, 0.3)
}

func TestRecommendMaxDistanceFiltersPool(t *testing.T) {
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	viewer.Latitude = floatPtr(51.50)
	viewer.Longitude = floatPtr(-0.12)

	near := testProfile(2, 25, LevelIntermediate, "lose weight", "running")
	near.Latitude = floatPtr(51.51)
	near.Longitude = floatPtr(-0.12)

	far := testProfile(3, 25, LevelIntermediate, "lose weight", "running")
	far.Latitude = floatPtr(52.50)
	far.Longitude = floatPtr(-0.12)

	resp := Recommend(viewer, []*Profile{near, far}, SearchParams{Limit: 10, MaxDistance: 10})

	require.Len(t, resp, 1)
	assert.Equal(t, int64(2), resp[0].Profile.UserID)
}

func TestRecommendPaginatesAfterSorting(t *testing.T) {
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	var pool []*Profile
	for i := int64(2); i <= 11; i++ {
		// Varying ages produce a spread of scores
		pool = append(pool, testProfile(i, 20+int(i), LevelIntermediate, "lose weight", "running"))
	}

	all := Recommend(viewer, pool, SearchParams{Limit: 100})
	page := Recommend(viewer, pool, SearchParams{Skip: 3, Limit: 4})

	require.Len(t, page, 4)
	for i, c := range page {
		assert.Equal(t, all[i+3].Profile.UserID, c.Profile.UserID)
	}
}

func TestRecommendDropsZeroScores(t *testing.T) {
	viewer := testProfile(1, 25, LevelBeginner, "lose weight", "running")
	// No dimension overlaps, so no strategy picks this candidate up
	stranger := testProfile(2, 60, LevelProfessional, "build muscle", "chess")

	resp := Recommend(viewer, []*Profile{stranger}, SearchParams{Limit: 10})

	assert.Empty(t, resp)
}

func TestRecommendAppliesFilters(t *testing.T) {
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	pool := []*Profile{
		testProfile(2, 24, LevelIntermediate, "lose weight", "running"),
		testProfile(3, 45, LevelIntermediate, "lose weight", "running"),
		testProfile(4, 24, LevelBeginner, "lose weight", "running"),
	}

	resp := Recommend(viewer, pool, SearchParams{
		FitnessLevel: LevelIntermediate,
		AgeMax:       30,
		Limit:        10,
	})

	require.Len(t, resp, 1)
	assert.Equal(t, int64(2), resp[0].Profile.UserID)
}

func TestRecommendSkipBeyondResults(t *testing.T) {
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	pool := []*Profile{testProfile(2, 25, LevelIntermediate, "lose weight", "running")}

	resp := Recommend(viewer, pool, SearchParams{Skip: 50, Limit: 10})

	assert.NotNil(t, resp)
	assert.Empty(t, resp)
}

func TestRecommendNearbyOrdersByDistance(t *testing.T) {
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	viewer.Latitude = floatPtr(51.50)
	viewer.Longitude = floatPtr(-0.12)

	near := testProfile(2, 40, LevelBeginner, "other")
	near.Latitude = floatPtr(51.505)
	near.Longitude = floatPtr(-0.12)

	// Higher score but further away still sorts after the closer candidate
	far := testProfile(3, 25, LevelIntermediate, "lose weight", "running")
	far.Latitude = floatPtr(51.53)
	far.Longitude = floatPtr(-0.12)

	outside := testProfile(4, 25, LevelIntermediate, "lose weight", "running")
	outside.Latitude = floatPtr(52.50)
	outside.Longitude = floatPtr(-0.12)

	matches := RecommendNearby(viewer, []*Profile{far, near, outside}, 5, 10)

	require.Len(t, matches, 2)
	assert.Equal(t, int64(2), matches[0].Profile.UserID)
	assert.Equal(t, int64(3), matches[1].Profile.UserID)
}

func TestRecommendNearbyWithoutViewerLocation(t *testing.T) {
	viewer := testProfile(1, 25, LevelIntermediate, "lose weight", "running")
	pool := []*Profile{testProfile(2, 25, LevelIntermediate, "lose weight", "running")}

	matches := RecommendNearby(viewer, pool, 5, 10)

	assert.Empty(t, matches)
}

func TestRecommendSimilarEnforcesFloor(t *testing.T) {
	viewer := testProfile(1, 25, LevelIntermediate, "x", "running", "yoga")
	twin := testProfile(2, 60, LevelIntermediate, "y", "running", "yoga")
	stranger := testProfile(3, 25, LevelIntermediate, "x", "boxing")

	matches := RecommendSimilar(viewer, []*Profile{stranger, twin}, 10)

	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].Profile.UserID)
	assert.GreaterOrEqual(t, matches[0].Score, similarityFloor)
}
