package recommend

import (
	"testing"

	"github.com/knownet-app/knownet-backend/internal/geo"
)

func newTestRanker() *Ranker {
	return NewRanker(geo.NewScorer(geo.DefaultLocations()), geo.DefaultLocalRadiusKM)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func userAt(id int64, lat, lng float64, skills ...string) *Candidate {
	return &Candidate{
		ID:        id,
		Name:      "user",
		Latitude:  floatPtr(lat),
		Longitude: floatPtr(lng),
		Skills:    skills,
	}
}

func TestRankUsersSkillMatchBeatsProximity(t *testing.T) {
	ranker := newTestRanker()

	requester := userAt(1, 12.9716, 77.5946)
	// ~10 km away, no shared skill.
	near := userAt(2, 13.0600, 77.6000)
	// ~500 km away, shared skill with different casing.
	far := userAt(3, 17.3850, 78.4867, "Python")

	ranked := ranker.RankUsers(requester, []*Candidate{near, far}, []string{"python"}, nil)

	if len(ranked.Combined) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked.Combined))
	}
	if ranked.Combined[0].ID != 3 {
		t.Errorf("far skill-matching candidate should rank first, got id %d", ranked.Combined[0].ID)
	}
	if ranked.Combined[0].tier != TierSkillMatch {
		t.Errorf("expected tier %d, got %d", TierSkillMatch, ranked.Combined[0].tier)
	}
	if ranked.Combined[1].tier != TierNearby {
		t.Errorf("expected tier %d, got %d", TierNearby, ranked.Combined[1].tier)
	}
}

func TestRankUsersSkillCasing(t *testing.T) {
	ranker := newTestRanker()

	requester := userAt(1, 12.9716, 77.5946)
	candidate := userAt(2, 19.0760, 72.8777, "Python", "SQL", "python")

	ranked := ranker.RankUsers(requester, []*Candidate{candidate}, []string{"PYTHON", "sql"}, nil)

	got := ranked.Combined[0]
	if got.SharedCount != 2 {
		t.Fatalf("shared count = %d, want 2 (case-insensitive, deduplicated)", got.SharedCount)
	}
	// Candidate's original casing, declaration order.
	if got.SkillMatches[0] != "Python" || got.SkillMatches[1] != "SQL" {
		t.Errorf("skill matches = %v, want [Python SQL]", got.SkillMatches)
	}
}

func TestRankUsersExcludesSelf(t *testing.T) {
	ranker := newTestRanker()

	requester := userAt(1, 12.9716, 77.5946)
	pool := []*Candidate{userAt(1, 12.9716, 77.5946), userAt(2, 19.0760, 72.8777)}

	ranked := ranker.RankUsers(requester, pool, nil, nil)

	for _, sc := range ranked.Combined {
		if sc.ID == requester.ID {
			t.Fatal("requester appeared in its own ranking")
		}
	}
	if len(ranked.Combined) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(ranked.Combined))
	}
}

func TestRankUsersStableOnEqualKeys(t *testing.T) {
	ranker := newTestRanker()

	requester := &Candidate{ID: 1}
	// No coordinates, no labels, no skills: identical degenerate sort keys.
	pool := []*Candidate{{ID: 5}, {ID: 3}, {ID: 9}, {ID: 2}}

	ranked := ranker.RankUsers(requester, pool, nil, nil)

	want := []int64{5, 3, 9, 2}
	for i, sc := range ranked.Combined {
		if sc.ID != want[i] {
			t.Fatalf("order changed on equal keys: got %d at %d, want %d", sc.ID, i, want[i])
		}
	}
}

func TestRankUsersSameCityFallback(t *testing.T) {
	ranker := newTestRanker()

	requester := &Candidate{ID: 1, City: strPtr("Bengaluru")}
	candidate := &Candidate{ID: 2, City: strPtr("  bengaluru ")}

	ranked := ranker.RankUsers(requester, []*Candidate{candidate}, nil, nil)

	got := ranked.Combined[0]
	if got.DistanceKM == nil || *got.DistanceKM != 0 {
		t.Fatalf("same-city candidate distance = %v, want 0", got.DistanceKM)
	}
	if got.tier != TierNearby {
		t.Errorf("same-city candidate tier = %d, want %d", got.tier, TierNearby)
	}
	if len(ranked.Local) != 1 {
		t.Errorf("same-city candidate missing from local view")
	}
}

func TestRankUsersLocationLabelFallback(t *testing.T) {
	ranker := newTestRanker()

	requester := &Candidate{ID: 1, Location: strPtr("Remote / India")}
	matching := &Candidate{ID: 2, Location: strPtr("remote / india")}
	other := &Candidate{ID: 3, Location: strPtr("Remote / Brazil")}

	ranked := ranker.RankUsers(requester, []*Candidate{other, matching}, nil, nil)

	if ranked.Combined[0].ID != 2 {
		t.Errorf("label-matching candidate should rank first, got %d", ranked.Combined[0].ID)
	}
	if ranked.Combined[1].DistanceKM != nil {
		t.Errorf("non-matching candidate should have no distance signal")
	}
}

func TestRankUsersNoLocationRequesterDegradesToSkills(t *testing.T) {
	ranker := newTestRanker()

	requester := &Candidate{ID: 1, Skills: []string{"go"}}
	withSkill := userAt(2, 12.9716, 77.5946, "Go")
	withoutSkill := userAt(3, 12.9716, 77.5946)

	ranked := ranker.RankUsers(requester, []*Candidate{withoutSkill, withSkill}, []string{"go"}, nil)

	if ranked.Combined[0].ID != 2 {
		t.Errorf("skill match should rank first for locationless requester")
	}
	for _, sc := range ranked.Combined {
		if sc.DistanceKM != nil {
			t.Errorf("candidate %d has distance %v, want nil", sc.ID, *sc.DistanceKM)
		}
		if sc.tier != TierSkillMatch && sc.tier != TierNone {
			t.Errorf("candidate %d tier = %d, want skill-only tiers", sc.ID, sc.tier)
		}
	}
	if len(ranked.Local) != 0 {
		t.Errorf("local view should be empty without distance signals")
	}
}

func TestRankUsersUnknownDistanceSortsLast(t *testing.T) {
	ranker := newTestRanker()

	requester := userAt(1, 12.9716, 77.5946)
	// Both share one skill (same tier, same count); one has coordinates.
	unknown := &Candidate{ID: 2, Skills: []string{"go"}}
	known := userAt(3, 19.0760, 72.8777, "go")

	ranked := ranker.RankUsers(requester, []*Candidate{unknown, known}, []string{"go"}, nil)

	if ranked.Combined[0].ID != 3 {
		t.Errorf("known distance should rank before unknown within a tier")
	}
}

func TestRankUsersConnectionAnnotation(t *testing.T) {
	ranker := newTestRanker()

	requester := userAt(1, 12.9716, 77.5946)
	pool := []*Candidate{
		userAt(2, 19.0760, 72.8777),
		userAt(3, 28.7041, 77.1025),
		userAt(4, 13.0827, 80.2707),
	}
	connections := map[int64]*ConnectionInfo{
		2: {ID: 11, Status: "pending", IsSender: true},
		3: {ID: 12, Status: "accepted", IsSender: false},
	}

	ranked := ranker.RankUsers(requester, pool, nil, connections)

	byID := make(map[int64]*ScoredCandidate)
	for _, sc := range ranked.Combined {
		byID[sc.ID] = sc
	}

	if c := byID[2].Connection; c == nil || c.Status != "pending" || !c.IsSender {
		t.Errorf("candidate 2 connection = %+v, want pending/sender", byID[2].Connection)
	}
	if c := byID[3].Connection; c == nil || c.Status != "accepted" || c.IsSender {
		t.Errorf("candidate 3 connection = %+v, want accepted/receiver", byID[3].Connection)
	}
	if byID[4].Connection != nil {
		t.Errorf("candidate 4 connection = %+v, want nil", byID[4].Connection)
	}
}

func TestRankUsersLocalViewRespectsRadius(t *testing.T) {
	ranker := newTestRanker()

	requester := userAt(1, 12.9716, 77.5946)
	near := userAt(2, 13.0600, 77.6000)    // ~10 km
	far := userAt(3, 19.0760, 72.8777)     // ~843 km
	nowhere := &Candidate{ID: 4}           // no signal

	ranked := ranker.RankUsers(requester, []*Candidate{near, far, nowhere}, nil, nil)

	if len(ranked.Local) != 1 || ranked.Local[0].ID != 2 {
		t.Errorf("local view = %v, want only candidate 2", ids(ranked.Local))
	}
	if len(ranked.Global) != 3 || len(ranked.Combined) != 3 {
		t.Errorf("global/combined views must keep the full pool")
	}
}

func TestRankSessionsOrderAndStability(t *testing.T) {
	ranker := newTestRanker()

	sessions := []SessionRef{
		{SessionID: 1, Title: "Far", Location: "Delhi"},
		{SessionID: 2, Title: "Unknown A", Location: "Nowhere"},
		{SessionID: 3, Title: "Here", Location: "Bengaluru"},
		{SessionID: 4, Title: "Unknown B", Location: "Elsewhere"},
		{SessionID: 5, Title: "Close-ish", Location: "Chennai"},
	}

	scored := ranker.RankSessions("Bengaluru", sessions)

	if scored[0].SessionID != 3 || scored[0].SimilarityScore != 1.0 {
		t.Fatalf("same-city session should score 1.0 first, got %+v", scored[0])
	}
	if scored[1].SessionID != 5 {
		t.Errorf("Chennai should outrank Delhi from Bengaluru")
	}
	if scored[2].SessionID != 1 {
		t.Errorf("Delhi should follow Chennai")
	}
	// Unresolvable locations score exactly 0.0 and keep input order.
	if scored[3].SessionID != 2 || scored[4].SessionID != 4 {
		t.Errorf("zero-score ties must keep input order, got %d then %d", scored[3].SessionID, scored[4].SessionID)
	}
	if scored[3].SimilarityScore != 0 || scored[4].SimilarityScore != 0 {
		t.Errorf("unresolvable sessions must score exactly 0.0")
	}
}

func TestNewRankerDefaultRadius(t *testing.T) {
	ranker := NewRanker(geo.NewScorer(geo.DefaultLocations()), 0)
	if ranker.radiusKM != geo.DefaultLocalRadiusKM {
		t.Errorf("radius = %f, want default %f", ranker.radiusKM, geo.DefaultLocalRadiusKM)
	}
}

func ids(list []*ScoredCandidate) []int64 {
	out := make([]int64, 0, len(list))
	for _, sc := range list {
		out = append(out, sc.ID)
	}
	return out
}
