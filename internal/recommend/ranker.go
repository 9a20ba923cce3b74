// internal/recommend/ranker.go
// Pure ranking engine. No I/O: callers materialize the candidate pool and
// the connection snapshot before invoking it, and every output slice is
// freshly allocated, so concurrent use is safe.

package recommend

import (
	"sort"
	"strings"

	"github.com/knownet-app/knownet-backend/internal/geo"
)

// Candidates with no distance signal sort as if maximally far whenever
// distance is used as a tie-break.
const unknownDistanceKM = 99999.0

type Ranker struct {
	scorer   *geo.Scorer
	radiusKM float64
}

// NewRanker creates a ranker. A non-positive radius falls back to
// geo.DefaultLocalRadiusKM.
func NewRanker(scorer *geo.Scorer, radiusKM float64) *Ranker {
	if radiusKM <= 0 {
		radiusKM = geo.DefaultLocalRadiusKM
	}
	return &Ranker{scorer: scorer, radiusKM: radiusKM}
}

// RankUsers orders the candidate pool for the requester.
//
// Per candidate: distance comes from coordinates when both sides have
// them; otherwise an exact case-insensitive city or location label match
// counts as distance 0.0 and no match as no signal. Shared skills are the
// case-insensitive intersection with requesterSkills, reported in the
// candidate's original casing. The composite order is tier desc, shared
// count desc, distance asc (unknown last); equal keys keep pool order.
// The requester itself is always excluded.
func (r *Ranker) RankUsers(requester *Candidate, pool []*Candidate, requesterSkills []string, connections map[int64]*ConnectionInfo) *RankedUsers {
	mySkills := make(map[string]struct{}, len(requesterSkills))
	for _, s := range requesterSkills {
		mySkills[strings.ToLower(s)] = struct{}{}
	}

	requesterPoint := candidatePoint(requester)

	scored := make([]*ScoredCandidate, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == requester.ID {
			continue
		}

		distance := geo.DistanceKM(requesterPoint, candidatePoint(candidate))
		if distance == nil && sameLabel(requester, candidate) {
			zero := 0.0
			distance = &zero
		}
		nearby := distance != nil && *distance <= r.radiusKM

		shared := sharedSkills(mySkills, candidate.Skills)

		sc := &ScoredCandidate{
			Candidate:    *candidate,
			DistanceKM:   distance,
			SkillMatches: shared,
			SharedCount:  len(shared),
			Connection:   connections[candidate.ID],
			tier:         tierFor(len(shared), nearby),
			sortDist:     unknownDistanceKM,
		}
		if distance != nil {
			sc.sortDist = *distance
		}
		scored = append(scored, sc)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.tier != b.tier {
			return a.tier > b.tier
		}
		if a.SharedCount != b.SharedCount {
			return a.SharedCount > b.SharedCount
		}
		return a.sortDist < b.sortDist
	})

	local := make([]*ScoredCandidate, 0)
	for _, sc := range scored {
		if sc.DistanceKM != nil && *sc.DistanceKM <= r.radiusKM {
			local = append(local, sc)
		}
	}

	return &RankedUsers{
		Local:    local,
		Global:   scored,
		Combined: scored,
	}
}

// RankSessions scores each session against the user's location label and
// returns them sorted by similarity descending; ties keep input order.
func (r *Ranker) RankSessions(userLocation string, sessions []SessionRef) []ScoredSession {
	scored := make([]ScoredSession, 0, len(sessions))
	for _, session := range sessions {
		score := r.scorer.SessionSimilarity(userLocation, session.Location)
		observeSimilarityScore(score)
		scored = append(scored, ScoredSession{SessionRef: session, SimilarityScore: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].SimilarityScore > scored[j].SimilarityScore
	})

	return scored
}

func candidatePoint(c *Candidate) *geo.GeoPoint {
	if c.Latitude == nil || c.Longitude == nil {
		return nil
	}
	return &geo.GeoPoint{Lat: *c.Latitude, Lng: *c.Longitude}
}

// sameLabel reports an exact case-insensitive match of city labels, or of
// the generic location labels. Textual equality stands in for co-location
// here; it is a heuristic the rest of the system depends on.
func sameLabel(a, b *Candidate) bool {
	return labelsEqual(a.City, b.City) || labelsEqual(a.Location, b.Location)
}

func labelsEqual(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	left := strings.TrimSpace(*a)
	right := strings.TrimSpace(*b)
	return left != "" && right != "" && strings.EqualFold(left, right)
}

// sharedSkills returns the candidate's skills present in the requester's
// set, deduplicated, keeping the candidate's casing and declaration order.
func sharedSkills(mySkills map[string]struct{}, candidateSkills []string) []string {
	shared := make([]string, 0)
	seen := make(map[string]struct{})
	for _, skill := range candidateSkills {
		key := strings.ToLower(skill)
		if _, mine := mySkills[key]; !mine {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		shared = append(shared, skill)
	}
	return shared
}
