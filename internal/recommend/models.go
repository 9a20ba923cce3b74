package recommend

// Candidate is a per-request projection of a user being ranked. Optional
// fields are pointers; Latitude and Longitude are either both set or both
// nil (enforced at ingestion).
type Candidate struct {
	ID        int64    `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	Email     string   `json:"email" db:"email"`
	Role      string   `json:"role" db:"role"`
	Location  *string  `json:"location" db:"location"`
	City      *string  `json:"city" db:"city"`
	State     *string  `json:"state" db:"state"`
	Latitude  *float64 `json:"latitude" db:"latitude"`
	Longitude *float64 `json:"longitude" db:"longitude"`
	AvatarURL *string  `json:"avatar_url" db:"avatar_url"`
	Skills    []string `json:"-"`
}

// ConnectionInfo is the most recent relationship between the requester and
// a candidate, annotated onto ranked results. It never influences ordering.
type ConnectionInfo struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	IsSender bool   `json:"is_sender"`
}

// ScoredCandidate is a Candidate annotated with ranking signals.
// DistanceKM is nil when neither coordinates nor a city-label match gave a
// location signal.
type ScoredCandidate struct {
	Candidate
	DistanceKM   *float64        `json:"distance_km"`
	SkillMatches []string        `json:"skill_matches"`
	SharedCount  int             `json:"shared_count"`
	Connection   *ConnectionInfo `json:"connection"`

	tier     Tier
	sortDist float64
}

// RankedUsers exposes one total order three ways: Local keeps only nearby
// candidates, Global and Combined are the full order. Callers truncate.
type RankedUsers struct {
	Local    []*ScoredCandidate `json:"local"`
	Global   []*ScoredCandidate `json:"global"`
	Combined []*ScoredCandidate `json:"combined"`
}

// SessionRef is the minimal session projection used for session ranking.
type SessionRef struct {
	SessionID int64  `json:"session_id" db:"session_id"`
	Title     string `json:"title" db:"title"`
	Location  string `json:"location" db:"location"`
}

// ScoredSession is a SessionRef augmented with its similarity score.
type ScoredSession struct {
	SessionRef
	SimilarityScore float64 `json:"similarity_score"`
}

// Tier is the coarse priority bucket assigned to each candidate before
// finer tie-breaks. Higher tiers always rank ahead of lower ones.
type Tier int

const (
	// TierNone: no skill overlap and not nearby.
	TierNone Tier = iota
	// TierNearby: within the local radius, no skill overlap.
	TierNearby
	// TierSkillMatch: shared skills, outside the local radius.
	TierSkillMatch
	// TierNearbySkillMatch: shared skills and within the local radius.
	TierNearbySkillMatch
)

func tierFor(sharedCount int, nearby bool) Tier {
	switch {
	case sharedCount > 0 && nearby:
		return TierNearbySkillMatch
	case sharedCount > 0:
		return TierSkillMatch
	case nearby:
		return TierNearby
	default:
		return TierNone
	}
}
