package dashboard

import (
	"github.com/knownet-app/knownet-backend/internal/recommend"
	"github.com/knownet-app/knownet-backend/internal/sessions"
	"github.com/knownet-app/knownet-backend/internal/skills"
)

// Overview is the aggregate payload behind the dashboard landing page.
type Overview struct {
	User             UserHeader                   `json:"user"`
	Skills           SkillsSection                `json:"skills"`
	Recommendations  []SessionRecommendation      `json:"recommendations"`
	UsersNearYou     []*recommend.ScoredCandidate `json:"users_near_you"`
	TrendingSkills   []TrendingSkill              `json:"trending_skills"`
	UpcomingSessions []*sessions.Session          `json:"upcoming_sessions"`
	Communities      []Community                  `json:"communities"`
	Feed             []FeedItem                   `json:"feed"`
	Stats            Stats                        `json:"stats"`
}

type UserHeader struct {
	Name              string  `json:"name"`
	Location          *string `json:"location"`
	Role              string  `json:"role"`
	AvatarURL         *string `json:"avatar_url"`
	ProfileCompletion float64 `json:"profile_completion"`
}

type SkillsSection struct {
	QuickLinks []string        `json:"quick_links"`
	Personal   []*skills.Skill `json:"personal"`
}

// SessionRecommendation is a session annotated with its similarity score
// against the viewer's location.
type SessionRecommendation struct {
	*sessions.Session
	MatchScore float64 `json:"match_score"`
	Category   string  `json:"category"`
}

type TrendingSkill struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Community struct {
	*sessions.Session
	Owned bool `json:"owned"`
}

type FeedItem struct {
	Title     string `json:"title"`
	Meta      string `json:"meta"`
	SessionID *int64 `json:"session_id"`
}

type Stats struct {
	TotalSessions  int `json:"total_sessions"`
	JoinedSessions int `json:"joined_sessions"`
	SkillsCount    int `json:"skills_count"`
}

// SearchResults groups the three entity searches behind /search.
type SearchResults struct {
	Users    []*UserSearchResult  `json:"users"`
	Skills   []*SkillSearchResult `json:"skills"`
	Sessions []*sessions.Session  `json:"sessions"`
}

type UserSearchResult struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Location  *string `json:"location" db:"location"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
	Role      string  `json:"role" db:"role"`
}

type SkillSearchResult struct {
	Skill string           `json:"skill"`
	Level *string          `json:"level"`
	User  UserSearchResult `json:"user"`
}
