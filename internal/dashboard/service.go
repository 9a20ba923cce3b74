package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/knownet-app/knownet-backend/internal/auth"
	"github.com/knownet-app/knownet-backend/internal/recommend"
	"github.com/knownet-app/knownet-backend/internal/sessions"
	"github.com/knownet-app/knownet-backend/internal/skills"
)

const (
	maxQuickLinks      = 6
	maxRecommendations = 3
	maxUsersNearYou    = 5
	maxTrendingSkills  = 10
	maxUpcoming        = 4
	maxCommunities     = 4
	maxFeedItems       = 4
)

// Narrow views of the collaborating services; keeps tests on fakes.
type UserProvider interface {
	GetUserByID(ctx context.Context, userID int64) (*auth.User, error)
}

type SkillProvider interface {
	List(ctx context.Context, userID int64) ([]*skills.Skill, error)
}

type SessionProvider interface {
	List(ctx context.Context, location string) ([]*sessions.Session, error)
	ListCreatedBy(ctx context.Context, userID int64) ([]*sessions.Session, error)
	ListJoinedBy(ctx context.Context, userID int64) ([]*sessions.Session, error)
}

type Recommender interface {
	LocationRecommendations(ctx context.Context, userID int64) (*recommend.RankedUsers, error)
	SessionRecommendations(ctx context.Context, userLocation string) ([]recommend.ScoredSession, error)
}

type Service interface {
	Overview(ctx context.Context, userID int64) (*Overview, error)
	Search(ctx context.Context, query string) (*SearchResults, error)
}

type service struct {
	users       UserProvider
	skills      SkillProvider
	sessions    SessionProvider
	recommender Recommender
	repo        Repository
	redis       *redis.Client
	cacheTTL    time.Duration
}

// NewService wires the overview aggregator. The redis client is optional;
// without it every overview is computed fresh.
func NewService(
	users UserProvider,
	skillSvc SkillProvider,
	sessionSvc SessionProvider,
	recommender Recommender,
	repo Repository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
) Service {
	return &service{
		users:       users,
		skills:      skillSvc,
		sessions:    sessionSvc,
		recommender: recommender,
		repo:        repo,
		redis:       redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (s *service) Overview(ctx context.Context, userID int64) (*Overview, error) {
	if cached := s.cachedOverview(ctx, userID); cached != nil {
		return cached, nil
	}

	overview, err := s.buildOverview(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheOverview(ctx, userID, overview)
	return overview, nil
}

func (s *service) buildOverview(ctx context.Context, userID int64) (*Overview, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	userSkills, err := s.skills.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	allSessions, err := s.sessions.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	created, err := s.sessions.ListCreatedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created sessions: %w", err)
	}

	joined, err := s.sessions.ListJoinedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load joined sessions: %w", err)
	}

	// Communities cover everything the user hosts or attends.
	memberIDs := make(map[int64]bool, len(created)+len(joined))
	ownedIDs := make(map[int64]bool, len(created))
	for _, session := range created {
		memberIDs[session.ID] = true
		ownedIDs[session.ID] = true
	}
	for _, session := range joined {
		memberIDs[session.ID] = true
	}

	location := ""
	if user.Location != nil {
		location = *user.Location
	}

	recommendations, err := s.buildRecommendations(ctx, location, allSessions)
	if err != nil {
		return nil, err
	}

	ranked, err := s.recommender.LocationRecommendations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to rank users: %w", err)
	}

	trending := buildTrendingSkills(allSessions, userSkills)
	communities := buildCommunities(allSessions, memberIDs, ownedIDs)

	return &Overview{
		User: UserHeader{
			Name:              user.Name,
			Location:          user.Location,
			Role:              user.Role,
			AvatarURL:         user.AvatarURL,
			ProfileCompletion: profileCompletion(user, userSkills),
		},
		Skills: SkillsSection{
			QuickLinks: buildQuickLinks(userSkills, trending),
			Personal:   userSkills,
		},
		Recommendations:  recommendations,
		UsersNearYou:     truncateCandidates(ranked.Combined, maxUsersNearYou),
		TrendingSkills:   trending,
		UpcomingSessions: truncateSessions(allSessions, maxUpcoming),
		Communities:      truncateCommunities(communities, maxCommunities),
		Feed:             buildFeed(communities, location),
		Stats: Stats{
			TotalSessions:  len(allSessions),
			JoinedSessions: len(memberIDs),
			SkillsCount:    len(userSkills),
		},
	}, nil
}

func (s *service) Search(ctx context.Context, query string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResults{
			Users:    []*UserSearchResult{},
			Skills:   []*SkillSearchResult{},
			Sessions: []*sessions.Session{},
		}, nil
	}

	users, err := s.repo.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	skillHits, err := s.repo.SearchSkills(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search skills: %w", err)
	}

	sessionHits, err := s.repo.SearchSessions(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search sessions: %w", err)
	}

	return &SearchResults{
		Users:    users,
		Skills:   skillHits,
		Sessions: sessionHits,
	}, nil
}

func (s *service) buildRecommendations(ctx context.Context, location string, allSessions []*sessions.Session) ([]SessionRecommendation, error) {
	scored, err := s.recommender.SessionRecommendations(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to score sessions: %w", err)
	}

	lookup := make(map[int64]*sessions.Session, len(allSessions))
	for _, session := range allSessions {
		lookup[session.ID] = session
	}

	recommendations := []SessionRecommendation{}
	for _, rec := range scored {
		session, ok := lookup[rec.SessionID]
		if !ok {
			continue
		}
		recommendations = append(recommendations, SessionRecommendation{
			Session:    session,
			MatchScore: rec.SimilarityScore,
			Category:   Categorize(session.Title, session.Description).Label,
		})
		if len(recommendations) >= maxRecommendations {
			break
		}
	}

	return recommendations, nil
}

// profileCompletion scores the profile out of four sections: name,
// location, at least one skill, and an avatar.
func profileCompletion(user *auth.User, userSkills []*skills.Skill) float64 {
	completed := 0
	if user.Name != "" {
		completed++
	}
	if user.Location != nil && *user.Location != "" {
		completed++
	}
	if len(userSkills) > 0 {
		completed++
	}
	if user.AvatarURL != nil && *user.AvatarURL != "" {
		completed++
	}
	return float64(completed) / 4
}

// buildQuickLinks lists the user's own skills first, then fills the
// remaining slots from trending labels.
func buildQuickLinks(userSkills []*skills.Skill, trending []TrendingSkill) []string {
	seen := make(map[string]bool)
	links := []string{}

	for _, skill := range userSkills {
		if !seen[skill.Name] {
			seen[skill.Name] = true
			links = append(links, skill.Name)
		}
	}

	if len(links) < maxQuickLinks {
		for _, item := range trending {
			if seen[item.Label] {
				continue
			}
			seen[item.Label] = true
			links = append(links, item.Label)
			if len(links) >= maxQuickLinks {
				break
			}
		}
	}

	if len(links) == 0 {
		return []string{"AI", "Web Development", "Design"}
	}
	if len(links) > maxQuickLinks {
		links = links[:maxQuickLinks]
	}
	return links
}

// buildTrendingSkills counts session category labels plus the user's own
// skill names and keeps the top entries. Ties keep first-seen order.
func buildTrendingSkills(allSessions []*sessions.Session, userSkills []*skills.Skill) []TrendingSkill {
	counts := make(map[string]int)
	order := []string{}

	bump := func(label string) {
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label]++
	}

	for _, session := range allSessions {
		bump(Categorize(session.Title, session.Description).Label)
	}
	for _, skill := range userSkills {
		bump(skill.Name)
	}

	trending := make([]TrendingSkill, 0, len(order))
	for _, label := range order {
		trending = append(trending, TrendingSkill{Label: label, Count: counts[label]})
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Count > trending[j].Count
	})

	if len(trending) == 0 {
		return []TrendingSkill{
			{Label: "Generative AI", Count: 5},
			{Label: "Product Design", Count: 3},
			{Label: "Cloud", Count: 2},
		}
	}
	if len(trending) > maxTrendingSkills {
		trending = trending[:maxTrendingSkills]
	}
	return trending
}

func buildCommunities(allSessions []*sessions.Session, memberIDs, ownedIDs map[int64]bool) []Community {
	communities := []Community{}
	for _, session := range allSessions {
		if memberIDs[session.ID] {
			communities = append(communities, Community{
				Session: session,
				Owned:   ownedIDs[session.ID],
			})
		}
	}
	return communities
}

func buildFeed(communities []Community, userLocation string) []FeedItem {
	feed := []FeedItem{}
	for _, community := range communities {
		host := "community mentor"
		if community.Owned {
			host = "you"
		}
		id := community.ID
		feed = append(feed, FeedItem{
			Title:     fmt.Sprintf("New discussion in %s", community.Title),
			Meta:      fmt.Sprintf("%s • Hosted by %s", community.Location, host),
			SessionID: &id,
		})
		if len(feed) >= maxFeedItems {
			break
		}
	}

	if len(feed) == 0 {
		feed = append(feed, FeedItem{
			Title: "Share your wins with the community",
			Meta:  fmt.Sprintf("%s • KnowNet Community", userLocation),
		})
	}
	return feed
}

func truncateCandidates(list []*recommend.ScoredCandidate, n int) []*recommend.ScoredCandidate {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func truncateSessions(list []*sessions.Session, n int) []*sessions.Session {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func truncateCommunities(list []Community, n int) []Community {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func (s *service) cachedOverview(ctx context.Context, userID int64) *Overview {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, overviewKey(userID)).Bytes()
	if err != nil {
		return nil
	}

	var overview Overview
	if err := json.Unmarshal(data, &overview); err != nil {
		return nil
	}
	return &overview
}

func (s *service) cacheOverview(ctx context.Context, userID int64, overview *Overview) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(overview)
	if err != nil {
		return
	}
	s.redis.Set(ctx, overviewKey(userID), data, s.cacheTTL)
}

func overviewKey(userID int64) string {
	return fmt.Sprintf("dashboard:overview:%d", userID)
}
