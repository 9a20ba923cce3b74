package dashboard

import "strings"

// Category is a coarse topic bucket derived from session text.
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var categories = []struct {
	Category
	keywords []string
}{
	{Category{"design", "Design", "fas fa-palette"}, []string{"design", "ux", "ui", "figma", "illustrator"}},
	{Category{"data", "Data & AI", "fas fa-database"}, []string{"data", "analysis", "analytics", "ai", "ml", "python", "sql"}},
	{Category{"health", "Health & Fitness", "fas fa-heartbeat"}, []string{"health", "fitness", "yoga", "wellness"}},
	{Category{"arts", "Arts & Music", "fas fa-music"}, []string{"music", "art", "creative", "photography"}},
	{Category{"business", "Business", "fas fa-briefcase"}, []string{"business", "marketing", "sales", "startup"}},
}

var defaultCategory = Category{"tech", "Technology", "fas fa-laptop-code"}

// Categorize buckets a session by keyword matches over its title and
// description. First matching bucket wins; anything else is Technology.
func Categorize(title, description string) Category {
	text := strings.ToLower(title) + " " + strings.ToLower(description)
	for _, c := range categories {
		for _, keyword := range c.keywords {
			if strings.Contains(text, keyword) {
				return c.Category
			}
		}
	}
	return defaultCategory
}
