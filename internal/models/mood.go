package models

// Mood is the user's intent category.
type Mood string

const (
	MoodWork      Mood = "work"
	MoodDate      Mood = "date"
	MoodQuick     Mood = "quick"
	MoodBudget    Mood = "budget"
	MoodChill     Mood = "chill"
	MoodAdventure Mood = "adventure"
)

// MoodConfig describes a mood. Tags are in priority order; Tags[0] is the
// primary tag and the rest are fallbacks.
type MoodConfig struct {
	ID          Mood     `json:"id"`
	Label       string   `json:"label"`
	Emoji       string   `json:"emoji"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
}

// PrimaryTag returns the highest priority amenity tag.
func (m MoodConfig) PrimaryTag() string {
	if len(m.Tags) == 0 {
		return ""
	}
	return m.Tags[0]
}

// FallbackTags returns the lower priority tags, or nil for single-tag moods.
func (m MoodConfig) FallbackTags() []string {
	if len(m.Tags) < 2 {
		return nil
	}
	return m.Tags[1:]
}

// MoodOrder is the display order of the built-in moods.
var MoodOrder = []Mood{MoodWork, MoodDate, MoodQuick, MoodBudget, MoodChill, MoodAdventure}

var moodConfigs = map[Mood]MoodConfig{
	MoodWork: {
		ID:          MoodWork,
		Label:       "Work",
		Emoji:       "☕",
		Tags:        []string{"cafe", "library", "coworking_space"},
		Description: "Quiet spots with WiFi",
		Color:       "bg-stone-700",
	},
	MoodDate: {
		ID:          MoodDate,
		Label:       "Date",
		Emoji:       "💕",
		Tags:        []string{"restaurant", "bar", "cafe"},
		Description: "Romantic atmosphere",
		Color:       "bg-rose-700",
	},
	MoodQuick: {
		ID:          MoodQuick,
		Label:       "Quick Bite",
		Emoji:       "🍔",
		Tags:        []string{"fast_food", "food_court", "cafe"},
		Description: "Fast and convenient",
		Color:       "bg-amber-700",
	},
	MoodBudget: {
		ID:          MoodBudget,
		Label:       "Budget",
		Emoji:       "💰",
		Tags:        []string{"fast_food", "cafe", "restaurant"},
		Description: "Affordable options",
		Color:       "bg-emerald-700",
	},
	MoodChill: {
		ID:          MoodChill,
		Label:       "Chill",
		Emoji:       "🧘",
		Tags:        []string{"park", "garden", "cafe"},
		Description: "Relaxing spots",
		Color:       "bg-sky-700",
	},
	MoodAdventure: {
		ID:          MoodAdventure,
		Label:       "Adventure",
		Emoji:       "🎯",
		Tags:        []string{"attraction", "museum", "arts_centre"},
		Description: "Places to explore",
		Color:       "bg-violet-700",
	},
}

// DefaultMoods returns a copy of the built-in mood table.
func DefaultMoods() map[Mood]MoodConfig {
	out := make(map[Mood]MoodConfig, len(moodConfigs))
	for id, cfg := range moodConfigs {
		cfg.Tags = append([]string(nil), cfg.Tags...)
		out[id] = cfg
	}
	return out
}
