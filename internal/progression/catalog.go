package progression

import "github.com/lifequest/backend/internal/models"

// Template is a mission archetype from which generated missions are drawn.
type Template struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Catalog holds the candidate templates for each category.
type Catalog map[models.Category][]Template

// Pick draws one template for the category uniformly at random.
// It returns false when the category has no templates.
func (c Catalog) Pick(cat models.Category, rng Rand) (Template, bool) {
	pool := c[cat]
	if len(pool) == 0 {
		return Template{}, false
	}
	return pool[rng.Intn(len(pool))], true
}

// DefaultCatalog is the built-in template pool.
var DefaultCatalog = Catalog{
	models.CategorySport: {
		{Title: "Morning run", Description: "Go for a 20 minute run at a comfortable pace.", Type: "cardio"},
		{Title: "Push-up series", Description: "Do 3 sets of push-ups, resting one minute between sets.", Type: "strength"},
		{Title: "Stretching session", Description: "Spend 15 minutes stretching your whole body.", Type: "mobility"},
		{Title: "Long walk", Description: "Walk at least 8000 steps today.", Type: "cardio"},
		{Title: "Core workout", Description: "Hold a plank and do crunches for 10 minutes.", Type: "strength"},
	},
	models.CategoryStudies: {
		{Title: "Focused reading", Description: "Read 20 pages of a book or course material.", Type: "reading"},
		{Title: "Flashcard review", Description: "Review your flashcards for 15 minutes.", Type: "memory"},
		{Title: "Deep work block", Description: "Work 45 minutes on a study topic without distractions.", Type: "focus"},
		{Title: "Summarize a lesson", Description: "Write a one-page summary of something you learned.", Type: "writing"},
		{Title: "Practice exercises", Description: "Solve five exercises on a subject you are learning.", Type: "practice"},
	},
	models.CategoryRoutine: {
		{Title: "Tidy your space", Description: "Spend 10 minutes tidying your room or desk.", Type: "home"},
		{Title: "Plan tomorrow", Description: "Write down your three priorities for tomorrow.", Type: "planning"},
		{Title: "Hydration check", Description: "Drink at least 2 liters of water today.", Type: "health"},
		{Title: "Screen-free evening", Description: "No screens during the last hour before sleep.", Type: "health"},
		{Title: "Meditation", Description: "Meditate for 10 minutes.", Type: "mindfulness"},
	},
}
