package grouping

// Rule maps one category name to the keywords that select it.
// A rule with no keywords is a catch-all; exactly one is allowed and it
// must be declared last.
type Rule struct {
	Name     string
	Keywords []string
}

// DefaultRules is the fixed category table used for episode grouping.
// Order matters: a record containing keywords from several categories
// lands in the first declared one.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "AI_Research",
			Keywords: []string{
				"ai", "artificial intelligence", "machine learning", "ml",
				"deep learning", "neural network", "paper", "research",
				"optimization", "algorithm", "bert", "gpt", "transformer",
				"lora", "diffusion", "gan", "cnn", "rnn", "lstm",
			},
		},
		{
			Name: "Development_Projects",
			Keywords: []string{
				"project", "development", "implementation", "code",
				"programming", "software", "repository", "repo", "git",
				"github", "deployment", "testing", "debug", "refactor",
			},
		},
		{
			Name: "Learning_Study",
			Keywords: []string{
				"study", "learning", "education", "course", "tutorial",
				"workshop", "training", "book", "documentation", "guide",
				"week", "chapter",
			},
		},
		{
			Name: "Conference_Events",
			Keywords: []string{
				"conference", "symposium", "cfp", "call for papers",
				"submission", "deadline", "registration", "icml", "neurips",
				"aaai", "ijcai", "presentation", "poster", "demo",
			},
		},
		{
			Name: "Data_Analysis",
			Keywords: []string{
				"data", "dataset", "analysis", "statistics", "visualization",
				"chart", "graph", "table", "csv", "json", "xml",
			},
		},
		{
			Name: "Collaboration_Communication",
			Keywords: []string{
				"collaboration", "team", "meeting", "discussion", "chat",
				"communication", "feedback", "review", "comment",
			},
		},
		{
			Name: "Planning_Retrospective",
			Keywords: []string{
				"retrospective", "planning", "goal", "milestone", "timeline",
				"schedule", "progress", "status", "update",
			},
		},
		{
			Name: "Tools_Technologies",
			Keywords: []string{
				"tool", "framework", "library", "api", "sdk", "platform",
				"service", "docker", "kubernetes", "cloud", "aws", "azure",
			},
		},
		{
			// Terminal catch-all for records matching nothing above.
			Name: "General_Discussion",
		},
	}
}
