package simulation

// Range is a closed interval for uniform draws.
type Range struct {
	Min float64
	Max float64
}

// PlatformCoefficients calibrate participation: p = min(Cap, score/Divisor + Floor).
type PlatformCoefficients struct {
	Divisor float64
	Floor   float64
	Cap     float64
}

// CounterWeights scale the intensity baseline for each social counter.
type CounterWeights struct {
	Likes    float64
	Retweets float64
	Replies  float64
	Quotes   float64
}

// ShareRange is one category of a remainder-assigned breakdown.
type ShareRange struct {
	Name  string
	Range Range
}

// Tables is the enumerated configuration the engine reads. It is data, not behavior.
type Tables struct {
	Social PlatformCoefficients
	Forum  PlatformCoefficients

	// IntensityDivisor sets the intensity baseline max(1, score/IntensityDivisor).
	IntensityDivisor int

	// SocialCountWeights[i] is the relative weight of i+1 mentions.
	SocialCountWeights []int
	ForumCountWeights  []int

	Counters CounterWeights
	// ForumScoreDivisor sets the forum score mean max(1, score/ForumScoreDivisor).
	ForumScoreDivisor int
	CommentWeight     float64

	SocialUpvoteRatio Range
	ForumUpvoteRatio  Range
	Followers         [2]int

	SocialTemplates []string
	ForumTitles     []string
	ForumSelfTexts  []string
	SocialHandles   []string
	ForumHandles    []string
	SocialTextLimit int
	ForumTitleLimit int
	TitleExcerpt    int
	TitleColumn     int

	Topics TopicRules

	PublicationMultipliers map[string]float64
	DefaultMultiplier      float64
	BaseSessionsFloor      int
	BaseSessionsDivisor    int
	SessionJitter          Range

	DecayBase      float64
	DecayGraceDays int
	WeekendFactor  float64
	Days           int

	UsersRatio     Range
	NewUsersRatio  Range
	PageviewsRatio Range
	BounceRate     Range
	SessionSeconds Range

	// Sources and Devices list the sampled categories; the final entry of each receives the remainder.
	Sources []ShareRange
	Devices []ShareRange

	MentionWindowDays int
}

// DefaultTables returns the canonical constants of the engagement model.
func DefaultTables() Tables {
	return Tables{
		Social:           PlatformCoefficients{Divisor: 100, Floor: 0.1, Cap: 0.6},
		Forum:            PlatformCoefficients{Divisor: 200, Floor: 0.05, Cap: 0.3},
		IntensityDivisor: 10,

		SocialCountWeights: []int{40, 30, 20, 7, 3},
		ForumCountWeights:  []int{100},

		Counters:          CounterWeights{Likes: 1.0, Retweets: 0.3, Replies: 0.2, Quotes: 0.1},
		ForumScoreDivisor: 5,
		CommentWeight:     0.1,

		SocialUpvoteRatio: Range{Min: 0.6, Max: 0.95},
		ForumUpvoteRatio:  Range{Min: 0.7, Max: 0.95},
		Followers:         [2]int{50, 20000},

		SocialTemplates: []string{
			"Just read this insightful piece on {topic}: {title} {url}",
			"Great article about {topic}! {title} {url} #datascience",
			"This is helpful: {title} {url}",
			"Interesting perspective on {topic} - {title} {url}",
			"Must-read for anyone interested in {topic}: {title} {url}",
		},
		ForumTitles: []string{
			"{title}",
			"Found this helpful: {title}",
			"Thoughts on this article? {title}",
			"Good read: {title}",
		},
		ForumSelfTexts: []string{
			"This is really helpful, thanks for sharing!",
			"Great explanation of the concepts.",
			"I was just looking for something like this.",
			"Bookmarked for later reading.",
			"The author did a good job explaining this topic.",
			"Anyone else try implementing this?",
			"",
		},
		SocialHandles: []string{
			"DataScienceDaily", "MLEngineer_", "PythonDev23", "AIResearcher", "TechWriter_",
			"CodeNewbie2024", "DevCommunity", "OpenAIFan", "DataAnalyst_", "WebDev_Pro",
		},
		ForumHandles: []string{
			"ml_enthusiast", "data_guru", "python_learner", "code_explorer", "ai_student",
			"dev_beginner", "analytics_pro", "tech_reader", "algorithm_lover", "stats_nerd",
		},
		SocialTextLimit: 280,
		ForumTitleLimit: 300,
		TitleExcerpt:    80,
		TitleColumn:     100,

		Topics: DefaultTopicRules(),

		PublicationMultipliers: map[string]float64{
			"towardsdatascience": 2.0,
			"freecodecamp":       2.5,
			"hackernoon":         1.5,
			"better-programming": 1.3,
		},
		DefaultMultiplier:   1.0,
		BaseSessionsFloor:   5,
		BaseSessionsDivisor: 3,
		SessionJitter:       Range{Min: 0.8, Max: 1.5},

		DecayBase:      0.8,
		DecayGraceDays: 7,
		WeekendFactor:  0.7,
		Days:           30,

		UsersRatio:     Range{Min: 0.7, Max: 0.9},
		NewUsersRatio:  Range{Min: 0.6, Max: 0.8},
		PageviewsRatio: Range{Min: 1.1, Max: 2.2},
		BounceRate:     Range{Min: 0.3, Max: 0.8},
		SessionSeconds: Range{Min: 60, Max: 400},

		Sources: []ShareRange{
			{Name: "organic", Range: Range{Min: 0.35, Max: 0.55}},
			{Name: "social", Range: Range{Min: 0.15, Max: 0.35}},
			{Name: "direct", Range: Range{Min: 0.10, Max: 0.25}},
			{Name: "referral", Range: Range{Min: 0.05, Max: 0.15}},
			{Name: "email"},
		},
		Devices: []ShareRange{
			{Name: "desktop", Range: Range{Min: 0.45, Max: 0.65}},
			{Name: "mobile", Range: Range{Min: 0.25, Max: 0.45}},
			{Name: "tablet"},
		},

		MentionWindowDays: 30,
	}
}

// Multiplier returns the traffic multiplier of publication, falling back to the default.
func (t Tables) Multiplier(publication string) float64 {
	if m, ok := t.PublicationMultipliers[publication]; ok {
		return m
	}
	return t.DefaultMultiplier
}
