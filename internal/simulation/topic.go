package simulation

import (
	"strings"
	"unicode"
)

// TopicRule maps a keyword set to a topic. Keywords are whole words or
// space-separated phrases matched against the lowercased title.
type TopicRule struct {
	Tag      string
	Label    string
	Keywords []string
	Boards   []string
}

// TopicRules is an ordered rule table; the first match wins and Fallback applies otherwise.
type TopicRules struct {
	Rules    []TopicRule
	Fallback TopicRule
}

// DefaultTopicRules returns the classifier used for templates and board selection.
func DefaultTopicRules() TopicRules {
	return TopicRules{
		Rules: []TopicRule{
			{
				Tag:      "python",
				Label:    "Python programming",
				Keywords: []string{"python"},
				Boards:   []string{"Python", "programming", "learnpython"},
			},
			{
				Tag:      "ml",
				Label:    "machine learning",
				Keywords: []string{"ml", "machine learning", "ai"},
				Boards:   []string{"MachineLearning", "datascience", "artificial"},
			},
			{
				Tag:      "data",
				Label:    "data science",
				Keywords: []string{"data"},
				Boards:   []string{"datascience", "analytics", "statistics"},
			},
		},
		Fallback: TopicRule{
			Tag:    "tech",
			Label:  "tech",
			Boards: []string{"programming", "webdev", "coding"},
		},
	}
}

// Classify returns the first rule whose keywords appear in title.
func (r TopicRules) Classify(title string) TopicRule {
	padded := " " + strings.Join(words(title), " ") + " "
	for _, rule := range r.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(padded, " "+kw+" ") {
				return rule
			}
		}
	}
	return r.Fallback
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
