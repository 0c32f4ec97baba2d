package rules

// ruleTemplates are the canned rulesets offered to users as a starting
// point before they author their own.
var ruleTemplates = map[string][]string{
	"Professional": {
		"Only professional and work-related content is allowed.",
		"No personal discussions, jokes, or casual chat.",
	},
	"Educational": {
		"Only educational content is allowed.",
		"Messages must be informative, constructive, and relevant to learning.",
	},
	"No Spam": {
		"No spam, promotional content, or repetitive messages.",
		"No links without context.",
	},
	"Respectful": {
		"Be respectful and courteous.",
		"No offensive language, hate speech, or personal attacks.",
	},
}
