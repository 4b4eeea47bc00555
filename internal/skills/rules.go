package skills

import "strings"

// Rule assigns Category to a discovered term containing any of Keywords.
type Rule struct {
	Category Category
	Keywords []string
}

// Rules is an ordered rule list. The first matching rule wins.
type Rules []Rule

// DefaultRules returns the built-in categorization heuristics.
func DefaultRules() Rules {
	return Rules{
		{Category: ProgrammingLanguages, Keywords: []string{"python", "java", "javascript", "c++", "php", "ruby"}},
		{Category: FrameworksLibraries, Keywords: []string{"django", "flask", "react", "vue", "angular", "spring"}},
		{Category: Databases, Keywords: []string{"mysql", "postgresql", "mongodb", "redis", "database"}},
		{Category: CloudPlatforms, Keywords: []string{"aws", "azure", "gcp", "cloud", "docker", "kubernetes"}},
		{Category: ToolsTechnologies, Keywords: []string{"git", "jira", "jenkins", "figma", "excel"}},
		{Category: Methodologies, Keywords: []string{"agile", "scrum", "devops", "ci/cd", "project"}},
		{Category: SoftSkills, Keywords: []string{"leadership", "communication", "teamwork", "management"}},
	}
}

// DefaultCategory is used when no rule matches.
const DefaultCategory = ToolsTechnologies

// Categorize returns the category of the first rule with a keyword contained in term.
func (r Rules) Categorize(term string) Category {
	term = strings.ToLower(term)
	for _, rule := range r {
		for _, keyword := range rule.Keywords {
			if keyword != "" && strings.Contains(term, keyword) {
				return rule.Category
			}
		}
	}
	return DefaultCategory
}
