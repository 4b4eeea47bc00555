package skills

// DefaultQueryTerms is how many skills are sent to the vacancy search.
const DefaultQueryTerms = 2

var queryPriority = []Category{ProgrammingLanguages, ToolsTechnologies, FrameworksLibraries}

// QueryTerms picks up to n search terms. Categorized terms still present in set
// come first, by priority programming languages, tools, frameworks, then the rest
// in group order. Remaining slots are filled from set order.
func QueryTerms(e *Extracted, set *Set, n int) []string {
	if n <= 0 {
		n = DefaultQueryTerms
	}

	picked := make([]string, 0, n)
	take := func(term string) bool {
		if len(picked) == n {
			return true
		}
		if set != nil && !set.Contains(term) {
			return false
		}
		term = Normalize(term)
		for _, p := range picked {
			if p == term {
				return false
			}
		}
		picked = append(picked, term)
		return len(picked) == n
	}

	ordered := make([]Category, 0, len(queryPriority)+len(e.Categories()))
	ordered = append(ordered, queryPriority...)
	for _, c := range e.Categories() {
		if !isPriority(c) {
			ordered = append(ordered, c)
		}
	}

	for _, c := range ordered {
		for _, term := range e.Terms(c) {
			if take(term) {
				return picked
			}
		}
	}

	for _, term := range set.Terms() {
		if take(term) {
			return picked
		}
	}

	return picked
}

func isPriority(c Category) bool {
	for _, p := range queryPriority {
		if p == c {
			return true
		}
	}
	return false
}
