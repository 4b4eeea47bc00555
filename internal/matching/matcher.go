package matching

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Vacancy is a job posting as returned by the vacancy source.
type Vacancy struct {
	ID             string     `json:"id,omitempty"`
	Title          string     `json:"title"`
	Employer       string     `json:"employer,omitempty"`
	Salary         *Salary    `json:"salary,omitempty"`
	Requirement    string     `json:"requirement,omitempty"`
	Responsibility string     `json:"responsibility,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	URL            string     `json:"url"`
}

// Salary has every field optional.
type Salary struct {
	From     *int   `json:"from,omitempty"`
	To       *int   `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// Match is a vacancy with the skills found in it.
type Match struct {
	Vacancy Vacancy  `json:"vacancy"`
	Count   int      `json:"match_count"`
	Terms   []string `json:"matched_terms"`
}

// Batch is the full scored list, ordered by Count descending.
type Batch []Match

// Rank scores every vacancy against terms and sorts by match count. Vacancies with
// the same count keep their input order, so ranking the same input twice gives the
// same result. The vacancies slice is not modified.
func Rank(terms []string, vacancies []Vacancy) Batch {
	needles := prepareTerms(terms)

	batch := make(Batch, 0, len(vacancies))
	for _, v := range vacancies {
		text := searchableText(v)
		matched := make([]string, 0)
		for _, needle := range needles {
			if strings.Contains(text, needle) {
				matched = append(matched, needle)
			}
		}
		batch = append(batch, Match{Vacancy: v, Count: len(matched), Terms: matched})
	}

	slices.SortStableFunc(batch, func(a, b Match) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return batch
}

func prepareTerms(terms []string) []string {
	needles := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || slices.Contains(needles, term) {
			continue
		}
		needles = append(needles, term)
	}
	return needles
}

func searchableText(v Vacancy) string {
	return strings.ToLower(strings.Join([]string{v.Title, v.Requirement, v.Responsibility}, " "))
}
