package skills

import "strings"

// Extracted holds the skills found in one document. Groups follow catalog order,
// terms follow discovery order and empty groups are omitted.
type Extracted struct {
	Groups []Group `json:"groups"`
}

func newExtracted(categories []Category) *Extracted {
	e := &Extracted{Groups: make([]Group, 0, len(categories))}
	for _, c := range categories {
		e.Groups = append(e.Groups, Group{Category: c})
	}
	return e
}

// add appends term to category unless it is already there. Categories outside
// the catalog are appended after the known ones.
func (e *Extracted) add(category Category, term string) bool {
	for i := range e.Groups {
		if e.Groups[i].Category != category {
			continue
		}
		for _, existing := range e.Groups[i].Terms {
			if strings.EqualFold(existing, term) {
				return false
			}
		}
		e.Groups[i].Terms = append(e.Groups[i].Terms, term)
		return true
	}

	e.Groups = append(e.Groups, Group{Category: category, Terms: []string{term}})
	return true
}

func (e *Extracted) compact() *Extracted {
	groups := e.Groups[:0]
	for _, g := range e.Groups {
		if len(g.Terms) > 0 {
			groups = append(groups, g)
		}
	}
	e.Groups = groups
	return e
}

func (e *Extracted) IsEmpty() bool {
	return e == nil || len(e.Groups) == 0
}

// Categories returns the categories that have at least one term.
func (e *Extracted) Categories() []Category {
	if e == nil {
		return nil
	}
	categories := make([]Category, 0, len(e.Groups))
	for _, g := range e.Groups {
		categories = append(categories, g.Category)
	}
	return categories
}

func (e *Extracted) Terms(category Category) []string {
	if e == nil {
		return nil
	}
	for _, g := range e.Groups {
		if g.Category == category {
			return append([]string(nil), g.Terms...)
		}
	}
	return nil
}

// Len returns the number of terms across all groups.
func (e *Extracted) Len() int {
	if e == nil {
		return 0
	}
	n := 0
	for _, g := range e.Groups {
		n += len(g.Terms)
	}
	return n
}
