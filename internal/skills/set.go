package skills

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidSkillTerm = errors.New("invalid skill term")

// Set is the user's ordered list of distinct skills. Terms are stored normalized,
// so membership checks are case-insensitive. Set is not safe for concurrent use.
type Set struct {
	terms []string
}

func NewSet(terms ...string) *Set {
	s := &Set{}
	for _, term := range terms {
		s.Add(term)
	}
	return s
}

// FromExtracted flattens the groups in order, dropping duplicates across categories.
func FromExtracted(e *Extracted) *Set {
	s := &Set{}
	if e == nil {
		return s
	}
	for _, g := range e.Groups {
		for _, term := range g.Terms {
			s.Add(term)
		}
	}
	return s
}

// ValidateTerm trims the term and rejects empty and command-like input.
// It is meant to be called before Add by whoever accepts user input.
func ValidateTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSkillTerm)
	}
	if strings.HasPrefix(term, "/") {
		return "", fmt.Errorf("%w: %q looks like a command", ErrInvalidSkillTerm, term)
	}
	return term, nil
}

// Add appends term at the end. It returns false if the term is blank or already present.
func (s *Set) Add(term string) bool {
	term = Normalize(term)
	if term == "" || s.Contains(term) {
		return false
	}
	s.terms = append(s.terms, term)
	return true
}

// Remove deletes term keeping the order of the rest. It returns false if term is absent.
func (s *Set) Remove(term string) bool {
	idx := slices.Index(s.terms, Normalize(term))
	if idx < 0 {
		return false
	}
	s.terms = slices.Delete(s.terms, idx, idx+1)
	return true
}

func (s *Set) Contains(term string) bool {
	if s == nil {
		return false
	}
	return slices.Contains(s.terms, Normalize(term))
}

// Terms returns the skills in insertion order.
func (s *Set) Terms() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.terms)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

func (s *Set) Clone() *Set {
	return &Set{terms: s.Terms()}
}
