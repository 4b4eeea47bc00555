package headhunter

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spigell/hh-matcher/internal/matching"
)

const (
	VacancyIDField         = "ID"
	VacancyEmployerIDField = "EmployerID"

	publishedAtLayout = "2006-01-02T15:04:05-0700"
)

type Vacancies struct {
	Items []*Vacancy
}

type Vacancy struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Salary *struct {
		From     *int   `json:"from,omitempty"`
		To       *int   `json:"to,omitempty"`
		Currency string `json:"currency,omitempty"`
		Gross    bool   `json:"gross,omitempty"`
	} `json:"salary,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Archived     bool   `json:"archived,omitempty"`
	Snipet       struct {
		Requirement    string `json:"requirement,omitempty"`
		Responsibility string `json:"responsibility,omitempty"`
	} `json:"snippet,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

type ExcludedVacancies struct {
	Items []*ExcludedVacancy
}

type ExcludedVacancy struct {
	ID           string
	URL          string
	EmployerName string
	ExcludedAt   time.Time
}

// Record converts the vacancy into a matching record. hh.ru highlights search hits
// in snippets with <highlighttext> tags; they are stripped.
func (va *Vacancy) Record() matching.Vacancy {
	record := matching.Vacancy{
		ID:             va.ID,
		Title:          va.Name,
		Employer:       va.Employer.Name,
		Requirement:    stripHighlight(va.Snipet.Requirement),
		Responsibility: stripHighlight(va.Snipet.Responsibility),
		URL:            va.AlternateURL,
	}

	if va.Salary != nil {
		record.Salary = &matching.Salary{
			From:     va.Salary.From,
			To:       va.Salary.To,
			Currency: va.Salary.Currency,
		}
	}

	if va.PublishedAt != "" {
		if t, err := time.Parse(publishedAtLayout, va.PublishedAt); err == nil {
			record.PublishedAt = &t
		}
	}

	return record
}

var highlightReplacer = strings.NewReplacer("<highlighttext>", "", "</highlighttext>", "")

func stripHighlight(s string) string {
	return highlightReplacer.Replace(s)
}

func (v *Vacancies) ToExcluded() *ExcludedVacancies {
	excluded := &ExcludedVacancies{}
	for _, vacancy := range v.Items {
		excluded.Items = append(excluded.Items, &ExcludedVacancy{
			ID:           vacancy.ID,
			URL:          vacancy.AlternateURL,
			EmployerName: vacancy.Employer.Name,
			ExcludedAt:   time.Now().UTC(),
		})
	}
	return excluded
}

// ExcludedFromRecords builds exclude entries for already ranked vacancies.
func ExcludedFromRecords(records []matching.Vacancy) *ExcludedVacancies {
	excluded := &ExcludedVacancies{}
	now := time.Now().UTC()
	for _, record := range records {
		if record.ID == "" {
			continue
		}
		excluded.Items = append(excluded.Items, &ExcludedVacancy{
			ID:           record.ID,
			URL:          record.URL,
			EmployerName: record.Employer,
			ExcludedAt:   now,
		})
	}
	return excluded
}

// GetExcludedVacanciesFromFile reads the exclude file. A missing or empty file means nothing is excluded.
func GetExcludedVacanciesFromFile(path string) (*ExcludedVacancies, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludedVacancies{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedVacancies{}, nil
	}

	var excluded ExcludedVacancies
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (v *ExcludedVacancies) Append(s *ExcludedVacancies) {
	v.Items = append(v.Items, s.Items...)
}

func (v *ExcludedVacancies) VacanciesIDs() []string {
	ids := make([]string, 0, len(v.Items))
	for _, vacancy := range v.Items {
		ids = append(ids, vacancy.ID)
	}
	return ids
}

func (v *ExcludedVacancies) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (va *Vacancy) GetStringField(name string) string {
	switch name {
	case VacancyIDField:
		return va.ID
	case VacancyEmployerIDField:
		return va.Employer.ID
	default:
		return ""
	}
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

// ExcludeArchived removes archived vacancies and returns their ids.
func (v *Vacancies) ExcludeArchived() []string {
	return v.removeIf(func(vacancy *Vacancy) bool { return vacancy.Archived })
}

// Exclude removes vacancies whose field equals any of targets and returns their ids.
func (v *Vacancies) Exclude(name string, targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}

	return v.removeIf(func(vacancy *Vacancy) bool {
		_, ok := set[vacancy.GetStringField(name)]
		return ok
	})
}

// removeIf preserves the order of the remaining vacancies: ranking ties rely on it.
func (v *Vacancies) removeIf(drop func(*Vacancy) bool) []string {
	var excluded []string
	kept := v.Items[:0]
	for _, vacancy := range v.Items {
		if drop(vacancy) {
			excluded = append(excluded, vacancy.ID)
			continue
		}
		kept = append(kept, vacancy)
	}
	clear(v.Items[len(kept):])
	v.Items = kept
	return excluded
}
