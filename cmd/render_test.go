package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/spigell/hh-matcher/internal/document"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/service"
	"github.com/spigell/hh-matcher/internal/skills"
)

func intPtr(v int) *int { return &v }

func TestFormatSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		salary *matching.Salary
		expect string
	}{
		{name: "nil", salary: nil, expect: "not specified"},
		{name: "only currency", salary: &matching.Salary{Currency: "RUR"}, expect: "not specified"},
		{name: "range", salary: &matching.Salary{From: intPtr(100), To: intPtr(200), Currency: "RUR"}, expect: "from 100 to 200 RUR"},
		{name: "upper bound", salary: &matching.Salary{To: intPtr(300)}, expect: "to 300"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, formatSalary(tt.salary))
		})
	}
}

func TestRenderPage(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	published := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	batch := matching.Rank([]string{"go", "docker"}, []matching.Vacancy{
		{ID: "1", Title: "Go developer", Employer: "Acme", Requirement: "Docker", PublishedAt: &published, URL: "https://hh.ru/vacancy/1"},
		{ID: "2", Title: "Designer"},
		{ID: "3", Title: "Go intern"},
	})

	var out bytes.Buffer
	renderPage(&out, matching.Paginate(batch, 0, 2))

	for _, want := range []string{
		"Page 1 of 2 (3 vacancies)",
		"1. Go developer / Acme",
		"Salary: not specified",
		"Published: 2024-03-01",
		"Matched (2): go, docker",
		"https://hh.ru/vacancy/1",
		"2. Go intern",
	} {
		assert.Contains(t, out.String(), want)
	}

	out.Reset()
	renderPage(&out, matching.Paginate(batch, 1, 2))
	assert.Contains(t, out.String(), "3. Designer")
	assert.Contains(t, out.String(), "Matched (0): none")

	out.Reset()
	renderPage(&out, matching.Paginate(nil, 0, 2))
	assert.Contains(t, out.String(), "No vacancies found.")
}

func TestPrintExtracted(t *testing.T) {
	extractor := skills.NewExtractor(skills.DefaultCatalog())

	var out bytes.Buffer
	printExtracted(&out, extractor.Extract("Python and Docker"))
	assert.Contains(t, out.String(), "CATEGORY")
	assert.Contains(t, out.String(), "python")
	assert.Contains(t, out.String(), "docker")

	out.Reset()
	printExtracted(&out, extractor.Extract("nothing useful here"))
	assert.Equal(t, "No skills found.\n", out.String())
}

func TestRetryHint(t *testing.T) {
	t.Parallel()

	unsupported := fmt.Errorf("convert document: %w", fmt.Errorf("%w: image/png", document.ErrUnsupportedType))
	upstream := fmt.Errorf("%w: search vacancies: %w", service.ErrUpstreamUnavailable, errors.New("timeout"))

	assert.Equal(t, "only PDF and plain text resumes are supported", retryHint(unsupported))
	assert.Contains(t, retryHint(upstream), "try again later")
	assert.Empty(t, retryHint(errors.New("other")))
}
