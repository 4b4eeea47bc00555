package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/skills"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const publishedLayout = "2006-01-02"

func printExtracted(w io.Writer, extracted *skills.Extracted) {
	if extracted.IsEmpty() {
		fmt.Fprintln(w, "No skills found.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Skills"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, category := range extracted.Categories() {
		table.Append([]string{string(category), strings.Join(extracted.Terms(category), ", ")})
	}
	table.Render()
}

func renderPage(w io.Writer, page matching.Page) {
	if page.Total == 0 {
		fmt.Fprintln(w, "No vacancies found.")
		return
	}

	if len(page.Items) == 0 {
		fmt.Fprintf(w, "Page %d is empty, %d vacancies in total.\n", page.Index+1, page.Total)
		return
	}

	pages := (page.Total + page.Size - 1) / page.Size
	fmt.Fprintf(w, "Page %d of %d (%d vacancies)\n\n", page.Index+1, pages, page.Total)

	for i, item := range page.Items {
		fmt.Fprintf(w, "%d. %s\n", page.Index*page.Size+i+1, renderMatch(item))
	}
}

func renderMatch(m matching.Match) string {
	var b strings.Builder

	b.WriteString(color.New(color.Bold).Sprint(m.Vacancy.Title))
	if m.Vacancy.Employer != "" {
		fmt.Fprintf(&b, " / %s", m.Vacancy.Employer)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "   Salary: %s\n", formatSalary(m.Vacancy.Salary))
	if m.Vacancy.PublishedAt != nil {
		fmt.Fprintf(&b, "   Published: %s\n", m.Vacancy.PublishedAt.Format(publishedLayout))
	}

	matched := color.YellowString("none")
	if len(m.Terms) > 0 {
		matched = color.GreenString(strings.Join(m.Terms, ", "))
	}
	fmt.Fprintf(&b, "   Matched (%d): %s\n", m.Count, matched)

	if m.Vacancy.URL != "" {
		fmt.Fprintf(&b, "   %s\n", m.Vacancy.URL)
	}

	return b.String()
}

func formatSalary(s *matching.Salary) string {
	if s == nil || (s.From == nil && s.To == nil) {
		return "not specified"
	}

	parts := make([]string, 0, 3)
	if s.From != nil {
		parts = append(parts, "from "+strconv.Itoa(*s.From))
	}
	if s.To != nil {
		parts = append(parts, "to "+strconv.Itoa(*s.To))
	}
	if s.Currency != "" {
		parts = append(parts, s.Currency)
	}

	return strings.Join(parts, " ")
}
