package headhunter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildParams(t *testing.T) {
	t.Parallel()

	q := buildParams(&SearchParams{
		Text:           "python docker",
		Areas:          []int{1, 2},
		Schedules:      []string{"remote"},
		PerPage:        "50",
		Experience:     "between1And3",
		OnlyWithSalary: true,
	})

	expect := url.Values{
		"text":             {"python docker"},
		"area":             {"1", "2"},
		"schedule":         {"remote"},
		"per_page":         {"50"},
		"experience":       {"between1And3"},
		"only_with_salary": {"true"},
	}

	assert.Equal(t, expect.Encode(), q.Encode())
}

func newTestServer(t *testing.T, pages [][]map[string]any, queries *[]url.Values) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != SearchPath {
			http.NotFound(w, r)
			return
		}
		*queries = append(*queries, r.URL.Query())

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items":    pages[page],
			"found":    len(pages) * len(pages[0]),
			"pages":    len(pages),
			"page":     page,
			"per_page": len(pages[0]),
		})
	}))
}

func TestSearchVacancies(t *testing.T) {
	var queries []url.Values
	pages := [][]map[string]any{
		{
			{
				"id":            "1",
				"name":          "Python Developer",
				"alternate_url": "https://hh.ru/vacancy/1",
				"salary":        map[string]any{"from": 150000, "to": nil, "currency": "RUR"},
				"employer":      map[string]any{"id": "10", "name": "Acme"},
				"snippet":       map[string]any{"requirement": "docker, k8s", "responsibility": nil},
				"published_at":  "2024-03-01T10:00:00+0300",
			},
			{
				"id":     "2",
				"name":   "Java Developer",
				"salary": nil,
			},
		},
		{
			{"id": "3", "name": "Go Developer"},
			{"id": "4", "name": "Rust Developer"},
		},
	}

	server := newTestServer(t, pages, &queries)
	defer server.Close()

	client := New(zap.NewNop(), "")
	client.APIURL = server.URL
	client.Params = &SearchParams{Areas: []int{1}, Text: "ignored"}

	vacancies, err := client.SearchVacancies(context.Background(), []string{"python", "docker"}, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, vacancyIDs(vacancies), "first three vacancies in api order")
	require.Len(t, queries, 2)
	assert.Equal(t, "python docker", queries[0].Get("text"))
	assert.Equal(t, "3", queries[0].Get("per_page"))
	assert.Equal(t, "1", queries[0].Get("area"))
	assert.Equal(t, "ignored", client.Params.Text, "client params must not be modified")

	first := vacancies.Items[0].Record()
	require.NotNil(t, first.Salary)
	require.NotNil(t, first.Salary.From)
	assert.Equal(t, 150000, *first.Salary.From)
	assert.Nil(t, first.Salary.To)
	assert.Equal(t, "Acme", first.Employer)
	assert.Equal(t, "docker, k8s", first.Requirement)
	assert.Nil(t, vacancies.Items[1].Salary)
}

func TestSearchVacanciesSinglePage(t *testing.T) {
	var queries []url.Values
	pages := [][]map[string]any{
		{{"id": "1"}, {"id": "2"}},
		{{"id": "3"}, {"id": "4"}},
	}

	server := newTestServer(t, pages, &queries)
	defer server.Close()

	client := New(nil, "")
	client.APIURL = server.URL

	vacancies, err := client.SearchVacancies(context.Background(), []string{"go"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, vacancies.Len())
	assert.Len(t, queries, 1)
}

func TestSearchVacanciesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(zap.NewNop(), "secret")
	client.APIURL = server.URL

	_, err := client.SearchVacancies(context.Background(), []string{"go"}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("bad status: %d", http.StatusServiceUnavailable))
}

func TestRecords(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Records(nil))

	records := Records(&Vacancies{Items: []*Vacancy{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}})
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].Title)
	assert.Equal(t, "2", records[1].ID)
}
