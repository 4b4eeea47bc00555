package headhunter

import (
	"context"
	"net/http"
	"time"

	"github.com/spigell/hh-matcher/internal/matching"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "spigell/hh-matcher (spigelly@gmail.com)"
	// Max value for search per page.
	perPage = 100
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// Params are merged into every search. Text and PerPage are always overridden.
	Params *SearchParams
}

// New creates a client. The token is optional: vacancy search works anonymously.
func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
		Params:    &SearchParams{},
	}
}

// SearchVacancies queries hh.ru with the given terms and returns at most limit vacancies
// in the order the API ranked them. Archived vacancies are included; filtering is the
// caller's job.
func (c *Client) SearchVacancies(ctx context.Context, terms []string, limit int) (*Vacancies, error) {
	return c.search(ctx, c.paramsFor(terms, limit), limit)
}

// Records converts the vacancies into matching records.
func Records(v *Vacancies) []matching.Vacancy {
	if v == nil {
		return nil
	}

	records := make([]matching.Vacancy, 0, v.Len())
	for _, vacancy := range v.Items {
		records = append(records, vacancy.Record())
	}
	return records
}
