package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	SearchPath = "/vacancies"
)

type SearchParams struct {
	Text string `yaml:"text"`
	// hhparam is custom tag for reflect. Please see below.
	Areas          []int    `hhparam:"area"`
	OrderBy        string   `yaml:"order_by" mapstructure:"order_by"`
	Employer       uint     `yaml:"employer_id" mapstructure:"employer_id"`
	SearchField    string   `yaml:"search_field" mapstructure:"search_field"`
	Schedules      []string `hhparam:"schedule"`
	PerPage        string   `yaml:"per_page" mapstructure:"per_page"`
	Experience     string   `yaml:"experience"`
	Period         uint     `yaml:"period"`
	OnlyWithSalary bool     `yaml:"only_with_salary" mapstructure:"only_with_salary"`
}

func (c *Client) paramsFor(terms []string, limit int) *SearchParams {
	params := SearchParams{}
	if c.Params != nil {
		params = *c.Params
	}

	params.Text = strings.Join(terms, " ")

	if limit <= 0 || limit > perPage {
		limit = perPage
	}
	params.PerPage = strconv.Itoa(limit)

	return &params
}

func (c *Client) search(ctx context.Context, params *SearchParams, limit int) (*Vacancies, error) {
	var vacancies []*Vacancy

	q := buildParams(params)
	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	items, err := c.GetItems(ctx, apiURLSearch, q, limit)
	if err != nil {
		return nil, err
	}

	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &vacancies,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode vacancies: %w", err)
	}

	c.logger.Debug("vacancies search finished",
		zap.String("text", params.Text),
		zap.Int("count", len(vacancies)),
	)

	return &Vacancies{
		Items: vacancies,
	}, nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("hhparam")
		if key == "" {
			// Failover to default tag if our tag do not exist.
			key = field.Tag.Get("yaml")
		}
		value := reflect.ValueOf(params).Elem().Field(field.Index[0])

		switch field.Type.Kind() {
		case reflect.Slice:
			switch v := value.Interface().(type) {
			case []int:
				for _, item := range v {
					q.Add(key, strconv.Itoa(item))
				}
			case []string:
				for _, item := range v {
					q.Add(key, item)
				}
			}

		case reflect.Bool:
			if value.Bool() {
				q.Set(key, "true")
			}

		default:
			s := fmt.Sprintf("%v", value.Interface())
			if s != "" && s != "0" {
				q.Set(key, s)
			}
		}
	}

	return q
}
