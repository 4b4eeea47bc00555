package matching

import (
	"encoding/json"
	"os"
)

const (
	DefaultPageSize = 5
	// MaxResults caps how many vacancies are fetched and scored per search.
	MaxResults = 50
)

type Page struct {
	Items   []Match `json:"items"`
	Index   int     `json:"index"`
	Size    int     `json:"size"`
	Total   int     `json:"total"`
	HasMore bool    `json:"has_more"`
}

// Paginate returns the zero-based page index of batch. Pages past the end are empty.
func Paginate(batch Batch, index, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}

	page := Page{Index: index, Size: size, Total: len(batch), Items: []Match{}}
	if index < 0 || len(batch) == 0 || index > (len(batch)-1)/size {
		return page
	}

	start := index * size

	end := min(start+size, len(batch))
	page.Items = batch[start:end:end]
	page.HasMore = start+size < len(batch)

	return page
}

// Pages returns how many pages batch spans.
func Pages(batch Batch, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (len(batch) + size - 1) / size
}

// DumpToTmpFile writes the batch as indented JSON to a new temporary file and returns its name.
func (b Batch) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return "", err
	}
	return file.Name(), nil
}
