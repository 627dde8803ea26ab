// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gapfinder/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results.
// A saved search can be reloaded and printed without re-querying CORE.
type QueryFile struct {
	Query   QueryParams         `yaml:"query"`
	Results []types.PaperRecord `yaml:"results"`
	Summary QuerySummary        `yaml:"summary"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	Topic  string `yaml:"topic"`
	Sort   string `yaml:"sort,omitempty"`
	Limit  int    `yaml:"limit,omitempty"`
	Offset int    `yaml:"offset,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves the query and its results to a YAML file.
func WriteQueryFile(path string, query Query, papers []types.PaperRecord) error {
	qf := QueryFile{
		Query: QueryParams{
			Topic:  query.Topic,
			Sort:   query.Sort,
			Limit:  query.Limit,
			Offset: query.Offset,
		},
		Results: papers,
		Summary: QuerySummary{
			Total:     len(papers),
			Timestamp: time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToQuery converts stored QueryParams back into a Query.
func (p QueryParams) ToQuery() (Query, error) {
	q := Query{Topic: p.Topic, Sort: p.Sort, Limit: p.Limit, Offset: p.Offset}
	if err := q.Validate(); err != nil {
		return q, fmt.Errorf("invalid saved query: %w", err)
	}
	return q, nil
}
