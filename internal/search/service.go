// Package search validates user-search requests, runs them against the
// EnsembleData API and truncates the normalized results.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/splax/userscout/internal/platform"
)

// Result-count bounds for one search action.
const (
	MinResults     = 1
	MaxResults     = 100
	DefaultResults = 10
)

var (
	// ErrMissingToken rejects a search without an API token.
	ErrMissingToken = errors.New("api token is required")
	// ErrMissingQuery rejects a search without query text.
	ErrMissingQuery = errors.New("search query is required")
	// ErrMaxResultsRange rejects an out-of-bounds result cap.
	ErrMaxResultsRange = fmt.Errorf("max results must be between %d and %d", MinResults, MaxResults)
)

// Searcher is the upstream client dependency.
type Searcher interface {
	SearchUsers(ctx context.Context, p platform.Platform, query, token string) ([]platform.Record, error)
}

// Request carries everything one search action needs. The token is an
// explicit parameter rather than ambient state so callers stay testable.
type Request struct {
	Platform   string
	Query      string
	Token      string
	MaxResults int
}

// Result is the outcome of one search action.
type Result struct {
	Platform platform.Platform
	Records  []platform.Record
}

// Service orchestrates validation, fetch, normalization and truncation.
type Service struct {
	client Searcher
	logger *slog.Logger
}

// New wires the service dependencies.
func New(client Searcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// Search runs one user search. Validation failures are reported before any
// network call; upstream failures pass through untouched so callers can
// distinguish status, decode and transport errors.
func (s *Service) Search(ctx context.Context, req Request) (Result, error) {
	p, err := platform.Parse(req.Platform)
	if err != nil {
		return Result{}, err
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Result{}, ErrMissingQuery
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return Result{}, ErrMissingToken
	}
	if req.MaxResults < MinResults || req.MaxResults > MaxResults {
		return Result{}, ErrMaxResultsRange
	}

	start := time.Now()
	records, err := s.client.SearchUsers(ctx, p, query, token)
	if err != nil {
		s.logger.Warn("search failed",
			"platform", p.String(),
			"query", query,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return Result{}, err
	}

	// The API is never asked to cap results; truncation happens here.
	fetched := len(records)
	if fetched > req.MaxResults {
		records = records[:req.MaxResults]
	}

	s.logger.Info("search completed",
		"platform", p.String(),
		"query", query,
		"fetched", fetched,
		"returned", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Result{Platform: p, Records: records}, nil
}
