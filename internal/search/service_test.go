package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splax/userscout/internal/ensemble"
	"github.com/splax/userscout/internal/platform"
)

type stubSearcher struct {
	calls   int
	records []platform.Record
	err     error
}

func (s *stubSearcher) SearchUsers(ctx context.Context, p platform.Platform, query, token string) ([]platform.Record, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeRecords(n int) []platform.Record {
	records := make([]platform.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, platform.Record{
			platform.FieldUsername: fmt.Sprintf("user-%d", i),
		})
	}
	return records
}

func TestSearchUnsupportedPlatformSkipsNetwork(t *testing.T) {
	stub := &stubSearcher{records: makeRecords(3)}
	svc := New(stub, discardLogger())

	_, err := svc.Search(context.Background(), Request{
		Platform: "facebook", Query: "q", Token: "tok", MaxResults: 10,
	})
	assert.ErrorIs(t, err, platform.ErrUnsupported)
	assert.Zero(t, stub.calls, "no network call for unsupported platform")
}

func TestSearchMissingInputsSkipNetwork(t *testing.T) {
	stub := &stubSearcher{}
	svc := New(stub, discardLogger())

	_, err := svc.Search(context.Background(), Request{
		Platform: "tiktok", Query: "   ", Token: "tok", MaxResults: 10,
	})
	assert.ErrorIs(t, err, ErrMissingQuery)

	_, err = svc.Search(context.Background(), Request{
		Platform: "tiktok", Query: "q", Token: "", MaxResults: 10,
	})
	assert.ErrorIs(t, err, ErrMissingToken)

	assert.Zero(t, stub.calls)
}

func TestSearchMaxResultsRange(t *testing.T) {
	stub := &stubSearcher{}
	svc := New(stub, discardLogger())

	for _, max := range []int{0, -1, 101} {
		_, err := svc.Search(context.Background(), Request{
			Platform: "threads", Query: "q", Token: "tok", MaxResults: max,
		})
		assert.ErrorIs(t, err, ErrMaxResultsRange, "max=%d", max)
	}
	assert.Zero(t, stub.calls)
}

func TestSearchTruncation(t *testing.T) {
	tests := []struct {
		name    string
		fetched int
		max     int
		want    int
	}{
		{"more than cap", 25, 10, 10},
		{"exactly cap", 10, 10, 10},
		{"below cap", 4, 10, 4},
		{"none", 0, 10, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubSearcher{records: makeRecords(tc.fetched)}
			svc := New(stub, discardLogger())

			result, err := svc.Search(context.Background(), Request{
				Platform: "tiktok", Query: "q", Token: "tok", MaxResults: tc.max,
			})
			require.NoError(t, err)
			assert.Len(t, result.Records, tc.want)
			assert.Equal(t, platform.TikTok, result.Platform)
		})
	}
}

func TestSearchUpstreamErrorPassesThrough(t *testing.T) {
	stub := &stubSearcher{err: &ensemble.StatusError{StatusCode: 404, Body: "not found"}}
	svc := New(stub, discardLogger())

	result, err := svc.Search(context.Background(), Request{
		Platform: "instagram", Query: "q", Token: "tok", MaxResults: 10,
	})
	assert.Empty(t, result.Records)

	var statusErr *ensemble.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.StatusCode)
}
