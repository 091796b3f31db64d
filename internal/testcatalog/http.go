package testcatalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/songsim/internal/domain/model"
	"github.com/okian/songsim/internal/domain/types"
)

// HTTPClient wraps http.Client with a timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request bound to ctx.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Query is one recommendation request issued by the runner.
type Query struct {
	Song       string
	K          int
	Popularity string
	Genre      string
}

// URL renders q against base.
func (q Query) URL(base string) string {
	v := url.Values{}
	v.Set("song", q.Song)
	v.Set("k", strconv.Itoa(q.K))
	if q.Popularity != "" {
		v.Set("popularity", q.Popularity)
	}
	if q.Genre != "" {
		v.Set("genre", q.Genre)
	}
	return base + "/recommend?" + v.Encode()
}

// buildQueries picks n queries over songs with mixed filters.
func buildQueries(songs []model.Song, n, k int, seed int64) []Query {
	if len(songs) == 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed + 1)) //nolint:gosec // reproducible fixtures, not security
	popularity := []string{"", "none", "underground", "popular"}
	genre := []string{"", "none", "same", "different"}

	out := make([]Query, n)
	for i := range out {
		out[i] = Query{
			Song:       songs[rng.Intn(len(songs))].TrackID,
			K:          k,
			Popularity: popularity[rng.Intn(len(popularity))],
			Genre:      genre[rng.Intn(len(genre))],
		}
	}
	return out
}

// queryResult classifies one response.
type queryResult int

const (
	resultOK queryResult = iota
	resultEmpty
	resultFailed
	resultInvalid
)

// issueQueries runs queries concurrently with a worker pool.
func issueQueries(ctx context.Context, config *Config, queries []Query, stats *Stats) error {
	log.Printf("issuing %d queries with %d workers", len(queries), config.Workers)

	client := newHTTPClient(config.Timeout)

	var ok, empty, failed, invalid, issued atomic.Int64

	queryChan := make(chan Query, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range queryChan {
				if ctx.Err() != nil {
					return
				}
				result, err := issueQuery(ctx, client, config.BaseURL, q)
				if err != nil && config.Verbose {
					log.Printf("query %s failed: %v", q.Song, err)
				}
				if n := issued.Add(1); config.Verbose && n%progressEvery == 0 {
					log.Printf("progress: %d/%d issued", n, len(queries))
				}
				switch result {
				case resultOK:
					ok.Add(1)
				case resultEmpty:
					empty.Add(1)
				case resultFailed:
					failed.Add(1)
				case resultInvalid:
					invalid.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(queryChan)
		for _, q := range queries {
			select {
			case <-ctx.Done():
				return
			case queryChan <- q:
			}
		}
	}()

	wg.Wait()

	stats.QueriesIssued = int(issued.Load())
	stats.QueriesOK = int(ok.Load())
	stats.QueriesEmpty = int(empty.Load())
	stats.QueriesFailed = int(failed.Load())
	stats.VerificationErrs = int(invalid.Load())
	return ctx.Err()
}

func issueQuery(ctx context.Context, client *HTTPClient, base string, q Query) (queryResult, error) {
	resp, err := client.Get(ctx, q.URL(base))
	if err != nil {
		return resultFailed, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resultFailed, err
	}
	if resp.StatusCode != http.StatusOK {
		return resultFailed, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var out types.RecommendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return resultInvalid, fmt.Errorf("decode response: %w", err)
	}
	if err := VerifyResponse(q, out); err != nil {
		return resultInvalid, err
	}
	if len(out.Results) == 0 {
		return resultEmpty, nil
	}
	return resultOK, nil
}
