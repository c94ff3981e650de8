package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const defaultSearchURL = "https://google.serper.dev/search"

// Searcher produces a condensed digest of web results for a query. The
// digest is handed to the answer oracle as additional context.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// SerperSearch queries the serper.dev search API
type SerperSearch struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type SearchOption func(*SerperSearch)

func WithSearchBaseURL(u string) SearchOption {
	return func(s *SerperSearch) {
		s.baseURL = u
	}
}

func NewSerperSearch(apiKey string, opts ...SearchOption) *SerperSearch {
	s := &SerperSearch{
		apiKey:  apiKey,
		baseURL: defaultSearchURL,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SerperSearch) Search(ctx context.Context, query string) (string, error) {
	if s.apiKey == "" {
		return "", goerr.New("search service is not configured")
	}

	payload, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode search query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build search request")
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "search service unreachable", goerr.V("query", query))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("search service returned an error", goerr.V("status", resp.StatusCode))
	}

	var body struct {
		AnswerBox struct {
			Answer  string `json:"answer"`
			Snippet string `json:"snippet"`
		} `json:"answerBox"`
		Organic []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", goerr.Wrap(err, "failed to decode search response")
	}

	var lines []string
	if body.AnswerBox.Answer != "" {
		lines = append(lines, "Answer: "+body.AnswerBox.Answer)
	} else if body.AnswerBox.Snippet != "" {
		lines = append(lines, "Answer: "+body.AnswerBox.Snippet)
	}
	for i, r := range body.Organic {
		if i == 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s: %s", i+1, r.Title, r.Snippet))
	}

	if len(lines) == 0 {
		return "", goerr.New("search returned no results", goerr.V("query", query))
	}
	return strings.Join(lines, "\n"), nil
}
