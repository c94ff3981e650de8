package task

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
)

const defaultNewsURL = "https://newsapi.org/v2/top-headlines"

// NewsHandler answers get_news via NewsAPI top headlines
type NewsHandler struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type NewsOption func(*NewsHandler)

func WithNewsBaseURL(u string) NewsOption {
	return func(h *NewsHandler) {
		h.baseURL = u
	}
}

func NewNewsHandler(apiKey string, opts ...NewsOption) *NewsHandler {
	h := &NewsHandler{
		apiKey:  apiKey,
		baseURL: defaultNewsURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *NewsHandler) Intent() model.Action { return model.ActionGetNews }
func (h *NewsHandler) Required() []string   { return nil }

func (h *NewsHandler) Execute(ctx context.Context, entities map[string]string) (string, error) {
	if h.apiKey == "" {
		return "My news service is not configured.", nil
	}

	topic := entities["topic"]
	q := url.Values{}
	if topic != "" {
		q.Set("q", topic)
	} else {
		q.Set("country", "us")
	}
	q.Set("apiKey", h.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build news request")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "news service unreachable", goerr.V("topic", topic))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("news service returned an error", goerr.V("status", resp.StatusCode))
	}

	var body struct {
		Articles []struct {
			Title string `json:"title"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", goerr.Wrap(err, "failed to decode news response")
	}

	if len(body.Articles) == 0 {
		if topic == "" {
			return "I couldn't find any news right now.", nil
		}
		return fmt.Sprintf("I couldn't find any news on %q.", topic), nil
	}

	subject := "general news"
	if topic != "" {
		subject = topic
	}
	headlines := make([]string, 0, 3)
	for i, a := range body.Articles {
		if i == 3 {
			break
		}
		headlines = append(headlines, fmt.Sprintf("%d. %s", i+1, a.Title))
	}
	return fmt.Sprintf("Here are the top headlines on %s: %s", subject, strings.Join(headlines, " ")), nil
}
