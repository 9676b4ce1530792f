package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nguyentantai21042004/reel-remix/internal/config"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/models"
)

type apifyResolver struct {
	cfg    config.ResolverConfig
	client *http.Client
	logger logger.Logger
}

// scraperInput is the instagram-scraper actor input for direct post links.
type scraperInput struct {
	DirectURLs    []string `json:"directUrls"`
	ResultsType   string   `json:"resultsType"`
	SearchType    string   `json:"searchType"`
	SearchLimit   int      `json:"searchLimit"`
	AddParentData bool     `json:"addParentData"`
}

type scraperItem struct {
	InputURL      string `json:"inputUrl"`
	URL           string `json:"url"`
	VideoURL      string `json:"videoUrl"`
	VideoURLSnake string `json:"video_url"`
	DisplayURL    string `json:"displayUrl"`
}

// NewApify returns a Resolver backed by an Apify scraper actor.
func NewApify(cfg config.ResolverConfig, client *http.Client, log logger.Logger) Resolver {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &apifyResolver{cfg: cfg, client: client, logger: log}
}

// Resolve runs the actor synchronously and reads its dataset items.
func (r *apifyResolver) Resolve(ctx context.Context, refs []string) ([]models.VideoItem, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(scraperInput{
		DirectURLs:  refs,
		ResultsType: "posts",
		SearchType:  "hashtag",
		SearchLimit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("encode actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		strings.TrimRight(r.cfg.BaseURL, "/"), url.PathEscape(r.cfg.Actor), url.QueryEscape(r.cfg.Token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build actor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	r.logger.Info(ctx, "Running %s for %d URL(s)", r.cfg.Actor, len(refs))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run actor %s: %w", r.cfg.Actor, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("run actor %s: status %d: %s", r.cfg.Actor, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var raw []scraperItem
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}

	items := make([]models.VideoItem, 0, len(raw))
	for _, it := range raw {
		item := models.VideoItem{
			Reference:  firstNonEmpty(it.InputURL, it.URL),
			VideoURL:   firstNonEmpty(it.VideoURL, it.VideoURLSnake),
			DisplayURL: it.DisplayURL,
		}
		if item.MediaURL() == "" {
			r.logger.Warn(ctx, "No video URL in scraper item for %s", item.Reference)
		}
		items = append(items, item)
	}

	r.logger.Info(ctx, "Resolved %d item(s) from %d URL(s)", len(items), len(refs))
	return items, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
