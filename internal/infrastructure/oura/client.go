// Package oura reads the Oura v2 usercollection API.
package oura

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/domain/health"
	"github.com/janhq/health-assistant/internal/domain/ingest"
)

const collectionPath = "/v2/usercollection/"

// maxPages bounds a runaway next_token loop.
const maxPages = 500

type Client struct {
	httpClient *resty.Client
	log        zerolog.Logger
}

var _ ingest.OuraClient = (*Client)(nil)

func NewClient(baseURL, accessToken string, log zerolog.Logger) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetAuthToken(accessToken).
			SetHeader("Accept", "application/json").
			SetTimeout(30 * time.Second),
		log: log.With().Str("component", "oura-client").Logger(),
	}
}

type page struct {
	Data      []json.RawMessage `json:"data"`
	NextToken *string           `json:"next_token"`
}

// FetchCollection walks every page of endpoint for window. The first request
// carries the date range; later ones carry only next_token. A failing page
// ends the walk and the records gathered so far are returned with the error.
func (c *Client) FetchCollection(ctx context.Context, endpoint string, window health.DateRange) ([]json.RawMessage, error) {
	var all []json.RawMessage
	params := map[string]string{
		"start_date": health.FormatDate(window.Start),
		"end_date":   health.FormatDate(window.End),
	}

	for n := 1; n <= maxPages; n++ {
		var p page
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(&p).
			Get(collectionPath + endpoint)
		if err != nil {
			return all, fmt.Errorf("fetch %s page %d: %w", endpoint, n, err)
		}
		if resp.IsError() {
			return all, fmt.Errorf("fetch %s page %d: status %d: %s", endpoint, n, resp.StatusCode(), strings.TrimSpace(resp.String()))
		}

		all = append(all, p.Data...)
		c.log.Debug().Str("endpoint", endpoint).Int("page", n).Int("records", len(p.Data)).Msg("fetched page")

		if p.NextToken == nil || *p.NextToken == "" {
			return all, nil
		}
		params = map[string]string{"next_token": *p.NextToken}
	}
	return all, fmt.Errorf("fetch %s: more than %d pages", endpoint, maxPages)
}
