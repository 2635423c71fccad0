package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"rules-service/core/dataset"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RuleVersion is one signed version of a rule as published by the gateway.
type RuleVersion struct {
	CMS string `json:"cms"`
}

// rulePayload is the subset of the rule JSON needed for the listing.
type rulePayload struct {
	Identifier string `json:"Identifier"`
	Version    string `json:"Version"`
	Country    string `json:"Country"`
}

// Client talks to the upstream gateway.
type Client struct {
	baseURL     string
	http        *http.Client
	concurrency int
	maxBody     int64
}

// NewClient creates a gateway client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid gateway base url: %w", err)
	}
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 << 20
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		http:        &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		concurrency: concurrency,
		maxBody:     maxBody,
	}, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response %s: %w", path, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("gateway response %s exceeds %d bytes", path, c.maxBody)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway %s returned status %d", path, resp.StatusCode)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode gateway response %s: %w", path, err)
	}
	return nil
}

// CountryList returns the country codes known to the gateway.
func (c *Client) CountryList(ctx context.Context) ([]string, error) {
	var countries []string
	if err := c.getJSON(ctx, "/countrylist", &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// Rules returns the published rules of one country keyed by identifier.
func (c *Client) Rules(ctx context.Context, country string) (map[string][]RuleVersion, error) {
	var rules map[string][]RuleVersion
	if err := c.getJSON(ctx, "/rules/"+url.PathEscape(country), &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// ValueSetIDs returns the ids of every published value set.
func (c *Client) ValueSetIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.getJSON(ctx, "/valuesets", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ValueSet returns the raw JSON of one value set.
func (c *Client) ValueSet(ctx context.Context, id string) (string, error) {
	body, err := c.get(ctx, "/valuesets/"+url.PathEscape(id))
	if err != nil {
		return "", err
	}
	if !json.Valid(body) {
		return "", fmt.Errorf("value set %s is not valid json", id)
	}
	return string(body), nil
}

// FetchCountryList returns the country list as JSON.
func (c *Client) FetchCountryList(ctx context.Context, log *zap.Logger) (string, error) {
	countries, err := c.CountryList(ctx)
	if err != nil {
		return "", err
	}
	if countries == nil {
		countries = []string{}
	}
	raw, err := json.Marshal(countries)
	if err != nil {
		return "", err
	}
	log.Debug("Fetched country list", zap.Int("countries", len(countries)))
	return string(raw), nil
}

// FetchRules downloads the rules of every country. Countries that fail are
// logged and skipped, as are rule versions whose payload cannot be read.
func (c *Client) FetchRules(ctx context.Context, log *zap.Logger) ([]dataset.Item, error) {
	countries, err := c.CountryList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch country list: %w", err)
	}

	var items []dataset.Item
	for _, country := range countries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rules, err := c.Rules(ctx, country)
		if err != nil {
			log.Warn("Skipping rules of country", zap.String("country", country), zap.Error(err))
			continue
		}
		for _, identifier := range slices.Sorted(maps.Keys(rules)) {
			for _, v := range rules[identifier] {
				item, err := ruleItem(v)
				if err != nil {
					log.Warn("Skipping rule version",
						zap.String("country", country),
						zap.String("identifier", identifier),
						zap.Error(err))
					continue
				}
				items = append(items, item)
			}
		}
	}
	return items, nil
}

func ruleItem(v RuleVersion) (dataset.Item, error) {
	payload, err := ExtractPayload(v.CMS)
	if err != nil {
		return dataset.Item{}, err
	}
	var p rulePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return dataset.Item{}, fmt.Errorf("rule payload is not json: %w", err)
	}
	if p.Identifier == "" || p.Country == "" {
		return dataset.Item{}, errors.New("rule payload lacks identifier or country")
	}
	return dataset.NewItem(p.Identifier, p.Country, p.Version, string(payload)), nil
}

// FetchValueSets downloads every value set with bounded concurrency. Value
// sets that fail are logged and skipped. The result keeps the id order.
func (c *Client) FetchValueSets(ctx context.Context, log *zap.Logger) ([]dataset.Item, error) {
	ids, err := c.ValueSetIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch value set ids: %w", err)
	}

	slots := make([]*dataset.Item, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			raw, err := c.ValueSet(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("Skipping value set", zap.String("id", id), zap.Error(err))
				return nil
			}
			item := dataset.NewItem(id, "", "", raw)
			slots[i] = &item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]dataset.Item, 0, len(ids))
	for _, item := range slots {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items, nil
}
