package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rules-service/core/hash"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func rulePayloadJSON(id, version, country string) string {
	return fmt.Sprintf(`{"Identifier":%q,"Version":%q,"Country":%q,"Engine":"CERTLOGIC"}`, id, version, country)
}

type fakeGateway struct {
	t         *testing.T
	countries []string
	rules     map[string]map[string][]string
	valueSets map[string]string
	failing   map[string]bool
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /countrylist", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(g.countries)
	})
	mux.HandleFunc("GET /rules/{country}", func(w http.ResponseWriter, r *http.Request) {
		country := r.PathValue("country")
		if g.failing[country] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		out := map[string][]RuleVersion{}
		for id, payloads := range g.rules[country] {
			for _, p := range payloads {
				out[id] = append(out[id], RuleVersion{CMS: buildCMS(g.t, oidSignedData, []byte(p))})
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /valuesets", func(w http.ResponseWriter, r *http.Request) {
		ids := make([]string, 0, len(g.valueSets))
		for _, id := range []string{"vs-a", "vs-b", "vs-c"} {
			if _, ok := g.valueSets[id]; ok || g.failing[id] {
				ids = append(ids, id)
			}
		}
		_ = json.NewEncoder(w).Encode(ids)
	})
	mux.HandleFunc("GET /valuesets/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if g.failing[id] {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(g.valueSets[id]))
	})
	return mux
}

func newTestClient(t *testing.T, g *fakeGateway) *Client {
	t.Helper()
	g.t = t
	srv := httptest.NewServer(g.handler())
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, TimeoutSeconds: 5, MaxConcurrency: 2})
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestFetchCountryList(t *testing.T) {
	c := newTestClient(t, &fakeGateway{countries: []string{"DE", "AT"}})

	raw, err := c.FetchCountryList(context.Background(), zap.NewNop())
	require.NoError(t, err)
	assert.JSONEq(t, `["DE","AT"]`, raw)
}

func TestFetchCountryListEmpty(t *testing.T) {
	c := newTestClient(t, &fakeGateway{})

	raw, err := c.FetchCountryList(context.Background(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestFetchRules(t *testing.T) {
	de1 := rulePayloadJSON("GR-DE-0001", "1.0.0", "DE")
	de2 := rulePayloadJSON("GR-DE-0001", "1.1.0", "DE")
	at1 := rulePayloadJSON("VR-AT-0001", "1.0.0", "AT")

	core, logs := observer.New(zap.WarnLevel)
	c := newTestClient(t, &fakeGateway{
		countries: []string{"DE", "AT", "FR"},
		rules: map[string]map[string][]string{
			"DE": {"GR-DE-0001": {de1, de2}},
			"AT": {"VR-AT-0001": {at1}},
		},
		failing: map[string]bool{"FR": true},
	})

	items, err := c.FetchRules(context.Background(), zap.New(core))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "GR-DE-0001", items[0].Identifier)
	assert.Equal(t, "1.0.0", items[0].Version)
	assert.Equal(t, "DE", items[0].Country)
	assert.Equal(t, de1, items[0].RawData)
	assert.Equal(t, hash.SumString(de1), items[0].Hash)
	assert.Equal(t, "1.1.0", items[1].Version)
	assert.Equal(t, "AT", items[2].Country)

	require.Equal(t, 1, logs.FilterMessage("Skipping rules of country").Len())
}

func TestFetchRulesSkipsUnreadablePayloads(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := newTestClient(t, &fakeGateway{
		countries: []string{"DE"},
		rules: map[string]map[string][]string{
			"DE": {"GR-DE-0001": {"not json", `{"Version":"1.0.0"}`, rulePayloadJSON("GR-DE-0001", "1.0.0", "de")}},
		},
	})

	items, err := c.FetchRules(context.Background(), zap.New(core))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "DE", items[0].Country)
	assert.Equal(t, 2, logs.FilterMessage("Skipping rule version").Len())
}

func TestFetchRulesFailsWithoutCountryList(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL, TimeoutSeconds: 5})
	require.NoError(t, err)

	_, err = c.FetchRules(context.Background(), zap.NewNop())
	assert.ErrorContains(t, err, "country list")
}

func TestFetchValueSets(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := newTestClient(t, &fakeGateway{
		valueSets: map[string]string{
			"vs-a": `{"valueSetId":"vs-a"}`,
			"vs-c": `{"valueSetId":"vs-c"}`,
		},
		failing: map[string]bool{"vs-b": true},
	})

	items, err := c.FetchValueSets(context.Background(), zap.New(core))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "vs-a", items[0].Identifier)
	assert.Equal(t, "vs-c", items[1].Identifier)
	assert.Empty(t, items[0].Country)
	assert.Equal(t, hash.SumString(`{"valueSetId":"vs-a"}`), items[0].Hash)
	assert.Equal(t, 1, logs.FilterMessage("Skipping value set").Len())
}

func TestValueSetRejectsInvalidJSON(t *testing.T) {
	c := newTestClient(t, &fakeGateway{valueSets: map[string]string{"vs-a": "<html>"}})

	_, err := c.ValueSet(context.Background(), "vs-a")
	assert.ErrorContains(t, err, "not valid json")
}

func TestResponseSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["` + strings.Repeat("A", 64) + `"]`))
	}))
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL, TimeoutSeconds: 5, MaxBodyBytes: 16})
	require.NoError(t, err)

	_, err = c.CountryList(context.Background())
	assert.ErrorContains(t, err, "exceeds")
}
