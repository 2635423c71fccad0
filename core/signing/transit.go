package signing

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var (
	transitPrefix = regexp.MustCompile(`^vault:v\d+:`)
	pemArmour     = regexp.MustCompile(`-----(BEGIN|END) [A-Z ]+-----`)
)

// TransitSigner signs through a remote transit engine.
type TransitSigner struct {
	address string
	token   string
	mount   string
	key     string
	client  *http.Client
}

// NewTransitSigner creates a transit signer using client for requests.
func NewTransitSigner(cfg Config, client *http.Client) *TransitSigner {
	mount := strings.Trim(cfg.TransitMount, "/")
	if mount == "" {
		mount = "transit"
	}
	return &TransitSigner{
		address: strings.TrimRight(cfg.TransitAddress, "/"),
		token:   cfg.TransitToken,
		mount:   mount,
		key:     cfg.TransitKey,
		client:  client,
	}
}

type transitSignResponse struct {
	Data struct {
		Signature string `json:"signature"`
	} `json:"data"`
}

type transitKeyResponse struct {
	Data struct {
		LatestVersion int `json:"latest_version"`
		Keys          map[string]struct {
			PublicKey string `json:"public_key"`
		} `json:"keys"`
	} `json:"data"`
}

// Sign asks the transit engine to sign the hash string. The engine's
// version prefix is stripped from the returned signature.
func (s *TransitSigner) Sign(ctx context.Context, hash string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"input": base64.StdEncoding.EncodeToString([]byte(hash)),
	})
	if err != nil {
		return "", err
	}

	var resp transitSignResponse
	url := fmt.Sprintf("%s/v1/%s/sign/%s", s.address, s.mount, s.key)
	if err := s.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return "", err
	}
	if resp.Data.Signature == "" {
		return "", errors.New("transit returned an empty signature")
	}
	return transitPrefix.ReplaceAllString(resp.Data.Signature, ""), nil
}

// PublicKey fetches the latest version of the signing key and returns its
// base64 DER body without PEM armour or line breaks.
func (s *TransitSigner) PublicKey(ctx context.Context) (string, error) {
	var resp transitKeyResponse
	url := fmt.Sprintf("%s/v1/%s/keys/%s", s.address, s.mount, s.key)
	if err := s.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return "", err
	}

	entry, ok := resp.Data.Keys[strconv.Itoa(resp.Data.LatestVersion)]
	if !ok || entry.PublicKey == "" {
		return "", fmt.Errorf("transit key %s has no public key for version %d", s.key, resp.Data.LatestVersion)
	}

	key := pemArmour.ReplaceAllString(entry.PublicKey, "")
	key = strings.NewReplacer("\r", "", "\n", "").Replace(key)
	return strings.TrimSpace(key), nil
}

func (s *TransitSigner) do(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build transit request: %w", err)
	}
	req.Header.Set("X-Vault-Token", s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("transit request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("transit request %s returned %d: %s", req.URL.Path, res.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode transit response: %w", err)
	}
	return nil
}
