package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"srv_contratos/validators"

	"github.com/labstack/gommon/log"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

var (
	ErrInvalidCode = errors.New("CEP deve conter 8 dígitos.")
	ErrNotFound    = errors.New("CEP não encontrado.")
	ErrUnavailable = errors.New("Erro ao consultar ViaCEP.")
)

// Address is the upstream payload, passed through unchanged
type Address map[string]interface{}

// Client looks up Brazilian postal codes on a ViaCEP-compatible service
type Client struct {
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
}

// NewClient creates a client with a request timeout and a result cache.
// A zero cacheTTL disables caching.
func NewClient(baseURL string, timeout, cacheTTL time.Duration) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
	if cacheTTL > 0 {
		c.cache = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return c
}

// Lookup normalizes code to digits and fetches its address
func (c *Client) Lookup(ctx context.Context, code string) (Address, error) {
	digits, ok := validators.NormalizePostalCode(code)
	if !ok {
		return nil, ErrInvalidCode
	}

	if c.cache != nil {
		if cached, found := c.cache.Get(digits); found {
			return cached.(Address), nil
		}
	}

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("[POSTAL] Request for %s failed: %v", digits, err)
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	// ViaCEP answers 400 for malformed codes, which normalization already rules out
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		log.Warnf("[POSTAL] Upstream returned %d for %s", resp.StatusCode, digits)
		return nil, errors.Wrapf(ErrUnavailable, "upstream status %d", resp.StatusCode)
	}

	var address Address
	if err := json.NewDecoder(resp.Body).Decode(&address); err != nil {
		return nil, errors.Wrap(ErrUnavailable, "invalid upstream payload")
	}
	if notFound(address) {
		return nil, ErrNotFound
	}

	if c.cache != nil {
		c.cache.SetDefault(digits, address)
	}
	return address, nil
}

// notFound reports the {"erro": true} marker; some deployments send it as a string
func notFound(address Address) bool {
	switch v := address["erro"].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
