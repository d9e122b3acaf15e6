// Package openfoodfacts looks up packaged products by barcode in the Open
// Food Facts database.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fooddiary/internal/domain"
)

// DefaultBaseURL is the public Open Food Facts API host.
const DefaultBaseURL = "https://world.openfoodfacts.net"

// maxBodySize caps how much of a product response is read.
const maxBodySize = 2 << 20

// Client implements domain.ProductLookup over the Open Food Facts v2 API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New returns a Client for baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type productResponse struct {
	Product *struct {
		ProductName string `json:"product_name"`
		Nutriments  *struct {
			EnergyValue     *float64 `json:"energy_value"`
			ServingSize     *string  `json:"serving_size"`
			ServingQuantity *float64 `json:"serving_quantity"`
		} `json:"nutriments"`
	} `json:"product"`
}

// LookupBarcode fetches the product registered under barcode. Every failure
// wraps domain.ErrExternalLookup.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.ProductFacts, error) {
	u := c.baseURL + "/api/v2/product/" + url.PathEscape(barcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrExternalLookup, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: call product api: %v", domain.ErrExternalLookup, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read product response: %v", domain.ErrExternalLookup, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: product api status %d", domain.ErrExternalLookup, resp.StatusCode)
	}

	var pr productResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("%w: parse product json: %v", domain.ErrExternalLookup, err)
	}
	if pr.Product == nil || pr.Product.Nutriments == nil {
		return nil, fmt.Errorf("%w: product %s has no nutriments", domain.ErrExternalLookup, barcode)
	}
	n := pr.Product.Nutriments
	if n.EnergyValue == nil || n.ServingSize == nil || n.ServingQuantity == nil {
		return nil, fmt.Errorf("%w: product %s is missing serving data", domain.ErrExternalLookup, barcode)
	}

	return &domain.ProductFacts{
		Name:            pr.Product.ProductName,
		EnergyValue:     *n.EnergyValue,
		ServingSize:     *n.ServingSize,
		ServingQuantity: *n.ServingQuantity,
	}, nil
}
