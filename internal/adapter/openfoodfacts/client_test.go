package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fooddiary/internal/domain"
)

func TestLookupBarcode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/3017620422003", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"product":{"product_name":"Hazelnut spread","nutriments":{"energy_value":539,"serving_size":"15 g","serving_quantity":15}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	facts, err := c.LookupBarcode(context.Background(), "3017620422003")
	require.NoError(t, err)
	assert.Equal(t, "Hazelnut spread", facts.Name)
	assert.Equal(t, 539.0, facts.EnergyValue)
	assert.Equal(t, "15 g", facts.ServingSize)
	assert.Equal(t, 15.0, facts.ServingQuantity)
}

func TestLookupBarcode_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"status":0}`},
		{"server error", http.StatusInternalServerError, ``},
		{"bad json", http.StatusOK, `{"product":`},
		{"no product", http.StatusOK, `{"status":0}`},
		{"missing serving size", http.StatusOK, `{"product":{"nutriments":{"energy_value":10,"serving_quantity":1}}}`},
		{"wrong type", http.StatusOK, `{"product":{"nutriments":{"energy_value":"10","serving_size":"1 g","serving_quantity":1}}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, time.Second).LookupBarcode(context.Background(), "1")
			assert.ErrorIs(t, err, domain.ErrExternalLookup)
		})
	}
}

func TestLookupBarcode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 20*time.Millisecond).LookupBarcode(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrExternalLookup)
}
