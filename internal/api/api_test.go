package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/platform/memory"
	"github.com/phrazzld/shop-api/internal/service/product"
	"github.com/phrazzld/shop-api/internal/service/review"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "test-host/10.0.0.1:8080"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	products, err := product.NewService(memory.NewProductStore(), testAddress, nil)
	require.NoError(t, err)
	reviews, err := review.NewService(memory.NewReviewStore(), testAddress, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Products: products,
		Reviews:  reviews,
		Gatherer: prometheus.NewRegistry(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func decodeError(t *testing.T, body []byte) shared.HTTPErrorInfo {
	t.Helper()
	var info shared.HTTPErrorInfo
	require.NoError(t, json.Unmarshal(body, &info))
	return info
}

func TestProductLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/product", `{"productId":1,"name":"Tests","weight":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var created ProductResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, ProductResponse{ProductID: 1, Name: "Tests", Weight: 1}, created)

	resp, body = do(t, srv, http.MethodPost, "/product", `{"productId":1,"name":"Tests","weight":1}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	info := decodeError(t, body)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", info.Status)
	assert.Equal(t, "/product", info.Path)
	assert.Equal(t, "Duplicate key, Product Id: 1", info.Message)
	assert.False(t, info.Timestamp.IsZero())

	resp, body = do(t, srv, http.MethodGet, "/product/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got ProductResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, testAddress, got.ServiceAddress)

	resp, body = do(t, srv, http.MethodPut, "/product/1", `{"name":"Tested","weight":2,"version":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated ProductResponse
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, 1, updated.Version)

	resp, body = do(t, srv, http.MethodPut, "/product/1", `{"name":"Stale write","weight":2,"version":0}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeError(t, body).Status)

	resp, _ = do(t, srv, http.MethodDelete, "/product/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodDelete, "/product/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/product/1", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No product found for productId: 1", decodeError(t, body).Message)
}

func TestProductRequestErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{"malformed json", http.MethodPost, "/product", `{"productId":`, http.StatusBadRequest, msgMalformedRequest},
		{"missing fields", http.MethodPost, "/product", `{"name":"Tests"}`, http.StatusBadRequest,
			"productId: must not be null, weight: must not be null"},
		{"domain violations", http.MethodPost, "/product", `{"productId":-1,"name":"Bad","weight":0}`,
			http.StatusUnprocessableEntity,
			"productId: must be greater than or equal to 0, name: size must be between 5 and 100, " +
				"weight: must be greater than or equal to 1"},
		{"type mismatch", http.MethodGet, "/product/abc", "", http.StatusBadRequest, msgTypeMismatch},
		{"invalid key", http.MethodGet, "/product/-1", "", http.StatusUnprocessableEntity, "Invalid productId: -1"},
		{"path body mismatch", http.MethodPut, "/product/1", `{"productId":2,"name":"Tests","weight":1}`,
			http.StatusBadRequest, "productId in path and body differ."},
		{"update missing", http.MethodPut, "/product/9", `{"name":"Tests","weight":1}`,
			http.StatusNotFound, "No product found for productId: 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, tt.method, tt.path, tt.body)

			require.Equal(t, tt.status, resp.StatusCode, string(body))
			assert.Equal(t, tt.message, decodeError(t, body).Message)
		})
	}
}

func reviewBody(productID, reviewID int, extra string) string {
	content := strings.Repeat("c", 50)
	b, _ := json.Marshal(map[string]any{
		"productId": productID,
		"reviewId":  reviewID,
		"author":    "author",
		"subject":   "subject",
		"content":   content,
		"rating":    4,
		"date":      "2024-03-09",
	})
	if extra == "" {
		return string(b)
	}
	return strings.TrimSuffix(string(b), "}") + "," + extra + "}"
}

func TestReviewLifecycle(t *testing.T) {
	srv := newTestServer(t)

	for _, id := range []int{2, 1} {
		resp, body := do(t, srv, http.MethodPost, "/review", reviewBody(1, id, ""))
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}

	resp, body := do(t, srv, http.MethodPost, "/review", reviewBody(1, 1, ""))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Duplicate key, Product Id: 1, Review Id:1", decodeError(t, body).Message)

	resp, body = do(t, srv, http.MethodGet, "/review?productId=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []ReviewResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ReviewID)
	assert.Equal(t, "2024-03-09", list[0].Date)
	assert.Equal(t, testAddress, list[0].ServiceAddress)

	resp, body = do(t, srv, http.MethodPut, "/review", reviewBody(1, 1, `"version":0,"rating":5`))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = do(t, srv, http.MethodDelete, "/review?productId=1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/review?productId=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestReviewRequestErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/review", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	info := decodeError(t, body)
	assert.Equal(t, "BAD_REQUEST", info.Status)
	assert.Equal(t, "Required query parameter 'productId' is not present.", info.Message)

	resp, body = do(t, srv, http.MethodDelete, "/review?productId=x", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, msgTypeMismatch, decodeError(t, body).Message)

	resp, body = do(t, srv, http.MethodPost, "/review", reviewBody(1, 1, `"date":"03/09/2024"`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "date: must be a date formatted as 2006-01-02", decodeError(t, body).Message)

	resp, body = do(t, srv, http.MethodPut, "/review", reviewBody(1, 7, ""))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No review found for productId: 1, reviewId: 7", decodeError(t, body).Message)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, _ = do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// brokenProducts fails every delete with a transient driver error.
type brokenProducts struct{ ProductService }

func (brokenProducts) DeleteProducts(context.Context, int) error {
	return errors.New("dial tcp 10.1.2.3:5432: connection refused")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	srv := httptest.NewServer(NewRouter(RouterConfig{Products: brokenProducts{}}))
	defer srv.Close()

	resp, body := do(t, srv, http.MethodDelete, "/product/1", "")

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	info := decodeError(t, body)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", info.Status)
	assert.Equal(t, msgUnexpected, info.Message)
	assert.NotContains(t, string(body), "10.1.2.3")
}
