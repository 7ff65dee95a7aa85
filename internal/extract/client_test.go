package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/parse", r.URL.Path)

		var req ParseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "chị Lan lấy 2kg cá", req.Text)
		assert.Contains(t, req.KnownProducts, "cá trác")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows":[{"name":"Chị Lan","phone":"0912345678","items":"cá trác2","price":"120"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out, err := c.Parse(context.Background(), ParseRequest{
		Text:          "chị Lan lấy 2kg cá",
		KnownProducts: []string{"cá trác", "gạo nếp"},
	})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "Chị Lan", out.Rows[0].Name)
	assert.Equal(t, "cá trác2", out.Rows[0].Items)
	assert.Equal(t, "120", out.Rows[0].Price.String())
}

func TestParseUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Parse(context.Background(), ParseRequest{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
