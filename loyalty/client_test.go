package loyalty

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loyalty-reporter/generic"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Token: "tok-123"}, nil)
	require.NoError(t, err)
	return client
}

func TestNewClient_ConfigErrors(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://example.test"}, nil)
	assert.ErrorIs(t, err, generic.ErrMissingCredentials)

	_, err = NewClient(Config{Token: "tok"}, nil)
	assert.ErrorIs(t, err, generic.ErrMissingBaseURL)
}

func TestClient_SendsAuthAndVersionHeaders(t *testing.T) {
	var got http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"data": []}`))
	})

	_, err := client.List(context.Background(), "clubs")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, DefaultAPIVersion, got.Get("api-version"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestClient_ListPage_SetsPaginationParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("perPage"))
		w.Write([]byte(`{"data": [{"id": 1}, {"id": 2}]}`))
	})

	records, err := client.ListPage(context.Background(), "rewards", 3, 50)
	require.NoError(t, err)
	require.Len(t, records, 2)

	id, ok := records[0].ID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestClient_MergesBakedInQuery(t *testing.T) {
	// Endpoints like "groups/product?statistics=true" already carry query
	// parameters; pagination must merge, not clobber.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("statistics"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(`{"data": []}`))
	})

	_, err := client.ListPage(context.Background(), "groups/product?statistics=true", 1, 100)
	require.NoError(t, err)
}

func TestClient_RepeatedQueryValuesSurvive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.ElementsMatch(t, []string{"draft", "active"}, r.URL.Query()["status"])
		w.Write([]byte(`{"data": []}`))
	})

	_, err := client.List(context.Background(), "promotions?status=draft&status=active")
	require.NoError(t, err)
}

func TestClient_Detail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tierSets/7", r.URL.Path)
		w.Write([]byte(`{"data": {"id": 7, "name": "Gold"}}`))
	})

	rec, err := client.Detail(context.Background(), "tierSets/7")
	require.NoError(t, err)
	assert.Equal(t, "Gold", rec.String("name"))
}

func TestClient_DetailNullData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null}`))
	})

	rec, err := client.Detail(context.Background(), "tierSets/9")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestClient_Non2xxIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	_, err := client.List(context.Background(), "clubs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
