package suggest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsplashProviderParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "banana smoothie drink", r.URL.Query().Get("query"))
		assert.Equal(t, "4", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"width":800,"height":600,"urls":{"regular":"https://img.example/full.jpg","thumb":"https://img.example/thumb.jpg"},"user":{"name":"Ada"}}]}`))
	}))
	defer srv.Close()

	p := NewUnsplashProvider("test-key")
	p.client.SetBaseURL(srv.URL)

	items, err := p.Search(context.Background(), "banana smoothie drink", 4)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, Item{
		URL:      "https://img.example/full.jpg",
		ThumbURL: "https://img.example/thumb.jpg",
		Provider: "unsplash",
		Author:   "Ada",
		Width:    800,
		Height:   600,
	}, items[0])
}

func TestPexelsProviderParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "pexels-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"photos":[{"width":1024,"height":768,"photographer":"Grace","src":{"large":"https://img.example/large.jpg","tiny":"https://img.example/tiny.jpg"}}]}`))
	}))
	defer srv.Close()

	p := NewPexelsProvider("pexels-key")
	p.client.SetBaseURL(srv.URL)

	items, err := p.Search(context.Background(), "mango smoothie drink", 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://img.example/large.jpg", items[0].URL)
	assert.Equal(t, "Grace", items[0].Author)
	assert.Equal(t, "pexels", items[0].Provider)
}

func TestPixabayProviderParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		assert.Equal(t, "pixabay-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hits":[{"webformatURL":"https://img.example/web.jpg","previewURL":"https://img.example/preview.jpg","user":"Linus","webformatWidth":640,"webformatHeight":480}]}`))
	}))
	defer srv.Close()

	p := NewPixabayProvider("pixabay-key")
	p.client.SetBaseURL(srv.URL)

	items, err := p.Search(context.Background(), "kiwi smoothie drink", 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://img.example/web.jpg", items[0].URL)
	assert.Equal(t, "pixabay", items[0].Provider)
}

func TestProviderNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewUnsplashProvider("bad-key")
	p.client.SetBaseURL(srv.URL)

	_, err := p.Search(context.Background(), "banana", 1)
	assert.Error(t, err)
}

func TestProviderAvailability(t *testing.T) {
	assert.False(t, NewUnsplashProvider("").Available())
	assert.True(t, NewUnsplashProvider("k").Available())
	assert.False(t, NewPexelsProvider("").Available())
	assert.False(t, NewPixabayProvider("").Available())
}

func TestProviderHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	p := NewPexelsProvider("k")
	p.client.SetBaseURL(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Search(ctx, "banana", 1)
	assert.Error(t, err)
}
