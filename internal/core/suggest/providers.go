package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
)

// Provider is one external photo search API. Providers without a configured
// credential report unavailable and are skipped, silently contributing
// zero results.
type Provider interface {
	Name() string
	Available() bool
	Search(ctx context.Context, query string, limit int) ([]Item, error)
}

// UnsplashProvider queries the Unsplash photo search API.
type UnsplashProvider struct {
	key    string
	client *resty.Client
}

// NewUnsplashProvider creates the Unsplash client. An empty key disables it.
func NewUnsplashProvider(key string) *UnsplashProvider {
	client := resty.New().
		SetBaseURL("https://api.unsplash.com").
		SetHeader("Accept-Version", "v1").
		SetHeader("Authorization", fmt.Sprintf("Client-ID %s", key))
	return &UnsplashProvider{key: key, client: client}
}

func (p *UnsplashProvider) Name() string    { return "unsplash" }
func (p *UnsplashProvider) Available() bool { return p.key != "" }

func (p *UnsplashProvider) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"per_page": strconv.Itoa(limit),
		}).
		Get("/search/photos")
	if err != nil {
		return nil, fmt.Errorf("unsplash request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unsplash returned status %d", resp.StatusCode())
	}

	var result struct {
		Results []struct {
			Width  int `json:"width"`
			Height int `json:"height"`
			URLs   struct {
				Regular string `json:"regular"`
				Thumb   string `json:"thumb"`
			} `json:"urls"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"results"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse unsplash response: %w", err)
	}

	items := make([]Item, 0, len(result.Results))
	for _, r := range result.Results {
		items = append(items, Item{
			URL:      r.URLs.Regular,
			ThumbURL: r.URLs.Thumb,
			Provider: p.Name(),
			Author:   r.User.Name,
			Width:    r.Width,
			Height:   r.Height,
		})
	}
	return items, nil
}

// PexelsProvider queries the Pexels photo search API.
type PexelsProvider struct {
	key    string
	client *resty.Client
}

// NewPexelsProvider creates the Pexels client. An empty key disables it.
func NewPexelsProvider(key string) *PexelsProvider {
	client := resty.New().
		SetBaseURL("https://api.pexels.com").
		SetHeader("Authorization", key)
	return &PexelsProvider{key: key, client: client}
}

func (p *PexelsProvider) Name() string    { return "pexels" }
func (p *PexelsProvider) Available() bool { return p.key != "" }

func (p *PexelsProvider) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"per_page": strconv.Itoa(limit),
		}).
		Get("/v1/search")
	if err != nil {
		return nil, fmt.Errorf("pexels request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("pexels returned status %d", resp.StatusCode())
	}

	var result struct {
		Photos []struct {
			Width        int    `json:"width"`
			Height       int    `json:"height"`
			Photographer string `json:"photographer"`
			Src          struct {
				Large string `json:"large"`
				Tiny  string `json:"tiny"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse pexels response: %w", err)
	}

	items := make([]Item, 0, len(result.Photos))
	for _, photo := range result.Photos {
		items = append(items, Item{
			URL:      photo.Src.Large,
			ThumbURL: photo.Src.Tiny,
			Provider: p.Name(),
			Author:   photo.Photographer,
			Width:    photo.Width,
			Height:   photo.Height,
		})
	}
	return items, nil
}

// PixabayProvider queries the Pixabay image search API.
type PixabayProvider struct {
	key    string
	client *resty.Client
}

// NewPixabayProvider creates the Pixabay client. An empty key disables it.
func NewPixabayProvider(key string) *PixabayProvider {
	client := resty.New().SetBaseURL("https://pixabay.com")
	return &PixabayProvider{key: key, client: client}
}

func (p *PixabayProvider) Name() string    { return "pixabay" }
func (p *PixabayProvider) Available() bool { return p.key != "" }

func (p *PixabayProvider) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":        p.key,
			"q":          query,
			"image_type": "photo",
			"per_page":   strconv.Itoa(limit),
		}).
		Get("/api/")
	if err != nil {
		return nil, fmt.Errorf("pixabay request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("pixabay returned status %d", resp.StatusCode())
	}

	var result struct {
		Hits []struct {
			WebformatURL    string `json:"webformatURL"`
			PreviewURL      string `json:"previewURL"`
			User            string `json:"user"`
			WebformatWidth  int    `json:"webformatWidth"`
			WebformatHeight int    `json:"webformatHeight"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse pixabay response: %w", err)
	}

	items := make([]Item, 0, len(result.Hits))
	for _, hit := range result.Hits {
		items = append(items, Item{
			URL:      hit.WebformatURL,
			ThumbURL: hit.PreviewURL,
			Provider: p.Name(),
			Author:   hit.User,
			Width:    hit.WebformatWidth,
			Height:   hit.WebformatHeight,
		})
	}
	return items, nil
}
