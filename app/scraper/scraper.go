package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Result is one discovered business, pre-normalized for lead creation.
type Result struct {
	Name         string
	Address      string
	City         string
	Province     string
	Phone        string
	Website      *string
	GmbURL       *string
	PlaceID      *string
	Rating       *float64
	ReviewsCount *int
	PhotosCount  *int
}

// Scraper discovers business candidates for a keyword in a city.
type Scraper interface {
	Search(ctx context.Context, keyword, city string, limit int) ([]Result, error)
}

// SerpAPIScraper queries SerpAPI's Google Maps engine.
type SerpAPIScraper struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

var _ Scraper = (*SerpAPIScraper)(nil)

func NewSerpAPIScraper(httpClient *http.Client, apiKey string) *SerpAPIScraper {
	return &SerpAPIScraper{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    "https://serpapi.com/search.json",
	}
}

type serpAPIResponse struct {
	LocalResults []serpAPIPlace `json:"local_results"`
	Error        string         `json:"error"`
}

type serpAPIPlace struct {
	Title   string   `json:"title"`
	Address string   `json:"address"`
	Phone   string   `json:"phone"`
	Website string   `json:"website"`
	PlaceID string   `json:"place_id"`
	Rating  *float64 `json:"rating"`
	Reviews *int     `json:"reviews"`
	Photos  *int     `json:"photos"`
}

// Search runs one Maps query. Unknown cities still search by name; known
// cities get coordinate-anchored results.
func (s *SerpAPIScraper) Search(ctx context.Context, keyword, cityName string, limit int) ([]Result, error) {
	if limit < 1 {
		limit = 20
	}

	query := fmt.Sprintf("%s %s Argentina", keyword, cityName)

	params := url.Values{}
	params.Set("engine", "google_maps")
	params.Set("q", query)
	params.Set("type", "search")
	params.Set("hl", "es")
	params.Set("api_key", s.apiKey)

	city, known := LookupCity(cityName)
	if known {
		params.Set("ll", fmt.Sprintf("@%f,%f,14z", city.Lat, city.Lng))
	}

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed serpAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("search API error: %s", parsed.Error)
	}

	results := make([]Result, 0, limit)
	for _, place := range parsed.LocalResults {
		if len(results) >= limit {
			break
		}
		result := Result{
			Name:         place.Title,
			Address:      place.Address,
			City:         cityName,
			Phone:        place.Phone,
			Rating:       place.Rating,
			ReviewsCount: place.Reviews,
			PhotosCount:  place.Photos,
		}
		if known {
			result.City = city.Name
			result.Province = city.Province
		}
		if place.Website != "" {
			website := place.Website
			result.Website = &website
		}
		if place.PlaceID != "" {
			placeID := place.PlaceID
			result.PlaceID = &placeID
			gmbURL := "https://www.google.com/maps/place/?q=place_id:" + placeID
			result.GmbURL = &gmbURL
		}
		results = append(results, result)
	}

	return results, nil
}

// WithBaseURL points the client at a different endpoint; used by tests.
func (s *SerpAPIScraper) WithBaseURL(baseURL string) *SerpAPIScraper {
	s.baseURL = baseURL
	return s
}
