// Package functions is the client for the remote serverless functions
// (search, nearby, recommendations, translation, AI trip generation).
// They are black boxes: JSON request in, JSON response out.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"bena/models"
)

var httpClient = &http.Client{Timeout: 25 * time.Second}

func baseURL() string {
	if url := os.Getenv("FUNCTIONS_URL"); url != "" {
		return url
	}
	return "http://localhost:8000"
}

// Invoke posts body to the named function and decodes the response into out.
func Invoke(ctx context.Context, name string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL()+"/"+name, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invoke %s: unexpected status %d", name, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func SearchPlaces(ctx context.Context, query string) ([]models.Place, error) {
	var resp struct {
		Result []models.Place `json:"result"`
	}
	if err := Invoke(ctx, "searchPlaces", map[string]string{"query": query}, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func FetchNearby(ctx context.Context, placeID string) ([]models.Place, error) {
	var resp struct {
		Nearby []models.Place `json:"nearby"`
	}
	if err := Invoke(ctx, "fetchNearby", map[string]string{"id": placeID}, &resp); err != nil {
		return nil, err
	}
	return resp.Nearby, nil
}

func FetchRecommendations(ctx context.Context, userID string) ([]models.Place, error) {
	var resp struct {
		Recommendations []models.Place `json:"recommendations"`
	}
	if err := Invoke(ctx, "fetchRecommendations", map[string]string{"id": userID}, &resp); err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

func Translate(ctx context.Context, text, target string) (string, error) {
	var resp struct {
		Translated string `json:"translated"`
	}
	req := map[string]string{"text": text, "target": target}
	if err := Invoke(ctx, "translate", req, &resp); err != nil {
		return "", err
	}
	return resp.Translated, nil
}

// TripProposal is the shape consumed from the AI generator: a title plus
// a list of place references, in visit order.
type TripProposal struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PlaceIDs    []string `json:"place_ids"`
}

func GenerateAITrip(ctx context.Context, prompt string) (TripProposal, error) {
	var proposal TripProposal
	err := Invoke(ctx, "generate_ai_trip", map[string]string{"prompt": prompt}, &proposal)
	return proposal, err
}
