package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchPlacesDecodesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/searchPlaces" {
			t.Errorf("path = %s, want /searchPlaces", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["query"] != "pyramids" {
			t.Errorf("query = %s, want pyramids", req["query"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"places_id": "p1", "name": "Great Pyramid"},
			},
		})
	}))
	defer server.Close()
	t.Setenv("FUNCTIONS_URL", server.URL)

	places, err := SearchPlaces(context.Background(), "pyramids")
	if err != nil {
		t.Fatalf("SearchPlaces: %v", err)
	}
	if len(places) != 1 || places[0].Name != "Great Pyramid" {
		t.Fatalf("unexpected places: %+v", places)
	}
}

func TestGenerateAITripDecodesProposal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TripProposal{
			Title:    "Cairo Weekend",
			PlaceIDs: []string{"p1", "p2"},
		})
	}))
	defer server.Close()
	t.Setenv("FUNCTIONS_URL", server.URL)

	proposal, err := GenerateAITrip(context.Background(), "two days in cairo")
	if err != nil {
		t.Fatalf("GenerateAITrip: %v", err)
	}
	if proposal.Title != "Cairo Weekend" || len(proposal.PlaceIDs) != 2 {
		t.Fatalf("unexpected proposal: %+v", proposal)
	}
}

func TestInvokeNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()
	t.Setenv("FUNCTIONS_URL", server.URL)

	if _, err := Translate(context.Background(), "hello", "ar"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
