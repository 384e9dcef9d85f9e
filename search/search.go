// Package search proxies the remote search/nearby/recommendation
// functions, with a redis cache in front of each.
package search

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bena/functions"
	"bena/models"
	"bena/rdx"
	"bena/utils"

	"github.com/julienschmidt/httprouter"
)

const cacheTTL = 5 * time.Minute

func cachedPlaces(ctx context.Context, key string, fetch func(context.Context) ([]models.Place, error)) ([]models.Place, error) {
	if cached := rdx.CacheGet(key); cached != "" {
		var places []models.Place
		if err := json.Unmarshal([]byte(cached), &places); err == nil {
			return places, nil
		}
	}

	places, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(places); err == nil {
		rdx.CacheSet(key, string(payload), cacheTTL)
	}
	return places, nil
}

// GET /api/search?q=
func SearchPlaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("q")
	if query == "" {
		utils.RespondWithJSON(w, http.StatusOK, []models.Place{})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	places, err := cachedPlaces(ctx, "search:"+query, func(ctx context.Context) ([]models.Place, error) {
		return functions.SearchPlaces(ctx, query)
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	if places == nil {
		places = []models.Place{}
	}

	utils.RespondWithJSON(w, http.StatusOK, places)
}

// GET /api/places/:placeid/nearby
func NearbyPlaces(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	placeID := ps.ByName("placeid")

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	places, err := cachedPlaces(ctx, "nearby:"+placeID, func(ctx context.Context) ([]models.Place, error) {
		return functions.FetchNearby(ctx, placeID)
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	if places == nil {
		places = []models.Place{}
	}

	utils.RespondWithJSON(w, http.StatusOK, places)
}

// GET /api/recommendations
func Recommendations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	places, err := cachedPlaces(ctx, "recommend:"+userID, func(ctx context.Context) ([]models.Place, error) {
		return functions.FetchRecommendations(ctx, userID)
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	if places == nil {
		places = []models.Place{}
	}

	utils.RespondWithJSON(w, http.StatusOK, places)
}

// POST /api/translate
func Translate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Text   string `json:"text"`
		Target string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Text is required")
		return
	}
	if req.Target == "" {
		req.Target = "ar"
	}

	cacheKey := "translate:" + req.Target + ":" + req.Text
	if cached := rdx.CacheGet(cacheKey); cached != "" {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"translated": cached})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	translated, err := functions.Translate(ctx, req.Text, req.Target)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	rdx.CacheSet(cacheKey, translated, cacheTTL)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"translated": translated})
}
