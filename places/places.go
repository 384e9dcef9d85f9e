// Package places serves the read-only points-of-interest catalog. Places
// are written by the content pipeline, never by this API.
package places

import (
	"context"
	"net/http"
	"time"

	"bena/db"
	"bena/models"
	"bena/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GET /api/places
func GetPlaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if city := r.URL.Query().Get("city"); city != "" {
		filter["city"] = city
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.PlacesCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching places")
		return
	}
	defer cursor.Close(ctx)

	var places []models.Place
	if err := cursor.All(ctx, &places); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error decoding places")
		return
	}
	if places == nil {
		places = []models.Place{}
	}

	utils.RespondWithJSON(w, http.StatusOK, places)
}

// GET /api/places/:placeid
func GetPlace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var place models.Place
	err := db.PlacesCollection.FindOne(ctx, bson.M{"places_id": ps.ByName("placeid")}).Decode(&place)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Place not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching place")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, place)
}

// CategoryGroup is one entry of the categorized home view: a category
// name mapped to its ordered places.
type CategoryGroup struct {
	Category string                `json:"category"`
	Count    int                   `json:"count"`
	Places   []models.PlaceSummary `json:"places"`
}

// GET /api/categories
// Categories are ordered by descending place count, places within each
// category by newest first.
func GetCategorizedPlaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	counts, err := categoryCounts(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}

	groups := make([]CategoryGroup, 0, len(counts))
	for _, entry := range counts {
		places, err := placesByCategory(ctx, entry.Category)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching category places")
			return
		}
		name := entry.Category
		if name == "" {
			name = "Other"
		}
		groups = append(groups, CategoryGroup{Category: name, Count: entry.Count, Places: places})
	}

	utils.RespondWithJSON(w, http.StatusOK, groups)
}

type categoryCount struct {
	Category string `bson:"_id"`
	Count    int    `bson:"count"`
}

func categoryCounts(ctx context.Context) ([]categoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err := db.PlacesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []categoryCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func placesByCategory(ctx context.Context, category string) ([]models.PlaceSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{
			"places_id":   1,
			"name":        1,
			"category":    1,
			"image":       1,
			"description": 1,
		})

	cursor, err := db.PlacesCollection.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var places []models.PlaceSummary
	if err := cursor.All(ctx, &places); err != nil {
		return nil, err
	}
	if places == nil {
		places = []models.PlaceSummary{}
	}
	return places, nil
}
