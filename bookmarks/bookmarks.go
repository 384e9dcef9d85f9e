package bookmarks

import (
	"context"
	"encoding/json"
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

// GET /api/bookmarks
// Returns the bookmarked places for the requesting user, newest first.
func GetBookmarks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.BookmarksCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching bookmarks")
		return
	}
	defer cursor.Close(ctx)

	var bookmarks []models.Bookmark
	if err := cursor.All(ctx, &bookmarks); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error decoding bookmarks")
		return
	}

	places := make([]models.Place, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		var place models.Place
		err := db.PlacesCollection.FindOne(ctx, bson.M{"places_id": bookmark.PlaceID}).Decode(&place)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				continue // bookmark to a removed place
			}
			utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching bookmarked place")
			return
		}
		places = append(places, place)
	}

	utils.RespondWithJSON(w, http.StatusOK, places)
}

// POST /api/bookmarks
func AddBookmark(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		PlaceID string `json:"place_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlaceID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "place_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bookmark := models.Bookmark{
		BookmarkID: utils.GetUUID(),
		PlaceID:    req.PlaceID,
		UserID:     userID,
		CreatedAt:  time.Now(),
	}
	if _, err := db.BookmarksCollection.InsertOne(ctx, bookmark); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error adding bookmark")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, bookmark)
}

// DELETE /api/bookmarks/:placeid
func RemoveBookmark(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := db.BookmarksCollection.DeleteOne(ctx, bson.M{
		"place_id": ps.ByName("placeid"),
		"user_id":  userID,
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error removing bookmark")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Bookmark removed"})
}
