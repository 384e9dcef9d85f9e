// Package interactions stores per-user, per-place feedback: three
// independent tri-state fields, each the empty sentinel or one of two
// opposing values.
package interactions

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
)

var validValues = map[string]map[string]bool{
	"overall": {models.FeedbackEmpty: true, models.OverallAbove: true, models.OverallBelow: true},
	"expense": {models.FeedbackEmpty: true, models.ExpenseCheap: true, models.ExpenseHigh: true},
	"comfort": {models.FeedbackEmpty: true, models.ComfortComfortable: true, models.ComfortExhausting: true},
}

// ensureInteraction creates the row on first write. Existence check then
// insert, not an atomic upsert; a concurrent first write can race, which
// the unique-less schema tolerates (the later update targets both rows).
func ensureInteraction(ctx context.Context, placeID, userID string) error {
	filter := bson.M{"place_id": placeID, "user_id": userID}
	err := db.InteractionCollection.FindOne(ctx, filter).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	record := models.PlaceInteraction{
		ID:      utils.GetUUID(),
		PlaceID: placeID,
		UserID:  userID,
		Overall: models.FeedbackEmpty,
		Expense: models.FeedbackEmpty,
		Comfort: models.FeedbackEmpty,
	}
	_, err = db.InteractionCollection.InsertOne(ctx, record)
	return err
}

// GET /api/interactions/:placeid
func GetInteraction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.InteractionCollection.Find(ctx, bson.M{
		"place_id": ps.ByName("placeid"),
		"user_id":  userID,
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching interactions")
		return
	}
	defer cursor.Close(ctx)

	var records []models.PlaceInteraction
	if err := cursor.All(ctx, &records); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error decoding interactions")
		return
	}
	if records == nil {
		records = []models.PlaceInteraction{}
	}

	utils.RespondWithJSON(w, http.StatusOK, records)
}

// PUT /api/interactions/:placeid
// Accepts any subset of {overall, expense, comfort}.
func UpdateInteraction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updates := bson.M{}
	for field, value := range req {
		allowed, ok := validValues[field]
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown feedback field: "+field)
			return
		}
		if !allowed[value] {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid value for "+field)
			return
		}
		updates[field] = value
	}
	if len(updates) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No feedback fields provided")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	placeID := ps.ByName("placeid")
	if err := ensureInteraction(ctx, placeID, userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error creating interaction")
		return
	}

	_, err := db.InteractionCollection.UpdateMany(ctx,
		bson.M{"place_id": placeID, "user_id": userID},
		bson.M{"$set": updates},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error updating interaction")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Interaction updated"})
}

// GET /api/interactions/:placeid/counts
// Tallies the non-empty feedback values across all users of a place.
func GetInteractionCounts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.InteractionCollection.Find(ctx, bson.M{"place_id": ps.ByName("placeid")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching interactions")
		return
	}
	defer cursor.Close(ctx)

	var counts models.InteractionCounts
	for cursor.Next(ctx) {
		var record models.PlaceInteraction
		if err := cursor.Decode(&record); err != nil {
			continue
		}
		switch record.Overall {
		case models.OverallAbove:
			counts.Above++
		case models.OverallBelow:
			counts.Below++
		}
		switch record.Expense {
		case models.ExpenseCheap:
			counts.Cheap++
		case models.ExpenseHigh:
			counts.High++
		}
		switch record.Comfort {
		case models.ComfortComfortable:
			counts.Comfortable++
		case models.ComfortExhausting:
			counts.Exhausting++
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, counts)
}
