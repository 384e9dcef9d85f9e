package trips

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"bena/functions"
	"bena/utils"

	"github.com/julienschmidt/httprouter"
)

var service = NewService(NewMongoStore())

func handlerCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

// respondError maps service errors onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrTripNotFound), errors.Is(err, ErrStepNotFound), errors.Is(err, ErrGuestNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateInvite):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSelfInvite), errors.Is(err, ErrValidation):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// GET /api/trips
func GetTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	trips, err := service.FetchAll(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, trips)
}

// POST /api/trips
func CreateTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx, cancel := handlerCtx(r)
	defer cancel()

	trip, err := service.Create(ctx, utils.GetUserIDFromRequest(r), input)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, trip)
}

// POST /api/aitrips
// Asks the generation function for a title plus place references, then
// stores the result as a regular planned trip.
func CreateAITrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Prompt    string    `json:"prompt"`
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	proposal, err := functions.GenerateAITrip(ctx, req.Prompt)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	input := CreateInput{
		Title:       proposal.Title,
		Description: proposal.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	for _, placeID := range proposal.PlaceIDs {
		input.Steps = append(input.Steps, StepInput{PlaceID: placeID})
	}

	trip, err := service.Create(ctx, utils.GetUserIDFromRequest(r), input)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, trip)
}

// PUT /api/trips/:tripid/inprogress
func MarkTripInProgress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	err := service.MarkAsInProgress(ctx, utils.GetUserIDFromRequest(r), ps.ByName("tripid"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Trip marked as in progress"})
}

// PUT /api/trips/:tripid/planned
func MarkTripPlanned(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	if err := service.MarkAsPlanned(ctx, ps.ByName("tripid")); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Trip marked as planned"})
}

// PUT /api/trips/:tripid/completed
func MarkTripCompleted(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	if err := service.MarkAsCompleted(ctx, ps.ByName("tripid")); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Trip marked as completed"})
}

// DELETE /api/trips/:tripid
func DeleteTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	if err := service.Delete(ctx, ps.ByName("tripid")); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Trip deleted"})
}

// PUT /api/steps/:stepid/visited
func MarkStepVisited(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	if err := service.MarkStepVisited(ctx, ps.ByName("stepid")); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Step marked as visited"})
}

// PUT /api/steps/:stepid/pending
func MarkStepPending(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	if err := service.MarkStepPending(ctx, ps.ByName("stepid")); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Step marked as pending"})
}

// DELETE /api/steps/:stepid
func DeleteStep(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	if err := service.DeleteStep(ctx, ps.ByName("stepid")); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Step deleted"})
}

// POST /api/steps/swap
func SwapSteps(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		StepID1 string `json:"step_id_1"`
		StepID2 string `json:"step_id_2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.StepID1 == "" || req.StepID2 == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Two step ids are required")
		return
	}

	ctx, cancel := handlerCtx(r)
	defer cancel()

	if err := service.SwapSteps(ctx, req.StepID1, req.StepID2); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Steps swapped"})
}

// POST /api/trips/:tripid/guests
func AddGuest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username is required")
		return
	}

	ctx, cancel := handlerCtx(r)
	defer cancel()

	invite, err := service.AddGuest(ctx, utils.GetUserIDFromRequest(r), req.Username, ps.ByName("tripid"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, invite)
}

// GET /api/trips/:tripid/guests
func GetGuests(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := handlerCtx(r)
	defer cancel()

	guests, err := service.Guests(ctx, ps.ByName("tripid"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, guests)
}
