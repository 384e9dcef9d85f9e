package trips

import (
	"context"

	"bena/models"
)

// Store is the persistence boundary of the trip lifecycle. The mongo
// implementation lives in mongostore.go; tests use an in-memory fake.
type Store interface {
	// TripsByUser returns the user's own trips ordered by start_date ascending.
	TripsByUser(ctx context.Context, userID string) ([]models.Trip, error)
	// GuestTripsForUser returns the trips behind the user's invitation rows.
	GuestTripsForUser(ctx context.Context, userID string) ([]models.Trip, error)
	TripByID(ctx context.Context, tripID string) (models.Trip, error)
	InsertTrip(ctx context.Context, trip models.Trip) error
	SetTripStatus(ctx context.Context, tripID, status string) error
	// DemoteInProgress moves every in_progress trip of the user to planned.
	DemoteInProgress(ctx context.Context, userID string) error
	// DeleteTrip removes the trip row; steps and guest invitations cascade.
	DeleteTrip(ctx context.Context, tripID string) error

	// StepsByTrip returns steps ordered by step_num ascending.
	StepsByTrip(ctx context.Context, tripID string) ([]models.TripStep, error)
	InsertSteps(ctx context.Context, steps []models.TripStep) error
	SetStepStatus(ctx context.Context, stepID, status string) error
	StepNum(ctx context.Context, stepID string) (int, error)
	SetStepNum(ctx context.Context, stepID string, num int) error
	// DeleteStep removes the step; remaining step_num values are not renumbered.
	DeleteStep(ctx context.Context, stepID string) error

	PlaceByID(ctx context.Context, placeID string) (models.Place, error)

	UserByUsername(ctx context.Context, username string) (models.User, error)
	// InsertGuest returns ErrDuplicateInvite when the (trip, guest) pair exists.
	InsertGuest(ctx context.Context, guest models.TripGuest) error
	// GuestsByTrip returns invitation rows with guest profiles attached, unordered.
	GuestsByTrip(ctx context.Context, tripID string) ([]models.TripGuest, error)
}
