package trips

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"bena/models"
	"bena/utils"
)

var nowFunc = time.Now

// Service holds the trip lifecycle operations. Every mutation leaves the
// store authoritative; callers converge by refetching the aggregate.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// FetchAll assembles the denormalized trip list for one user: own trips
// plus guest trips, grouped by status with in_progress first, each trip
// carrying its ordered steps and each step its resolved place.
func (s *Service) FetchAll(ctx context.Context, userID string) ([]models.Trip, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	trips, err := s.store.TripsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch trips: %w", err)
	}

	// Guest trips degrade to empty on failure; the owner list must not.
	guestTrips, err := s.store.GuestTripsForUser(ctx, userID)
	if err != nil {
		log.Printf("fetching guest trips for %s: %v", userID, err)
	} else {
		for i := range guestTrips {
			guestTrips[i].UserID = models.GuestOwner
		}
		trips = append(trips, guestTrips...)
	}

	ordered := groupByStatus(trips)

	for i := range ordered {
		steps, err := s.store.StepsByTrip(ctx, ordered[i].TripID)
		if err != nil {
			return nil, fmt.Errorf("fetch steps for trip %s: %w", ordered[i].TripID, err)
		}
		if err := s.resolvePlaces(ctx, steps); err != nil {
			return nil, err
		}
		if steps == nil {
			steps = []models.TripStep{}
		}
		ordered[i].Steps = steps
	}

	return ordered, nil
}

// groupByStatus partitions trips into in_progress, planned, completed and
// flattens them back in that fixed order. This is a display priority, not
// a timestamp sort; within each group the incoming order is kept.
func groupByStatus(trips []models.Trip) []models.Trip {
	grouped := map[string][]models.Trip{}
	for _, trip := range trips {
		switch trip.Status {
		case models.TripInProgress, models.TripPlanned, models.TripCompleted:
			grouped[trip.Status] = append(grouped[trip.Status], trip)
		}
	}

	ordered := make([]models.Trip, 0, len(trips))
	ordered = append(ordered, grouped[models.TripInProgress]...)
	ordered = append(ordered, grouped[models.TripPlanned]...)
	ordered = append(ordered, grouped[models.TripCompleted]...)
	return ordered
}

// resolvePlaces fans out one place lookup per step and waits for all of
// them. Still one round-trip per step rather than a batched $in query.
func (s *Service) resolvePlaces(ctx context.Context, steps []models.TripStep) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(steps))

	for i := range steps {
		wg.Add(1)
		go func(step *models.TripStep) {
			defer wg.Done()
			place, err := s.store.PlaceByID(ctx, step.PlaceID)
			if err != nil {
				errCh <- fmt.Errorf("resolve place %s: %w", step.PlaceID, err)
				return
			}
			step.Place = &place
		}(&steps[i])
	}

	wg.Wait()
	close(errCh)
	return <-errCh
}

// One returns a single trip with its ordered steps and resolved places.
func (s *Service) One(ctx context.Context, tripID string) (models.Trip, error) {
	trip, err := s.store.TripByID(ctx, tripID)
	if err != nil {
		return models.Trip{}, err
	}
	steps, err := s.store.StepsByTrip(ctx, tripID)
	if err != nil {
		return models.Trip{}, fmt.Errorf("fetch steps for trip %s: %w", tripID, err)
	}
	if err := s.resolvePlaces(ctx, steps); err != nil {
		return models.Trip{}, err
	}
	if steps == nil {
		steps = []models.TripStep{}
	}
	trip.Steps = steps
	return trip, nil
}

// StepInput is one ordered visit in a trip creation request.
type StepInput struct {
	PlaceID   string    `json:"place_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type CreateInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Steps       []StepInput `json:"steps"`
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	for _, step := range in.Steps {
		if step.PlaceID == "" {
			return fmt.Errorf("%w: step missing place_id", ErrValidation)
		}
	}
	return nil
}

// Create stores a planned trip with steps numbered 1..N in submitted order.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (models.Trip, error) {
	if userID == "" {
		return models.Trip{}, ErrNotAuthenticated
	}
	if err := in.validate(); err != nil {
		return models.Trip{}, err
	}

	now := nowFunc()
	trip := models.Trip{
		TripID:      utils.GetUUID(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      models.TripPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertTrip(ctx, trip); err != nil {
		return models.Trip{}, fmt.Errorf("insert trip: %w", err)
	}

	steps := make([]models.TripStep, len(in.Steps))
	for i, stepIn := range in.Steps {
		steps[i] = models.TripStep{
			StepID:    utils.GetUUID(),
			TripID:    trip.TripID,
			PlaceID:   stepIn.PlaceID,
			StepNum:   i + 1,
			StartTime: stepIn.StartTime,
			EndTime:   stepIn.EndTime,
			Status:    models.StepPending,
		}
	}
	if err := s.store.InsertSteps(ctx, steps); err != nil {
		return models.Trip{}, fmt.Errorf("insert steps: %w", err)
	}

	trip.Steps = steps
	return trip, nil
}

// MarkAsInProgress enforces the single-active-trip rule with two discrete
// writes: demote every other in_progress trip of the owner, then promote
// the target. Not transactional; a concurrent call can interleave between
// the two writes and the second caller wins.
func (s *Service) MarkAsInProgress(ctx context.Context, userID, tripID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if err := s.store.DemoteInProgress(ctx, userID); err != nil {
		return fmt.Errorf("demote active trips: %w", err)
	}
	return s.store.SetTripStatus(ctx, tripID, models.TripInProgress)
}

func (s *Service) MarkAsPlanned(ctx context.Context, tripID string) error {
	return s.store.SetTripStatus(ctx, tripID, models.TripPlanned)
}

func (s *Service) MarkAsCompleted(ctx context.Context, tripID string) error {
	return s.store.SetTripStatus(ctx, tripID, models.TripCompleted)
}

func (s *Service) Delete(ctx context.Context, tripID string) error {
	return s.store.DeleteTrip(ctx, tripID)
}

func (s *Service) MarkStepVisited(ctx context.Context, stepID string) error {
	return s.store.SetStepStatus(ctx, stepID, models.StepVisited)
}

func (s *Service) MarkStepPending(ctx context.Context, stepID string) error {
	return s.store.SetStepStatus(ctx, stepID, models.StepPending)
}

func (s *Service) DeleteStep(ctx context.Context, stepID string) error {
	return s.store.DeleteStep(ctx, stepID)
}

// SwapSteps exchanges the step_num of two steps: two reads then two
// writes, no compare-and-swap. Concurrent swaps on overlapping steps can
// interleave; the client throttles repeated triggers but correctness is
// not guaranteed under races.
func (s *Service) SwapSteps(ctx context.Context, stepID1, stepID2 string) error {
	num1, err := s.store.StepNum(ctx, stepID1)
	if err != nil {
		return err
	}
	num2, err := s.store.StepNum(ctx, stepID2)
	if err != nil {
		return err
	}

	if err := s.store.SetStepNum(ctx, stepID1, num2); err != nil {
		return err
	}
	return s.store.SetStepNum(ctx, stepID2, num1)
}

// AddGuest invites a user by username to a trip. Duplicate invitations
// surface as ErrDuplicateInvite from the store's uniqueness constraint.
func (s *Service) AddGuest(ctx context.Context, userID, username, tripID string) (models.TripGuest, error) {
	if userID == "" {
		return models.TripGuest{}, ErrNotAuthenticated
	}

	guest, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return models.TripGuest{}, err
	}
	if guest.UserID == userID {
		return models.TripGuest{}, ErrSelfInvite
	}

	invite := models.TripGuest{
		ID:      utils.GetUUID(),
		TripID:  tripID,
		GuestID: guest.UserID,
		Status:  models.InvitePending,
	}
	if err := s.store.InsertGuest(ctx, invite); err != nil {
		return models.TripGuest{}, err
	}
	return invite, nil
}

func (s *Service) Guests(ctx context.Context, tripID string) ([]models.TripGuest, error) {
	guests, err := s.store.GuestsByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("fetch guests: %w", err)
	}
	if guests == nil {
		guests = []models.TripGuest{}
	}
	return guests, nil
}
