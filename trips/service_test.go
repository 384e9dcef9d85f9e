package trips

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"bena/models"
)

// fakeStore is an in-memory Store used to exercise the lifecycle logic
// without a database.
type fakeStore struct {
	mu       sync.Mutex
	trips    map[string]*models.Trip
	steps    map[string]*models.TripStep
	places   map[string]models.Place
	users    map[string]models.User // keyed by username
	guests   []models.TripGuest
	guestErr error // forces GuestTripsForUser to fail
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		trips:  map[string]*models.Trip{},
		steps:  map[string]*models.TripStep{},
		places: map[string]models.Place{},
		users:  map[string]models.User{},
	}
}

func (f *fakeStore) TripsByUser(_ context.Context, userID string) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Trip
	for _, trip := range f.trips {
		if trip.UserID == userID {
			out = append(out, *trip)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeStore) GuestTripsForUser(_ context.Context, userID string) ([]models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.guestErr != nil {
		return nil, f.guestErr
	}
	var out []models.Trip
	for _, invite := range f.guests {
		if invite.GuestID != userID {
			continue
		}
		if trip, ok := f.trips[invite.TripID]; ok {
			out = append(out, *trip)
		}
	}
	return out, nil
}

func (f *fakeStore) TripByID(_ context.Context, tripID string) (models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok {
		return models.Trip{}, ErrTripNotFound
	}
	return *trip, nil
}

func (f *fakeStore) InsertTrip(_ context.Context, trip models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trips[trip.TripID] = &trip
	return nil
}

func (f *fakeStore) SetTripStatus(_ context.Context, tripID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[tripID]
	if !ok {
		return ErrTripNotFound
	}
	trip.Status = status
	return nil
}

func (f *fakeStore) DemoteInProgress(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, trip := range f.trips {
		if trip.UserID == userID && trip.Status == models.TripInProgress {
			trip.Status = models.TripPlanned
		}
	}
	return nil
}

func (f *fakeStore) DeleteTrip(_ context.Context, tripID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.trips[tripID]; !ok {
		return ErrTripNotFound
	}
	delete(f.trips, tripID)
	for id, step := range f.steps {
		if step.TripID == tripID {
			delete(f.steps, id)
		}
	}
	kept := f.guests[:0]
	for _, invite := range f.guests {
		if invite.TripID != tripID {
			kept = append(kept, invite)
		}
	}
	f.guests = kept
	return nil
}

func (f *fakeStore) StepsByTrip(_ context.Context, tripID string) ([]models.TripStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TripStep
	for _, step := range f.steps {
		if step.TripID == tripID {
			out = append(out, *step)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StepNum < out[j].StepNum })
	return out, nil
}

func (f *fakeStore) InsertSteps(_ context.Context, steps []models.TripStep) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, step := range steps {
		s := step
		f.steps[step.StepID] = &s
	}
	return nil
}

func (f *fakeStore) SetStepStatus(_ context.Context, stepID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	step, ok := f.steps[stepID]
	if !ok {
		return ErrStepNotFound
	}
	step.Status = status
	return nil
}

func (f *fakeStore) StepNum(_ context.Context, stepID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	step, ok := f.steps[stepID]
	if !ok {
		return 0, ErrStepNotFound
	}
	return step.StepNum, nil
}

func (f *fakeStore) SetStepNum(_ context.Context, stepID string, num int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	step, ok := f.steps[stepID]
	if !ok {
		return ErrStepNotFound
	}
	step.StepNum = num
	return nil
}

func (f *fakeStore) DeleteStep(_ context.Context, stepID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.steps[stepID]; !ok {
		return ErrStepNotFound
	}
	delete(f.steps, stepID)
	return nil
}

func (f *fakeStore) PlaceByID(_ context.Context, placeID string) (models.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	place, ok := f.places[placeID]
	if !ok {
		return models.Place{}, fmt.Errorf("place %s not found", placeID)
	}
	return place, nil
}

func (f *fakeStore) UserByUsername(_ context.Context, username string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return models.User{}, ErrGuestNotFound
	}
	return user, nil
}

func (f *fakeStore) InsertGuest(_ context.Context, guest models.TripGuest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.guests {
		if existing.TripID == guest.TripID && existing.GuestID == guest.GuestID {
			return ErrDuplicateInvite
		}
	}
	f.guests = append(f.guests, guest)
	return nil
}

func (f *fakeStore) GuestsByTrip(_ context.Context, tripID string) ([]models.TripGuest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TripGuest
	for _, invite := range f.guests {
		if invite.TripID == tripID {
			out = append(out, invite)
		}
	}
	return out, nil
}

// --- helpers ---

func addTrip(store *fakeStore, tripID, userID, status string, start time.Time) {
	store.trips[tripID] = &models.Trip{
		TripID:    tripID,
		UserID:    userID,
		Title:     "Trip " + tripID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		Status:    status,
	}
}

func addStep(store *fakeStore, stepID, tripID, placeID string, num int) {
	store.steps[stepID] = &models.TripStep{
		StepID:  stepID,
		TripID:  tripID,
		PlaceID: placeID,
		StepNum: num,
		Status:  models.StepPending,
	}
	if _, ok := store.places[placeID]; !ok {
		store.places[placeID] = models.Place{PlaceID: placeID, Name: "Place " + placeID}
	}
}

func activeCount(store *fakeStore, userID string) int {
	count := 0
	for _, trip := range store.trips {
		if trip.UserID == userID && trip.Status == models.TripInProgress {
			count++
		}
	}
	return count
}

var baseDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

// --- tests ---

func TestMarkAsInProgressLeavesSingleActiveTrip(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	addTrip(store, "t1", "u1", models.TripInProgress, baseDate)
	addTrip(store, "t2", "u1", models.TripPlanned, baseDate.AddDate(0, 0, 1))
	addTrip(store, "t3", "u1", models.TripCompleted, baseDate.AddDate(0, 0, 2))

	if err := svc.MarkAsInProgress(context.Background(), "u1", "t2"); err != nil {
		t.Fatalf("MarkAsInProgress: %v", err)
	}

	if got := activeCount(store, "u1"); got != 1 {
		t.Fatalf("expected exactly 1 in_progress trip, got %d", got)
	}
	if store.trips["t2"].Status != models.TripInProgress {
		t.Errorf("t2 status = %s, want in_progress", store.trips["t2"].Status)
	}
	if store.trips["t1"].Status != models.TripPlanned {
		t.Errorf("t1 status = %s, want planned", store.trips["t1"].Status)
	}
}

func TestMarkAsInProgressRepairsDoubleActiveAnomaly(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	// data anomaly: two trips already in_progress
	addTrip(store, "tA", "u1", models.TripInProgress, baseDate)
	addTrip(store, "tB", "u1", models.TripInProgress, baseDate.AddDate(0, 0, 1))
	addTrip(store, "tC", "u1", models.TripPlanned, baseDate.AddDate(0, 0, 2))

	if err := svc.MarkAsInProgress(context.Background(), "u1", "tC"); err != nil {
		t.Fatalf("MarkAsInProgress: %v", err)
	}

	if store.trips["tA"].Status != models.TripPlanned || store.trips["tB"].Status != models.TripPlanned {
		t.Errorf("anomaly trips not demoted: tA=%s tB=%s", store.trips["tA"].Status, store.trips["tB"].Status)
	}
	if store.trips["tC"].Status != models.TripInProgress {
		t.Errorf("tC status = %s, want in_progress", store.trips["tC"].Status)
	}
}

func TestMarkAsInProgressRequiresUser(t *testing.T) {
	svc := NewService(newFakeStore())
	if err := svc.MarkAsInProgress(context.Background(), "", "t1"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSwapStepsExchangesOnlyTheTwoNumbers(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	addTrip(store, "t1", "u1", models.TripPlanned, baseDate)
	addStep(store, "s1", "t1", "p1", 1)
	addStep(store, "s2", "t1", "p2", 2)
	addStep(store, "s3", "t1", "p3", 3)

	if err := svc.SwapSteps(context.Background(), "s1", "s3"); err != nil {
		t.Fatalf("SwapSteps: %v", err)
	}

	if store.steps["s1"].StepNum != 3 {
		t.Errorf("s1 step_num = %d, want 3", store.steps["s1"].StepNum)
	}
	if store.steps["s3"].StepNum != 1 {
		t.Errorf("s3 step_num = %d, want 1", store.steps["s3"].StepNum)
	}
	if store.steps["s2"].StepNum != 2 {
		t.Errorf("s2 step_num = %d, want unchanged 2", store.steps["s2"].StepNum)
	}
}

func TestSwapStepsCairoWeekendScenario(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	addTrip(store, "cairo", "u1", models.TripPlanned, baseDate)
	addStep(store, "stepA", "cairo", "placeA", 1)
	addStep(store, "stepB", "cairo", "placeB", 2)

	if err := svc.SwapSteps(context.Background(), "stepA", "stepB"); err != nil {
		t.Fatalf("SwapSteps: %v", err)
	}

	trips, err := svc.FetchAll(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	steps := trips[0].Steps
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	// refetch orders by step_num ascending: placeB now first
	if steps[0].PlaceID != "placeB" || steps[0].StepNum != 1 {
		t.Errorf("first step = %s@%d, want placeB@1", steps[0].PlaceID, steps[0].StepNum)
	}
	if steps[1].PlaceID != "placeA" || steps[1].StepNum != 2 {
		t.Errorf("second step = %s@%d, want placeA@2", steps[1].PlaceID, steps[1].StepNum)
	}
}

func TestSwapStepsUnknownStep(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	addTrip(store, "t1", "u1", models.TripPlanned, baseDate)
	addStep(store, "s1", "t1", "p1", 1)

	if err := svc.SwapSteps(context.Background(), "s1", "missing"); !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
	if store.steps["s1"].StepNum != 1 {
		t.Errorf("s1 step_num mutated to %d on failed swap", store.steps["s1"].StepNum)
	}
}

func TestDeleteTripCascades(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	addTrip(store, "t1", "u1", models.TripPlanned, baseDate)
	addStep(store, "s1", "t1", "p1", 1)
	addStep(store, "s2", "t1", "p2", 2)
	store.guests = append(store.guests, models.TripGuest{ID: "g1", TripID: "t1", GuestID: "u2", Status: models.InvitePending})

	if err := svc.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	trips, err := svc.FetchAll(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	for _, trip := range trips {
		if trip.TripID == "t1" {
			t.Error("deleted trip still present in aggregate")
		}
	}

	steps, _ := store.StepsByTrip(context.Background(), "t1")
	if len(steps) != 0 {
		t.Errorf("expected 0 steps after cascade, got %d", len(steps))
	}
	guests, _ := store.GuestsByTrip(context.Background(), "t1")
	if len(guests) != 0 {
		t.Errorf("expected 0 guest rows after cascade, got %d", len(guests))
	}
}

func TestDeleteStepDoesNotRenumber(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	addTrip(store, "t1", "u1", models.TripPlanned, baseDate)
	addStep(store, "s1", "t1", "p1", 1)
	addStep(store, "s2", "t1", "p2", 2)
	addStep(store, "s3", "t1", "p3", 3)

	if err := svc.DeleteStep(context.Background(), "s2"); err != nil {
		t.Fatalf("DeleteStep: %v", err)
	}

	steps, _ := store.StepsByTrip(context.Background(), "t1")
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	// the gap at step_num 2 is kept
	if steps[0].StepNum != 1 || steps[1].StepNum != 3 {
		t.Errorf("step numbers = %d,%d, want 1,3", steps[0].StepNum, steps[1].StepNum)
	}
}

func TestStepVisitedToggle(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	addTrip(store, "t1", "u1", models.TripPlanned, baseDate)
	addStep(store, "s1", "t1", "p1", 1)

	if err := svc.MarkStepVisited(context.Background(), "s1"); err != nil {
		t.Fatalf("MarkStepVisited: %v", err)
	}
	if store.steps["s1"].Status != models.StepVisited {
		t.Errorf("status = %s, want visited", store.steps["s1"].Status)
	}

	if err := svc.MarkStepPending(context.Background(), "s1"); err != nil {
		t.Fatalf("MarkStepPending: %v", err)
	}
	if store.steps["s1"].Status != models.StepPending {
		t.Errorf("status = %s, want pending", store.steps["s1"].Status)
	}
}

func TestCreateRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	store.places["p1"] = models.Place{PlaceID: "p1", Name: "Pyramids"}
	store.places["p2"] = models.Place{PlaceID: "p2", Name: "Citadel"}
	store.places["p3"] = models.Place{PlaceID: "p3", Name: "Khan el-Khalili"}

	input := CreateInput{
		Title:     "Cairo Weekend",
		StartDate: baseDate,
		EndDate:   baseDate.AddDate(0, 0, 2),
		Steps: []StepInput{
			{PlaceID: "p1"},
			{PlaceID: "p2"},
			{PlaceID: "p3"},
		},
	}
	created, err := svc.Create(context.Background(), "u1", input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.TripPlanned {
		t.Errorf("new trip status = %s, want planned", created.Status)
	}

	trips, err := svc.FetchAll(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}
	steps := trips[0].Steps
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	for i, step := range steps {
		if step.StepNum != i+1 {
			t.Errorf("step %d has step_num %d", i, step.StepNum)
		}
		if step.Place == nil {
			t.Errorf("step %d place not resolved", i)
		}
	}
	if steps[0].Place.Name != "Pyramids" {
		t.Errorf("first place = %s, want Pyramids", steps[0].Place.Name)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore())

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing title", CreateInput{StartDate: baseDate, EndDate: baseDate}},
		{"missing dates", CreateInput{Title: "x"}},
		{"end before start", CreateInput{Title: "x", StartDate: baseDate, EndDate: baseDate.AddDate(0, 0, -1)}},
		{"step without place", CreateInput{Title: "x", StartDate: baseDate, EndDate: baseDate, Steps: []StepInput{{}}}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), "u1", tc.input); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestFetchAllStatusOrderingAndGuestRelabel(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	addTrip(store, "done", "u1", models.TripCompleted, baseDate)
	addTrip(store, "soon", "u1", models.TripPlanned, baseDate.AddDate(0, 0, 1))
	addTrip(store, "now", "u1", models.TripInProgress, baseDate.AddDate(0, 0, 2))
	// a trip owned by someone else that u1 is invited to
	addTrip(store, "invited", "u2", models.TripPlanned, baseDate)
	store.guests = append(store.guests, models.TripGuest{ID: "g1", TripID: "invited", GuestID: "u1", Status: models.InvitePending})

	trips, err := svc.FetchAll(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(trips) != 4 {
		t.Fatalf("expected 4 trips, got %d", len(trips))
	}

	wantOrder := []string{"now", "soon", "invited", "done"}
	for i, want := range wantOrder {
		if trips[i].TripID != want {
			t.Errorf("position %d = %s, want %s", i, trips[i].TripID, want)
		}
	}

	for _, trip := range trips {
		if trip.TripID == "invited" && trip.UserID != models.GuestOwner {
			t.Errorf("guest trip user_id = %s, want %q", trip.UserID, models.GuestOwner)
		}
	}
}

func TestFetchAllGuestFailureDegrades(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	addTrip(store, "t1", "u1", models.TripPlanned, baseDate)
	store.guestErr = errors.New("guest table unavailable")

	trips, err := svc.FetchAll(context.Background(), "u1")
	if err != nil {
		t.Fatalf("guest failure must not abort the aggregation: %v", err)
	}
	if len(trips) != 1 || trips[0].TripID != "t1" {
		t.Fatalf("expected only the owned trip, got %d trips", len(trips))
	}
}

func TestFetchAllRequiresUser(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.FetchAll(context.Background(), ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestAddGuestDuplicate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	store.users["amr"] = models.User{UserID: "u2", Username: "amr"}

	if _, err := svc.AddGuest(context.Background(), "u1", "amr", "t1"); err != nil {
		t.Fatalf("first AddGuest: %v", err)
	}
	if _, err := svc.AddGuest(context.Background(), "u1", "amr", "t1"); !errors.Is(err, ErrDuplicateInvite) {
		t.Fatalf("expected ErrDuplicateInvite, got %v", err)
	}

	guests, err := svc.Guests(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Guests: %v", err)
	}
	if len(guests) != 1 {
		t.Fatalf("expected exactly 1 guest row, got %d", len(guests))
	}
	if guests[0].Status != models.InvitePending {
		t.Errorf("invite status = %s, want pending", guests[0].Status)
	}
}

func TestAddGuestSelfInvite(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	store.users["me"] = models.User{UserID: "u1", Username: "me"}

	if _, err := svc.AddGuest(context.Background(), "u1", "me", "t1"); !errors.Is(err, ErrSelfInvite) {
		t.Fatalf("expected ErrSelfInvite, got %v", err)
	}
	guests, _ := svc.Guests(context.Background(), "t1")
	if len(guests) != 0 {
		t.Fatalf("self invite inserted a row")
	}
}

func TestAddGuestUnknownUsername(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.AddGuest(context.Background(), "u1", "nobody", "t1"); !errors.Is(err, ErrGuestNotFound) {
		t.Fatalf("expected ErrGuestNotFound, got %v", err)
	}
}
