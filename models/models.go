package models

import "time"

// Place is read-only reference data maintained by the content pipeline;
// the API never mutates it.
type Place struct {
	PlaceID      string    `json:"places_id" bson:"places_id"`
	Name         string    `json:"name" bson:"name"`
	ArabicName   string    `json:"arabic_name,omitempty" bson:"arabic_name,omitempty"`
	Description  string    `json:"description" bson:"description"`
	Address      string    `json:"address" bson:"address"`
	Location     string    `json:"location" bson:"location"`
	Category     string    `json:"category" bson:"category"`
	City         string    `json:"city" bson:"city"`
	Latitude     float64   `json:"latitude" bson:"latitude"`
	Longitude    float64   `json:"longitude" bson:"longitude"`
	Rating       float64   `json:"rating" bson:"rating"`
	Image        string    `json:"image" bson:"image"`
	ExternalLink string    `json:"external_link,omitempty" bson:"external_link,omitempty"`
	Tags         string    `json:"tags,omitempty" bson:"tags,omitempty"`
	MapsID       string    `json:"maps_id,omitempty" bson:"maps_id,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// PlaceSummary is the subset rendered in category carousels.
type PlaceSummary struct {
	PlaceID     string `json:"places_id" bson:"places_id"`
	Name        string `json:"name" bson:"name"`
	Category    string `json:"category" bson:"category"`
	Image       string `json:"image" bson:"image"`
	Description string `json:"description" bson:"description"`
}

type User struct {
	UserID        string    `json:"user_id" bson:"user_id"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	AvatarURL     string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	ResetToken    string    `json:"-" bson:"reset_token,omitempty"`
	ResetExpiry   time.Time `json:"-" bson:"reset_expiry,omitempty"`
	LastLogin     time.Time `json:"-" bson:"last_login,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// Trip statuses. At most one trip per user should be in_progress; the
// transition operation enforces this, not the database.
const (
	TripPlanned    = "planned"
	TripInProgress = "in_progress"
	TripCompleted  = "completed"
)

// GuestOwner is the sentinel user_id on trips the requesting user does
// not own but is invited to.
const GuestOwner = "guest"

type Trip struct {
	TripID      string     `json:"trip_id" bson:"trip_id"`
	UserID      string     `json:"user_id" bson:"user_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	StartDate   time.Time  `json:"start_date" bson:"start_date"`
	EndDate     time.Time  `json:"end_date" bson:"end_date"`
	Status      string     `json:"status" bson:"status"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
	Steps       []TripStep `json:"steps" bson:"-"`
}

// Step statuses. Only pending and visited are ever written; in_progress
// and skipped are declared in the schema but reserved.
const (
	StepPending    = "pending"
	StepInProgress = "in_progress"
	StepVisited    = "visited"
	StepSkipped    = "skipped"
)

type TripStep struct {
	StepID    string    `json:"step_id" bson:"step_id"`
	TripID    string    `json:"trip_id" bson:"trip_id"`
	PlaceID   string    `json:"place_id" bson:"place_id"`
	StepNum   int       `json:"step_num" bson:"step_num"`
	StartTime time.Time `json:"start_time" bson:"start_time"`
	EndTime   time.Time `json:"end_time" bson:"end_time"`
	Status    string    `json:"status" bson:"status"`
	Place     *Place    `json:"place,omitempty" bson:"-"`
}

const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteRejected = "rejected"
)

type TripGuest struct {
	ID      string `json:"id" bson:"id"`
	TripID  string `json:"trip_id" bson:"trip_id"`
	GuestID string `json:"guest_id" bson:"guest_id"`
	Status  string `json:"status" bson:"status"`
	Guest   *User  `json:"user,omitempty" bson:"-"`
}

type Bookmark struct {
	BookmarkID string    `json:"bookmark_id" bson:"bookmark_id"`
	PlaceID    string    `json:"place_id" bson:"place_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Interaction tri-state values. Each field is either the empty sentinel
// or one of two opposing qualitative values.
const (
	FeedbackEmpty = "empty"

	OverallAbove = "above"
	OverallBelow = "below"

	ExpenseCheap = "cheap"
	ExpenseHigh  = "high"

	ComfortComfortable = "comfortable"
	ComfortExhausting  = "exhausting"
)

type PlaceInteraction struct {
	ID      string `json:"id" bson:"id"`
	PlaceID string `json:"place_id" bson:"place_id"`
	UserID  string `json:"user_id" bson:"user_id"`
	Overall string `json:"overall" bson:"overall"`
	Expense string `json:"expense" bson:"expense"`
	Comfort string `json:"comfort" bson:"comfort"`
}

// InteractionCounts tallies the non-empty feedback values for one place.
type InteractionCounts struct {
	Above       int `json:"countAbove"`
	Below       int `json:"countBelow"`
	Cheap       int `json:"countCheap"`
	High        int `json:"countHigh"`
	Comfortable int `json:"countComfortable"`
	Exhausting  int `json:"countExhausting"`
}
