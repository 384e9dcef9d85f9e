package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	PlacesCollection      *mongo.Collection
	TripsCollection       *mongo.Collection
	TripStepCollection    *mongo.Collection
	BookmarksCollection   *mongo.Collection
	TripsGuestsCollection *mongo.Collection
	InteractionCollection *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("benadb")
	UserCollection = database.Collection("users")
	PlacesCollection = database.Collection("places")
	TripsCollection = database.Collection("trips")
	TripStepCollection = database.Collection("tripstep")
	BookmarksCollection = database.Collection("bookmarks")
	TripsGuestsCollection = database.Collection("trips_guests")
	InteractionCollection = database.Collection("place_user_interactions")

	ensureIndexes()
}

// ensureIndexes creates the uniqueness constraints the handlers rely on:
// one invitation per (trip, guest) pair and unique usernames.
func ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Client.Ping(ctx, nil); err != nil {
		log.Printf("mongo not reachable, skipping index setup: %v", err)
		return
	}

	unique := options.Index().SetUnique(true)

	_, err := TripsGuestsCollection.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
		Keys:    bson.D{{Key: "trip_id", Value: 1}, {Key: "guest_id", Value: 1}},
		Options: unique,
	})
	if err != nil {
		log.Printf("trips_guests index: %v", err)
	}

	_, err = UserCollection.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: unique,
	})
	if err != nil {
		log.Printf("users index: %v", err)
	}
}
