package trips

import (
	"context"

	"bena/db"
	"bena/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store over the shared mongo collections.
type MongoStore struct{}

func NewMongoStore() *MongoStore {
	return &MongoStore{}
}

func (s *MongoStore) TripsByUser(ctx context.Context, userID string) ([]models.Trip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := db.TripsCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (s *MongoStore) GuestTripsForUser(ctx context.Context, userID string) ([]models.Trip, error) {
	cursor, err := db.TripsGuestsCollection.Find(ctx, bson.M{"guest_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invites []models.TripGuest
	if err := cursor.All(ctx, &invites); err != nil {
		return nil, err
	}

	// One trip lookup per invitation row, mirroring the per-row join
	// the mobile client issued.
	var trips []models.Trip
	for _, invite := range invites {
		var trip models.Trip
		err := db.TripsCollection.FindOne(ctx, bson.M{"trip_id": invite.TripID}).Decode(&trip)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				continue // invitation to a since-deleted trip
			}
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

func (s *MongoStore) TripByID(ctx context.Context, tripID string) (models.Trip, error) {
	var trip models.Trip
	err := db.TripsCollection.FindOne(ctx, bson.M{"trip_id": tripID}).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		return trip, ErrTripNotFound
	}
	return trip, err
}

func (s *MongoStore) InsertTrip(ctx context.Context, trip models.Trip) error {
	_, err := db.TripsCollection.InsertOne(ctx, trip)
	return err
}

func (s *MongoStore) SetTripStatus(ctx context.Context, tripID, status string) error {
	res, err := db.TripsCollection.UpdateOne(ctx,
		bson.M{"trip_id": tripID},
		bson.M{"$set": bson.M{"status": status, "updated_at": nowFunc()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTripNotFound
	}
	return nil
}

func (s *MongoStore) DemoteInProgress(ctx context.Context, userID string) error {
	_, err := db.TripsCollection.UpdateMany(ctx,
		bson.M{"user_id": userID, "status": models.TripInProgress},
		bson.M{"$set": bson.M{"status": models.TripPlanned, "updated_at": nowFunc()}},
	)
	return err
}

func (s *MongoStore) DeleteTrip(ctx context.Context, tripID string) error {
	res, err := db.TripsCollection.DeleteOne(ctx, bson.M{"trip_id": tripID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrTripNotFound
	}
	// Cascade: the store layer owns referential cleanup.
	if _, err := db.TripStepCollection.DeleteMany(ctx, bson.M{"trip_id": tripID}); err != nil {
		return err
	}
	_, err = db.TripsGuestsCollection.DeleteMany(ctx, bson.M{"trip_id": tripID})
	return err
}

func (s *MongoStore) StepsByTrip(ctx context.Context, tripID string) ([]models.TripStep, error) {
	opts := options.Find().SetSort(bson.D{{Key: "step_num", Value: 1}})
	cursor, err := db.TripStepCollection.Find(ctx, bson.M{"trip_id": tripID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var steps []models.TripStep
	if err := cursor.All(ctx, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func (s *MongoStore) InsertSteps(ctx context.Context, steps []models.TripStep) error {
	if len(steps) == 0 {
		return nil
	}
	docs := make([]interface{}, len(steps))
	for i, step := range steps {
		docs[i] = step
	}
	_, err := db.TripStepCollection.InsertMany(ctx, docs)
	return err
}

func (s *MongoStore) SetStepStatus(ctx context.Context, stepID, status string) error {
	res, err := db.TripStepCollection.UpdateOne(ctx,
		bson.M{"step_id": stepID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStepNotFound
	}
	return nil
}

func (s *MongoStore) StepNum(ctx context.Context, stepID string) (int, error) {
	var step models.TripStep
	err := db.TripStepCollection.FindOne(ctx, bson.M{"step_id": stepID}).Decode(&step)
	if err == mongo.ErrNoDocuments {
		return 0, ErrStepNotFound
	}
	if err != nil {
		return 0, err
	}
	return step.StepNum, nil
}

func (s *MongoStore) SetStepNum(ctx context.Context, stepID string, num int) error {
	res, err := db.TripStepCollection.UpdateOne(ctx,
		bson.M{"step_id": stepID},
		bson.M{"$set": bson.M{"step_num": num}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStepNotFound
	}
	return nil
}

func (s *MongoStore) DeleteStep(ctx context.Context, stepID string) error {
	res, err := db.TripStepCollection.DeleteOne(ctx, bson.M{"step_id": stepID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrStepNotFound
	}
	return nil
}

func (s *MongoStore) PlaceByID(ctx context.Context, placeID string) (models.Place, error) {
	var place models.Place
	err := db.PlacesCollection.FindOne(ctx, bson.M{"places_id": placeID}).Decode(&place)
	return place, err
}

func (s *MongoStore) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return user, ErrGuestNotFound
	}
	return user, err
}

func (s *MongoStore) InsertGuest(ctx context.Context, guest models.TripGuest) error {
	_, err := db.TripsGuestsCollection.InsertOne(ctx, guest)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateInvite
	}
	return err
}

func (s *MongoStore) GuestsByTrip(ctx context.Context, tripID string) ([]models.TripGuest, error) {
	cursor, err := db.TripsGuestsCollection.Find(ctx, bson.M{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var guests []models.TripGuest
	if err := cursor.All(ctx, &guests); err != nil {
		return nil, err
	}

	for i := range guests {
		var user models.User
		err := db.UserCollection.FindOne(ctx, bson.M{"user_id": guests[i].GuestID}).Decode(&user)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				continue
			}
			return nil, err
		}
		guests[i].Guest = &user
	}
	return guests, nil
}
