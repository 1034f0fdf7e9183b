package mongodb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mdfaizanahmed786/mongo-backend/internal/models"
	"github.com/mdfaizanahmed786/mongo-backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	notesCollection = "notes"
	defaultDBName   = "notes"
)

type Storage struct {
	client *mongo.Client
	db     *mongo.Database
	users  *mongo.Collection
	notes  *mongo.Collection
}

func New(ctx context.Context, storagePath string) (*Storage, error) {
	const op = "storage.mongodb.New"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(storagePath))
	if err != nil {
		return nil, fmt.Errorf("%s: connect: %w", op, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	db := client.Database(databaseFromURL(storagePath))
	s := &Storage{
		client: client,
		db:     db,
		users:  db.Collection(usersCollection),
		notes:  db.Collection(notesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ensureIndexes backs the email uniqueness invariant with a unique index.
func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("unique_email").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

func (s *Storage) SaveUser(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	const op = "storage.mongodb.SaveUser"

	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, storage.ErrUserExists
		}
		return primitive.NilObjectID, fmt.Errorf("%s: insert user: %w", op, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%s: unexpected inserted id type %T", op, res.InsertedID)
	}
	return id, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.mongodb.GetUserByEmail"

	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: find user: %w", op, err)
	}
	return &u, nil
}

// GetUser fetches a user by id with the password hash projected out.
func (s *Storage) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	const op = "storage.mongodb.GetUser"

	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: find user: %w", op, err)
	}
	return &u, nil
}

func (s *Storage) SaveNote(ctx context.Context, note models.Note) (*models.Note, error) {
	const op = "storage.mongodb.SaveNote"

	res, err := s.notes.InsertOne(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("%s: insert note: %w", op, err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected inserted id type %T", op, res.InsertedID)
	}
	note.ID = id
	return &note, nil
}

func (s *Storage) GetNote(ctx context.Context, id primitive.ObjectID) (*models.Note, error) {
	const op = "storage.mongodb.GetNote"

	var n models.Note
	err := s.notes.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: find note: %w", op, err)
	}
	return &n, nil
}

func (s *Storage) GetAllNotes(ctx context.Context, userID primitive.ObjectID) ([]models.Note, error) {
	const op = "storage.mongodb.GetAllNotes"

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.notes.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find notes: %w", op, err)
	}
	defer cur.Close(ctx)

	notes := []models.Note{}
	if err := cur.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("%s: decode notes: %w", op, err)
	}
	return notes, nil
}

// UpdateNote applies only the fields that are non-nil and returns the note as
// stored after the update. A call with neither field set is a plain read.
func (s *Storage) UpdateNote(ctx context.Context, id primitive.ObjectID, title, description *string) (*models.Note, error) {
	const op = "storage.mongodb.UpdateNote"

	set := bson.M{}
	if title != nil {
		set["title"] = *title
	}
	if description != nil {
		set["description"] = *description
	}
	if len(set) == 0 {
		return s.GetNote(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n models.Note
	err := s.notes.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: update note: %w", op, err)
	}
	return &n, nil
}

func (s *Storage) DeleteNote(ctx context.Context, id primitive.ObjectID) error {
	const op = "storage.mongodb.DeleteNote"

	res, err := s.notes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%s: delete note: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNoteNotFound
	}
	return nil
}

// databaseFromURL extracts the database name from the mongodb URI path,
// falling back to a default when the URI does not name one.
func databaseFromURL(storagePath string) string {
	u, err := url.Parse(storagePath)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
