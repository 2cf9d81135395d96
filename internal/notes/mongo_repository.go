package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) NoteRepository {
	return &mongoRepository{collection: db.Collection("notes")}
}

func (m *mongoRepository) List(ctx context.Context) ([]*Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*Note
	for cursor.Next(ctx) {
		var doc noteDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode note: %w", err)
		}
		out = append(out, doc.toNote())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}

func (m *mongoRepository) Get(ctx context.Context, id string) (*Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoteNotFound
	}

	var doc noteDocument
	err = m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return doc.toNote(), nil
}

func (m *mongoRepository) Create(ctx context.Context, note *Note) error {
	note.CreatedAt = time.Now()

	res, err := m.collection.InsertOne(ctx, noteDocument{
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		note.ID = oid.Hex()
	}
	return nil
}

func (m *mongoRepository) Update(ctx context.Context, note *Note) error {
	oid, err := primitive.ObjectIDFromHex(note.ID)
	if err != nil {
		return ErrNoteNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":   note.Title,
		"content": note.Content,
	}}
	res, err := m.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (m *mongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoteNotFound
	}

	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// noteDocument keeps the mongo shape separate from the API shape so
// the object id round-trips cleanly.
type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title,omitempty"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d noteDocument) toNote() *Note {
	return &Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}
