package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resumeforge/resumeforge/internal/resume"
)

// MongoRepo stores one document per resume with the uuid as _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("create resumes index: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Create(ctx context.Context, rec *resume.Record) error {
	rec.ID = resume.NewID()
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	if _, err := m.col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

func (m *MongoRepo) List(ctx context.Context, ownerID string) ([]*resume.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find resumes: %w", err)
	}
	defer cur.Close(ctx)
	out := []*resume.Record{}
	for cur.Next(ctx) {
		var rec resume.Record
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode resume: %w", err)
		}
		out = append(out, &rec)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*resume.Record, error) {
	var rec resume.Record
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return &rec, nil
}

func (m *MongoRepo) Update(ctx context.Context, id string, d resume.Document) (*resume.Record, error) {
	next := resume.ToRecord("", d)
	set := bson.M{
		"title":         next.Title,
		"personal_info": next.PersonalInfo,
		"education":     next.Education,
		"skills":        next.Skills,
		"experience":    next.Experience,
		"projects":      next.Projects,
		"languages":     next.Languages,
		"updated_at":    time.Now().UTC(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec resume.Record
	err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update resume: %w", err)
	}
	return &rec, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
