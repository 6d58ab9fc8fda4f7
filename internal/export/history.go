package export

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is the metadata kept for every successful export.
type Record struct {
	ID        string    `bson:"_id" json:"id"`
	ResumeID  string    `bson:"resumeId" json:"resumeId"`
	UserID    string    `bson:"userId" json:"userId"`
	FileName  string    `bson:"fileName" json:"fileName"`
	ObjectKey string    `bson:"objectKey,omitempty" json:"objectKey,omitempty"`
	Pages     int       `bson:"pages" json:"pages"`
	Size      int       `bson:"size" json:"size"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type History interface {
	Save(ctx context.Context, rec *Record) error
	// List returns the exports of one resume, newest first.
	List(ctx context.Context, resumeID string) ([]Record, error)
}

type MemoryHistory struct {
	mu   sync.Mutex
	recs map[string][]Record
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{recs: make(map[string][]Record)}
}

func (h *MemoryHistory) Save(_ context.Context, rec *Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recs[rec.ResumeID] = append(h.recs[rec.ResumeID], *rec)
	return nil
}

func (h *MemoryHistory) List(_ context.Context, resumeID string) ([]Record, error) {
	h.mu.Lock()
	out := append([]Record(nil), h.recs[resumeID]...)
	h.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MongoHistory stores records in the "exports" collection.
type MongoHistory struct {
	col *mongo.Collection
}

func NewMongoHistory(db *mongo.Database) *MongoHistory {
	return &MongoHistory{col: db.Collection("exports")}
}

func (h *MongoHistory) Save(ctx context.Context, rec *Record) error {
	opts := options.Update().SetUpsert(true)
	if _, err := h.col.UpdateOne(ctx, bson.M{"_id": rec.ID}, bson.M{"$set": rec}, opts); err != nil {
		return fmt.Errorf("save export record: %w", err)
	}
	return nil
}

func (h *MongoHistory) List(ctx context.Context, resumeID string) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := h.col.Find(ctx, bson.M{"resumeId": resumeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer cur.Close(ctx)
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode exports: %w", err)
	}
	return out, nil
}
