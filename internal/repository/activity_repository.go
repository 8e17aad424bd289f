package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollection = "activity"

// Activity is one entry of a member's activity log.
type Activity struct {
	ID        string         `bson:"_id" json:"id"`
	Type      string         `bson:"type" json:"type"`
	SubjectID string         `bson:"subject_id" json:"subject_id"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Details   map[string]any `bson:"details,omitempty" json:"details,omitempty"`
}

// ActivityRepository appends and lists activity entries.
type ActivityRepository interface {
	Append(ctx context.Context, entry Activity) error
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]Activity, error)
}

type mongoActivityRepository struct {
	coll *mongo.Collection
}

// NewActivityRepository returns a MongoDB-backed implementation.
func NewActivityRepository(db *mongo.Database) ActivityRepository {
	return &mongoActivityRepository{coll: db.Collection(activityCollection)}
}

func (r *mongoActivityRepository) Append(ctx context.Context, entry Activity) error {
	_, err := r.coll.InsertOne(ctx, entry)
	return err
}

func (r *mongoActivityRepository) ListBySubject(ctx context.Context, subjectID string, limit int) ([]Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{"subject_id": subjectID}, opts)
	if err != nil {
		return nil, err
	}
	out := []Activity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type memoryActivityRepository struct {
	mu      sync.RWMutex
	entries []Activity
}

// NewMemoryActivityRepository returns a process-local ActivityRepository.
func NewMemoryActivityRepository() ActivityRepository {
	return &memoryActivityRepository{}
}

func (r *memoryActivityRepository) Append(_ context.Context, entry Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memoryActivityRepository) ListBySubject(_ context.Context, subjectID string, limit int) ([]Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Activity{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].SubjectID == subjectID {
			out = append(out, r.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
