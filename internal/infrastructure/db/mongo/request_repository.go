package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

const collectionRequests = "service_requests"

// terminalStatuses are the states with no outgoing transitions.
var terminalStatuses = bson.A{domain.StatusCompleted, domain.StatusCancelled}

// RequestRepository persists service requests. All lifecycle transitions are
// conditional single-document updates: the filter re-states the expected
// precondition, so a concurrent writer that got there first makes the update
// match nothing instead of clobbering it.
type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, req)
	return err
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var req domain.ServiceRequest
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// ListByClient returns the client's own requests, newest first.
func (r *RequestRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.ServiceRequest, error) {
	return r.list(ctx, bson.M{"client_id": clientID})
}

// ListByTechnician returns requests assigned to the technician, newest first.
func (r *RequestRepository) ListByTechnician(ctx context.Context, technicianID string) ([]*domain.ServiceRequest, error) {
	return r.list(ctx, bson.M{"technician_id": technicianID})
}

// ListAvailable returns unassigned pending requests, newest first. The nil
// match on technician_id covers both a missing field and an explicit null.
// A non-empty skills set restricts results to exactly matching service types.
func (r *RequestRepository) ListAvailable(ctx context.Context, skills []string) ([]*domain.ServiceRequest, error) {
	filter := bson.M{
		"status":        domain.StatusPending,
		"technician_id": nil,
	}
	if len(skills) > 0 {
		filter["service_type"] = bson.M{"$in": skills}
	}
	return r.list(ctx, filter)
}

func (r *RequestRepository) list(ctx context.Context, filter bson.M) ([]*domain.ServiceRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.ServiceRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Accept binds technicianID and moves pending → accepted, only while the
// request is still pending and unassigned.
func (r *RequestRepository) Accept(ctx context.Context, id, technicianID string, now time.Time) (bool, error) {
	return r.conditionalUpdate(ctx,
		bson.M{"_id": id, "status": domain.StatusPending, "technician_id": nil},
		bson.M{"status": domain.StatusAccepted, "technician_id": technicianID, "updated_at": now},
	)
}

// Start moves accepted → in_progress for the bound technician.
func (r *RequestRepository) Start(ctx context.Context, id, technicianID string, now time.Time) (bool, error) {
	return r.conditionalUpdate(ctx,
		bson.M{"_id": id, "status": domain.StatusAccepted, "technician_id": technicianID},
		bson.M{"status": domain.StatusInProgress, "updated_at": now},
	)
}

// Complete moves in_progress → completed for the bound technician, writing
// the quoted price and completion notes in the same update.
func (r *RequestRepository) Complete(ctx context.Context, id, technicianID string, price int64, notes string, now time.Time) (bool, error) {
	return r.conditionalUpdate(ctx,
		bson.M{"_id": id, "status": domain.StatusInProgress, "technician_id": technicianID},
		bson.M{
			"status":           domain.StatusCompleted,
			"quoted_price":     price,
			"technician_notes": notes,
			"updated_at":       now,
		},
	)
}

// Cancel moves pending → cancelled for the owning client.
func (r *RequestRepository) Cancel(ctx context.Context, id, clientID string, now time.Time) (bool, error) {
	return r.conditionalUpdate(ctx,
		bson.M{"_id": id, "status": domain.StatusPending, "client_id": clientID},
		bson.M{"status": domain.StatusCancelled, "updated_at": now},
	)
}

// UpdateNotes replaces the technician notes while the request is not terminal.
func (r *RequestRepository) UpdateNotes(ctx context.Context, id, notes string, now time.Time) (bool, error) {
	return r.conditionalUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$nin": terminalStatuses}},
		bson.M{"technician_notes": notes, "updated_at": now},
	)
}

// HasActive reports whether the user is bound to any non-terminal request,
// as client or as technician.
func (r *RequestRepository) HasActive(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"status": bson.M{"$nin": terminalStatuses},
		"$or": bson.A{
			bson.M{"client_id": userID},
			bson.M{"technician_id": userID},
		},
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RequestRepository) conditionalUpdate(ctx context.Context, filter, set bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// EnsureIndexes creates necessary indexes on the service_requests collection.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		// Serves the matching query: pending, unassigned, newest first.
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "technician_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "technician_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
