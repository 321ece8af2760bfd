package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/osmand-tracker/tracker/internal/core/domain"
)

const pointsCollection = "tracking_points"

// PointRepository implements ports.PointRepository on an append-only collection.
type PointRepository struct {
	coll *mongo.Collection
	// snapshot makes ListByOwner read inside a snapshot session. Requires a
	// replica set or sharded cluster.
	snapshot bool
}

func NewPointRepository(db *mongo.Database, snapshotReads bool) *PointRepository {
	return &PointRepository{coll: db.Collection(pointsCollection), snapshot: snapshotReads}
}

type mongoPoint struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Lat         float64            `bson:"lat"`
	Lon         float64            `bson:"lon"`
	Altitude    float64            `bson:"altitude"`
	Speed       float64            `bson:"speed"`
	HDOP        *float64           `bson:"hdop"`
	Bearing     string             `bson:"bearing"`
	TimestampMs int64              `bson:"timestamp_ms"`
	DeviceTS    time.Time          `bson:"device_ts"`
	ReceivedAt  time.Time          `bson:"received_at"`
}

// Insert writes one document. A single-document insert is atomic.
func (r *PointRepository) Insert(ctx context.Context, p *domain.TrackingPoint) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPoint{
		OwnerID:     p.Owner.String(),
		Lat:         p.Lat,
		Lon:         p.Lon,
		Altitude:    p.Altitude,
		Speed:       p.Speed,
		HDOP:        p.HDOP,
		Bearing:     p.Bearing,
		TimestampMs: p.Timestamp,
		DeviceTS:    p.DeviceTime,
		ReceivedAt:  p.ReceivedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("%w: insert point: %v", domain.ErrStorage, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

// ListByOwner returns every stored point of owner, newest device time first.
func (r *PointRepository) ListByOwner(ctx context.Context, owner domain.OwnerID) ([]domain.TrackingPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if r.snapshot {
		sess, err := r.coll.Database().Client().StartSession(options.Session().SetSnapshot(true))
		if err != nil {
			return nil, fmt.Errorf("%w: start snapshot session: %v", domain.ErrStorage, err)
		}
		defer sess.EndSession(ctx)
		ctx = mongo.NewSessionContext(ctx, sess)
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "device_ts", Value: -1},
		{Key: "received_at", Value: -1},
	})
	cur, err := r.coll.Find(ctx, bson.M{"owner_id": owner.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find points: %v", domain.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var docs []mongoPoint
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode points: %v", domain.ErrStorage, err)
	}

	points := make([]domain.TrackingPoint, len(docs))
	for i, d := range docs {
		points[i] = domain.TrackingPoint{
			ID:         d.ID.Hex(),
			Owner:      owner,
			Lat:        d.Lat,
			Lon:        d.Lon,
			Altitude:   d.Altitude,
			Speed:      d.Speed,
			HDOP:       d.HDOP,
			Bearing:    d.Bearing,
			Timestamp:  d.TimestampMs,
			DeviceTime: domain.DeviceTimeFromMillis(d.TimestampMs),
			ReceivedAt: d.ReceivedAt.UTC(),
		}
	}
	return points, nil
}

// EnsureIndexes creates the per-owner time index used by ListByOwner.
func (r *PointRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "device_ts", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
