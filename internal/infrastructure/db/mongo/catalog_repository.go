package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/watergb/billing-system/internal/core/domain"
)

const (
	neighborhoodsCollection = "neighborhoods"
	squaresCollection       = "squares"
)

// NeighborhoodRepository persists neighborhoods with a unique name index.
type NeighborhoodRepository struct {
	coll *mongo.Collection
}

func NewNeighborhoodRepository(db *mongo.Database) *NeighborhoodRepository {
	return &NeighborhoodRepository{coll: db.Collection(neighborhoodsCollection)}
}

type mongoNeighborhood struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *NeighborhoodRepository) Create(ctx context.Context, n *domain.Neighborhood) (*domain.Neighborhood, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoNeighborhood{Name: n.Name, CreatedAt: n.CreatedAt.Unix()}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrNeighborhoodExists
		}
		return nil, fmt.Errorf("insert neighborhood: %w", err)
	}

	out := *n
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

func (r *NeighborhoodRepository) FindByID(ctx context.Context, id string) (*domain.Neighborhood, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNeighborhoodNotFound
	}

	var mn mongoNeighborhood
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mn); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNeighborhoodNotFound
		}
		return nil, fmt.Errorf("find neighborhood: %w", err)
	}
	return mn.toDomain(), nil
}

func (r *NeighborhoodRepository) List(ctx context.Context) ([]*domain.Neighborhood, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list neighborhoods: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Neighborhood
	for cur.Next(ctx) {
		var mn mongoNeighborhood
		if err := cur.Decode(&mn); err != nil {
			return nil, fmt.Errorf("decode neighborhood: %w", err)
		}
		out = append(out, mn.toDomain())
	}
	return out, cur.Err()
}

func (r *NeighborhoodRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (mn mongoNeighborhood) toDomain() *domain.Neighborhood {
	return &domain.Neighborhood{
		ID:        mn.ID.Hex(),
		Name:      mn.Name,
		CreatedAt: unixToTime(mn.CreatedAt),
	}
}

// SquareRepository persists squares. Square names are intentionally not
// unique; only the neighborhood_id lookup index exists.
type SquareRepository struct {
	coll *mongo.Collection
}

func NewSquareRepository(db *mongo.Database) *SquareRepository {
	return &SquareRepository{coll: db.Collection(squaresCollection)}
}

type mongoSquare struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	NeighborhoodID string             `bson:"neighborhood_id"`
	CreatedAt      int64              `bson:"created_at"`
}

func (r *SquareRepository) Create(ctx context.Context, s *domain.Square) (*domain.Square, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSquare{Name: s.Name, NeighborhoodID: s.NeighborhoodID, CreatedAt: s.CreatedAt.Unix()}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert square: %w", err)
	}

	out := *s
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

func (r *SquareRepository) FindByID(ctx context.Context, id string) (*domain.Square, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSquareNotFound
	}

	var ms mongoSquare
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSquareNotFound
		}
		return nil, fmt.Errorf("find square: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *SquareRepository) ListByNeighborhood(ctx context.Context, neighborhoodID string) ([]*domain.Square, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx,
		bson.M{"neighborhood_id": neighborhoodID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list squares: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Square
	for cur.Next(ctx) {
		var ms mongoSquare
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode square: %w", err)
		}
		out = append(out, ms.toDomain())
	}
	return out, cur.Err()
}

func (r *SquareRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "neighborhood_id", Value: 1}},
	})
	return err
}

func (ms mongoSquare) toDomain() *domain.Square {
	return &domain.Square{
		ID:             ms.ID.Hex(),
		Name:           ms.Name,
		NeighborhoodID: ms.NeighborhoodID,
		CreatedAt:      unixToTime(ms.CreatedAt),
	}
}
