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
	"github.com/watergb/billing-system/internal/core/ports"
)

const housesCollection = "houses"

// HouseRepository persists houses. House numbers are unique per square via a
// compound unique index.
type HouseRepository struct {
	coll *mongo.Collection
}

func NewHouseRepository(db *mongo.Database) *HouseRepository {
	return &HouseRepository{coll: db.Collection(housesCollection)}
}

type mongoHouse struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	HouseNumber     string             `bson:"house_number"`
	OwnerName       string             `bson:"owner_name"`
	OwnerPhone      string             `bson:"owner_phone"`
	IsOccupied      bool               `bson:"is_occupied"`
	HasPaid         bool               `bson:"has_paid"`
	PaymentType     string             `bson:"payment_type"`
	RequiredAmount  int64              `bson:"required_amount"`
	LastPaymentDate *time.Time         `bson:"last_payment_date,omitempty"`
	ReceiptImage    string             `bson:"receipt_image,omitempty"`
	SquareID        string             `bson:"square_id"`
	CreatedAt       int64              `bson:"created_at"`
	UpdatedAt       int64              `bson:"updated_at"`
}

func (r *HouseRepository) Create(ctx context.Context, h *domain.House) (*domain.House, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, fromDomainHouse(h))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateHouse
		}
		return nil, fmt.Errorf("insert house: %w", err)
	}

	out := *h
	out.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &out, nil
}

func (r *HouseRepository) FindByID(ctx context.Context, id string) (*domain.House, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrHouseNotFound
	}

	var mh mongoHouse
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mh); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrHouseNotFound
		}
		return nil, fmt.Errorf("find house: %w", err)
	}
	return mh.toDomain(), nil
}

func (r *HouseRepository) FindBySquareAndNumber(ctx context.Context, squareID, houseNumber string) (*domain.House, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mh mongoHouse
	err := r.coll.FindOne(ctx, bson.M{"square_id": squareID, "house_number": houseNumber}).Decode(&mh)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrHouseNotFound
		}
		return nil, fmt.Errorf("find house by number: %w", err)
	}
	return mh.toDomain(), nil
}

func (r *HouseRepository) ListBySquare(ctx context.Context, squareID string) ([]*domain.House, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx,
		bson.M{"square_id": squareID},
		options.Find().SetSort(bson.D{{Key: "house_number", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list houses: %w", err)
	}
	defer cur.Close(ctx)
	return decodeHouses(ctx, cur)
}

func (r *HouseRepository) Update(ctx context.Context, id string, upd ports.HouseUpdate) (*domain.House, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrHouseNotFound
	}

	set := bson.M{
		"house_number":    upd.HouseNumber,
		"owner_name":      upd.OwnerName,
		"owner_phone":     upd.OwnerPhone,
		"is_occupied":     upd.IsOccupied,
		"has_paid":        upd.HasPaid,
		"payment_type":    string(upd.PaymentType),
		"required_amount": upd.RequiredAmount,
		"receipt_image":   upd.ReceiptImage,
		"updated_at":      time.Now().UTC().Unix(),
	}

	var mh mongoHouse
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mh)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrHouseNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateHouse
		}
		return nil, fmt.Errorf("update house: %w", err)
	}
	return mh.toDomain(), nil
}

func (r *HouseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrHouseNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete house: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrHouseNotFound
	}
	return nil
}

// ListOccupied returns every billable house. Unoccupied houses never enter a
// billing cycle.
func (r *HouseRepository) ListOccupied(ctx context.Context) ([]*domain.House, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"is_occupied": true})
	if err != nil {
		return nil, fmt.Errorf("list occupied houses: %w", err)
	}
	defer cur.Close(ctx)
	return decodeHouses(ctx, cur)
}

// ResetPayment clears one house's payment state in a single update, so each
// house is its own atomic unit and a batch never needs a cross-record
// transaction.
func (r *HouseRepository) ResetPayment(ctx context.Context, id string, amount int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrHouseNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$set": bson.M{
				"has_paid":        false,
				"required_amount": amount,
				"updated_at":      time.Now().UTC().Unix(),
			},
			"$unset": bson.M{"last_payment_date": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("reset payment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrHouseNotFound
	}
	return nil
}

func (r *HouseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "square_id", Value: 1}, {Key: "house_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "is_occupied", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeHouses(ctx context.Context, cur *mongo.Cursor) ([]*domain.House, error) {
	var out []*domain.House
	for cur.Next(ctx) {
		var mh mongoHouse
		if err := cur.Decode(&mh); err != nil {
			return nil, fmt.Errorf("decode house: %w", err)
		}
		out = append(out, mh.toDomain())
	}
	return out, cur.Err()
}

func fromDomainHouse(h *domain.House) mongoHouse {
	return mongoHouse{
		HouseNumber:     h.HouseNumber,
		OwnerName:       h.OwnerName,
		OwnerPhone:      h.OwnerPhone,
		IsOccupied:      h.IsOccupied,
		HasPaid:         h.HasPaid,
		PaymentType:     string(h.PaymentType),
		RequiredAmount:  h.RequiredAmount,
		LastPaymentDate: h.LastPaymentDate,
		ReceiptImage:    h.ReceiptImage,
		SquareID:        h.SquareID,
		CreatedAt:       h.CreatedAt.Unix(),
		UpdatedAt:       h.UpdatedAt.Unix(),
	}
}

func (mh mongoHouse) toDomain() *domain.House {
	return &domain.House{
		ID:              mh.ID.Hex(),
		HouseNumber:     mh.HouseNumber,
		OwnerName:       mh.OwnerName,
		OwnerPhone:      mh.OwnerPhone,
		IsOccupied:      mh.IsOccupied,
		HasPaid:         mh.HasPaid,
		PaymentType:     domain.PaymentType(mh.PaymentType),
		RequiredAmount:  mh.RequiredAmount,
		LastPaymentDate: mh.LastPaymentDate,
		ReceiptImage:    mh.ReceiptImage,
		SquareID:        mh.SquareID,
		CreatedAt:       unixToTime(mh.CreatedAt),
		UpdatedAt:       unixToTime(mh.UpdatedAt),
	}
}
