package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "rently/internal/domain/availability"
	domainproperty "rently/internal/domain/property"
)

type BlockRepository struct {
	col *mongo.Collection
}

func NewBlockRepository(db *mongo.Database) *BlockRepository {
	return &BlockRepository{col: db.Collection("agg_block")}
}

func (r *BlockRepository) ByID(ctx context.Context, id domainavailability.BlockID) (*domainavailability.Block, error) {
	var doc blockDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainavailability.ErrBlockNotFound
		}
		return nil, err
	}
	block := doc.toEntity()
	return &block, nil
}

func (r *BlockRepository) ByProperty(ctx context.Context, propertyID domainproperty.PropertyID) ([]domainavailability.Block, error) {
	cur, err := r.col.Find(ctx, bson.M{"property_id": string(propertyID)})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domainavailability.Block
	for cur.Next(ctx) {
		var doc blockDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

func (r *BlockRepository) Save(ctx context.Context, block *domainavailability.Block) error {
	doc := newBlockDocument(block)
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, opts)
	return err
}

func (r *BlockRepository) Delete(ctx context.Context, id domainavailability.BlockID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainavailability.ErrBlockNotFound
	}
	return nil
}

type blockDocument struct {
	ID          string `bson:"_id"`
	PropertyID  string `bson:"property_id"`
	StartDate   int64  `bson:"start_date"`
	EndDate     int64  `bson:"end_date"`
	IsAvailable bool   `bson:"is_available"`
	Reason      string `bson:"reason"`
	CreatedAt   int64  `bson:"created_at"`
}

func newBlockDocument(b *domainavailability.Block) blockDocument {
	doc := blockDocument{
		ID:          string(b.ID),
		PropertyID:  string(b.PropertyID),
		StartDate:   b.StartDate.UnixMilli(),
		IsAvailable: b.IsAvailable,
		Reason:      b.Reason,
		CreatedAt:   b.CreatedAt.UnixMilli(),
	}
	if !b.EndDate.IsZero() {
		doc.EndDate = b.EndDate.UnixMilli()
	}
	return doc
}

func (d blockDocument) toEntity() domainavailability.Block {
	b := domainavailability.Block{
		ID:          domainavailability.BlockID(d.ID),
		PropertyID:  domainproperty.PropertyID(d.PropertyID),
		StartDate:   timestampToTime(d.StartDate),
		IsAvailable: d.IsAvailable,
		Reason:      d.Reason,
		CreatedAt:   timestampToTime(d.CreatedAt),
	}
	if d.EndDate != 0 {
		b.EndDate = timestampToTime(d.EndDate)
	}
	return b
}
