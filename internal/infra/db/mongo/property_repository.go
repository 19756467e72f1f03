package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperty "rently/internal/domain/property"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("agg_property")}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.PropertyID) (*domainproperty.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	doc := newPropertyDocument(p)
	filter := bson.M{"_id": doc.ID, "version": p.Version}
	doc.Version = p.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	p.Version = doc.Version
	return nil
}

type propertyDocument struct {
	ID               string `bson:"_id"`
	LandlordID       string `bson:"landlord_id"`
	Status           string `bson:"status"`
	UnderMaintenance bool   `bson:"under_maintenance"`
	UnavailableFrom  int64  `bson:"unavailable_from"`
	UnavailableTo    int64  `bson:"unavailable_to"`
	MinimumStayDays  int    `bson:"minimum_stay_days"`
	RequiresApproval bool   `bson:"requires_approval"`
	CreatedAt        int64  `bson:"created_at"`
	UpdatedAt        int64  `bson:"updated_at"`
	Version          int64  `bson:"version"`
}

func newPropertyDocument(p *domainproperty.Property) propertyDocument {
	doc := propertyDocument{
		ID:               string(p.ID),
		LandlordID:       p.LandlordID,
		Status:           string(p.Status),
		UnderMaintenance: p.IsUnderMaintenance,
		MinimumStayDays:  p.MinimumStayDays,
		RequiresApproval: p.RequiresApproval,
		CreatedAt:        p.CreatedAt.UnixMilli(),
		UpdatedAt:        p.UpdatedAt.UnixMilli(),
		Version:          p.Version,
	}
	if p.UnavailableFrom != nil {
		doc.UnavailableFrom = p.UnavailableFrom.UnixMilli()
	}
	if p.UnavailableTo != nil {
		doc.UnavailableTo = p.UnavailableTo.UnixMilli()
	}
	return doc
}

func (d propertyDocument) toAggregate() *domainproperty.Property {
	p := &domainproperty.Property{
		ID:                 domainproperty.PropertyID(d.ID),
		LandlordID:         d.LandlordID,
		Status:             domainproperty.Status(d.Status),
		IsUnderMaintenance: d.UnderMaintenance,
		MinimumStayDays:    d.MinimumStayDays,
		RequiresApproval:   d.RequiresApproval,
		CreatedAt:          timestampToTime(d.CreatedAt),
		UpdatedAt:          timestampToTime(d.UpdatedAt),
		Version:            d.Version,
	}
	if d.UnavailableFrom != 0 {
		from := timestampToTime(d.UnavailableFrom)
		p.UnavailableFrom = &from
	}
	if d.UnavailableTo != 0 {
		to := timestampToTime(d.UnavailableTo)
		p.UnavailableTo = &to
	}
	return p
}
