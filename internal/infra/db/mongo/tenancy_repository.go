package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domaintenancy "rently/internal/domain/tenancy"
)

type TenancyRepository struct {
	col *mongo.Collection
}

func NewTenancyRepository(db *mongo.Database) *TenancyRepository {
	return &TenancyRepository{col: db.Collection("agg_tenancy")}
}

func (r *TenancyRepository) ActiveByProperty(ctx context.Context, propertyID string, asOf time.Time) ([]domaintenancy.Tenant, error) {
	filter := bson.M{
		"property_id": propertyID,
		"status":      string(domaintenancy.StatusActive),
		"$or": []bson.M{
			{"lease_end": 0},
			{"lease_end": bson.M{"$gte": asOf.UnixMilli()}},
		},
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domaintenancy.Tenant
	for cur.Next(ctx) {
		var doc tenancyDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

type tenancyDocument struct {
	ID         string `bson:"_id"`
	PropertyID string `bson:"property_id"`
	UserID     string `bson:"user_id"`
	LeaseStart int64  `bson:"lease_start"`
	LeaseEnd   int64  `bson:"lease_end"`
	Status     string `bson:"status"`
}

func (d tenancyDocument) toEntity() domaintenancy.Tenant {
	t := domaintenancy.Tenant{
		ID:         domaintenancy.TenantID(d.ID),
		PropertyID: d.PropertyID,
		UserID:     d.UserID,
		LeaseStart: timestampToTime(d.LeaseStart),
		Status:     domaintenancy.Status(d.Status),
	}
	if d.LeaseEnd != 0 {
		end := timestampToTime(d.LeaseEnd)
		t.LeaseEnd = &end
	}
	return t
}
