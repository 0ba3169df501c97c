package mongo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/venueops/backoffice/internal/core/domain"
)

const profileCollection = "profiles"

// ProfileRepository is the MongoDB implementation of both the profile lookup
// capability and the session issuer. Marker rotation is the single write this
// repository performs.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profileCollection)}
}

type profileDoc struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Phone               string             `bson:"phone"`
	PasswordHash        string             `bson:"password_hash"`
	IsApproved          bool               `bson:"is_approved"`
	ActiveSessionMarker string             `bson:"active_session_marker,omitempty"`
	AllowedModules      []string           `bson:"allowed_modules,omitempty"`
	Role                string             `bson:"role"`
}

func (d *profileDoc) toDomain() *domain.IdentityRecord {
	modules := make([]domain.ModuleKey, 0, len(d.AllowedModules))
	for _, m := range d.AllowedModules {
		modules = append(modules, domain.ModuleKey(m))
	}
	return &domain.IdentityRecord{
		ID:                  d.ID.Hex(),
		Phone:               d.Phone,
		PasswordHash:        d.PasswordHash,
		IsApproved:          d.IsApproved,
		ActiveSessionMarker: d.ActiveSessionMarker,
		AllowedModules:      modules,
		Role:                d.Role,
	}
}

func (r *ProfileRepository) Get(ctx context.Context, identityID string) (*domain.IdentityRecord, error) {
	oid, err := primitive.ObjectIDFromHex(identityID)
	if err != nil {
		// An unparseable id cannot name a record.
		return nil, domain.ErrIdentityNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ProfileRepository) FindByPhone(ctx context.Context, phone string) (*domain.IdentityRecord, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *ProfileRepository) findOne(ctx context.Context, filter bson.M) (*domain.IdentityRecord, error) {
	var doc profileDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

// Rotate stores a fresh random marker as the identity's single active
// session, superseding every session issued before it.
func (r *ProfileRepository) Rotate(ctx context.Context, identityID string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(identityID)
	if err != nil {
		return "", domain.ErrIdentityNotFound
	}

	marker, err := newMarker()
	if err != nil {
		return "", err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"active_session_marker": marker}},
	)
	if err != nil {
		return "", fmt.Errorf("rotate session marker: %w", err)
	}
	if res.MatchedCount == 0 {
		return "", domain.ErrIdentityNotFound
	}
	return marker, nil
}

// Clear removes the active marker so no presented session validates.
func (r *ProfileRepository) Clear(ctx context.Context, identityID string) error {
	oid, err := primitive.ObjectIDFromHex(identityID)
	if err != nil {
		return domain.ErrIdentityNotFound
	}

	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$unset": bson.M{"active_session_marker": ""}},
	)
	if err != nil {
		return fmt.Errorf("clear session marker: %w", err)
	}
	return nil
}

func newMarker() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session marker: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
