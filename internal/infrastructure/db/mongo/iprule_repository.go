package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/venueops/backoffice/internal/core/domain"
)

const ipRuleCollection = "ip_rules"

// IPRuleRepository is the MongoDB implementation of the IP rule lookup
// capability. Expiry filtering is left to the caller: the checker owns the
// clock, the store only answers "active block rules for this exact address".
type IPRuleRepository struct {
	coll *mongo.Collection
}

func NewIPRuleRepository(db *mongo.Database) *IPRuleRepository {
	return &IPRuleRepository{coll: db.Collection(ipRuleCollection)}
}

type ipRuleDoc struct {
	IPAddress string     `bson:"ip_address"`
	RuleType  string     `bson:"rule_type"`
	IsActive  bool       `bson:"is_active"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

func (r *IPRuleRepository) ListActiveBlockRules(ctx context.Context, ip string) ([]domain.IPRule, error) {
	cur, err := r.coll.Find(ctx, bson.M{
		"ip_address": ip,
		"rule_type":  string(domain.IPRuleBlock),
		"is_active":  true,
	})
	if err != nil {
		return nil, fmt.Errorf("list ip rules: %w", err)
	}
	defer cur.Close(ctx)

	var rules []domain.IPRule
	for cur.Next(ctx) {
		var doc ipRuleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode ip rule: %w", err)
		}
		rules = append(rules, domain.IPRule{
			IPAddress: doc.IPAddress,
			RuleType:  domain.IPRuleType(doc.RuleType),
			IsActive:  doc.IsActive,
			ExpiresAt: doc.ExpiresAt,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate ip rules: %w", err)
	}
	return rules, nil
}
