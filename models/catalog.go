package models

// Read-only catalog models. Catalog management lives outside the engine; the
// ledger only checks existence, ownership and the active flag, and the
// settlement engine snapshots the cancellation policy.

type Property struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Active   bool   `bson:"active" json:"active"`
	PolicyID string `bson:"policy_id,omitempty" json:"policy_id,omitempty"`
}

type RoomType struct {
	ID         string `bson:"id" json:"id"`
	PropertyID string `bson:"property_id" json:"property_id"`
	Name       string `bson:"name" json:"name"`
	Active     bool   `bson:"active" json:"active"`
}

type Room struct {
	ID         string `bson:"id" json:"id"`
	RoomTypeID string `bson:"room_type_id" json:"room_type_id"`
	PropertyID string `bson:"property_id" json:"property_id"`
	Number     string `bson:"number" json:"number"`
	Active     bool   `bson:"active" json:"active"`
}

type MealPlan struct {
	ID         string `bson:"id" json:"id"`
	PropertyID string `bson:"property_id" json:"property_id"`
	Name       string `bson:"name" json:"name"`
	Active     bool   `bson:"active" json:"active"`
}

type CancellationPolicy struct {
	ID          string       `bson:"id" json:"id"`
	Name        string       `bson:"name" json:"name"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Rules       []PolicyRule `bson:"rules" json:"rules"`
}

// Snapshot copies the policy by value for embedding into a booking.
func (p CancellationPolicy) Snapshot() PolicySnapshot {
	rules := make([]PolicyRule, len(p.Rules))
	copy(rules, p.Rules)
	return PolicySnapshot{
		Name:        p.Name,
		Description: p.Description,
		Rules:       rules,
	}
}
