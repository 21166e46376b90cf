package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription plans. The plan gates the per-tenant note quota and is
// authoritative only in the tenants table, never in a token or cache.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

type Tenant struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Subdomain        string    `json:"subdomain" db:"subdomain"`
	SubscriptionPlan string    `json:"subscription_plan" db:"subscription_plan"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
