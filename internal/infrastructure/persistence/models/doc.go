// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, TenantAggregateModel, etc.)
// - brokerage.go / identity.go: Brokerage and user models
// - team.go: Coordinator and agent profile models
// - transaction.go: Transaction pipeline models
// - cma.go: CMA, comparable, report config, export and share log models
// - notification.go: Notification settings and reminder log models
package models
