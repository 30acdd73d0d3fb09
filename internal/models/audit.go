// Package models declares the persisted entities.
package models

//go:generate go run ../../tools/gen_models_registry.go .

import "time"

// DefaultActor is recorded in created_by/last_updated_by when no other actor is configured.
const DefaultActor = "system"

// Audit holds the write-stamp columns shared by every table
type Audit struct {
	CreatedDate   time.Time `gorm:"column:created_date"`
	CreatedBy     string    `gorm:"column:created_by;size:50"`
	LastUpdated   time.Time `gorm:"column:last_updated"`
	LastUpdatedBy string    `gorm:"column:last_updated_by;size:50"`
}

// StampCreate sets both the creation and the update stamps to the same instant.
func (a *Audit) StampCreate(at time.Time, actor string) {
	a.CreatedDate = at
	a.CreatedBy = actor
	a.StampUpdate(at, actor)
}

// StampUpdate refreshes the update stamps only.
func (a *Audit) StampUpdate(at time.Time, actor string) {
	a.LastUpdated = at
	a.LastUpdatedBy = actor
}

// AuditFields exposes the stamps for the repository layer.
func (a *Audit) AuditFields() *Audit {
	return a
}

// Entity is implemented by every persisted model
type Entity interface {
	PrimaryKey() uint
	AuditFields() *Audit
}
