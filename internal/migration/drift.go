package migration

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Drift describes a model table or column that is missing from the database.
type Drift struct {
	Model  string
	Table  string
	Column string // empty when the whole table is missing
}

func (d Drift) String() string {
	if d.Column == "" {
		return fmt.Sprintf("%s: table %q does not exist", d.Model, d.Table)
	}
	return fmt.Sprintf("%s: column %q missing from table %q", d.Model, d.Column, d.Table)
}

// ModelParser resolves registered models into GORM schemas
type ModelParser struct {
	db     *gorm.DB
	models map[string]interface{}
}

func NewModelParser(db *gorm.DB, models map[string]interface{}) (*ModelParser, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("no models found in registry")
	}
	return &ModelParser{db: db, models: models}, nil
}

func (p *ModelParser) Parse() (map[string]*schema.Schema, error) {
	schemas := make(map[string]*schema.Schema, len(p.models))
	for name, model := range p.models {
		stmt := &gorm.Statement{DB: p.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %s with GORM: %w", name, err)
		}
		if stmt.Schema == nil {
			return nil, fmt.Errorf("GORM failed to produce a schema for model %s", name)
		}
		schemas[name] = stmt.Schema
	}
	return schemas, nil
}

// DetectDrift compares the registered models with the live schema and reports
// every table or column a model expects that the database does not have.
func DetectDrift(db *gorm.DB, models map[string]interface{}) ([]Drift, error) {
	parser, err := NewModelParser(db, models)
	if err != nil {
		return nil, err
	}
	schemas, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var drifts []Drift
	migrator := db.Migrator()
	for _, name := range names {
		s := schemas[name]
		if !migrator.HasTable(s.Table) {
			drifts = append(drifts, Drift{Model: name, Table: s.Table})
			continue
		}
		for _, field := range s.Fields {
			// skip associations and ignored fields
			if field.DBName == "" {
				continue
			}
			if !migrator.HasColumn(models[name], field.DBName) {
				drifts = append(drifts, Drift{Model: name, Table: s.Table, Column: field.DBName})
			}
		}
	}
	return drifts, nil
}
