package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cubatrice/engine/internal/entity"
)

// Reference data file names under the configured data directory.
const (
	colonyFile    = "colony.json"
	techFile      = "technology.json"
	prototypeFile = "prototypes.json"
	startFile     = "startResources.json"
	factionDir    = "techConverters"
)

// LoadAll reads every reference data file from dir, validating each
// against its schema before decoding. Any missing file, schema
// violation or dangling cross reference is a load-time failure fatal
// to game startup.
func LoadAll(dir string) (*Store, error) {
	s := NewStore()
	if err := s.LoadColonies(dir); err != nil {
		return nil, err
	}
	if err := s.LoadTech(dir); err != nil {
		return nil, err
	}
	if err := s.LoadResources(dir); err != nil {
		return nil, err
	}
	for _, f := range entity.CoreFactions() {
		if err := s.LoadFaction(dir, f); err != nil {
			return nil, err
		}
	}
	if err := s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadColonies reads colony.json.
func (s *Store) LoadColonies(dir string) error {
	var obj []entity.Colony
	if err := loadValidated(filepath.Join(dir, colonyFile), colonySchema, &obj); err != nil {
		return err
	}
	for _, c := range obj {
		s.InsertColony(c)
	}
	return nil
}

// LoadTech reads technology.json and prototypes.json.
func (s *Store) LoadTech(dir string) error {
	var techs []entity.Technology
	if err := loadValidated(filepath.Join(dir, techFile), technologySchema, &techs); err != nil {
		return err
	}
	var protos []entity.ConverterPrototype
	if err := loadValidated(filepath.Join(dir, prototypeFile), prototypeSchema, &protos); err != nil {
		return err
	}
	for _, t := range techs {
		s.InsertTech(t)
	}
	for _, p := range protos {
		s.InsertPrototype(p)
	}
	return nil
}

// LoadResources reads startResources.json.
func (s *Store) LoadResources(dir string) error {
	var obj []entity.StartingResources
	if err := loadValidated(filepath.Join(dir, startFile), startSchema, &obj); err != nil {
		return err
	}
	for _, r := range obj {
		s.InsertStartingResources(r.Faction, r.Items)
	}
	return nil
}

// LoadFaction reads a faction's starting converter file from
// techConverters/<short>.json.
func (s *Store) LoadFaction(dir string, f entity.FactionType) error {
	path := filepath.Join(dir, factionDir, f.ShortName()+".json")
	var obj []entity.ConverterPrototype
	if err := loadValidated(path, prototypeSchema, &obj); err != nil {
		return err
	}
	s.InsertFactionConverters(f.ShortName(), obj)
	return nil
}

// loadValidated reads a JSON file, checks it against the compiled
// schema, then decodes it into out with unknown fields rejected.
func loadValidated(path string, schema *jsonschema.Schema, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("data: reading %s: %w", path, err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("data: parsing %s: %w", path, err)
	}
	if err := schema.Validate(generic); err != nil {
		return fmt.Errorf("data: %s failed schema validation: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("data: decoding %s: %w", path, err)
	}
	return nil
}
