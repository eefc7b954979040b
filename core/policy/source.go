package policy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"map-editor/core/storage"

	"github.com/goccy/go-yaml"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned by the database source when no connection is available.
var ErrNoDatabase = errors.New("policy source requires a database connection")

// Source loads the full policy set from some backing store.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Load returns the current policies.
	Load(ctx context.Context) (Set, error)
}

// Decode parses a YAML or JSON policy document.
func Decode(data []byte) (Set, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode policy document: %w", err)
	}
	return fromLayers(doc.Layers), nil
}

// Encode renders a policy set as a YAML document, layers sorted by id.
func Encode(set Set) ([]byte, error) {
	doc := document{Layers: make([]LayerEditPolicy, 0, len(set))}
	for _, id := range set.LayerIDs() {
		p := set[id]
		p.LayerID = id
		doc.Layers = append(doc.Layers, p)
	}
	return yaml.Marshal(doc)
}

// FileSource reads a policy document from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Load(ctx context.Context) (Set, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return Decode(data)
}

// StorageSource reads a policy document from object storage.
type StorageSource struct {
	client storage.Client
	bucket string
	object string
}

// NewStorageSource creates a source reading bucket/object.
func NewStorageSource(client storage.Client, bucket, object string) *StorageSource {
	return &StorageSource{client: client, bucket: bucket, object: object}
}

func (s *StorageSource) Name() string {
	return "storage:" + s.bucket + "/" + s.object
}

func (s *StorageSource) Load(ctx context.Context) (Set, error) {
	data, err := storage.ReadObject(ctx, s.client, s.bucket, s.object)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// DatabaseSource reads policies from the layer_policies and layer_fields tables.
type DatabaseSource struct {
	db *gorm.DB
}

// NewDatabaseSource creates a source backed by db.
func NewDatabaseSource(db *gorm.DB) *DatabaseSource {
	return &DatabaseSource{db: db}
}

func (s *DatabaseSource) Name() string {
	return "database"
}

func (s *DatabaseSource) Load(ctx context.Context) (Set, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}

	var layers []LayerPolicyRow
	if err := s.db.WithContext(ctx).Find(&layers).Error; err != nil {
		return nil, fmt.Errorf("failed to load layer policies: %w", err)
	}

	var fields []FieldConfigRow
	if err := s.db.WithContext(ctx).Order("layer_id, position").Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("failed to load layer fields: %w", err)
	}

	byLayer := make(map[string][]FieldConfig)
	for _, f := range fields {
		byLayer[f.LayerID] = append(byLayer[f.LayerID], f.toConfig())
	}

	set := make(Set, len(layers))
	for _, l := range layers {
		p := l.toPolicy()
		p.EditableFields = byLayer[l.LayerID]
		set[l.LayerID] = p
	}
	return set, nil
}

// Migrate creates or updates the policy tables.
func (s *DatabaseSource) Migrate(ctx context.Context) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&LayerPolicyRow{}, &FieldConfigRow{}); err != nil {
		return fmt.Errorf("failed to migrate policy tables: %w", err)
	}
	return nil
}

// Save replaces the stored policies with set in one transaction.
func (s *DatabaseSource) Save(ctx context.Context, set Set) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&FieldConfigRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear layer fields: %w", err)
		}
		if err := all.Delete(&LayerPolicyRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear layer policies: %w", err)
		}

		for _, id := range set.LayerIDs() {
			p := set[id]
			p.LayerID = id
			row := policyRow(p)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to save layer policy %s: %w", id, err)
			}
			for i, fc := range p.EditableFields {
				field := fieldRow(id, i, fc)
				if err := tx.Create(&field).Error; err != nil {
					return fmt.Errorf("failed to save field %s.%s: %w", id, fc.Name, err)
				}
			}
		}
		return nil
	})
}

// splitList parses a comma separated column value.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
