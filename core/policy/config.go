package policy

import (
	"fmt"

	"map-editor/core/storage"

	"gorm.io/gorm"
)

const (
	SourceFile     = "file"
	SourceStorage  = "storage"
	SourceDatabase = "database"
)

// Config selects where layer policies are loaded from.
type Config struct {
	// Source is one of file, storage or database.
	Source string `mapstructure:"source" default:"file"`
	// Path is the policy document for the file source.
	Path string `mapstructure:"path" default:"policies.yaml"`
	// Object is the object name for the storage source.
	Object string `mapstructure:"object" default:"policies.yaml"`
	// ExcludedOverride is a comma separated list replacing every layer's
	// excluded properties. Empty means no override.
	ExcludedOverride string `mapstructure:"excluded_override" default:""`
}

// Override returns the parsed excluded-properties override, nil when unset.
func (c Config) Override() []string {
	if c.ExcludedOverride == "" {
		return nil
	}
	return splitList(c.ExcludedOverride)
}

// Backends carries the optional connections a Source may need.
type Backends struct {
	Storage storage.Client
	Bucket  string
	DB      *gorm.DB
}

// NewSource builds the configured Source.
func NewSource(cfg Config, b Backends) (Source, error) {
	switch cfg.Source {
	case SourceFile, "":
		return NewFileSource(cfg.Path), nil
	case SourceStorage:
		if b.Storage == nil {
			return nil, fmt.Errorf("policy source %q requires a storage client", cfg.Source)
		}
		return NewStorageSource(b.Storage, b.Bucket, cfg.Object), nil
	case SourceDatabase:
		if b.DB == nil {
			return nil, ErrNoDatabase
		}
		return NewDatabaseSource(b.DB), nil
	default:
		return nil, fmt.Errorf("unknown policy source %q", cfg.Source)
	}
}
