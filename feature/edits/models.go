package edits

import (
	"encoding/json"
	"fmt"
	"time"

	"map-editor/core/edit"
	"map-editor/core/feature"
	"map-editor/core/session"
)

// CommitRow is a row of the edit_commits table.
type CommitRow struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	LayerID     string    `gorm:"column:layer_id;index;size:255"`
	Mode        string    `gorm:"column:mode;size:16"`
	Targets     string    `gorm:"column:targets;type:text"`
	Changes     string    `gorm:"column:changes;type:text"`
	CommittedAt time.Time `gorm:"column:committed_at;index"`
}

// TableName overrides the table name used by gorm.
func (CommitRow) TableName() string {
	return "edit_commits"
}

// Entry is a journaled commit.
type Entry struct {
	ID          string             `json:"id"`
	LayerID     string             `json:"layerId"`
	Mode        edit.Mode          `json:"mode"`
	Targets     []feature.Identity `json:"targets"`
	Changes     map[string]any     `json:"changes"`
	CommittedAt time.Time          `json:"committedAt"`
}

func entryFromCommit(c session.Commit) Entry {
	return Entry{
		ID:          c.ID,
		LayerID:     c.LayerID,
		Mode:        c.Mode,
		Targets:     append([]feature.Identity{}, c.Targets...),
		Changes:     c.Changes,
		CommittedAt: c.CommittedAt,
	}
}

func (e Entry) toRow() (CommitRow, error) {
	targets, err := json.Marshal(e.Targets)
	if err != nil {
		return CommitRow{}, fmt.Errorf("failed to encode targets: %w", err)
	}
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return CommitRow{}, fmt.Errorf("failed to encode changes: %w", err)
	}
	return CommitRow{
		ID:          e.ID,
		LayerID:     e.LayerID,
		Mode:        string(e.Mode),
		Targets:     string(targets),
		Changes:     string(changes),
		CommittedAt: e.CommittedAt,
	}, nil
}

func (r CommitRow) toEntry() (Entry, error) {
	e := Entry{
		ID:          r.ID,
		LayerID:     r.LayerID,
		Mode:        edit.Mode(r.Mode),
		CommittedAt: r.CommittedAt,
	}
	if err := json.Unmarshal([]byte(r.Targets), &e.Targets); err != nil {
		return Entry{}, fmt.Errorf("failed to decode targets of %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Changes), &e.Changes); err != nil {
		return Entry{}, fmt.Errorf("failed to decode changes of %s: %w", r.ID, err)
	}
	return e, nil
}
