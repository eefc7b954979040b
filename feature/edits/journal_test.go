package edits

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"map-editor/core/database"
	"map-editor/core/edit"
	"map-editor/core/feature"
	"map-editor/core/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func commit(id, layer string, at time.Time) session.Commit {
	return session.Commit{
		ID:          id,
		Mode:        edit.ModeMulti,
		LayerID:     layer,
		Targets:     []feature.Identity{{LayerID: layer, FeatureID: "1"}, {LayerID: layer, FeatureID: "2"}},
		Changes:     map[string]any{"status": "B", "area": 12.5},
		CommittedAt: at,
	}
}

func TestJournal_MemoryOnly(t *testing.T) {
	j := NewJournal(nil, nil)
	j.history = 3
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		layer := "parcels"
		if i%2 == 1 {
			layer = "roads"
		}
		j.Commit(commit(fmt.Sprintf("c%d", i), layer, base.Add(time.Duration(i)*time.Minute)))
	}

	all, err := j.List(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c3", "c2", "c1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	roads, err := j.List(context.Background(), "roads", 1)
	require.NoError(t, err)
	require.Len(t, roads, 1)
	assert.Equal(t, "c3", roads[0].ID)

	e, err := j.Get(context.Background(), "c2")
	require.NoError(t, err)
	assert.Equal(t, "parcels", e.LayerID)

	_, err = j.Get(context.Background(), "c0")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, j.Migrate(context.Background()))
}

func TestJournal_SQLiteRoundTrip(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	j := NewJournal(db, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, j.Migrate(ctx))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	j.Commit(commit("c1", "parcels", at))
	j.Commit(commit("c2", "roads", at.Add(time.Minute)))
	j.Close()

	entries, err := j.List(ctx, "parcels", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "c1", e.ID)
	assert.Equal(t, edit.ModeMulti, e.Mode)
	assert.Equal(t, []feature.Identity{{LayerID: "parcels", FeatureID: "1"}, {LayerID: "parcels", FeatureID: "2"}}, e.Targets)
	assert.Equal(t, map[string]any{"status": "B", "area": 12.5}, e.Changes)
	assert.True(t, at.Equal(e.CommittedAt))

	all, err := j.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "c2", all[0].ID)

	got, err := j.Get(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "roads", got.LayerID)

	_, err = j.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJournal_PersistFailureIsLogged(t *testing.T) {
	db, mock := setupMockDB(t)
	core, logs := observer.New(zapcore.ErrorLevel)
	j := NewJournal(db, zap.New(core))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `edit_commits`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	j.Commit(commit("c1", "parcels", time.Now()))
	j.Close()

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Failed to persist committed edit", logs.All()[0].Message)
	assert.Len(t, j.listMemory("", 10), 1, "memory history keeps the commit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_ListQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	j := NewJournal(db, nil)
	defer j.Close()

	rows := sqlmock.NewRows([]string{"id", "layer_id", "mode", "targets", "changes", "committed_at"}).
		AddRow("c9", "parcels", "single", `[{"layerId":"parcels","featureId":"7"}]`, `{"owner":"Ann"}`, time.Now())
	mock.ExpectQuery("SELECT \\* FROM `edit_commits` WHERE layer_id = \\? ORDER BY committed_at DESC LIMIT").
		WillReturnRows(rows)

	entries, err := j.List(context.Background(), "parcels", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, edit.ModeSingle, entries[0].Mode)
	assert.Equal(t, map[string]any{"owner": "Ann"}, entries[0].Changes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_ListCorruptRow(t *testing.T) {
	db, mock := setupMockDB(t)
	j := NewJournal(db, nil)
	defer j.Close()

	rows := sqlmock.NewRows([]string{"id", "layer_id", "mode", "targets", "changes", "committed_at"}).
		AddRow("c9", "parcels", "single", `not json`, `{}`, time.Now())
	mock.ExpectQuery("SELECT \\* FROM `edit_commits`").WillReturnRows(rows)

	_, err := j.List(context.Background(), "", 0)
	assert.ErrorContains(t, err, "failed to decode targets of c9")
}

func TestJournal_CommitDoesNotWaitForDatabase(t *testing.T) {
	db, mock := setupMockDB(t)
	j := NewJournal(db, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `edit_commits`").
		WillDelayFor(time.Second).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	start := time.Now()
	j.Commit(commit("c1", "parcels", start))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	e, err := j.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "parcels", e.LayerID)

	j.Close()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_CommitAfterCloseKeepsMemory(t *testing.T) {
	db, mock := setupMockDB(t)
	core, logs := observer.New(zapcore.WarnLevel)
	j := NewJournal(db, zap.New(core))
	j.Close()
	j.Close()

	j.Commit(commit("c1", "parcels", time.Now()))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Edit journal closed, commit kept in memory only", logs.All()[0].Message)
	assert.Len(t, j.listMemory("", 10), 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
