package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/shedtally/internal/aggregate"
	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/export"
	"github.com/Veraticus/shedtally/internal/grid"
	"github.com/Veraticus/shedtally/internal/localcache"
	"github.com/Veraticus/shedtally/internal/model"
	"github.com/Veraticus/shedtally/internal/sheets"
	"github.com/Veraticus/shedtally/internal/storage"
	"github.com/Veraticus/shedtally/internal/testutil"
	"github.com/Veraticus/shedtally/internal/testutil/sessions"
)

const contractor = "crew-1"

type fixture struct {
	engine    *Engine
	db        *testutil.TestDB
	store     *storage.SQLiteStorage
	cache     *localcache.Cache
	writer    *sheets.MockWriter
	confirmer *MockConfirmer
	exportDir string
}

func newFixture(t *testing.T, accept bool) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)

	f := &fixture{
		db:        db,
		store:     db.Storage,
		cache:     localcache.Open(filepath.Join(db.Dir, "cache.json")),
		writer:    sheets.NewMockWriter(),
		confirmer: NewMockConfirmer(accept),
		exportDir: filepath.Join(db.Dir, "exports"),
	}
	f.engine = New(db.Storage, f.cache, f.confirmer, Config{
		ContractorID: contractor,
		ExportDir:    f.exportDir,
		Writer:       f.writer,
	})
	f.engine.now = func() time.Time { return time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC) }
	return f
}

// sheet builds a two stand, three row grid with the last row left empty.
func sheet(station string, alice, bob string) grid.State {
	s := grid.New(grid.Setup{Stands: 2, Rows: 3, Staff: 1})
	s = s.SetMeta(grid.Meta{Date: "2025-03-14", StationName: station, TeamLeader: "Jo", HoursWorked: "8"})
	s = s.SetStandName(0, "Alice").SetStandName(1, "Bob")
	s = s.SetCell(0, 0, alice).SetCell(0, 1, bob).SetSheepType(0, "Ewes")
	s = s.SetCell(1, 0, "20").SetSheepType(1, "Lambs")
	return s.SetStaff(0, "Kim", "")
}

func TestEngine_Save(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	result, err := f.engine.Save(ctx, sheet("Glenorchy", "100", "80"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, []int{2}, result.Advisory.EmptyRows)
	assert.Equal(t, 1, f.confirmer.CallCount())

	assert.Len(t, result.Session.ShearerCounts, 2, "the empty row is not stored")
	assert.Equal(t, contractor, result.Session.ContractorID)

	docs, err := f.engine.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	last, ok := f.cache.Last()
	require.True(t, ok)
	assert.Equal(t, "Glenorchy", last.StationName)
	assert.Equal(t, []string{"Ewes", "Lambs"}, f.cache.SheepTypes())
}

func TestEngine_SaveOverwritesSameKey(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	first, err := f.engine.Save(ctx, sheet("Glenorchy", "100", "80"))
	require.NoError(t, err)
	second, err := f.engine.Save(ctx, sheet("glenorchy", "110", "80"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	docs, err := f.engine.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 190, docs[0].ShearerCounts[0].Total)
}

func TestEngine_SaveCanceled(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.engine.Save(ctx, sheet("Glenorchy", "100", "80"))
	assert.ErrorIs(t, err, ErrSaveCanceled)

	docs, err := f.engine.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestEngine_SaveConfirmError(t *testing.T) {
	f := newFixture(t, true)
	f.confirmer.Err = errors.New("terminal closed")

	_, err := f.engine.Save(context.Background(), sheet("Glenorchy", "100", "80"))
	assert.ErrorContains(t, err, "terminal closed")
}

func TestEngine_SaveInvalidSession(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.engine.Save(context.Background(), sheet("", "100", "80"))
	require.ErrorIs(t, err, common.ErrInvalidSession)
	assert.Equal(t, "could not save the sheet", common.UserMessage(err))
}

func TestEngine_LoadRoundTrip(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.engine.Save(ctx, sheet("Glenorchy", "100", "80"))
	require.NoError(t, err)

	state, err := f.engine.Load(ctx, model.NewSessionKey("2025-03-14", "Glenorchy"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, state.Stands)
	assert.Equal(t, 2, state.RowCount())
	assert.Equal(t, 200, state.Totals.Grand)
	assert.Equal(t, "Jo", state.Meta.TeamLeader)

	_, err = f.engine.Load(ctx, model.NewSessionKey("2025-03-15", "Glenorchy"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestEngine_LoadPrevious(t *testing.T) {
	f := newFixture(t, true)

	_, ok := f.engine.LoadPrevious()
	assert.False(t, ok)

	_, err := f.engine.Save(context.Background(), sheet("Glenorchy", "100", "80"))
	require.NoError(t, err)

	state, ok := f.engine.LoadPrevious()
	require.True(t, ok)
	assert.Equal(t, "Glenorchy", state.Meta.StationName)
}

func TestEngine_ExportSession(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.engine.Save(ctx, sheet("Glenorchy", "100", "80"))
	require.NoError(t, err)

	results, err := f.engine.ExportSession(ctx, model.NewSessionKey("2025-03-14", "Glenorchy"),
		[]export.Format{export.FormatCSV, export.FormatXLSX, export.FormatSheets})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(f.exportDir, "Glenorchy_14-03-2025.csv"), results[0].Location)
	assert.Equal(t, filepath.Join(f.exportDir, "Glenorchy_14-03-2025.xlsx"), results[1].Location)
	assert.Equal(t, "mock://sheets/Glenorchy", results[2].Location)

	csv, err := os.ReadFile(results[0].Location)
	require.NoError(t, err)
	assert.Contains(t, string(csv), `"Date","2025-03-14"`)
	assert.FileExists(t, results[1].Location)

	f.writer.AssertWriteCalled(t, 1)
	doc, err := f.store.GetSession(ctx, contractor, model.NewSessionKey("2025-03-14", "Glenorchy"))
	require.NoError(t, err)
	assert.Equal(t, export.SessionSheet(doc.Session), *f.writer.LastSheet)
}

func TestEngine_ExportImportedSessionWithoutTotals(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	n, err := f.engine.Import(ctx, []byte(`{
		"date": "2025-03-15", "stationName": "Glenorchy",
		"stands": [{"index": 1, "name": "A"}, {"index": 2, "name": "B"}],
		"shearerCounts": [{"stands": ["10", "20"], "sheepType": "Ewes"}]
	}`))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	results, err := f.engine.ExportSession(ctx, model.NewSessionKey("2025-03-15", "Glenorchy"), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	data, err := os.ReadFile(results[0].Location)
	require.NoError(t, err)
	csv := string(data)
	assert.Contains(t, csv, `"1","10","20","30","Ewes"`)
	assert.Contains(t, csv, "\"Sheep Type\",\"Total\"\r\n\"Ewes\",\"30\"\r\n\"Total\",\"30\"")
}

func TestEngine_ExportSheetsWithoutWriter(t *testing.T) {
	f := newFixture(t, true)
	f.engine.writer = nil

	_, err := f.engine.ExportSheet(context.Background(), export.Sheet{Name: "x"}, "Glenorchy", "2025-03-14",
		[]export.Format{export.FormatSheets})
	assert.ErrorIs(t, err, common.ErrExportFailed)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestEngine_ExportWriterFailure(t *testing.T) {
	f := newFixture(t, true)
	f.writer.SetWriteError(errors.New("quota exceeded"))

	_, err := f.engine.ExportSheet(context.Background(), export.Sheet{Name: "x"}, "Glenorchy", "2025-03-14",
		[]export.Format{export.FormatCSV, export.FormatSheets})
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestEngine_ExportStationAndLeaderboards(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.engine.Save(ctx, sheet("Glenorchy", "100", "80"))
	require.NoError(t, err)

	results, err := f.engine.ExportStation(ctx, "Glenorchy", aggregate.Filter{Mode: aggregate.ModeAll}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(f.exportDir, "Glenorchy_20-03-2025.csv"), results[0].Location)

	results, err = f.engine.ExportLeaderboard(ctx, BoardShearers, aggregate.Filter{Mode: aggregate.ModeAll}, []export.Format{export.FormatCSV})
	require.NoError(t, err)
	data, err := os.ReadFile(results[0].Location)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"1","Alice","120"`)

	_, err = f.engine.ExportLeaderboard(ctx, BoardStaff, aggregate.Filter{Mode: aggregate.ModeAll}, []export.Format{export.FormatSheets})
	require.NoError(t, err)
	assert.Equal(t, "Shed Staff Leaderboard", f.writer.LastSheet.Name)

	_, err = f.engine.ExportLeaderboard(ctx, Board("combs"), aggregate.Filter{}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestEngine_Import(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	n, err := f.engine.Import(ctx, []byte(`[
		{"date": "2024-11-02", "stationName": "Mt Aspiring", "tallies": [{"shearerName": "Kim", "count": 210}]},
		{"date": "2024-11-03", "stationName": "Mt Aspiring", "shearers": [{"name": "Kim", "runs": [50, 60]}]}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	board := aggregate.ShearerLeaderboard(mustDocs(t, f), aggregate.Filter{Mode: aggregate.ModeAll})
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 320, board.Entries[0].Total)

	_, err = f.engine.Import(ctx, []byte("not json"))
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestEngine_LoadSeededSession(t *testing.T) {
	f := newFixture(t, true)
	f.db.Seed(contractor, sessions.New("2025-03-14", "Glenorchy").
		WithStand("Alice").
		WithStand("").
		WithStand("Bob").
		WithRow("Ewes", "100", "", "80").
		WithStaff("Kim", "").
		NineHour().
		Build())

	state, err := f.engine.Load(context.Background(), model.NewSessionKey("2025-03-14", "Glenorchy"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "", "Bob"}, state.Stands)
	assert.Equal(t, 180, state.Totals.Grand)
	assert.True(t, state.TimeSystem().IsNineHour())
	assert.Equal(t, model.Hours("9"), state.StaffHours(0), "staff hours default to the hours worked")
}

func mustDocs(t *testing.T, f *fixture) []codec.Document {
	t.Helper()
	docs, err := f.engine.Documents(context.Background())
	require.NoError(t, err)
	return docs
}
