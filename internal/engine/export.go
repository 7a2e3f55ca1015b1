package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/shedtally/internal/aggregate"
	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/export"
	"github.com/Veraticus/shedtally/internal/model"
)

// ExportResult is where one format of an export ended up: a file path or a URL.
type ExportResult struct {
	Format   export.Format
	Location string
}

// Board selects a leaderboard.
type Board string

// Leaderboards.
const (
	BoardShearers Board = "shearers"
	BoardStaff    Board = "staff"
)

// ExportSession renders a stored session in every requested format.
func (e *Engine) ExportSession(ctx context.Context, key model.SessionKey, formats []export.Format) ([]ExportResult, error) {
	doc, err := e.store.GetSession(ctx, e.contractorID, key)
	if err != nil {
		return nil, err
	}
	sheet := export.SessionSheet(doc.Session)
	return e.ExportSheet(ctx, sheet, doc.StationName, doc.Date, formats)
}

// ExportStation renders the summary of one station in every requested format.
func (e *Engine) ExportStation(ctx context.Context, station string, filter aggregate.Filter, formats []export.Format) ([]ExportResult, error) {
	docs, err := e.Documents(ctx)
	if err != nil {
		return nil, err
	}
	summary := aggregate.StationSummary(docs, station, filter, e.classifier)
	return e.ExportSheet(ctx, export.StationSheet(summary), station, e.today(), formats)
}

// ExportLeaderboard renders a full leaderboard in every requested format.
func (e *Engine) ExportLeaderboard(ctx context.Context, board Board, filter aggregate.Filter, formats []export.Format) ([]ExportResult, error) {
	docs, err := e.Documents(ctx)
	if err != nil {
		return nil, err
	}

	var sheet export.Sheet
	switch board {
	case BoardShearers:
		sheet = export.ShearerLeaderboardSheet("Shearer Leaderboard", aggregate.ShearerLeaderboard(docs, filter))
	case BoardStaff:
		sheet = export.StaffLeaderboardSheet("Shed Staff Leaderboard", aggregate.StaffLeaderboard(docs, filter))
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard %q", common.ErrInvalidConfig, board)
	}
	return e.ExportSheet(ctx, sheet, string(board)+" leaderboard", e.today(), formats)
}

// ExportSheet writes sheet in each format concurrently. Files are named after
// station and isoDate inside the export directory. Results follow the order
// of formats.
func (e *Engine) ExportSheet(ctx context.Context, sheet export.Sheet, station, isoDate string, formats []export.Format) ([]ExportResult, error) {
	if len(formats) == 0 {
		formats = []export.Format{export.FormatCSV}
	}

	results := make([]ExportResult, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			location, err := e.exportOne(gctx, sheet, station, isoDate, format)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", common.ErrExportFailed, format, err)
			}
			results[i] = ExportResult{Format: format, Location: location}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		slog.Info("exported sheet", "format", r.Format, "location", r.Location)
	}
	return results, nil
}

func (e *Engine) exportOne(ctx context.Context, sheet export.Sheet, station, isoDate string, format export.Format) (string, error) {
	switch format {
	case export.FormatCSV:
		return e.writeFile(export.Filename(station, isoDate, "csv"), export.EncodeCSV(sheet))
	case export.FormatXLSX:
		data, err := export.EncodeXLSX(sheet)
		if err != nil {
			return "", err
		}
		return e.writeFile(export.Filename(station, isoDate, "xlsx"), data)
	case export.FormatSheets:
		if e.writer == nil {
			return "", common.ErrMissingConfig
		}
		return e.writer.Write(ctx, sheet)
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

func (e *Engine) writeFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.exportDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.exportDir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (e *Engine) today() string {
	return e.now().Format(model.DateLayout)
}
