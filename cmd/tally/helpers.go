package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/shedtally/internal/aggregate"
	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/config"
	"github.com/Veraticus/shedtally/internal/engine"
	"github.com/Veraticus/shedtally/internal/export"
	"github.com/Veraticus/shedtally/internal/localcache"
	"github.com/Veraticus/shedtally/internal/model"
	"github.com/Veraticus/shedtally/internal/service"
	"github.com/Veraticus/shedtally/internal/sheets"
	"github.com/Veraticus/shedtally/internal/storage"
)

// initStorage opens the session database with proper path expansion and migrates it.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// engineOptions selects the optional parts of the engine a command needs.
type engineOptions struct {
	confirmer engine.Confirmer
	formats   []export.Format
}

// initEngine wires storage, the local cache and, when a Google Sheets export is
// requested, the sheets writer into an engine.
func initEngine(ctx context.Context, store *storage.SQLiteStorage, opts engineOptions) (*engine.Engine, *localcache.Cache, error) {
	contractorID, err := config.ContractorID()
	if err != nil {
		return nil, nil, err
	}

	classifier, err := config.LoadClassifier()
	if err != nil {
		return nil, nil, err
	}

	var writer service.ReportWriter
	if slices.Contains(opts.formats, export.FormatSheets) {
		sheetsConfig, err := config.LoadSheetsConfig()
		if err != nil {
			return nil, nil, common.NewUserError("Google Sheets is not configured, run 'tally auth sheets' first", err)
		}
		sheetsWriter, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sheets writer: %w", err)
		}
		writer = sheetsWriter
	}

	cache := localcache.Open(config.CachePath())
	eng := engine.New(store, cache, opts.confirmer, engine.Config{
		Classifier:   classifier,
		Writer:       writer,
		ContractorID: contractorID,
		ExportDir:    config.ExportDir(),
	})
	return eng, cache, nil
}

// parseFormats validates the --format values, defaulting to CSV.
func parseFormats(values []string) ([]export.Format, error) {
	if len(values) == 0 {
		return []export.Format{export.FormatCSV}, nil
	}
	formats := make([]export.Format, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			f, err := export.ParseFormat(part)
			if err != nil {
				return nil, err
			}
			if !slices.Contains(formats, f) {
				formats = append(formats, f)
			}
		}
	}
	return formats, nil
}

// addFormatFlag registers the repeatable --format flag.
func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("format", "f", nil, "export format: csv, xlsx or sheets (repeatable)")
}

// formatsFromFlags reads the --format flag.
func formatsFromFlags(cmd *cobra.Command) ([]export.Format, error) {
	values, err := cmd.Flags().GetStringSlice("format")
	if err != nil {
		return nil, err
	}
	return parseFormats(values)
}

// addFilterFlags registers the date range and work type flags shared by the
// aggregate commands. Leaderboards count one work type, shorn unless told
// otherwise; station summaries count both by default.
func addFilterFlags(cmd *cobra.Command, work aggregate.WorkType) {
	cmd.Flags().String("mode", "all", "date range: all, 12m or year")
	cmd.Flags().Int("year", 0, "calendar year for --mode year (default: this year)")
	if work == aggregate.WorkAny {
		cmd.Flags().String("work", "", "work type: shorn or crutched (default: both)")
	} else {
		cmd.Flags().String("work", string(work), "work type: shorn or crutched")
	}
	cmd.Flags().String("from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last date to include (YYYY-MM-DD)")
}

// filterFromFlags builds an aggregation filter from the shared flags.
func filterFromFlags(cmd *cobra.Command, now time.Time) (aggregate.Filter, error) {
	flags := cmd.Flags()
	modeValue, _ := flags.GetString("mode")
	year, _ := flags.GetInt("year")
	workValue, _ := flags.GetString("work")
	fromValue, _ := flags.GetString("from")
	toValue, _ := flags.GetString("to")

	mode, err := aggregate.ParseMode(modeValue)
	if err != nil {
		return aggregate.Filter{}, err
	}
	if year != 0 && !flags.Changed("mode") {
		mode = aggregate.ModeYear
	}
	work, err := aggregate.ParseWorkType(workValue)
	if err != nil {
		return aggregate.Filter{}, err
	}

	filter := aggregate.Filter{Mode: mode, Year: year, WorkType: work, Now: now}
	if filter.From, err = parseDateFlag("from", fromValue); err != nil {
		return aggregate.Filter{}, err
	}
	if filter.To, err = parseDateFlag("to", toValue); err != nil {
		return aggregate.Filter{}, err
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return aggregate.Filter{}, fmt.Errorf("--to %s is before --from %s", toValue, fromValue)
	}
	return filter, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, ok := model.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --%s date %q (want YYYY-MM-DD)", name, value)
	}
	return t, nil
}

// sessionKey builds a session key from DATE STATION arguments.
func sessionKey(args []string) (model.SessionKey, error) {
	if len(args) < 2 {
		return model.SessionKey{}, fmt.Errorf("expected DATE and STATION")
	}
	date := args[0]
	if _, ok := model.ParseDate(date); !ok {
		return model.SessionKey{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
	}
	return model.NewSessionKey(date, strings.Join(args[1:], " ")), nil
}
