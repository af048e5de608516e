// Package archive moves a finished month's milk entries into the archive
// collection and purges them from the live collection.
package archive

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
	"github.com/mamadbah2/dairy/pkg/dates"
)

// Archiver runs the month-boundary archive-and-purge sweep.
type Archiver struct {
	entries mongodb.EntryStore
	archive mongodb.ArchiveStore
	logger  *zap.Logger
}

// NewArchiver wires an archiver instance.
func NewArchiver(entries mongodb.EntryStore, archive mongodb.ArchiveStore, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{entries: entries, archive: archive, logger: logger}
}

// Run archives every entry of the month preceding the reference time, then
// deletes the originals. The purge only happens after the copy succeeds, so a
// failed run leaves the live collection intact.
func (a *Archiver) Run(ctx context.Context, ref time.Time) (models.ArchiveSummary, error) {
	monthStart := dates.StartOfMonth(ref)
	prevMonthStart := dates.StartOfMonth(monthStart.AddDate(0, 0, -1))
	monthKey := dates.MonthKey(prevMonthStart)

	summary := models.ArchiveSummary{Month: monthKey}

	entries, err := a.entries.ListEntriesBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		return summary, fmt.Errorf("list entries for archive: %w", err)
	}

	if len(entries) == 0 {
		a.logger.Info("no entries to archive", zap.String("month", monthKey))
		return summary, nil
	}

	archived := make([]models.ArchivedEntry, 0, len(entries))
	now := time.Now()
	for _, entry := range entries {
		archived = append(archived, models.ArchivedEntry{
			CustomerID:    entry.CustomerID,
			Date:          entry.Date,
			Cow:           entry.Cow,
			Buffalo:       entry.Buffalo,
			Products:      entry.Products,
			ArchivedMonth: monthKey,
			ArchivedAt:    now,
		})
	}

	inserted, err := a.archive.InsertArchivedEntries(ctx, archived)
	if err != nil {
		return summary, fmt.Errorf("insert archived entries: %w", err)
	}
	summary.Archived = int(inserted)

	purged, err := a.entries.DeleteEntriesBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		return summary, fmt.Errorf("purge archived entries: %w", err)
	}
	summary.Purged = int(purged)

	a.logger.Info("monthly archive finished",
		zap.String("month", monthKey),
		zap.Int("archived", summary.Archived),
		zap.Int("purged", summary.Purged))

	return summary, nil
}
