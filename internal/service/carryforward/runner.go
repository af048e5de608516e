// Package carryforward copies a customer's last known cow and buffalo liters
// into today's entry when no real data has been recorded yet. One run sweeps
// the whole customer population; it is safe to trigger more than once for the
// same calendar day.
package carryforward

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/internal/repository/mongodb"
)

// outcome classifies how one customer's evaluation ended.
type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeCreated
	outcomeUpdated
)

// Notifier receives the run summary after a sweep completes. Delivery is best
// effort; failures are logged, never propagated.
type Notifier interface {
	NotifyCarrySummary(ctx context.Context, summary models.CarrySummary) error
}

// Runner sweeps all customers once per invocation.
type Runner struct {
	entries   mongodb.EntryStore
	customers mongodb.CustomerStore
	archive   mongodb.ArchiveStore
	notifier  Notifier
	logger    *zap.Logger
}

// NewRunner wires a carry-forward runner. archive and notifier may be nil;
// the run then skips summary persistence or webhook delivery respectively.
func NewRunner(entries mongodb.EntryStore, customers mongodb.CustomerStore, archive mongodb.ArchiveStore, notifier Notifier, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		entries:   entries,
		customers: customers,
		archive:   archive,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run applies the carry-forward rule to every customer against the given
// reference day. The day is passed in explicitly rather than read from a
// clock so runs are deterministic and testable. A per-customer failure is
// counted and logged but never aborts the sweep; only a failed customer
// listing fails the run as a whole.
func (r *Runner) Run(ctx context.Context, today time.Time) (models.CarrySummary, error) {
	summary := models.CarrySummary{
		RunID:     uuid.NewString(),
		Date:      today,
		StartedAt: time.Now(),
	}

	customers, err := r.customers.ListCustomers(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("list customers for carry-forward: %w", err)
	}

	for _, customer := range customers {
		summary.Processed++

		result, err := r.carryCustomer(ctx, customer.ID, today)
		if err != nil {
			summary.Errors++
			r.logger.Error("carry-forward failed for customer",
				zap.String("customer_id", customer.ID.Hex()),
				zap.Error(err))
			continue
		}

		switch result {
		case outcomeCreated:
			summary.Carried++
		case outcomeUpdated:
			summary.Carried++
			summary.Updated++
		default:
			summary.Skipped++
		}
	}

	summary.EndedAt = time.Now()
	r.logger.Info("carry-forward run finished",
		zap.String("run_id", summary.RunID),
		zap.Time("date", today),
		zap.Int("processed", summary.Processed),
		zap.Int("carried", summary.Carried),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", summary.Errors))

	r.persistAndNotify(ctx, summary)

	return summary, nil
}

// carryCustomer evaluates the carry-forward rule for one customer:
//   - a today entry with nonzero cow or buffalo means the customer already
//     reported real data, leave it alone;
//   - with no prior entry there is nothing to carry;
//   - with no today entry, create one from the prior values and an empty
//     product list (products are deliberately never carried forward);
//   - with an all-zero today entry, fill only the zero fields that have a
//     nonzero replacement.
func (r *Runner) carryCustomer(ctx context.Context, customerID primitive.ObjectID, today time.Time) (outcome, error) {
	todayEntry, err := r.entries.FindEntryForDay(ctx, customerID, today)
	if err != nil && !errors.Is(err, mongodb.ErrNotFound) {
		return outcomeSkipped, fmt.Errorf("load today's entry: %w", err)
	}

	if todayEntry != nil && (todayEntry.Cow != 0 || todayEntry.Buffalo != 0) {
		return outcomeSkipped, nil
	}

	prev, err := r.entries.FindLatestEntryBefore(ctx, customerID, today)
	if errors.Is(err, mongodb.ErrNotFound) {
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeSkipped, fmt.Errorf("load previous entry: %w", err)
	}

	if todayEntry == nil {
		_, _, err := r.entries.UpsertEntry(ctx, models.MilkEntry{
			CustomerID: customerID,
			Date:       today,
			Cow:        prev.Cow,
			Buffalo:    prev.Buffalo,
			Products:   []models.ProductLine{},
		})
		if err != nil {
			return outcomeSkipped, fmt.Errorf("create carried entry: %w", err)
		}
		return outcomeCreated, nil
	}

	cow := todayEntry.Cow
	buffalo := todayEntry.Buffalo
	changed := false
	if cow == 0 && prev.Cow != 0 {
		cow = prev.Cow
		changed = true
	}
	if buffalo == 0 && prev.Buffalo != 0 {
		buffalo = prev.Buffalo
		changed = true
	}
	if !changed {
		return outcomeSkipped, nil
	}

	_, err = r.entries.UpdateEntryForDay(ctx, models.MilkEntry{
		CustomerID: customerID,
		Date:       today,
		Cow:        cow,
		Buffalo:    buffalo,
		Products:   todayEntry.Products,
	})
	if err != nil {
		return outcomeSkipped, fmt.Errorf("update carried entry: %w", err)
	}
	return outcomeUpdated, nil
}

// persistAndNotify records the run summary and pushes it to the ops webhook.
// Both are best effort; the summary returned to the caller is already final.
func (r *Runner) persistAndNotify(ctx context.Context, summary models.CarrySummary) {
	if r.archive != nil {
		if err := r.archive.SaveCarrySummary(ctx, summary); err != nil {
			r.logger.Error("failed to persist carry-forward summary",
				zap.String("run_id", summary.RunID),
				zap.Error(err))
		}
	}

	if r.notifier != nil {
		if err := r.notifier.NotifyCarrySummary(ctx, summary); err != nil {
			r.logger.Warn("failed to deliver carry-forward summary webhook",
				zap.String("run_id", summary.RunID),
				zap.Error(err))
		}
	}
}
