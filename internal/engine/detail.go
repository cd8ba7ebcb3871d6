package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dm/batchwatch/internal/client"
	"github.com/dm/batchwatch/internal/model"
)

// DetailClient is the subset of client.BatchClient needed for the detail panel.
type DetailClient interface {
	GetBatch(ctx context.Context, id string) (*client.BatchRecord, error)
	ListRecipients(ctx context.Context, batchID string) ([]client.RecipientRecord, error)
	ListReminders(ctx context.Context, batchID string) ([]client.ReminderRecord, error)
}

// FetchBatchDetail fetches a batch and its recipients concurrently, plus its
// reminder sub-cycles. If either core request fails, the first error is
// returned. Reminder failures are non-fatal (older backends do not expose
// the endpoint); on error Reminders is left nil.
func FetchBatchDetail(ctx context.Context, c DetailClient, id string) (*model.BatchDetail, error) {
	var (
		batch      *client.BatchRecord
		recipients []client.RecipientRecord
		reminders  []client.ReminderRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		batch, err = c.GetBatch(gctx, id)
		return err
	})

	g.Go(func() error {
		var err error
		recipients, err = c.ListRecipients(gctx, id)
		return err
	})

	// Reminders run outside the errgroup so a slow endpoint does not hold up
	// the core requests, and against the parent ctx so it is not cancelled
	// when they complete. The buffered channel lets the goroutine exit even
	// if nobody reads the result.
	remCh := make(chan []client.ReminderRecord, 1)
	go func() {
		rem, err := c.ListReminders(ctx, id)
		if err != nil {
			remCh <- nil
			return
		}
		remCh <- rem
	}()

	if err := g.Wait(); err != nil {
		return nil, err
	}

	select {
	case reminders = <-remCh:
	case <-ctx.Done():
	}

	if batch == nil {
		return nil, fmt.Errorf("FetchBatchDetail: incomplete response (unexpected nil)")
	}

	normalized, _ := NormalizeBatches([]client.BatchRecord{*batch})
	if len(normalized) == 0 {
		return nil, fmt.Errorf("FetchBatchDetail: batch %q has no id or status", id)
	}

	people := toRecipients(recipients)
	detail := &model.BatchDetail{
		Batch:      normalized[0],
		Recipients: people,
		Summary:    CalcRecipientSummary(people),
		FetchedAt:  time.Now(),
	}
	if reminders != nil {
		detail.Reminders = toReminders(reminders)
	}
	return detail, nil
}
