package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
)

const (
	endpointBatches = "/api/batches"
)

func batchPath(id string) string {
	return endpointBatches + "/" + url.PathEscape(id)
}

// ListBatches fetches the batch collection from /api/batches.
// Both a bare JSON array and the {"batches": [...]} / {"data": [...]}
// envelopes are accepted.
func (c *DefaultClient) ListBatches(ctx context.Context) ([]BatchRecord, error) {
	body, err := c.doGet(ctx, endpointBatches)
	if err != nil {
		return nil, fmt.Errorf("ListBatches: %w", err)
	}

	result, err := decodeBatchList(body)
	if err != nil {
		return nil, fmt.Errorf("ListBatches decode: %w", err)
	}
	return result, nil
}

// decodeBatchList decodes each listing element on its own. An element that
// does not fit BatchRecord becomes the zero record, which validation later
// drops and counts, so one bad entry never fails the whole listing.
func decodeBatchList(body []byte) ([]BatchRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	var raw []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
	} else {
		var env batchListEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		switch {
		case env.Batches != nil:
			raw = env.Batches
		case env.Data != nil:
			raw = env.Data
		default:
			return nil, fmt.Errorf("no batches or data field in response")
		}
	}

	result := make([]BatchRecord, len(raw))
	for i, elem := range raw {
		var rec BatchRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			continue
		}
		result[i] = rec
	}
	return result, nil
}

// GetBatch fetches a single batch from /api/batches/{id}.
func (c *DefaultClient) GetBatch(ctx context.Context, id string) (*BatchRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("GetBatch: id must not be empty")
	}
	body, err := c.doGet(ctx, batchPath(id))
	if err != nil {
		return nil, fmt.Errorf("GetBatch: %w", err)
	}

	var result BatchRecord
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("GetBatch decode: %w", err)
	}
	return &result, nil
}

// ListRecipients fetches the recipients of a batch from /api/batches/{id}/recipients.
func (c *DefaultClient) ListRecipients(ctx context.Context, batchID string) ([]RecipientRecord, error) {
	if batchID == "" {
		return nil, fmt.Errorf("ListRecipients: batch id must not be empty")
	}
	body, err := c.doGet(ctx, batchPath(batchID)+"/recipients")
	if err != nil {
		return nil, fmt.Errorf("ListRecipients: %w", err)
	}

	var result []RecipientRecord
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("ListRecipients decode: %w", err)
	}
	return result, nil
}

// ListReminders fetches the reminder sub-cycles of a batch from
// /api/batches/{id}/reminders.
func (c *DefaultClient) ListReminders(ctx context.Context, batchID string) ([]ReminderRecord, error) {
	if batchID == "" {
		return nil, fmt.Errorf("ListReminders: batch id must not be empty")
	}
	body, err := c.doGet(ctx, batchPath(batchID)+"/reminders")
	if err != nil {
		return nil, fmt.Errorf("ListReminders: %w", err)
	}

	var result []ReminderRecord
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("ListReminders decode: %w", err)
	}
	return result, nil
}
