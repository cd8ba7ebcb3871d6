package client

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// ID is an opaque backend identifier. The backend emits either JSON strings
// or JSON numbers depending on the collection, so both are accepted.
// Any other JSON shape decodes to the empty ID.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		// Objects, arrays and booleans leave the ID empty so that record
		// validation drops the entry instead of failing the whole listing.
		*id = ""
		return nil
	}
	*id = ID(data)
	return nil
}

// BatchRecord is a single entry of the batch listing endpoint.
// Only id and status are required; the rest is descriptive.
type BatchRecord struct {
	ID              ID     `json:"id" validate:"required"`
	Name            string `json:"name"`
	Status          string `json:"status" validate:"required"`
	TotalRecipients int    `json:"total_recipients"`
	SentCount       int    `json:"sent_count"`
	CompletedCount  int    `json:"completed_count"`
	SubCycles       int    `json:"sub_cycles"`
	ScheduledAt     string `json:"scheduled_at"`
	NextReminderAt  string `json:"next_reminder_at"`
}

// batchListEnvelope covers the wrapped listing shapes. Elements stay raw so
// they can be decoded one at a time.
type batchListEnvelope struct {
	Batches []json.RawMessage `json:"batches"`
	Data    []json.RawMessage `json:"data"`
}

// RecipientRecord is a single entry of /api/batches/{id}/recipients.
type RecipientRecord struct {
	ID             ID     `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Completed      bool   `json:"completed"`
	CompletedAt    string `json:"completed_at"`
	RemindersSent  int    `json:"reminders_sent"`
	LastRemindedAt string `json:"last_reminded_at"`
}

// ReminderRecord is a single reminder sub-cycle from /api/batches/{id}/reminders.
type ReminderRecord struct {
	Cycle       int    `json:"cycle"`
	ScheduledAt string `json:"scheduled_at"`
	Sent        bool   `json:"sent"`
	Targeted    int    `json:"recipients_targeted"`
}
