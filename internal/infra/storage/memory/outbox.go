package memory

import (
	"context"
	"sync"

	appoutbox "stayhub/internal/app/outbox"
)

// Outbox keeps pending event records in memory until flushed. An
// optional sink receives flushed records, which lets tests observe
// published events without a broker.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
	sink    func(appoutbox.EventRecord)
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

// WithSink sets the flush destination.
func (o *Outbox) WithSink(sink func(appoutbox.EventRecord)) *Outbox {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sink = sink
	return o
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	pending := o.records
	o.records = nil
	sink := o.sink
	o.mu.Unlock()
	if sink != nil {
		for _, rec := range pending {
			sink(rec)
		}
	}
	return nil
}

// Pending returns a snapshot of unflushed records.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]appoutbox.EventRecord, len(o.records))
	copy(out, o.records)
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)
