package lead

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/homekey-labs/homekey/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
)

// Event is one entry in the lead event log. Leads are never updated in
// place; their current state is the reduction of their events.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	LeadID    string          `json:"lead_id"`
	Type      string          `json:"type"` // submitted, status
	Data      json.RawMessage `json:"data"`
}

// statusData is the payload of a status event.
type statusData struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// Store manages leads through JetStream event sourcing.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
	now    func() time.Time
}

// NewStore creates a new Store instance with the given JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
		now:    time.Now,
	}
}

// PublishEvent appends an event to the log at
// homekey.leads.{lead}.{type}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if event.ID == "" {
		event.ID = xid.New().String()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshaling event: %w", err)
	}

	subject := nats.SubjectForEvent(event.LeadID, event.Type)
	logger.Debug("Publishing lead event: lead=%s type=%s", event.LeadID, event.Type)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("publishing event: %w", err)
	}
	return ack, nil
}

// Submit validates and records a new lead. The returned lead carries its
// assigned ID, status and timestamps.
func (s *Store) Submit(ctx context.Context, l Lead) (*Lead, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	phone, _ := NormalizePhone(l.Contact.Phone)
	l.Contact.Phone = phone
	l.Contact.Email = strings.TrimSpace(l.Contact.Email)

	now := s.now()
	l.ID = xid.New().String()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.Status = StatusNew
	l.Notes = nil

	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshaling lead: %w", err)
	}
	if _, err := s.PublishEvent(ctx, Event{
		Timestamp: now,
		LeadID:    l.ID,
		Type:      nats.EventTypeSubmitted,
		Data:      data,
	}); err != nil {
		return nil, err
	}

	logger.Info("Lead %s submitted for %s", l.ID, l.Address.Line)
	return &l, nil
}

// SetStatus moves a lead through the pipeline, with an optional note.
func (s *Store) SetStatus(ctx context.Context, id, status, note string) (*Lead, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q (want one of %s)", ErrInvalid, status, strings.Join(Statuses, ", "))
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	data, err := json.Marshal(statusData{Status: status, Note: note})
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}
	if _, err := s.PublishEvent(ctx, Event{
		LeadID: id,
		Type:   nats.EventTypeStatus,
		Data:   data,
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get returns the current state of one lead.
func (s *Store) Get(ctx context.Context, id string) (*Lead, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	leads, err := s.load(ctx, nats.SubjectForLead(id))
	if err != nil {
		return nil, err
	}
	l, ok := leads[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return l, nil
}

// List returns every lead, newest first.
func (s *Store) List(ctx context.Context) ([]*Lead, error) {
	leads, err := s.load(ctx, nats.SubjectAllLeads())
	if err != nil {
		return nil, err
	}

	out := make([]*Lead, 0, len(leads))
	for _, l := range leads {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// validID rejects anything that would change the meaning of a subject.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, ".*> \t\r\n")
}

// apply folds one event into the lead map.
func apply(leads map[string]*Lead, event Event) {
	switch event.Type {
	case nats.EventTypeSubmitted:
		var l Lead
		if err := json.Unmarshal(event.Data, &l); err != nil {
			logger.Warn("Skipping malformed submitted event %s: %v", event.ID, err)
			return
		}
		l.ID = event.LeadID
		leads[l.ID] = &l

	case nats.EventTypeStatus:
		l, ok := leads[event.LeadID]
		if !ok {
			return
		}
		var data statusData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			logger.Warn("Skipping malformed status event %s: %v", event.ID, err)
			return
		}
		l.Status = data.Status
		l.UpdatedAt = event.Timestamp
		l.Notes = append(l.Notes, Note{At: event.Timestamp, Status: data.Status, Text: data.Note})
	}
}

// load replays the events under subject and reduces them into leads.
func (s *Store) load(ctx context.Context, subject string) (map[string]*Lead, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject:     subject,
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		AckPolicy:         jetstream.AckNonePolicy,
		InactiveThreshold: time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("creating consumer: %w", err)
	}

	info, err := consumer.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading consumer info: %w", err)
	}
	defer func() {
		if err := s.stream.DeleteConsumer(context.Background(), info.Name); err != nil {
			logger.Debug("Deleting replay consumer %s: %v", info.Name, err)
		}
	}()
	pending := info.NumPending

	leads := make(map[string]*Lead)
	const batchSize = 500
	malformed := 0
	for pending > 0 {
		msgs, err := consumer.Fetch(int(min(pending, batchSize)), jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			return nil, fmt.Errorf("fetching events: %w", err)
		}

		received := 0
		for msg := range msgs.Messages() {
			received++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				continue
			}
			apply(leads, event)
		}
		if err := msgs.Error(); err != nil {
			logger.Warn("Lead replay ended early after %d events: %v", received, err)
			break
		}
		if received == 0 {
			break
		}
		pending -= uint64(min(uint64(received), pending))
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed lead events", malformed)
	}
	return leads, nil
}
