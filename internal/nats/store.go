package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Stream and subject layout for lead events.
const (
	StreamName = "homekey_leads"

	subjectRoot = "homekey.leads"

	// Event types
	EventTypeSubmitted = "submitted"
	EventTypeStatus    = "status"
)

// SubjectForLead returns the wildcard subject for every event of one lead.
// Example: "homekey.leads.cv3l8tqk0000.>"
func SubjectForLead(leadID string) string {
	return fmt.Sprintf("%s.%s.>", subjectRoot, leadID)
}

// SubjectForEvent returns the subject for one event type of a lead.
// Example: "homekey.leads.cv3l8tqk0000.submitted"
func SubjectForEvent(leadID, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, leadID, eventType)
}

// SubjectAllLeads matches every lead event.
func SubjectAllLeads() string {
	return subjectRoot + ".>"
}

// SetupStream creates or updates the lead event stream. Leads are business
// records, so the stream keeps them until removed by an operator.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "homekey lead events",
		Subjects:    []string{SubjectAllLeads()},
		Storage:     jetstream.FileStorage,
	})
}

// OpenStream returns the existing lead stream.
func OpenStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.Stream(ctx, StreamName)
}
