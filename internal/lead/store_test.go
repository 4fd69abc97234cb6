package lead

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/homekey-labs/homekey/internal/nats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	ns, err := nats.StartEmbeddedNATS(t.TempDir(), false)
	require.NoError(t, err)

	nc, err := nats.ConnectInProcess(ns)
	require.NoError(t, err)
	t.Cleanup(func() { _ = nats.Shutdown(nc, ns) })

	js, err := nats.CreateJetStream(nc)
	require.NoError(t, err)

	stream, err := nats.SetupStream(ctx, js)
	require.NoError(t, err)

	return NewStore(js, stream)
}

func sampleLead() Lead {
	return Lead{
		Address: Address{
			Line:     "123 Main Street",
			City:     "Springfield",
			State:    "Illinois",
			Postcode: "62701",
			Lat:      39.78,
			Lon:      -89.65,
			PlaceID:  301,
		},
		Property: Property{Bedrooms: "3", Bathrooms: "2", Condition: "Needs work"},
		Timeline: "ASAP",
		Reason:   "Relocating",
		Contact: Contact{
			FirstName: "Dana",
			LastName:  "Reyes",
			Phone:     "555.010.4663",
			Email:     "dana@example.com",
		},
	}
}

func TestStore_SubmitAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	got, err := store.Submit(ctx, sampleLead())
	require.NoError(t, err)
	require.NotEmpty(t, got.ID)
	assert.Equal(t, StatusNew, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, "(555) 010-4663", got.Contact.Phone, "phone is normalized")

	loaded, err := store.Get(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.ID, loaded.ID)
	assert.Equal(t, "123 Main Street", loaded.Address.Line)
	assert.Equal(t, "Dana Reyes", loaded.Contact.Name())
	assert.Equal(t, "Needs work", loaded.Property.Condition)
	assert.True(t, got.CreatedAt.Equal(loaded.CreatedAt))
}

func TestStore_SubmitPublishesSubmittedEvent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	got, err := store.Submit(ctx, sampleLead())
	require.NoError(t, err)

	msg, err := store.stream.GetLastMsgForSubject(ctx, nats.SubjectForEvent(got.ID, nats.EventTypeSubmitted))
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, got.ID, event.LeadID)
	assert.Equal(t, nats.EventTypeSubmitted, event.Type)
	assert.NotEmpty(t, event.ID)
}

func TestStore_SubmitRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	l := sampleLead()
	l.Contact.Email = "not-an-email"
	_, err := store.Submit(ctx, l)
	require.ErrorIs(t, err, ErrInvalid)

	leads, err := store.List(ctx)
	require.NoError(t, err)
	require.Empty(t, leads, "nothing is recorded for an invalid lead")
}

func TestStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i, street := range []string{"1 First St", "2 Second St", "3 Third St"} {
		store.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		l := sampleLead()
		l.Address.Line = street
		got, err := store.Submit(ctx, l)
		require.NoError(t, err)
		ids = append(ids, got.ID)
	}

	leads, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{leads[0].ID, leads[1].ID, leads[2].ID})
	assert.Equal(t, "3 Third St", leads[0].Address.Line)
}

func TestStore_ListEmpty(t *testing.T) {
	store := newTestStore(t)
	leads, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, leads)
}

func TestStore_GetNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, id := range []string{"missing", "", "a.b", "*", ">"} {
		_, err := store.Get(ctx, id)
		require.ErrorIs(t, err, ErrNotFound, "id %q", id)
	}
}

func TestStore_SetStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	got, err := store.Submit(ctx, sampleLead())
	require.NoError(t, err)

	updated, err := store.SetStatus(ctx, got.ID, StatusContacted, "Left voicemail")
	require.NoError(t, err)
	assert.Equal(t, StatusContacted, updated.Status)
	require.Len(t, updated.Notes, 1)
	assert.Equal(t, "Left voicemail", updated.Notes[0].Text)

	_, err = store.SetStatus(ctx, got.ID, "bogus", "")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = store.SetStatus(ctx, "missing", StatusClosed, "")
	require.ErrorIs(t, err, ErrNotFound)

	leads, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, StatusContacted, leads[0].Status)
}

func TestStore_SkipsMalformedEvents(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.js.Publish(ctx, nats.SubjectForEvent("junk", nats.EventTypeSubmitted), []byte("not json"))
	require.NoError(t, err)
	got, err := store.Submit(ctx, sampleLead())
	require.NoError(t, err)

	leads, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, got.ID, leads[0].ID)
}
