package service

import (
	"context"
	"sync"
	"testing"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest_HelperMissing(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")

	_, err := env.requests.Create(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, ErrHelperNotFound)
}

func TestCreateRequest_HelperUnavailable(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")
	env.store.addHelper("h1", "arjun", false)

	_, err := env.requests.Create(context.Background(), "u1", "h1")
	assert.ErrorIs(t, err, ErrHelperUnavailable)
}

func TestCreateRequest_NotifiesAndPushes(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")
	env.store.addHelper("h1", "arjun", true)

	req, err := env.requests.Create(context.Background(), "u1", "h1")
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, req.Status)
	assert.Equal(t, "h1", req.HelperID)
	assert.Equal(t, "u1", req.RequesterID)
	assert.Nil(t, req.SessionID)

	notes := env.noteStore.recipientNotes("h1")
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationRequest, notes[0].Type)
	require.NotNil(t, notes[0].RequestID)
	assert.Equal(t, req.ID, *notes[0].RequestID)
	assert.False(t, notes[0].Read)

	newReq := env.hub.byEvent(model.EventNewRequest)
	require.Len(t, newReq, 1)
	assert.Equal(t, "h1", newReq[0].Target)

	ack := env.hub.byEvent(model.EventRequestStatus)
	require.Len(t, ack, 1)
	assert.Equal(t, "u1", ack[0].Target)
}

func TestCreateRequest_DuplicatePendingAllowed(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")
	env.store.addHelper("h1", "arjun", true)

	first, err := env.requests.Create(context.Background(), "u1", "h1")
	require.NoError(t, err)
	second, err := env.requests.Create(context.Background(), "u1", "h1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	pending, err := env.requests.ListPending(context.Background(), "h1")
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestRespond_Decline(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")
	env.store.addHelper("h1", "arjun", true)
	req, err := env.requests.Create(context.Background(), "u1", "h1")
	require.NoError(t, err)

	answered, session, err := env.requests.Respond(context.Background(), req.ID, "h1", model.DecisionDecline)
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, model.RequestDeclined, answered.Status)
	assert.Nil(t, answered.SessionID)
	assert.NotNil(t, answered.RespondedAt)

	notes := env.noteStore.recipientNotes("u1")
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationDecline, notes[0].Type)

	// no session was opened anywhere
	view, err := env.chat.GetSessionByRequest(context.Background(), req.ID, "u1")
	assert.Nil(t, view)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRespond_Accept(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")
	env.store.addHelper("h1", "arjun", true)
	req, err := env.requests.Create(context.Background(), "u1", "h1")
	require.NoError(t, err)

	answered, session, err := env.requests.Respond(context.Background(), req.ID, "h1", model.DecisionAccept)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, model.RequestAccepted, answered.Status)
	require.NotNil(t, answered.SessionID)
	assert.Equal(t, session.ID, *answered.SessionID)
	assert.Equal(t, req.ID, session.RequestID)
	assert.Equal(t, model.SessionActive, session.Status)

	parts := session.Participants()
	require.Len(t, parts, 2)
	assert.Equal(t, model.Participant{UserID: "u1", Role: model.RoleRequester}, parts[0])
	assert.Equal(t, model.Participant{UserID: "h1", Role: model.RoleHelper}, parts[1])

	notes := env.noteStore.recipientNotes("u1")
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationAccept, notes[0].Type)
	require.NotNil(t, notes[0].SessionID)
	assert.Equal(t, session.ID, *notes[0].SessionID)

	updates := env.hub.byEvent(model.EventRequestUpdate)
	require.Len(t, updates, 2)
	targets := []string{updates[0].Target, updates[1].Target}
	assert.ElementsMatch(t, []string{"u1", "h1"}, targets)

	started := env.hub.byEvent(model.EventChatStarted)
	require.Len(t, started, 1)
	assert.Equal(t, "h1", started[0].Target)
	payload, ok := started[0].Payload.(model.ChatStartedPayload)
	require.True(t, ok)
	assert.Equal(t, model.NotificationAccept, payload.Type)
}

func TestRespond_ConfigurableHelperEvent(t *testing.T) {
	env := newTestEnv()
	env.requests = NewRequestService(requestStoreAdapter{env.store}, env.store, env.store,
		env.chat, env.notifications, env.hub, "response")
	env.store.addUser("u1", "riya")
	env.store.addHelper("h1", "arjun", true)
	req, err := env.requests.Create(context.Background(), "u1", "h1")
	require.NoError(t, err)

	_, _, err = env.requests.Respond(context.Background(), req.ID, "h1", model.DecisionAccept)
	require.NoError(t, err)

	started := env.hub.byEvent(model.EventChatStarted)
	require.Len(t, started, 1)
	payload := started[0].Payload.(model.ChatStartedPayload)
	assert.Equal(t, "response", payload.Type)
}

func TestRespond_NotAddressee(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")
	env.store.addHelper("h1", "arjun", true)
	env.store.addHelper("h2", "meera", true)
	req, err := env.requests.Create(context.Background(), "u1", "h1")
	require.NoError(t, err)

	_, _, err = env.requests.Respond(context.Background(), req.ID, "h2", model.DecisionAccept)
	assert.ErrorIs(t, err, ErrNotRequestAddressee)

	// status untouched
	stored, err := env.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestPending, stored.Status)
}

func TestRespond_NotFound(t *testing.T) {
	env := newTestEnv()
	env.store.addHelper("h1", "arjun", true)

	_, _, err := env.requests.Respond(context.Background(), "missing", "h1", model.DecisionAccept)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRespond_InvalidDecision(t *testing.T) {
	env := newTestEnv()
	_, _, err := env.requests.Respond(context.Background(), "whatever", "h1", "maybe")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestRespond_AnsweredExactlyOnce(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")
	env.store.addHelper("h1", "arjun", true)
	req, err := env.requests.Create(context.Background(), "u1", "h1")
	require.NoError(t, err)

	_, _, err = env.requests.Respond(context.Background(), req.ID, "h1", model.DecisionDecline)
	require.NoError(t, err)

	_, _, err = env.requests.Respond(context.Background(), req.ID, "h1", model.DecisionAccept)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	stored, err := env.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestDeclined, stored.Status)
}

func TestRespond_ConcurrentSingleWinner(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")
	env.store.addHelper("h1", "arjun", true)
	req, err := env.requests.Create(context.Background(), "u1", "h1")
	require.NoError(t, err)

	decisions := []string{model.DecisionAccept, model.DecisionDecline}
	errs := make([]error, len(decisions))
	var wg sync.WaitGroup
	for i, d := range decisions {
		wg.Add(1)
		go func(i int, d string) {
			defer wg.Done()
			_, _, errs[i] = env.requests.Respond(context.Background(), req.ID, "h1", d)
		}(i, d)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case err == ErrAlreadyAnswered:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

func TestListPending_NotAHelper(t *testing.T) {
	env := newTestEnv()
	env.store.addUser("u1", "riya")

	_, err := env.requests.ListPending(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotHelper)
}

func TestHelperAvailabilityToggle(t *testing.T) {
	env := newTestEnv()
	env.store.addHelper("h1", "arjun", true)

	profile, err := env.helpers.SetAvailability(context.Background(), "h1", false)
	require.NoError(t, err)
	assert.False(t, profile.Available)

	// an unavailable helper rejects new requests
	env.store.addUser("u1", "riya")
	_, err = env.requests.Create(context.Background(), "u1", "h1")
	assert.ErrorIs(t, err, ErrHelperUnavailable)

	_, err = env.helpers.SetAvailability(context.Background(), "u1", true)
	assert.ErrorIs(t, err, ErrNotHelper)
}
