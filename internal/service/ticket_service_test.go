package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostdesk/hosting-service/internal/domain"
	"github.com/hostdesk/hosting-service/internal/events"
	apperrors "github.com/hostdesk/hosting-service/pkg/util"
)

func newTicketFixture() (*TicketService, *fakeTicketRepo, *recordingDispatcher) {
	repo := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	return NewTicketService(repo, dispatcher, nil), repo, dispatcher
}

func TestCreateTicketAssignsSequentialIDs(t *testing.T) {
	svc, _, dispatcher := newTicketFixture()
	ctx := context.Background()

	first, err := svc.CreateTicket(ctx, 100, "login broken", "cannot sign in since yesterday")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, domain.TicketStatusOpen, first.Status)
	require.Len(t, first.Messages, 1)
	assert.Equal(t, int64(100), first.Messages[0].SenderUserID)
	assert.False(t, first.Messages[0].IsAdmin)

	second, err := svc.CreateTicket(ctx, 200, "billing question", "was I charged twice?")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	types := dispatcher.typesSeen()
	assert.Equal(t, []events.EventType{events.EventTicketCreated, events.EventTicketCreated}, types)
}

func TestCreateTicketRejectsBlankInput(t *testing.T) {
	svc, _, dispatcher := newTicketFixture()
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, 100, "   ", "body")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.CodeOf(err))

	_, err = svc.CreateTicket(ctx, 100, "subject", "  \n ")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.CodeOf(err))

	assert.Empty(t, dispatcher.published())
}

func TestConcurrentTicketCreationKeepsIDsContiguous(t *testing.T) {
	svc, repo, _ := newTicketFixture()
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	ids := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ticket, err := svc.CreateTicket(ctx, int64(n+1), fmt.Sprintf("ticket %d", n), "body")
			if err == nil {
				ids <- ticket.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	var got []int64
	for id := range ids {
		got = append(got, id)
	}
	require.Len(t, got, workers)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, id := range got {
		assert.Equal(t, int64(i+1), id)
	}
	assert.Equal(t, int64(workers), repo.counter)
}

func TestAddMessageUnknownTicket(t *testing.T) {
	svc, _, _ := newTicketFixture()

	_, err := svc.AddMessage(context.Background(), 42, 100, "hello?", false)
	assert.Equal(t, "NOT_FOUND", apperrors.CodeOf(err))
}

func TestAddMessageAppendsWithoutTouchingStatus(t *testing.T) {
	svc, _, dispatcher := newTicketFixture()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, 100, "slow site", "pages take 10s to load")
	require.NoError(t, err)

	updated, err := svc.AddMessage(ctx, ticket.ID, 1, "checked the server, looks fine", true)
	require.NoError(t, err)
	require.Len(t, updated.Messages, 2)
	assert.True(t, updated.Messages[1].IsAdmin)
	assert.Equal(t, domain.TicketStatusOpen, updated.Status)

	types := dispatcher.typesSeen()
	assert.Contains(t, types, events.EventTicketMessageAdded)
}

func TestReplyToClosedTicketStaysClosed(t *testing.T) {
	svc, _, _ := newTicketFixture()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, 100, "dns issue", "domain does not resolve")
	require.NoError(t, err)

	_, err = svc.CloseTicket(ctx, ticket.ID)
	require.NoError(t, err)

	updated, err := svc.AddMessage(ctx, ticket.ID, 100, "it broke again", false)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	assert.Len(t, updated.Messages, 2)
}

func TestCloseReopenRoundtrip(t *testing.T) {
	svc, _, dispatcher := newTicketFixture()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, 100, "mail bounce", "outgoing mail rejected")
	require.NoError(t, err)

	closed, err := svc.CloseTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)

	// closing again is a no-op and emits no second status event
	_, err = svc.CloseTicket(ctx, ticket.ID)
	require.NoError(t, err)

	reopened, err := svc.ReopenTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, reopened.Status)
	assert.Len(t, reopened.Messages, 1)

	statusEvents := 0
	for _, eventType := range dispatcher.typesSeen() {
		if eventType == events.EventTicketStatusChanged {
			statusEvents++
		}
	}
	assert.Equal(t, 2, statusEvents)
}

func TestTicketListings(t *testing.T) {
	svc, _, _ := newTicketFixture()
	ctx := context.Background()

	a, err := svc.CreateTicket(ctx, 100, "first", "body")
	require.NoError(t, err)
	b, err := svc.CreateTicket(ctx, 100, "second", "body")
	require.NoError(t, err)
	c, err := svc.CreateTicket(ctx, 200, "other user", "body")
	require.NoError(t, err)

	_, err = svc.CloseTicket(ctx, b.ID)
	require.NoError(t, err)

	mine, err := svc.GetUserTickets(ctx, 100)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a.ID, mine[0].ID)
	assert.Equal(t, b.ID, mine[1].ID)

	open, err := svc.GetOpenTickets(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, a.ID, open[0].ID)
	assert.Equal(t, c.ID, open[1].ID)

	closed, err := svc.GetClosedTickets(ctx)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, b.ID, closed[0].ID)
}

func TestBodyPreviewTruncates(t *testing.T) {
	assert.Equal(t, "short", bodyPreview("short", 120))

	long := ""
	for i := 0; i < 50; i++ {
		long += "abc"
	}
	preview := bodyPreview(long, 20)
	assert.Len(t, preview, 20)
	assert.Equal(t, "...", preview[17:])
}
