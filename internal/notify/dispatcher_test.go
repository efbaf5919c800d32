package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

type mockQueue struct {
	mu    sync.Mutex
	calls []string
	sent  [][]byte
	errs  []error // per-call errors, nil entries mean success
}

func (m *mockQueue) Send(ctx context.Context, queue string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, queue)
	if len(m.errs) >= len(m.calls) {
		if err := m.errs[len(m.calls)-1]; err != nil {
			return err
		}
	}
	m.sent = append(m.sent, payload)
	return nil
}

func (m *mockQueue) sendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockPusher struct {
	mu        sync.Mutex
	userPush  []uuid.UUID
	staffPush int
	err       error
}

func (m *mockPusher) PushToUser(ctx context.Context, userID uuid.UUID, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userPush = append(m.userPush, userID)
	return m.err
}

func (m *mockPusher) PushToStaff(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staffPush++
	return m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent(recipient *uuid.UUID) domain.NotificationEvent {
	item := &domain.ContentItem{
		ID:   uuid.New(),
		Type: domain.ContentTypeCurriculum,
	}
	return domain.NewNotificationEvent(domain.EventApproved, item, recipient, nil)
}

func TestDispatcher_EnqueuesAndPushesToUser(t *testing.T) {
	queue := &mockQueue{}
	pusher := &mockPusher{}
	d := NewDispatcher(testLogger(), queue, pusher, "notifications", 3, time.Millisecond)

	recipient := uuid.New()
	event := testEvent(&recipient)

	d.Dispatch(context.Background(), event)
	d.Wait()

	require.Equal(t, 1, queue.sendCount())
	assert.Equal(t, "notifications", queue.calls[0])

	var got domain.NotificationEvent
	require.NoError(t, json.Unmarshal(queue.sent[0], &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, domain.EventApproved, got.Kind)

	assert.Equal(t, []uuid.UUID{recipient}, pusher.userPush)
	assert.Zero(t, pusher.staffPush)
}

func TestDispatcher_NilRecipientTargetsStaffPool(t *testing.T) {
	queue := &mockQueue{}
	pusher := &mockPusher{}
	d := NewDispatcher(testLogger(), queue, pusher, "notifications", 3, time.Millisecond)

	d.Dispatch(context.Background(), testEvent(nil))
	d.Wait()

	assert.Empty(t, pusher.userPush)
	assert.Equal(t, 1, pusher.staffPush)
}

func TestDispatcher_RetriesEnqueueThenSucceeds(t *testing.T) {
	queue := &mockQueue{errs: []error{errors.New("redis gone"), errors.New("still gone"), nil}}
	pusher := &mockPusher{}
	d := NewDispatcher(testLogger(), queue, pusher, "notifications", 3, time.Millisecond)

	d.Dispatch(context.Background(), testEvent(nil))
	d.Wait()

	assert.Equal(t, 3, queue.sendCount())
	assert.Len(t, queue.sent, 1, "exactly one durable message after retries")
}

func TestDispatcher_ExhaustedRetriesAreSwallowed(t *testing.T) {
	boom := errors.New("redis gone")
	queue := &mockQueue{errs: []error{boom, boom, boom}}
	pusher := &mockPusher{}
	d := NewDispatcher(testLogger(), queue, pusher, "notifications", 3, time.Millisecond)

	// Must not panic or propagate; live push still happens.
	d.Dispatch(context.Background(), testEvent(nil))
	d.Wait()

	assert.Equal(t, 3, queue.sendCount())
	assert.Empty(t, queue.sent)
	assert.Equal(t, 1, pusher.staffPush)
}

func TestDispatcher_LivePushFailureIsNonFatal(t *testing.T) {
	queue := &mockQueue{}
	pusher := &mockPusher{err: errors.New("no sessions")}
	d := NewDispatcher(testLogger(), queue, pusher, "notifications", 1, time.Millisecond)

	d.Dispatch(context.Background(), testEvent(nil))
	d.Wait()

	assert.Equal(t, 1, queue.sendCount(), "queue copy written despite push failure")
}

func TestDispatcher_SurvivesCancelledRequestContext(t *testing.T) {
	queue := &mockQueue{}
	pusher := &mockPusher{}
	d := NewDispatcher(testLogger(), queue, pusher, "notifications", 1, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // the triggering request is already gone

	d.Dispatch(ctx, testEvent(nil))
	d.Wait()

	assert.Equal(t, 1, queue.sendCount())
}
