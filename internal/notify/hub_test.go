package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PushToUser(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, cancel := hub.Subscribe(userID, false)
	defer cancel()

	hub.PushToUser(userID, []byte("hello"))

	select {
	case msg := <-ch:
		assert.Equal(t, []byte("hello"), msg)
	default:
		t.Fatal("expected a delivered message")
	}
}

func TestHub_PushToOtherUserNotDelivered(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe(uuid.New(), false)
	defer cancel()

	hub.PushToUser(uuid.New(), []byte("hello"))

	select {
	case <-ch:
		t.Fatal("message delivered to the wrong user")
	default:
	}
}

func TestHub_StaffPool(t *testing.T) {
	hub := NewHub()

	staffCh, cancelStaff := hub.Subscribe(uuid.New(), true)
	defer cancelStaff()
	tutorCh, cancelTutor := hub.Subscribe(uuid.New(), false)
	defer cancelTutor()

	hub.PushToStaff([]byte("new submission"))

	select {
	case msg := <-staffCh:
		assert.Equal(t, []byte("new submission"), msg)
	default:
		t.Fatal("staff session missed the broadcast")
	}

	select {
	case <-tutorCh:
		t.Fatal("tutor session received a staff broadcast")
	default:
	}
}

func TestHub_SlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	_, cancel := hub.Subscribe(userID, false)
	defer cancel()

	// Overflow the session buffer; pushes must return without blocking.
	for i := 0; i < sessionBuffer*2; i++ {
		hub.PushToUser(userID, []byte("x"))
	}
}

func TestHub_CancelRemovesSession(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, cancel := hub.Subscribe(userID, true)
	require.Equal(t, 1, hub.SessionCount())

	cancel()
	assert.Equal(t, 0, hub.SessionCount())

	hub.PushToUser(userID, []byte("late"))
	hub.PushToStaff([]byte("late"))

	select {
	case <-ch:
		t.Fatal("cancelled session still receiving")
	default:
	}
}

func TestHub_MultipleSessionsPerUser(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch1, cancel1 := hub.Subscribe(userID, false)
	defer cancel1()
	ch2, cancel2 := hub.Subscribe(userID, false)
	defer cancel2()

	hub.PushToUser(userID, []byte("fan-out"))

	for _, ch := range []<-chan []byte{ch1, ch2} {
		select {
		case msg := <-ch:
			assert.Equal(t, []byte("fan-out"), msg)
		default:
			t.Fatal("each session receives its own copy")
		}
	}
}
