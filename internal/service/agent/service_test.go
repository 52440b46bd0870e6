package agent

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/config"
	"staffdesk/internal/domain"
	"staffdesk/internal/domain/models"
	agentmodels "staffdesk/internal/domain/models/agent"
	"staffdesk/internal/domain/services"
	"staffdesk/internal/service/agent/tools"
)

func newTestService(t *testing.T, mode string, reasoner Reasoner) (services.AgentService, *SessionStore) {
	t.Helper()
	sessions := newTestSessions(mode, time.Minute)
	loop := newTestLoop(t, reasoner, &recordingRunner{mutating: map[string]bool{tools.AddEmployee: true}}, 5)
	return NewService(loop, sessions, discardLogger()), sessions
}

func TestService_ChatRejectsEmptyMessage(t *testing.T) {
	svc, _ := newTestService(t, config.SessionModeSingle, &scriptedReasoner{steps: []step{answer("x")}})

	_, err := svc.Chat(context.Background(), &services.ChatRequest{Message: "   "})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "nothing was said")
}

func TestService_Chat(t *testing.T) {
	reasoner := &scriptedReasoner{steps: []step{
		request(toolReq("a1", tools.AddEmployee, map[string]any{"name": "Ann", "position": "QA", "salary": 10})),
		answer("Ann was hired."),
	}}
	svc, _ := newTestService(t, config.SessionModeSingle, reasoner)

	res, err := svc.Chat(context.Background(), &services.ChatRequest{Message: "hire Ann"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Mutated)
	assert.Equal(t, "Ann was hired.", res.Reply)
	assert.Equal(t, string(StateDone), res.State)
	assert.Equal(t, 1, res.Rounds)
}

func TestService_ChatFailureIsStillAResult(t *testing.T) {
	svc, _ := newTestService(t, config.SessionModeSingle, &scriptedReasoner{steps: []step{fail(errReasoning)}})

	res, err := svc.Chat(context.Background(), &services.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, ReplyFailure, res.Reply)
	assert.Equal(t, string(StateErrored), res.State)
}

// blockingReasoner tracks how many calls overlap.
type blockingReasoner struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (r *blockingReasoner) Next(ctx context.Context, turns []agentmodels.Turn, catalog []tools.Definition) (agentmodels.Turn, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		seen := r.maxSeen.Load()
		if n <= seen || r.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return agentmodels.NewAssistantTurn("ok"), nil
}

func TestService_SerializesInvocationsPerSession(t *testing.T) {
	reasoner := &blockingReasoner{}
	svc, sessions := newTestService(t, config.SessionModeSingle, reasoner)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Chat(context.Background(), &services.ChatRequest{Message: "hi"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), reasoner.maxSeen.Load())

	sess, ok := sessions.Lookup("")
	require.True(t, ok)
	// instruction + 5 x (user, assistant)
	assert.Equal(t, 11, sess.Memory.Len())
}

func TestService_KeyedSessionsRunInParallel(t *testing.T) {
	reasoner := &blockingReasoner{}
	svc, _ := newTestService(t, config.SessionModeKeyed, reasoner)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for _, id := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			_, err := svc.Chat(context.Background(), &services.ChatRequest{SessionID: id, Message: "hi"})
			assert.NoError(t, err)
		}(id)
	}
	close(start)
	wg.Wait()

	history, err := svc.History(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestService_ChatWaitHonorsContext(t *testing.T) {
	svc, sessions := newTestService(t, config.SessionModeSingle, &scriptedReasoner{steps: []step{answer("x")}})
	sess := sessions.Get("")
	require.NoError(t, sess.Acquire(context.Background()))
	defer sess.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Chat(ctx, &services.ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestService_RecordEventAndBroadcast(t *testing.T) {
	svc, _ := newTestService(t, config.SessionModeKeyed, &scriptedReasoner{steps: []step{answer("ok")}})
	ctx := context.Background()

	_, err := svc.Chat(ctx, &services.ChatRequest{SessionID: "a", Message: "hi"})
	require.NoError(t, err)
	_, err = svc.Chat(ctx, &services.ChatRequest{SessionID: "b", Message: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.RecordEvent(ctx, &services.RecordEventRequest{
		SessionID:   "a",
		Description: "salaries were reviewed",
		Source:      "hr-import",
	}))
	svc.Broadcast(agentmodels.Event{
		Kind:     agentmodels.EventEmployeeDeleted,
		Source:   "api",
		Employee: &models.Employee{ID: 9, Name: "Bob", Position: "Chef", Salary: 3000},
	})

	a, err := svc.History(ctx, "a")
	require.NoError(t, err)
	b, err := svc.History(ctx, "b")
	require.NoError(t, err)

	require.Len(t, a, 5)
	assert.Equal(t, "[System note, via hr-import] Event: salaries were reviewed", a[3].Text())
	assert.Equal(t, `[System note, via api] Employee deleted: id=9, name="Bob", position="Chef", salary=3000`, a[4].Text())

	require.Len(t, b, 4)
	assert.Equal(t, agentmodels.RoleSystemNote, b[3].Role)

	err = svc.RecordEvent(ctx, &services.RecordEventRequest{SessionID: "a", Description: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_ResetMemory(t *testing.T) {
	svc, _ := newTestService(t, config.SessionModeSingle, &scriptedReasoner{steps: []step{answer("ok")}})
	ctx := context.Background()

	_, err := svc.Chat(ctx, &services.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	require.NoError(t, svc.ResetMemory(ctx, ""))

	history, err := svc.History(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, history)

	// Unknown keyed sessions are not an error
	keyed, _ := newTestService(t, config.SessionModeKeyed, &scriptedReasoner{steps: []step{answer("ok")}})
	assert.NoError(t, keyed.ResetMemory(ctx, "nobody"))
}
