package processor

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tooring/model/machine"
	"github.com/viant/tooring/model/task"
	"github.com/viant/tooring/service/claim"
	taskdao "github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/ledger"
	"github.com/viant/tooring/service/store"
	"github.com/viant/tooring/service/store/memory"
	"sync/atomic"
	"testing"
	"time"
)

const acceptedTape = "xxxxxxxxxxxx#xxxxxxxxxxxx"

// failingMap fails every Put after the first limit calls
type failingMap struct {
	store.Map
	limit int32
	puts  int32
}

func (m *failingMap) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if atomic.AddInt32(&m.puts, 1) > m.limit {
		return errors.New("store unavailable")
	}
	return m.Map.Put(ctx, key, value, ttl)
}

type fixture struct {
	entries   store.Map
	tasks     *taskdao.Service
	ledger    *ledger.Service
	locker    *memory.Locker
	claim     *claim.Service
	processor *Service
}

func newFixture(t *testing.T, entries store.Map, config Config) *fixture {
	ret := &fixture{entries: entries, ledger: ledger.New(memory.NewCounter()), locker: memory.NewLocker()}
	ret.tasks = taskdao.New(entries)
	ret.claim = claim.New(ret.tasks, ret.ledger, ret.locker, claim.WithConfig(&claim.Config{LockWait: 10 * time.Millisecond}))
	var err error
	ret.processor, err = New(WithTaskDAO(ret.tasks), WithLedger(ret.ledger), WithClaim(ret.claim), WithConfig(config))
	require.NoError(t, err)
	return ret
}

func (f *fixture) submit(t *testing.T, id, owner, tape string) {
	m, err := machine.Decode([]byte(machine.SampleEqualWords), machine.FormatJSON)
	require.NoError(t, err)
	m.Tape = tape
	require.NoError(t, f.tasks.Create(context.Background(), task.NewTask(id, m)))
	if owner == "" {
		return
	}
	result, err := f.claim.Schedule(context.Background(), owner, id)
	require.NoError(t, err)
	require.Equal(t, claim.Scheduled, result)
}

func (f *fixture) score(t *testing.T, identity string) int64 {
	ret, err := f.ledger.Score(context.Background(), identity)
	require.NoError(t, err)
	return ret
}

func TestService_RunOnce(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name         string
		tape         string
		expectDone   bool
		expectHalt   machine.Halt
		expectTape   string
		expectOwnerS int64
	}{
		{name: "accepted", tape: "010000110101#010000110101", expectDone: true, expectHalt: machine.HaltAccepted, expectTape: acceptedTape},
		{name: "no transition", tape: "0#1", expectHalt: machine.HaltNoTransition, expectTape: "x#1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, memory.NewMap(), DefaultConfig())
			f.submit(t, "t1", "u1", tc.tape)

			processed, err := f.processor.RunOnce(ctx, "w1")
			require.NoError(t, err)
			assert.True(t, processed)

			aTask, err := f.tasks.Load(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, tc.expectDone, aTask.Done)
			assert.Equal(t, tc.expectHalt, aTask.Halt)
			assert.Equal(t, tc.expectTape, aTask.Machine.Tape)
			assert.False(t, aTask.Busy)
			assert.False(t, aTask.Scheduled)
			assert.EqualValues(t, 1, f.score(t, "w1"))
			assert.EqualValues(t, -1, f.score(t, "u1"))
			locked, _ := f.locker.IsLocked(ctx, "t1")
			assert.False(t, locked)

			processed, err = f.processor.RunOnce(ctx, "w1")
			require.NoError(t, err)
			assert.False(t, processed)
		})
	}
}

func TestService_RunOnce_Skips(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewMap(), DefaultConfig())
	f.submit(t, "unscheduled", "", "0#0")
	f.submit(t, "locked", "u1", "0#0")
	lease, err := f.locker.TryLock(ctx, "locked", 0, 0)
	require.NoError(t, err)
	require.NotNil(t, lease)

	processed, err := f.processor.RunOnce(ctx, "w1")
	require.NoError(t, err)
	assert.False(t, processed)
	aTask, err := f.tasks.Load(ctx, "locked")
	require.NoError(t, err)
	assert.True(t, aTask.IsEligible())
	assert.EqualValues(t, 0, f.score(t, "w1"))
}

func TestService_RunOnce_Fairness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewMap(), DefaultConfig())
	f.submit(t, "t1", "u2", "0#0")
	f.submit(t, "t2", "u1", "0#0")
	// u1 -1 -> 5, u2 -1 -> 3
	for i := 0; i < 6; i++ {
		_, _ = f.ledger.Credit(ctx, "u1")
	}
	for i := 0; i < 4; i++ {
		_, _ = f.ledger.Credit(ctx, "u2")
	}
	processed, err := f.processor.RunOnce(ctx, "w1")
	require.NoError(t, err)
	require.True(t, processed)
	first, _ := f.tasks.Load(ctx, "t2")
	second, _ := f.tasks.Load(ctx, "t1")
	assert.True(t, first.Done)
	assert.False(t, second.Done)
}

func TestService_Checkpoint(t *testing.T) {
	ctx := context.Background()
	config := DefaultConfig()
	config.CheckpointSteps = 100
	entries := &failingMap{Map: memory.NewMap(), limit: 3}
	f := newFixture(t, entries, config)
	// put 1: schedule, put 2: busy, put 3: checkpoint at step 100, put 4 fails
	f.submit(t, "t1", "u1", "010000110101#010000110101")

	processed, err := f.processor.RunOnce(ctx, "w1")
	assert.Error(t, err)
	assert.False(t, processed)
	aTask, err := f.tasks.Load(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, aTask.Busy)
	assert.Equal(t, 100, aTask.Steps)
	assert.True(t, aTask.Machine.IsStarted())
	assert.EqualValues(t, 0, f.score(t, "w1"))

	entries.limit = 100
	aTask.Reclaim()
	require.NoError(t, f.tasks.Save(ctx, aTask))
	processed, err = f.processor.RunOnce(ctx, "w2")
	require.NoError(t, err)
	assert.True(t, processed)
	aTask, err = f.tasks.Load(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, aTask.Done)
	assert.Equal(t, acceptedTape, aTask.Machine.Tape)
	assert.Equal(t, 338, aTask.Steps)
}

func TestService_StartShutdown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewMap(), DefaultConfig())
	ids := []string{"t1", "t2", "t3", "t4"}
	for _, id := range ids {
		f.submit(t, id, "u1", "010000110101#010000110101")
	}
	require.NoError(t, f.processor.Start(ctx, "w1", "w2", "w1"))
	assert.Eventually(t, func() bool {
		for _, id := range ids {
			aTask, err := f.tasks.Load(ctx, id)
			if err != nil || !aTask.Done {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)
	f.processor.Shutdown()
	assert.EqualValues(t, len(ids), f.score(t, "w1")+f.score(t, "w2"))
	assert.EqualValues(t, -len(ids), f.score(t, "u1"))

	assert.Error(t, f.processor.Start(ctx))
}

func TestService_Run_Cancel(t *testing.T) {
	f := newFixture(t, memory.NewMap(), DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.processor.Run(ctx, "w1") }()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker loop did not stop")
	}
	assert.True(t, errors.Is(f.processor.Run(context.Background(), ""), claim.ErrInvalidIdentity))
}

func TestNew(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
	config := DefaultConfig()
	config.IdleInterval = 0
	tasks := taskdao.New(memory.NewMap())
	credits := ledger.New(memory.NewCounter())
	_, err = New(WithTaskDAO(tasks), WithLedger(credits), WithClaim(claim.New(tasks, credits, memory.NewLocker())), WithConfig(config))
	assert.Error(t, err)
}
