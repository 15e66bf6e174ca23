package claim

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tooring/internal/clock"
	"github.com/viant/tooring/model/machine"
	"github.com/viant/tooring/model/task"
	taskdao "github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/ledger"
	"github.com/viant/tooring/service/store/memory"
	"sync"
	"testing"
	"time"
)

type fixture struct {
	tasks  *taskdao.Service
	ledger *ledger.Service
	locker *memory.Locker
	claim  *Service
}

func newFixture(t *testing.T, ids ...string) *fixture {
	ret := &fixture{
		tasks:  taskdao.New(memory.NewMap()),
		ledger: ledger.New(memory.NewCounter()),
		locker: memory.NewLocker(),
	}
	ret.claim = New(ret.tasks, ret.ledger, ret.locker, WithConfig(&Config{LockWait: 20 * time.Millisecond}))
	for _, id := range ids {
		require.NoError(t, ret.tasks.Create(context.Background(), task.NewTask(id, machine.New())))
	}
	return ret
}

func TestService_Schedule(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name        string
		taskID      string
		setup       func(t *testing.T, f *fixture)
		expect      Result
		expectScore int64
	}{
		{name: "scheduled", taskID: "t1", expect: Scheduled, expectScore: -1},
		{name: "not found", taskID: "missing", expect: NotFound},
		{
			name:   "already scheduled",
			taskID: "t1",
			setup: func(t *testing.T, f *fixture) {
				actual, err := f.claim.Schedule(ctx, "u2", "t1")
				require.NoError(t, err)
				require.Equal(t, Scheduled, actual)
			},
			expect: AlreadyScheduled,
		},
		{
			name:   "already done",
			taskID: "t1",
			setup: func(t *testing.T, f *fixture) {
				aTask, err := f.tasks.Load(ctx, "t1")
				require.NoError(t, err)
				aTask.Finish(machine.HaltAccepted, 1)
				require.NoError(t, f.tasks.Save(ctx, aTask))
			},
			expect: AlreadyDone,
		},
		{
			name:   "contended",
			taskID: "t1",
			setup: func(t *testing.T, f *fixture) {
				lease, err := f.locker.TryLock(ctx, "t1", 0, 0)
				require.NoError(t, err)
				require.NotNil(t, lease)
			},
			expect: Contended,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, "t1")
			if tc.setup != nil {
				tc.setup(t, f)
			}
			actual, err := f.claim.Schedule(ctx, "u1", tc.taskID)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, actual)
			score, err := f.ledger.Score(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, tc.expectScore, score)
			if tc.expect != Contended {
				locked, _ := f.locker.IsLocked(ctx, tc.taskID)
				assert.False(t, locked, "lock must be released")
			}
		})
	}
}

func TestService_Schedule_Exclusive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "t1")
	results := make([]Result, 20)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = f.claim.Schedule(ctx, "u1", "t1")
		}(i)
	}
	wg.Wait()
	scheduled := 0
	for _, result := range results {
		if result == Scheduled {
			scheduled++
			continue
		}
		assert.Contains(t, []Result{AlreadyScheduled, Contended}, result)
	}
	assert.Equal(t, 1, scheduled)
	score, _ := f.ledger.Score(ctx, "u1")
	assert.EqualValues(t, -1, score)
	aTask, err := f.tasks.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", aTask.Owner)
}

func TestService_Schedule_Identity(t *testing.T) {
	f := newFixture(t, "t1")
	_, err := f.claim.Schedule(context.Background(), "", "t1")
	assert.True(t, errors.Is(err, ErrInvalidIdentity))
}

func TestService_WithLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	boom := errors.New("boom")
	acquired, err := f.claim.WithLock(ctx, "t1", func(ctx context.Context) error {
		locked, _ := f.locker.IsLocked(ctx, "t1")
		assert.True(t, locked)
		return boom
	})
	assert.True(t, acquired)
	assert.True(t, errors.Is(err, boom))
	locked, _ := f.claim.IsLocked(ctx, "t1")
	assert.False(t, locked)

	cancelled, cancel := context.WithCancel(ctx)
	acquired, err = f.claim.WithLock(cancelled, "t1", func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})
	assert.True(t, acquired)
	assert.True(t, errors.Is(err, context.Canceled))
	locked, _ = f.claim.IsLocked(ctx, "t1")
	assert.False(t, locked)
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "scheduled", Scheduled.String())
	assert.Equal(t, "contended", Contended.String())
	assert.Equal(t, "unknown", Result(42).String())
}

func TestService_WithLock_Lost(t *testing.T) {
	ctx := context.Background()
	var mux sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time {
		mux.Lock()
		defer mux.Unlock()
		return now
	}
	defer func() { clock.NowFunc = time.Now }()

	f := newFixture(t, "t1")
	f.claim = New(f.tasks, f.ledger, f.locker, WithConfig(&Config{LockWait: 5 * time.Millisecond, LockHold: time.Hour}))
	var successor interface{}
	acquired, err := f.claim.WithLock(ctx, "t1", func(ctx context.Context) error {
		mux.Lock()
		now = now.Add(2 * time.Hour)
		mux.Unlock()
		lease, _ := f.locker.TryLock(context.Background(), "t1", 0, time.Hour)
		require.NotNil(t, lease)
		successor = lease
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("context not cancelled after lock loss")
		}
		assert.True(t, LockLost(ctx))
		return nil
	})
	assert.True(t, acquired)
	assert.True(t, errors.Is(err, ErrLockLost))
	assert.NotNil(t, successor)
	locked, _ := f.locker.IsLocked(ctx, "t1")
	assert.True(t, locked, "stale holder must not release its successor's lock")
}

func TestService_WithLock_Cancelled(t *testing.T) {
	f := newFixture(t)
	cancelled, cancel := context.WithCancel(context.Background())
	_, err := f.claim.WithLock(cancelled, "t1", func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		assert.False(t, LockLost(ctx))
		return nil
	})
	assert.NoError(t, err)
}

func TestConfig_RenewInterval(t *testing.T) {
	testCases := []struct {
		hold   time.Duration
		expect time.Duration
	}{
		{hold: 0, expect: 0},
		{hold: 30 * time.Second, expect: 10 * time.Second},
	}
	for _, tc := range testCases {
		t.Run(tc.hold.String(), func(t *testing.T) {
			assert.Equal(t, tc.expect, (&Config{LockHold: tc.hold}).RenewInterval())
		})
	}
}
