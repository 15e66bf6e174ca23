package selector

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tooring/model/machine"
	"github.com/viant/tooring/model/task"
	taskdao "github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/ledger"
	"github.com/viant/tooring/service/store/memory"
	"testing"
)

func TestService_SelectNext(t *testing.T) {
	ctx := context.Background()
	type entry struct {
		id    string
		owner string
		state func(aTask *task.Task)
	}
	busy := func(aTask *task.Task) { aTask.Start() }
	done := func(aTask *task.Task) { aTask.Finish(machine.HaltAccepted, 1) }
	unscheduled := func(aTask *task.Task) { aTask.Scheduled = false }

	testCases := []struct {
		name     string
		scores   map[string]int
		entries  []entry
		expectID string
		expectOK bool
	}{
		{name: "empty"},
		{
			name:     "higher score wins",
			scores:   map[string]int{"u1": 5, "u2": 3},
			entries:  []entry{{id: "t1", owner: "u2"}, {id: "t2", owner: "u1"}},
			expectID: "t2",
			expectOK: true,
		},
		{
			name:     "negative scores",
			scores:   map[string]int{"u1": -2, "u2": -1},
			entries:  []entry{{id: "t1", owner: "u1"}, {id: "t2", owner: "u2"}},
			expectID: "t2",
			expectOK: true,
		},
		{
			name:     "tie picks first encountered",
			scores:   map[string]int{"u1": 1, "u2": 1},
			entries:  []entry{{id: "t2", owner: "u1"}, {id: "t1", owner: "u2"}},
			expectID: "t1",
			expectOK: true,
		},
		{
			name:   "ineligible tasks are skipped",
			scores: map[string]int{"u1": 5, "u2": 3},
			entries: []entry{
				{id: "t1", owner: "u1", state: busy},
				{id: "t2", owner: "u1", state: done},
				{id: "t3", owner: "u1", state: unscheduled},
				{id: "t4", owner: "u2"},
			},
			expectID: "t4",
			expectOK: true,
		},
		{
			name:    "nothing eligible",
			entries: []entry{{id: "t1", owner: "u1", state: busy}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := taskdao.New(memory.NewMap())
			credits := ledger.New(memory.NewCounter())
			for identity, score := range tc.scores {
				for i := 0; i < abs(score); i++ {
					if score > 0 {
						_, _ = credits.Credit(ctx, identity)
					} else {
						_, _ = credits.Debit(ctx, identity)
					}
				}
			}
			for _, e := range tc.entries {
				aTask := task.NewTask(e.id, machine.New())
				aTask.Schedule(e.owner)
				if e.state != nil {
					e.state(aTask)
				}
				require.NoError(t, tasks.Save(ctx, aTask))
			}
			srv := New(tasks, credits)
			actualID, ok, err := srv.SelectNext(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.expectOK, ok)
			assert.Equal(t, tc.expectID, actualID)
		})
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
