package selector

import (
	"context"
	"github.com/viant/tooring/service/dao"
	"github.com/viant/tooring/service/dao/criteria"
	taskdao "github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/ledger"
)

// Service picks the next task to execute. Among eligible tasks the one whose
// owner has the highest credit score wins; ties go to the first task in key
// order.
type Service struct {
	tasks  *taskdao.Service
	ledger *ledger.Service
}

// SelectNext returns the best eligible task ID, ok is false when none is eligible.
// The choice is advisory: the caller must re-check eligibility under the task lock.
func (s *Service) SelectNext(ctx context.Context) (string, bool, error) {
	candidates, err := s.tasks.List(ctx,
		dao.NewFlag(criteria.Scheduled, true),
		dao.NewFlag(criteria.Busy, false),
		dao.NewFlag(criteria.Done, false))
	if err != nil {
		return "", false, err
	}
	var selected string
	var best int64
	scores := make(map[string]int64)
	for _, candidate := range candidates {
		score, ok := scores[candidate.Owner]
		if !ok {
			if score, err = s.ledger.Score(ctx, candidate.Owner); err != nil {
				return "", false, err
			}
			scores[candidate.Owner] = score
		}
		if selected == "" || score > best {
			selected, best = candidate.ID, score
		}
	}
	return selected, selected != "", nil
}

// New creates a selector
func New(tasks *taskdao.Service, ledger *ledger.Service) *Service {
	return &Service{tasks: tasks, ledger: ledger}
}
