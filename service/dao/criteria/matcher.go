package criteria

import (
	"github.com/viant/tooring/model/task"
	"github.com/viant/tooring/service/dao"
)

// Parameter names understood by FilterTask
const (
	Scheduled = "Scheduled"
	Busy      = "Busy"
	Done      = "Done"
	Owner     = "Owner"
)

// FilterTask returns true when the task matches every parameter; unknown
// parameters are ignored
func FilterTask(aTask *task.Task, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		switch parameter.Name {
		case Scheduled:
			if !matchFlag(aTask.Scheduled, parameter.Value) {
				return false
			}
		case Busy:
			if !matchFlag(aTask.Busy, parameter.Value) {
				return false
			}
		case Done:
			if !matchFlag(aTask.Done, parameter.Value) {
				return false
			}
		case Owner:
			if !matchString(aTask.Owner, parameter.Value) {
				return false
			}
		}
	}
	return true
}

func matchFlag(flag bool, value interface{}) bool {
	expected, ok := value.(bool)
	return !ok || flag == expected
}

func matchString(actual string, value interface{}) bool {
	switch expected := value.(type) {
	case string:
		return actual == expected
	case []string:
		for _, candidate := range expected {
			if actual == candidate {
				return true
			}
		}
		return false
	}
	return true
}
