package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskAssignmentResolve = "engine.assignment.resolve"

type AssignmentResolvePayload struct {
	AssignmentID int64 `json:"assignmentId"`
}

func NewAssignmentResolveTask(payload AssignmentResolvePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAssignmentResolve, data), nil
}

func ParseAssignmentResolvePayload(task *asynq.Task) (AssignmentResolvePayload, error) {
	var payload AssignmentResolvePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AssignmentResolvePayload{}, err
	}
	return payload, nil
}
