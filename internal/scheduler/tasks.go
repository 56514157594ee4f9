package scheduler

import (
	"encoding/json"

	"marmurfit_voicebot/internal/leads/domain"

	"github.com/hibiken/asynq"
)

const TaskLeadDeliver = "leads.deliver"

type LeadDeliverPayload struct {
	Lead domain.Lead `json:"lead"`
}

func NewLeadDeliverTask(payload LeadDeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadDeliver, data), nil
}

func ParseLeadDeliverPayload(task *asynq.Task) (LeadDeliverPayload, error) {
	var payload LeadDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadDeliverPayload{}, err
	}
	return payload, nil
}
