package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"jobbot/models"
)

const TypeCRMSync = "crm:sync"

func NewCRMSyncTask(payload models.CRMSyncPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	return asynq.NewTask(TypeCRMSync, b), []asynq.Option{asynq.MaxRetry(3)}, nil
}
