package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"jobbot/models"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.BookingID + ":" + payload.Lead),
	}
	return task, opts, nil
}
