package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeProcessImage = "image:process"

type ProcessImagePayload struct {
	ID string `json:"id" validate:"required,uuid"`
}

// NewProcessImageTask creates an Asynq task for processing a product image by ID.
func NewProcessImageTask(imageID string) (*asynq.Task, error) {
	p := ProcessImagePayload{ID: imageID}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal process-image payload: %w", err)
	}
	return asynq.NewTask(TypeProcessImage, data), nil
}

// ParseProcessImagePayload parses the task payload to ProcessImagePayload.
func ParseProcessImagePayload(t *asynq.Task) (ProcessImagePayload, error) {
	var p ProcessImagePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return ProcessImagePayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
