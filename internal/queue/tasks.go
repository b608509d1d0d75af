package queue

const (
	TypeAudioWarm = "audio:warm"

	QueueDefault = "default"
	QueueLow     = "low"
)

// AudioWarmPayload asks the worker to make sure one provider/prompt clip is cached.
type AudioWarmPayload struct {
	ProviderID string `json:"provider_id"`
	PromptID   string `json:"prompt_id"`
}

// TaskID is stable per provider/prompt so a pending warm-up is never queued twice.
func (p AudioWarmPayload) TaskID() string {
	return TypeAudioWarm + ":" + p.ProviderID + ":" + p.PromptID
}
