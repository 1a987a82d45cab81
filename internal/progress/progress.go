// Package progress fans job lifecycle events out to subscribed clients.
// Delivery is at-most-once and best-effort: events addressed to a client with
// no registered endpoint are dropped, never queued.
package progress

// Kind classifies a progress event.
type Kind string

const (
	// KindStatus announces the stage about to run, as human-readable text.
	KindStatus Kind = "status"
	// KindUpdate carries a stage name and the artifact it produced.
	KindUpdate Kind = "update"
	// KindError reports a terminal pipeline failure.
	KindError Kind = "error"
	// KindComplete reports the final artifacts of a finished pipeline.
	KindComplete Kind = "complete"
)

// Event is one message pushed to a subscriber.
type Event struct {
	Kind    Kind `json:"type"`
	Payload any  `json:"payload"`
}

// UpdatePayload is the payload of a KindUpdate event.
type UpdatePayload struct {
	Step string `json:"step"`
	Data any    `json:"data"`
}

// ErrorPayload is the payload of a KindError event.
type ErrorPayload struct {
	Message string `json:"message"`
}

// CompletePayload is the payload of a KindComplete event.
type CompletePayload struct {
	Script    string `json:"script"`
	VideoURL  string `json:"videoUrl"`
	MergedURL string `json:"mergedUrl"`
}

// Status builds a KindStatus event.
func Status(message string) Event {
	return Event{Kind: KindStatus, Payload: message}
}

// Update builds a KindUpdate event.
func Update(step string, data any) Event {
	return Event{Kind: KindUpdate, Payload: UpdatePayload{Step: step, Data: data}}
}

// Error builds a KindError event.
func Error(message string) Event {
	return Event{Kind: KindError, Payload: ErrorPayload{Message: message}}
}

// Complete builds a KindComplete event.
func Complete(script, videoURL, mergedURL string) Event {
	return Event{Kind: KindComplete, Payload: CompletePayload{
		Script:    script,
		VideoURL:  videoURL,
		MergedURL: mergedURL,
	}}
}

// Publisher is the send-side contract the pipeline depends on.
type Publisher interface {
	// Publish delivers an event to the client's current endpoint, if any.
	// Publishing to an unknown or empty client ID is a silent no-op.
	Publish(clientID string, ev Event)
}
