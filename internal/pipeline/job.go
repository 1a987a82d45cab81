package pipeline

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrTopicRequired is returned when a request carries no topic.
var ErrTopicRequired = errors.New("pipeline: topic is required")

// Request describes a narrated-video generation request.
type Request struct {
	// Topic is the subject the narration is written about. Required.
	Topic string
	// Language selects narration language and voice. Empty means the
	// service default.
	Language string
	// DurationSec is the target video duration in seconds. Zero means the
	// provider default.
	DurationSec int
	// ClientID addresses progress events. Empty means the job runs
	// without progress reporting.
	ClientID string
}

// Job tracks one generation pass. A job lives in the closure of the
// goroutine running it and is never shared, so it carries no lock.
type Job struct {
	ID          string
	Topic       string
	Language    string
	DurationSec int
	ClientID    string
	Stage       Stage

	Script     string
	AudioPath  string
	AudioURL   string
	VideoURL   string
	MergedPath string
	MergedURL  string
	Err        string
}

func newJob(req Request) *Job {
	return &Job{
		ID:          uuid.NewString(),
		Topic:       req.Topic,
		Language:    req.Language,
		DurationSec: req.DurationSec,
		ClientID:    req.ClientID,
		Stage:       StageAccepted,
	}
}

// advance moves the job to the next stage, enforcing the stage order.
func (j *Job) advance(to Stage) error {
	if !canTransition(j.Stage, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Stage, to)
	}
	j.Stage = to
	return nil
}

// fail marks the job failed with the given cause.
func (j *Job) fail(cause error) {
	j.Err = cause.Error()
	j.Stage = StageFailed
}
