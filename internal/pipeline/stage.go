// Package pipeline sequences narrated-video generation: script, speech,
// render, merge, publish. One job is one linear pass through the stages; the
// script stage runs inside the caller's request, everything after runs
// detached and reports through the progress channel.
package pipeline

import "errors"

// Stage represents the current state of a generation job.
type Stage string

const (
	// StageAccepted indicates the request was accepted and nothing has run.
	StageAccepted Stage = "ACCEPTED"
	// StageScriptDone indicates narration text was generated.
	StageScriptDone Stage = "SCRIPT_DONE"
	// StageAudioDone indicates speech was synthesized and uploaded as scratch.
	StageAudioDone Stage = "AUDIO_DONE"
	// StageVideoDone indicates the renderer produced a remote video.
	StageVideoDone Stage = "VIDEO_DONE"
	// StageMerged indicates audio and video were muxed into a local file.
	StageMerged Stage = "MERGED"
	// StagePublished indicates the merged video was uploaded. Terminal.
	StagePublished Stage = "PUBLISHED"
	// StageFailed indicates a stage failed. Terminal.
	StageFailed Stage = "FAILED"
)

// ErrInvalidTransition is returned when a stage transition would move
// backwards, skip a stage, or leave a terminal stage.
var ErrInvalidTransition = errors.New("pipeline: invalid stage transition")

// validTransitions defines the strictly monotonic stage order.
// Every non-terminal stage may also fail.
var validTransitions = map[Stage][]Stage{
	StageAccepted:   {StageScriptDone, StageFailed},
	StageScriptDone: {StageAudioDone, StageFailed},
	StageAudioDone:  {StageVideoDone, StageFailed},
	StageVideoDone:  {StageMerged, StageFailed},
	StageMerged:     {StagePublished, StageFailed},
	StagePublished:  {},
	StageFailed:     {},
}

// canTransition checks if a transition from one stage to another is valid.
func canTransition(from, to Stage) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the stage has no successors.
func (s Stage) IsTerminal() bool {
	return s == StagePublished || s == StageFailed
}
