package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/afrovids/afrovids-api/internal/mediastore"
	"github.com/afrovids/afrovids-api/internal/merge"
	"github.com/afrovids/afrovids-api/internal/progress"
	"github.com/afrovids/afrovids-api/internal/render"
	"github.com/afrovids/afrovids-api/internal/script"
	"github.com/afrovids/afrovids-api/internal/speech"
)

const (
	scratchNamespace = "audio"
	publishNamespace = "videos"
)

// TaskRunner schedules background work. *ants.Pool satisfies it.
type TaskRunner interface {
	Submit(task func()) error
}

// goRunner falls back to a plain goroutine per task.
type goRunner struct{}

func (goRunner) Submit(task func()) error {
	go task()
	return nil
}

// Service orchestrates the generation pipeline. Generating the script is
// synchronous; every later stage runs detached from the originating request
// and reports through the progress publisher.
type Service struct {
	scripts  script.Generator
	speech   speech.Synthesizer
	renderer render.Renderer
	poller   *render.Poller
	store    mediastore.Store
	merger   merge.Merger
	notifier progress.Publisher
	tasks    TaskRunner
	logger   *slog.Logger

	workDir         string
	defaultLanguage string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTaskRunner sets the scheduler for background stages.
func WithTaskRunner(r TaskRunner) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.tasks = r
		}
	}
}

// WithWorkDir sets the directory for per-job scratch files.
func WithWorkDir(dir string) ServiceOption {
	return func(s *Service) {
		if dir != "" {
			s.workDir = dir
		}
	}
}

// WithDefaultLanguage sets the language used when a request omits one.
func WithDefaultLanguage(lang string) ServiceOption {
	return func(s *Service) {
		if lang != "" {
			s.defaultLanguage = lang
		}
	}
}

// NewService creates the pipeline service with its stage collaborators.
func NewService(
	scripts script.Generator,
	synth speech.Synthesizer,
	renderer render.Renderer,
	poller *render.Poller,
	store mediastore.Store,
	merger merge.Merger,
	notifier progress.Publisher,
	logger *slog.Logger,
	opts ...ServiceOption,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		scripts:         scripts,
		speech:          synth,
		renderer:        renderer,
		poller:          poller,
		store:           store,
		merger:          merger,
		notifier:        notifier,
		tasks:           goRunner{},
		logger:          logger,
		workDir:         filepath.Join(os.TempDir(), "afrovids"),
		defaultLanguage: "en",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the synchronous part of the pipeline: it validates the request
// and generates the narration script. The returned job is ready to be handed
// to Dispatch; Start itself schedules no background work, so the caller can
// answer the client before any later stage begins.
func (s *Service) Start(ctx context.Context, req Request) (*Job, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, ErrTopicRequired
	}
	if req.Language == "" {
		req.Language = s.defaultLanguage
	}

	job := newJob(req)
	s.logger.Info("job accepted",
		slog.String("job_id", job.ID),
		slog.String("topic", job.Topic),
		slog.String("language", job.Language),
	)

	s.notify(job, progress.Status("generating script"))
	text, err := s.scripts.Generate(ctx, job.Topic, job.DurationSec, job.Language)
	if err != nil {
		job.fail(err)
		return nil, fmt.Errorf("generate script: %w", err)
	}
	job.Script = text
	if err := job.advance(StageScriptDone); err != nil {
		return nil, err
	}
	return job, nil
}

// Dispatch schedules the remaining stages of a started job. The background
// run deliberately ignores cancellation of the originating request.
func (s *Service) Dispatch(ctx context.Context, job *Job) {
	detached := context.WithoutCancel(ctx)
	if err := s.tasks.Submit(func() { s.run(detached, job) }); err != nil {
		s.logger.Error("submit background job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		s.abort(detached, job, fmt.Errorf("schedule background work: %w", err))
	}
}

// run executes the detached stages: speech, render, merge, publish.
func (s *Service) run(ctx context.Context, job *Job) {
	s.notify(job, progress.Status("generating audio"))
	audioPath, err := s.speech.Synthesize(ctx, job.Script, job.Language)
	if err != nil {
		s.abort(ctx, job, fmt.Errorf("synthesize speech: %w", err))
		return
	}
	job.AudioPath = audioPath

	audioURL, err := s.store.Upload(ctx, audioPath, scratchNamespace)
	if err != nil {
		s.abort(ctx, job, fmt.Errorf("upload audio: %w", err))
		return
	}
	job.AudioURL = audioURL
	s.notify(job, progress.Update("audio", audioURL))
	if err := job.advance(StageAudioDone); err != nil {
		s.abort(ctx, job, err)
		return
	}

	s.notify(job, progress.Status("generating video"))
	handle, err := s.renderer.Submit(ctx, job.Script, job.DurationSec)
	if err != nil {
		s.abort(ctx, job, fmt.Errorf("submit render: %w", err))
		return
	}
	videoURL, err := s.poller.Wait(ctx, s.renderer, handle)
	if err != nil {
		s.abort(ctx, job, fmt.Errorf("wait for render: %w", err))
		return
	}
	job.VideoURL = videoURL
	s.notify(job, progress.Update("video", videoURL))
	if err := job.advance(StageVideoDone); err != nil {
		s.abort(ctx, job, err)
		return
	}

	s.notify(job, progress.Status("merging audio and video"))
	jobDir := filepath.Join(s.workDir, job.ID)
	if err := os.MkdirAll(jobDir, 0750); err != nil {
		s.abort(ctx, job, fmt.Errorf("create work dir: %w", err))
		return
	}
	mergedPath, err := s.merger.Merge(ctx, job.AudioURL, job.VideoURL, jobDir)
	if err != nil {
		s.abort(ctx, job, fmt.Errorf("merge audio and video: %w", err))
		return
	}
	job.MergedPath = mergedPath
	if err := job.advance(StageMerged); err != nil {
		s.abort(ctx, job, err)
		return
	}

	mergedURL, err := s.store.Upload(ctx, mergedPath, publishNamespace)
	if err != nil {
		s.abort(ctx, job, fmt.Errorf("publish video: %w", err))
		return
	}
	job.MergedURL = mergedURL

	// The scratch audio served its purpose once the merged file exists.
	if err := s.store.Delete(ctx, job.AudioURL); err != nil {
		s.logger.Warn("delete scratch audio",
			slog.String("job_id", job.ID),
			slog.String("url", job.AudioURL),
			slog.String("error", err.Error()),
		)
	}
	s.cleanupLocal(job)

	s.notify(job, progress.Update("merged", mergedURL))
	s.notify(job, progress.Complete(job.Script, job.VideoURL, job.MergedURL))
	if err := job.advance(StagePublished); err != nil {
		s.logger.Error("finalize job", slog.String("job_id", job.ID), slog.String("error", err.Error()))
		return
	}
	s.logger.Info("job published",
		slog.String("job_id", job.ID),
		slog.String("url", job.MergedURL),
	)
}

// abort marks the job failed, tells the client, and releases scratch state.
func (s *Service) abort(ctx context.Context, job *Job, cause error) {
	s.logger.Error("job failed",
		slog.String("job_id", job.ID),
		slog.String("stage", string(job.Stage)),
		slog.String("error", cause.Error()),
	)
	job.fail(cause)
	s.notify(job, progress.Error(cause.Error()))

	if job.AudioURL != "" {
		if err := s.store.Delete(ctx, job.AudioURL); err != nil {
			s.logger.Warn("delete scratch audio",
				slog.String("job_id", job.ID),
				slog.String("url", job.AudioURL),
				slog.String("error", err.Error()),
			)
		}
	}
	s.cleanupLocal(job)
}

// cleanupLocal removes the job's temp files. Safe to call more than once;
// missing files are not an error.
func (s *Service) cleanupLocal(job *Job) {
	for _, path := range []string{job.AudioPath, job.MergedPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("remove temp file",
				slog.String("job_id", job.ID),
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	}
	job.AudioPath = ""
	job.MergedPath = ""

	jobDir := filepath.Join(s.workDir, job.ID)
	if err := os.Remove(jobDir); err != nil && !os.IsNotExist(err) {
		s.logger.Debug("job work dir not removed", slog.String("path", jobDir))
	}
}

// notify pushes an event to the job's client, if it named one.
func (s *Service) notify(job *Job, ev progress.Event) {
	if job.ClientID == "" || s.notifier == nil {
		return
	}
	s.notifier.Publish(job.ClientID, ev)
}
