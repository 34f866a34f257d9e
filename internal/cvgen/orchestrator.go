package cvgen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"portfolio-backend/internal/cvrender"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/shared/util"
	"portfolio-backend/internal/tempstore"
)

const (
	DefaultFilePrefix = "portfolio-cv"

	progressRendering = 20
	progressStoring   = 80
	progressReady     = 100

	msgLoadFailed   = "could not load profile data"
	msgNoHandle     = "could not create download handle"
	msgFileNotFound = "file not found in temporary storage, please regenerate"
	msgSaveFailed   = "could not save the file"
)

// DataSource assembles the profile data for one document.
type DataSource interface {
	Bundle(ctx context.Context, req portfolio.BundleRequest) (portfolio.Bundle, error)
}

// Renderer turns a bundle into a document.
type Renderer interface {
	Render(ctx context.Context, b portfolio.Bundle, opts cvrender.Options) (cvrender.Document, error)
}

// Store is the temporary object store the orchestrator hands documents to.
type Store interface {
	Put(payload []byte, filename, contentType string) string
	CreateDownloadHandle(id string) (tempstore.Handle, bool)
	ForceDownload(id string, saver tempstore.Saver) error
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Source     DataSource
	Renderer   Renderer
	Store      Store
	FilePrefix string
	Now        func() time.Time
}

// Orchestrator drives one generation at a time and tracks its state.
// Every state write is tagged with a generation number; writes from a
// superseded or reset generation are dropped.
type Orchestrator struct {
	deps Deps

	mu    sync.Mutex
	state State
	gen   uint64
}

// New constructs an idle Orchestrator.
func New(deps Deps) *Orchestrator {
	if deps.FilePrefix == "" {
		deps.FilePrefix = DefaultFilePrefix
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{
		deps:  deps,
		state: State{Phase: PhaseIdle},
	}
}

// Generate assembles, renders and stores a document. It reports true only
// when the orchestrator reached the ready phase for this call.
func (o *Orchestrator) Generate(ctx context.Context, opts Options) bool {
	opts = opts.normalized()

	o.mu.Lock()
	o.gen++
	gen := o.gen
	o.state = State{Phase: PhasePreparing}
	o.mu.Unlock()
	metrics.IncGenerationStarted()

	bundle, err := o.deps.Source.Bundle(ctx, portfolio.BundleRequest{
		Language:          opts.Language,
		IncludeSkills:     opts.IncludeSkills,
		IncludeProjects:   opts.IncludeProjects,
		IncludeExperience: opts.IncludeExperience,
	})
	if err != nil {
		return o.fail(gen, msgLoadFailed, err)
	}
	if !o.advance(gen, PhaseRendering, progressRendering) {
		return false
	}

	now := o.deps.Now()
	start := time.Now()
	doc, err := o.deps.Renderer.Render(ctx, bundle, cvrender.Options{
		Language: opts.Language,
		Theme:    opts.Theme,
		Layout:   opts.Format,
		Date:     now,
	})
	metrics.ObserveRenderDurationMs(metrics.SinceMillis(start))
	if err != nil {
		return o.fail(gen, err.Error(), nil)
	}
	if !o.advance(gen, PhaseStoring, progressStoring) {
		return false
	}

	filename := Filename(o.deps.FilePrefix, opts.Format, opts.Language, now)
	id := o.deps.Store.Put(doc.Bytes, filename, doc.ContentType)
	handle, ok := o.deps.Store.CreateDownloadHandle(id)
	if !ok {
		return o.fail(gen, msgNoHandle, nil)
	}

	result := &Result{
		ID:       id,
		Handle:   handle,
		Filename: filename,
		Metadata: Metadata{
			GeneratedAt:     now,
			Format:          opts.Format,
			Language:        opts.Language,
			SkillsCount:     len(bundle.Skills),
			ProjectsCount:   len(bundle.Projects),
			ExperienceCount: len(bundle.Experience),
			SizeBytes:       len(doc.Bytes),
			SizeLabel:       humanize.IBytes(uint64(len(doc.Bytes))),
			SHA256:          util.SHA256Hex(doc.Bytes),
		},
	}

	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		telemetry.Info("cvgen.superseded", map[string]any{"id": id, "phase": string(PhaseReady)})
		return false
	}
	o.state = State{Phase: PhaseReady, Progress: progressReady, Result: result}
	o.mu.Unlock()

	metrics.IncGenerationCompleted()
	telemetry.Info("cvgen.ready", map[string]any{
		"id":       id,
		"filename": filename,
		"size":     len(doc.Bytes),
		"language": opts.Language,
	})
	return true
}

// Download hands the ready document to saver. It returns false without
// touching the store unless a previous Generate reached ready.
func (o *Orchestrator) Download(ctx context.Context, saver tempstore.Saver) bool {
	if ctx.Err() != nil || saver == nil {
		return false
	}

	o.mu.Lock()
	if o.state.Phase != PhaseReady || o.state.Result == nil {
		o.mu.Unlock()
		return false
	}
	gen := o.gen
	id := o.state.Result.ID
	o.state.Phase = PhaseDownloading
	o.mu.Unlock()

	err := o.deps.Store.ForceDownload(id, saver)

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return err == nil
	}
	if err != nil {
		msg := msgSaveFailed
		if errors.Is(err, tempstore.ErrNotFound) {
			msg = msgFileNotFound
		}
		o.state = State{Phase: PhaseError, Error: msg}
		telemetry.Warn("cvgen.download_failed", map[string]any{"id": id, "error": err.Error()})
		return false
	}
	o.state.Phase = PhaseReady
	metrics.IncDownloads()
	return true
}

// Reset returns to idle. Entries already in the store are left to its sweep.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.gen++
	o.state = State{Phase: PhaseIdle}
	o.mu.Unlock()
}

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.state
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}

func (o *Orchestrator) advance(gen uint64, phase Phase, progress int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return false
	}
	o.state.Phase = phase
	o.state.Progress = progress
	telemetry.Debug("cvgen.phase", map[string]any{"phase": string(phase), "progress": progress})
	return true
}

func (o *Orchestrator) fail(gen uint64, msg string, cause error) bool {
	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		return false
	}
	o.state = State{Phase: PhaseError, Progress: o.state.Progress, Error: msg}
	o.mu.Unlock()

	metrics.IncGenerationFailed()
	fields := map[string]any{"message": msg}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	telemetry.Warn("cvgen.failed", fields)
	return false
}

// Filename is <prefix>-<format>-<language>-<YYYY-MM-DD>.pdf.
func Filename(prefix, format, language string, date time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%s.pdf", prefix, format, language, date.Format("2006-01-02"))
}
