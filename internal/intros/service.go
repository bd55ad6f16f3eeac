package intros

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-intro-backend/internal/extract"
	"resume-intro-backend/internal/generations"
	"resume-intro-backend/internal/llm"
	"resume-intro-backend/internal/rewrite"
	"resume-intro-backend/internal/shared/metrics"
	"resume-intro-backend/internal/shared/telemetry"
)

const saveTimeout = 5 * time.Second

// Service contains business logic for intro generation and resume rewriting.
type Service struct {
	LLM  llm.Client
	Repo generations.Repo // nil disables persistence
}

// GenerateIntro runs the free-form path: one completion call, no document
// handling. userID may be empty for anonymous requests.
func (s *Service) GenerateIntro(ctx context.Context, userID, jobDescription, skillsAndProjects string) (string, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	skillsAndProjects = strings.TrimSpace(skillsAndProjects)
	if jobDescription == "" || skillsAndProjects == "" {
		return "", fmt.Errorf("%w: skillsAndProjects, jobDescription", ErrValidation)
	}

	intro, err := s.complete(ctx, llm.GenerateIntroMessages(jobDescription, skillsAndProjects))
	if err != nil {
		metrics.IncIntroFailed()
		return "", fmt.Errorf("generate intro: %w", err)
	}

	metrics.IncIntroGenerated()
	s.saveAsync(ctx, generations.Generation{
		UserID:            userID,
		JobDescription:    jobDescription,
		SkillsAndProjects: skillsAndProjects,
		GeneratedIntro:    intro,
		Source:            generations.SourceFree,
	})
	return intro, nil
}

// ReplaceIntro runs the Pro pipeline over one uploaded document:
// extract, locate, generate, rewrite, encode, in strict sequence.
// The uploaded bytes are read-only input; the rewrite produces a new
// byte sequence.
func (s *Service) ReplaceIntro(ctx context.Context, userID string, document []byte, jobDescription, skillsAndProjects string) (ReplaceResult, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	skillsAndProjects = strings.TrimSpace(skillsAndProjects)
	if len(document) == 0 {
		return ReplaceResult{}, fmt.Errorf("%w: no file uploaded", ErrValidation)
	}
	if jobDescription == "" {
		return ReplaceResult{}, fmt.Errorf("%w: jobDescription", ErrValidation)
	}

	stage := StageReceived
	fail := func(err error) (ReplaceResult, error) {
		metrics.IncReplaceFailed()
		telemetry.Error("replace.failed", map[string]any{
			"stage": stage,
			"err":   err.Error(),
		})
		return ReplaceResult{}, &PipelineError{Stage: stage, Err: err}
	}

	stage = StageExtracting
	fullText, err := extract.Text(ctx, document)
	if err != nil {
		return fail(err)
	}

	// Best-effort location of the existing intro. The result is reported
	// back for display but does not drive the overlay coordinates.
	stage = StageLocating
	locatedIntro, err := s.complete(ctx, llm.LocateIntroMessages(fullText))
	if err != nil {
		return fail(fmt.Errorf("locate intro: %w", err))
	}

	stage = StageGenerating
	newIntro, err := s.complete(ctx, llm.GenerateIntroMessages(jobDescription, skillsAndProjects))
	if err != nil {
		return fail(fmt.Errorf("generate intro: %w", err))
	}

	stage = StageRewriting
	start := time.Now()
	rewritten, err := rewrite.ReplaceIntro(document, newIntro)
	if err != nil {
		return fail(err)
	}
	metrics.ObserveRewriteDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)

	stage = StageEncoding
	encoded := base64.StdEncoding.EncodeToString(rewritten)

	stage = StageDone
	metrics.IncReplaceCompleted()
	telemetry.Info("replace.complete", map[string]any{
		"located_intro_len": len(locatedIntro),
		"intro_len":         len(newIntro),
		"pdf_bytes":         len(rewritten),
	})

	s.saveAsync(ctx, generations.Generation{
		UserID:            userID,
		JobDescription:    jobDescription,
		SkillsAndProjects: skillsAndProjects,
		GeneratedIntro:    newIntro,
		Source:            generations.SourcePro,
	})

	return ReplaceResult{
		Intro:        newIntro,
		LocatedIntro: locatedIntro,
		PDFBase64:    encoded,
	}, nil
}

// complete calls the completion service once and enforces non-empty output.
func (s *Service) complete(ctx context.Context, messages []llm.Message) (string, error) {
	out, err := s.LLM.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrGeneration
	}
	return out, nil
}

// saveAsync records the generation fire-and-forget. Failures are logged and
// never affect the primary response.
func (s *Service) saveAsync(ctx context.Context, gen generations.Generation) {
	if s.Repo == nil {
		return
	}
	gen.ID = uuid.NewString()
	gen.CreatedAt = time.Now().UTC()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	go func() {
		defer cancel()
		if err := s.Repo.Create(saveCtx, gen); err != nil {
			telemetry.Error("generation.save_failed", map[string]any{
				"generation_id": gen.ID,
				"source":        gen.Source,
				"err":           err.Error(),
			})
			return
		}
		telemetry.Info("generation.saved", map[string]any{
			"generation_id": gen.ID,
			"source":        gen.Source,
		})
	}()
}
