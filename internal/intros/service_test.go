package intros

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"resume-intro-backend/internal/extract"
	"resume-intro-backend/internal/generations"
	"resume-intro-backend/internal/llm"
)

// fakeLLM answers locate prompts with locateReply and everything else with
// generateReply, counting calls.
type fakeLLM struct {
	calls         atomic.Int64
	locateReply   string
	generateReply string
	err           error
}

func (f *fakeLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	if len(messages) > 0 && strings.Contains(messages[0].Content, "resume parser") {
		return f.locateReply, nil
	}
	return f.generateReply, nil
}

func samplePDF(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "extract", "testdata", "sample.pdf"))
	if err != nil {
		t.Fatalf("read sample pdf: %v", err)
	}
	return data
}

func waitForGenerations(t *testing.T, repo generations.Repo, userID string, want int) []generations.Generation {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		out, err := repo.ListByUser(context.Background(), userID, 10, 0)
		if err != nil {
			t.Fatalf("ListByUser: %v", err)
		}
		if len(out) >= want {
			return out
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d saved generations, got %d", want, len(out))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestGenerateIntroValidationSkipsLLM(t *testing.T) {
	fake := &fakeLLM{generateReply: "intro"}
	svc := &Service{LLM: fake}

	tests := []struct {
		name   string
		jd     string
		skills string
	}{
		{name: "empty skills", jd: "jd", skills: ""},
		{name: "empty jd", jd: "", skills: "skills"},
		{name: "whitespace only", jd: "  \n ", skills: "\t"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GenerateIntro(context.Background(), "", tt.jd, tt.skills)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	if got := fake.calls.Load(); got != 0 {
		t.Fatalf("completion service called %d times on invalid input", got)
	}
}

func TestGenerateIntroSuccessPersistsRecord(t *testing.T) {
	repo := generations.NewMemoryRepo()
	fake := &fakeLLM{generateReply: "  Frontend engineer with React experience.  "}
	svc := &Service{LLM: fake, Repo: repo}

	intro, err := svc.GenerateIntro(context.Background(), "user-1", "Seeking frontend engineer", "React developer")
	if err != nil {
		t.Fatalf("GenerateIntro: %v", err)
	}
	if intro != "Frontend engineer with React experience." {
		t.Fatalf("expected trimmed intro, got %q", intro)
	}

	saved := waitForGenerations(t, repo, "user-1", 1)
	if saved[0].Source != generations.SourceFree {
		t.Fatalf("expected source free, got %s", saved[0].Source)
	}
	if saved[0].GeneratedIntro != intro {
		t.Fatalf("saved intro mismatch: %q", saved[0].GeneratedIntro)
	}
	if saved[0].ID == "" {
		t.Fatal("expected generated record id")
	}
}

func TestGenerateIntroUnavailableService(t *testing.T) {
	fake := &fakeLLM{err: llm.ErrUnavailable}
	svc := &Service{LLM: fake}

	_, err := svc.GenerateIntro(context.Background(), "", "jd", "skills")
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGenerateIntroBlankModelOutput(t *testing.T) {
	fake := &fakeLLM{generateReply: "   \n "}
	svc := &Service{LLM: fake}

	_, err := svc.GenerateIntro(context.Background(), "", "jd", "skills")
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestReplaceIntroValidation(t *testing.T) {
	fake := &fakeLLM{generateReply: "intro"}
	svc := &Service{LLM: fake}

	if _, err := svc.ReplaceIntro(context.Background(), "", nil, "jd", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing document, got %v", err)
	}
	if _, err := svc.ReplaceIntro(context.Background(), "", samplePDF(t), " ", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing job description, got %v", err)
	}
	if got := fake.calls.Load(); got != 0 {
		t.Fatalf("completion service called %d times on invalid input", got)
	}
}

func TestReplaceIntroFullPipeline(t *testing.T) {
	repo := generations.NewMemoryRepo()
	fake := &fakeLLM{
		locateReply:   "Experienced software engineer with React and Node.js background.",
		generateReply: "Frontend engineer with three years of React experience building e-commerce products.",
	}
	svc := &Service{LLM: fake, Repo: repo}

	result, err := svc.ReplaceIntro(context.Background(), "user-1", samplePDF(t), "Seeking frontend engineer", "React developer")
	if err != nil {
		t.Fatalf("ReplaceIntro: %v", err)
	}
	if result.Intro != fake.generateReply {
		t.Fatalf("unexpected intro %q", result.Intro)
	}
	if result.LocatedIntro != fake.locateReply {
		t.Fatalf("unexpected located intro %q", result.LocatedIntro)
	}

	// Locate and generate are two separate calls, in that order.
	if got := fake.calls.Load(); got != 2 {
		t.Fatalf("expected 2 completion calls, got %d", got)
	}

	pdfBytes, err := base64.StdEncoding.DecodeString(result.PDFBase64)
	if err != nil {
		t.Fatalf("pdf field is not valid base64: %v", err)
	}
	if !strings.HasPrefix(string(pdfBytes), "%PDF") {
		t.Fatal("decoded pdf missing %PDF header")
	}

	saved := waitForGenerations(t, repo, "user-1", 1)
	if saved[0].Source != generations.SourcePro {
		t.Fatalf("expected source pro, got %s", saved[0].Source)
	}
}

func TestReplaceIntroRejectsCorruptedUpload(t *testing.T) {
	fake := &fakeLLM{generateReply: "intro"}
	svc := &Service{LLM: fake}

	_, err := svc.ReplaceIntro(context.Background(), "", []byte("plain text renamed to pdf"), "jd", "")
	if !errors.Is(err, extract.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if got := fake.calls.Load(); got != 0 {
		t.Fatalf("completion service called %d times for unreadable document", got)
	}

	var stageErr *PipelineError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected PipelineError, got %T", err)
	}
	if stageErr.Stage != StageExtracting {
		t.Fatalf("expected failure at %q, got %q", StageExtracting, stageErr.Stage)
	}
}

func TestReplaceIntroLocatorFailureAborts(t *testing.T) {
	fake := &fakeLLM{err: llm.ErrUnavailable}
	svc := &Service{LLM: fake}

	_, err := svc.ReplaceIntro(context.Background(), "", samplePDF(t), "jd", "skills")
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	// Pipeline stops at the first failing step.
	if got := fake.calls.Load(); got != 1 {
		t.Fatalf("expected 1 completion call, got %d", got)
	}

	var stageErr *PipelineError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected PipelineError, got %T", err)
	}
	if stageErr.Stage != StageLocating {
		t.Fatalf("expected failure at %q, got %q", StageLocating, stageErr.Stage)
	}
}
