package intros

// Pipeline stages for the Pro path. One forward path, no branching
// recovery: any failure is terminal for the request.
const (
	StageReceived   = "received"
	StageExtracting = "extracting"
	StageLocating   = "locating"
	StageGenerating = "generating"
	StageRewriting  = "rewriting"
	StageEncoding   = "encoding"
	StageDone       = "done"
)

// ReplaceResult is the outcome of one Pro pipeline run.
type ReplaceResult struct {
	// Intro is the newly generated introduction.
	Intro string
	// LocatedIntro is the model's best-effort guess at the existing intro.
	// Kept for display and telemetry only; it never feeds later steps.
	LocatedIntro string
	// PDFBase64 is the rewritten document, base64-encoded.
	PDFBase64 string
}
