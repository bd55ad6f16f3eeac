package intros

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-intro-backend/internal/extract"
	"resume-intro-backend/internal/llm"
	"resume-intro-backend/internal/rewrite"
	"resume-intro-backend/internal/shared/server/middleware"
	"resume-intro-backend/internal/shared/server/respond"
)

const maxUploadBytes = 5 << 20

// Handler exposes the two generation endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers intro routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-intro", h.generateIntro)
	rg.POST("/replace-intro", h.replaceIntro)
}

type generateIntroRequest struct {
	SkillsAndProjects string `json:"skillsAndProjects"`
	JobDescription    string `json:"jobDescription"`
}

type generateIntroResponse struct {
	Intro string `json:"intro"`
}

type replaceIntroResponse struct {
	Intro string `json:"intro"`
	PDF   string `json:"pdf"`
}

func (h *Handler) generateIntro(c *gin.Context) {
	var req generateIntroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "Missing or invalid fields: skillsAndProjects, jobDescription")
		return
	}
	if strings.TrimSpace(req.SkillsAndProjects) == "" || strings.TrimSpace(req.JobDescription) == "" {
		respond.Error(c, http.StatusBadRequest, "Missing or invalid fields: skillsAndProjects, jobDescription")
		return
	}

	userID := middleware.UserIDFromContext(c)
	intro, err := h.svc.GenerateIntro(c.Request.Context(), userID, req.JobDescription, req.SkillsAndProjects)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respond.OK(c, generateIntroResponse{Intro: intro})
}

func (h *Handler) replaceIntro(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "File exceeds the 5MB limit")
		return
	}
	if !looksLikePDF(fileHeader.Header.Get("Content-Type"), fileHeader.Filename) {
		respond.Error(c, http.StatusBadRequest, "Only PDF uploads are supported")
		return
	}

	jobDescription := c.PostForm("jobDescription")
	if strings.TrimSpace(jobDescription) == "" {
		respond.Error(c, http.StatusBadRequest, "Missing or invalid fields: jobDescription")
		return
	}
	skills := c.PostForm("skills")

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	defer file.Close()

	document, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	if int64(len(document)) > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "File exceeds the 5MB limit")
		return
	}

	userID := middleware.UserIDFromContext(c)
	result, err := h.svc.ReplaceIntro(c.Request.Context(), userID, document, jobDescription, skills)
	if err != nil {
		var stageErr *PipelineError
		if errors.As(err, &stageErr) {
			middleware.SetPipelineStage(c, stageErr.Stage)
		}
		h.respondError(c, err)
		return
	}

	middleware.SetPipelineStage(c, StageDone)
	respond.OK(c, replaceIntroResponse{Intro: result.Intro, PDF: result.PDFBase64})
}

// respondError maps pipeline errors onto the status codes of the API contract.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "Missing or invalid fields: "+trailer(err))
	case errors.Is(err, extract.ErrParse):
		respond.Error(c, http.StatusBadRequest, "Could not read PDF. Please upload a valid PDF file.")
	case errors.Is(err, rewrite.ErrLoad):
		respond.Error(c, http.StatusBadRequest, "Could not load PDF. Please upload a valid PDF file.")
	case errors.Is(err, llm.ErrUnavailable):
		respond.Error(c, http.StatusBadGateway, "Failed to generate intro")
	case errors.Is(err, llm.ErrEmptyResponse):
		respond.Error(c, http.StatusInternalServerError, "No intro generated")
	case errors.Is(err, ErrGeneration):
		respond.Error(c, http.StatusInternalServerError, "Failed to generate intro")
	case errors.Is(err, rewrite.ErrRewrite):
		respond.Error(c, http.StatusInternalServerError, "Failed to rewrite PDF")
	default:
		respond.Error(c, http.StatusInternalServerError, "Something went wrong")
	}
}

// trailer returns the text after the last ": " in an error chain, used to
// echo which fields failed validation.
func trailer(err error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

func looksLikePDF(contentType, fileName string) bool {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if clean == "application/pdf" {
		return true
	}
	if clean != "" && clean != "application/octet-stream" {
		return false
	}
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}
