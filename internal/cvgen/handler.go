package cvgen

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
	"portfolio-backend/internal/shared/util"
	"portfolio-backend/internal/tempstore"
)

const phaseContextKey = "cvPhase"

// FileStore is the read side of the temporary store exposed over HTTP.
type FileStore interface {
	Open(token string) (tempstore.Entry, bool)
	Stats() tempstore.Stats
	ClearAll() int
}

// Handler wires HTTP handlers to per-session orchestrators.
type Handler struct {
	Sessions *Registry
	Files    FileStore

	filesPath string
}

// NewHandler constructs a Handler.
func NewHandler(sessions *Registry, files FileStore) *Handler {
	return &Handler{Sessions: sessions, Files: files}
}

// RegisterRoutes attaches the session scoped generation routes. The group
// must run middleware.Session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cv", h.generate)
	rg.GET("/cv", h.state)
	rg.POST("/cv/download", h.download)
	rg.DELETE("/cv", h.reset)
}

// RegisterFileRoutes attaches handle downloads and store stats.
func (h *Handler) RegisterFileRoutes(rg *gin.RouterGroup) {
	h.filesPath = rg.BasePath() + "/files/"
	rg.GET("/files/:token", h.serveFile)
	rg.GET("/store/stats", h.stats)
}

// RegisterDevRoutes attaches dev-only store maintenance routes.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/store", h.clearStore)
}

func (h *Handler) orchestrator(c *gin.Context) *Orchestrator {
	return h.Sessions.Get(middleware.SessionIDFromContext(c))
}

func (h *Handler) generate(c *gin.Context) {
	req := generateRequest{}
	if err := decodeOptionalJSON(c.Request.Body, &req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	if err := req.validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	orch := h.orchestrator(c)
	ok := orch.Generate(c.Request.Context(), req.options())
	state := orch.State()
	c.Set(phaseContextKey, string(state.Phase))
	if !ok {
		if state.Phase == PhaseError {
			respond.Error(c, http.StatusUnprocessableEntity, "generation_failed", state.Error, state)
			return
		}
		respond.Error(c, http.StatusConflict, "superseded", "generation was superseded by a newer request", state)
		return
	}

	respond.Created(c, h.toStateResponse(state))
}

func (h *Handler) state(c *gin.Context) {
	state := h.orchestrator(c).State()
	c.Set(phaseContextKey, string(state.Phase))
	respond.OK(c, h.toStateResponse(state))
}

func (h *Handler) download(c *gin.Context) {
	orch := h.orchestrator(c)
	saver := &httpSaver{c: c, files: h.Files}
	ok := orch.Download(c.Request.Context(), saver)
	state := orch.State()
	c.Set(phaseContextKey, string(state.Phase))
	if ok || saver.written {
		return
	}
	if state.Phase == PhaseError {
		respond.Error(c, http.StatusNotFound, "file_not_found", state.Error, nil)
		return
	}
	respond.Error(c, http.StatusConflict, "not_ready", "no generated CV is ready for download", state)
}

func (h *Handler) reset(c *gin.Context) {
	orch := h.orchestrator(c)
	orch.Reset()
	state := orch.State()
	c.Set(phaseContextKey, string(state.Phase))
	respond.OK(c, h.toStateResponse(state))
}

func (h *Handler) serveFile(c *gin.Context) {
	entry, ok := h.Files.Open(c.Param("token"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "download link expired or unknown", nil)
		return
	}
	_ = writeAttachment(c, entry)
}

func (h *Handler) stats(c *gin.Context) {
	respond.OK(c, h.Files.Stats())
}

func (h *Handler) clearStore(c *gin.Context) {
	respond.OK(c, gin.H{"removed": h.Files.ClearAll()})
}

func (h *Handler) toStateResponse(state State) StateResponse {
	resp := StateResponse{State: state}
	if state.Result != nil && h.filesPath != "" {
		resp.DownloadURL = h.filesPath + state.Result.Handle.Token
	}
	return resp
}

// httpSaver resolves the transient handle and streams the document to the
// client as an attachment.
type httpSaver struct {
	c       *gin.Context
	files   FileStore
	written bool
}

func (s *httpSaver) Save(h tempstore.Handle) error {
	entry, ok := s.files.Open(h.Token)
	if !ok {
		return tempstore.ErrNotFound
	}
	s.written = true
	return writeAttachment(s.c, entry)
}

func writeAttachment(c *gin.Context, e tempstore.Entry) error {
	name, err := util.SanitizeFileName(e.Filename)
	if err != nil {
		name = "cv.pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", e.ContentType)
	c.Header("Cache-Control", "no-store")
	c.Header("ETag", `"`+util.SHA256Hex(e.Payload)+`"`)
	c.Status(http.StatusOK)
	_, err = c.Writer.Write(e.Payload)
	return err
}
