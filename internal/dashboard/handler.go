package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/candidates"
	"github.com/spigell/interview-trainer/internal/filtering"
	"github.com/spigell/interview-trainer/internal/model"
)

// Registry is the subset of the candidate registry the dashboard reads and deletes through.
type Registry interface {
	Reload(ctx context.Context) error
	List() []model.Candidate
	Get(id string) (model.Candidate, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
}

type Handler struct {
	Registry Registry
	Logger   *zap.Logger
}

func NewHandler(reg Registry, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Registry: reg, Logger: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(h.reload)
	rg.GET("/candidates", h.list)
	rg.GET("/candidates/:id", h.get)
	rg.DELETE("/candidates/:id", h.delete)
	rg.DELETE("/candidates", h.deleteAll)
}

// reload refreshes the registry so candidates written by other processes are
// visible. A failed reload serves the last good state.
func (h *Handler) reload(c *gin.Context) {
	if err := h.Registry.Reload(c.Request.Context()); err != nil {
		h.Logger.Warn("serving cached candidates", zap.Error(err))
	}
	c.Next()
}

type listResponse struct {
	Candidates []model.Candidate  `json:"candidates"`
	Total      int                `json:"total"`
	Filters    []filtering.Status `json:"filters"`
}

func (h *Handler) list(c *gin.Context) {
	cfg := &filtering.Config{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
	}
	steps := filtering.Default()

	all := h.Registry.List()
	out, err := filtering.Run(c.Request.Context(), cfg, filtering.Deps{Logger: h.Logger}, steps, all)
	if err != nil {
		respondError(c, h.Logger, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	if out == nil {
		out = []model.Candidate{}
	}

	respondOK(c, listResponse{
		Candidates: out,
		Total:      len(all),
		Filters:    filtering.Describe(steps),
	})
}

func (h *Handler) get(c *gin.Context) {
	cand, err := h.Registry.Get(c.Param("id"))
	if err != nil {
		h.registryError(c, err)
		return
	}
	respondOK(c, cand)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Registry.Delete(c.Request.Context(), id); err != nil {
		h.registryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteAll(c *gin.Context) {
	n, err := h.Registry.DeleteAll(c.Request.Context())
	if err != nil {
		h.registryError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": n})
}

func (h *Handler) registryError(c *gin.Context, err error) {
	if errors.Is(err, candidates.ErrNotFound) {
		respondError(c, h.Logger, http.StatusNotFound, "not_found", "candidate not found")
		return
	}
	h.Logger.Error("registry operation failed", zap.Error(err))
	respondError(c, h.Logger, http.StatusInternalServerError, "internal_error", "registry unavailable")
}
