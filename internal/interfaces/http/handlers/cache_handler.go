package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/gem-thermo/internal/domain/cache"
	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// MetaboliteCompoundResponse is the body of GET /metabolites/:id/compound.
type MetaboliteCompoundResponse struct {
	MetaboliteID string          `json:"metabolite_id"`
	Key          string          `json:"key"`
	Compound     *compound.Entry `json:"compound"`
}

// MetaboliteSearchResponse is the body of GET /metabolites?query=.
type MetaboliteSearchResponse struct {
	Query       string   `json:"query"`
	Metabolites []string `json:"metabolites"`
}

// CacheHandler serves lookups against the current snapshot.  Each request
// reads the snapshot once so a concurrent reload never mixes two versions
// in one response.
type CacheHandler struct {
	holder *cache.Holder
}

// NewCacheHandler creates a CacheHandler.
func NewCacheHandler(holder *cache.Holder) *CacheHandler {
	return &CacheHandler{holder: holder}
}

// RegisterRoutes registers the API routes on rg.
func (h *CacheHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Stats)
	rg.GET("/reactions/:id", h.GetReaction)
	rg.GET("/compounds/:key", h.GetCompound)
	rg.GET("/metabolites/:id/compound", h.GetMetaboliteCompound)
	rg.GET("/metabolites", h.FindMetabolites)
}

// Stats handles GET /stats.
func (h *CacheHandler) Stats(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.holder.Current().Stats())
}

// GetReaction handles GET /reactions/:id.
func (h *CacheHandler) GetReaction(c *gin.Context) {
	e, err := h.holder.Current().Require(c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, e)
}

// GetCompound handles GET /compounds/:key.
func (h *CacheHandler) GetCompound(c *gin.Context) {
	s := h.holder.Current()
	if err := requireLoaded(s); err != nil {
		writeAppError(c, err)
		return
	}
	key := c.Param("key")
	e, ok := s.GetCompound(key)
	if !ok {
		writeAppError(c, errors.New(errors.ErrCodeCacheEntryNotFound, "no cached compound").WithDetail(key))
		return
	}
	writeJSON(c, http.StatusOK, e)
}

// GetMetaboliteCompound handles GET /metabolites/:id/compound.
func (h *CacheHandler) GetMetaboliteCompound(c *gin.Context) {
	s := h.holder.Current()
	if err := requireLoaded(s); err != nil {
		writeAppError(c, err)
		return
	}
	id := c.Param("id")
	key, e, ok := s.GetCompoundByMetaboliteID(id)
	if !ok {
		writeAppError(c, errors.New(errors.ErrCodeCacheEntryNotFound, "metabolite not in any cached compound").WithDetail(id))
		return
	}
	writeJSON(c, http.StatusOK, MetaboliteCompoundResponse{MetaboliteID: id, Key: key, Compound: e})
}

// FindMetabolites handles GET /metabolites?query=.
func (h *CacheHandler) FindMetabolites(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		writeAppError(c, errors.InvalidParam("query parameter is required"))
		return
	}
	s := h.holder.Current()
	if err := requireLoaded(s); err != nil {
		writeAppError(c, err)
		return
	}
	ids := s.FindMetabolites(query)
	if ids == nil {
		ids = []string{}
	}
	writeJSON(c, http.StatusOK, MetaboliteSearchResponse{Query: query, Metabolites: ids})
}

func requireLoaded(s *cache.Snapshot) error {
	if !s.Stats().Loaded {
		return errors.New(errors.ErrCodeCacheNotLoaded, "thermodynamic cache not loaded")
	}
	return nil
}

//Personal.AI order the ending
