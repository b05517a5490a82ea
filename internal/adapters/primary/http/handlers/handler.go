package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"artifact-catalog-service/internal/adapters/primary/http/dto"
	"artifact-catalog-service/internal/adapters/primary/http/middleware"
	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"
	"artifact-catalog-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalogSvc  *services.CatalogService
	artifactSvc *services.ArtifactService
	downloadSvc *services.DownloadService
	metadataSvc *services.MetadataService
	authSvc     *services.AuthService
	storage     ports.FileStorage
}

func New(
	catalogSvc *services.CatalogService,
	artifactSvc *services.ArtifactService,
	downloadSvc *services.DownloadService,
	metadataSvc *services.MetadataService,
	authSvc *services.AuthService,
	storage ports.FileStorage,
) *Handler {
	return &Handler{
		catalogSvc:  catalogSvc,
		artifactSvc: artifactSvc,
		downloadSvc: downloadSvc,
		metadataSvc: metadataSvc,
		authSvc:     authSvc,
		storage:     storage,
	}
}

// RouteMiddleware holds the optional per-route middleware. Nil entries are
// skipped.
type RouteMiddleware struct {
	RateLimit gin.HandlerFunc
	Cache     gin.HandlerFunc
}

func with(mw gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{mw, h}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, mw RouteMiddleware) {
	r.Use(middleware.Authenticate(h.authSvc))
	staff := middleware.RequireGroup(domain.StaffGroups...)
	admin := middleware.RequireGroup(domain.GroupAdministrador)

	// Auth
	r.POST("/auth/", h.Login)

	catalog := r.Group("/catalog")

	// Public catalog
	catalog.GET("/artifacts", h.ListArtifacts)
	catalog.GET("/artifact/:id", h.GetArtifact)
	catalog.GET("/metadata", with(mw.Cache, h.GetMetadata)...)

	// Artifact mutations
	catalog.POST("/artifact/upload", staff, h.CreateArtifact)
	catalog.POST("/artifact/:id/update", staff, h.UpdateArtifact)
	catalog.PUT("/artifact/:id/update", staff, h.UpdateArtifact)
	catalog.PATCH("/artifact/:id/update", staff, h.PatchArtifact)

	// Downloads
	catalog.GET("/artifact/:id/download", with(mw.RateLimit, h.DownloadArtifact)...)
	catalog.POST("/artifact/:id/download", with(mw.RateLimit, h.RequestDownload)...)

	// Institutions and requesters
	catalog.GET("/institutions", h.ListInstitutions)
	catalog.POST("/institutions", h.CreateInstitution)
	catalog.GET("/requesters", admin, h.ListRequesters)
}

// mediaURL builds absolute media URLs from the request's scheme and host.
func (h *Handler) mediaURL(c *gin.Context) dto.URLFunc {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	host := c.Request.Host

	return func(p string) string {
		u := h.storage.URL(p)
		if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return u
		}
		return scheme + "://" + host + u
	}
}

// parseArtifactID treats an id that cannot name a row as an unknown artifact.
func parseArtifactID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrArtifactNotFound
	}
	return id, nil
}

// fieldError reports a form field that could not be parsed.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.field, e.err)
}

func (e *fieldError) Unwrap() error { return e.err }

var errNotInteger = errors.New("must be an integer")
