package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"artifact-catalog-service/internal/adapters/primary/http/dto"
	"artifact-catalog-service/internal/core/domain"
	ports "artifact-catalog-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListArtifacts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		mapDomainError(c, domain.ErrInvalidPage)
		return
	}

	filter := ports.CatalogFilter{
		Query:   strings.TrimSpace(c.Query("query")),
		Culture: strings.TrimSpace(c.Query("culture")),
		Shape:   strings.TrimSpace(c.Query("shape")),
		Tags:    splitList(c.Query("tags")),
	}

	result, err := h.catalogSvc.List(c.Request.Context(), filter, page)
	if err != nil {
		log.WithError(err).WithField("page", page).Info("list artifacts failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCatalogPageResponse(result, h.mediaURL(c)))
}

func (h *Handler) GetArtifact(c *gin.Context) {
	id, err := parseArtifactID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	artifact, err := h.catalogSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactResponse(artifact, h.mediaURL(c)))
}

// splitList splits a comma separated parameter, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
