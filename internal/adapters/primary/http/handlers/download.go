package handlers

import (
	"fmt"
	"net/http"

	"artifact-catalog-service/internal/adapters/primary/http/dto"
	"artifact-catalog-service/internal/adapters/primary/http/middleware"
	"artifact-catalog-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// DownloadArtifact streams the artifact's media as a zip attachment.
func (h *Handler) DownloadArtifact(c *gin.Context) {
	id, err := parseArtifactID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	buf, err := h.downloadSvc.Package(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ArchiveName(id)))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// RequestDownload records who is downloading the artifact. A request body
// describes an anonymous requester; an empty body falls back to the bearer
// token's user.
func (h *Handler) RequestDownload(c *gin.Context) {
	id, err := parseArtifactID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	var req dto.DownloadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	user := middleware.CurrentUser(c)
	var form *services.RequesterForm
	if !req.IsEmpty() {
		user, form = nil, req.ToForm()
	}

	record, err := h.downloadSvc.RecordRequest(c.Request.Context(), id, user, form)
	if err != nil {
		log.WithError(err).WithField("artifact_id", id).Info("download request rejected")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.ToRequesterResponse(record)})
}
