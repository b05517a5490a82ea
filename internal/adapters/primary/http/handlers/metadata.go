package handlers

import (
	"net/http"
	"strconv"

	"artifact-catalog-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetMetadata(c *gin.Context) {
	meta, err := h.metadataSvc.Metadata(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("load metadata failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToMetadataResponse(meta)})
}

func (h *Handler) ListInstitutions(c *gin.Context) {
	institutions, err := h.metadataSvc.ListInstitutions(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list institutions failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToValues(institutions)})
}

func (h *Handler) CreateInstitution(c *gin.Context) {
	var req dto.CreateInstitutionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, err := h.metadataSvc.CreateInstitution(c.Request.Context(), req.Name)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.InstitutionResponse{ID: inst.ID, Name: inst.Name}})
}

func (h *Handler) ListRequesters(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	requesters, total, err := h.downloadSvc.ListRequests(c.Request.Context(), limit, offset)
	if err != nil {
		log.WithError(err).Error("list requesters failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.RequesterResponse, 0, len(requesters))
	for _, r := range requesters {
		items = append(items, dto.ToRequesterResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListRequestersResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}
