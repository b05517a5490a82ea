package handlers

import (
	"errors"
	"net/http"

	"artifact-catalog-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func mapDomainError(c *gin.Context, err error) {
	var fe *fieldError

	switch {
	// Not found errors
	case errors.Is(err, domain.ErrArtifactNotFound),
		errors.Is(err, domain.ErrInstitutionNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidPage):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrArtifactExists),
		errors.Is(err, domain.ErrInstitutionExists),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Authentication errors
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrUserInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	// Bad request / validation errors, including references to rows that
	// do not exist
	case errors.As(err, &fe),
		errors.Is(err, domain.ErrShapeNotFound),
		errors.Is(err, domain.ErrCultureNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrThumbnailNotFound),
		errors.Is(err, domain.ErrImageNotFound),
		errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrDescriptionRequired),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrShapeRequired),
		errors.Is(err, domain.ErrCultureRequired),
		errors.Is(err, domain.ErrModelFilesRequired),
		errors.Is(err, domain.ErrInvalidFilename),
		errors.Is(err, domain.ErrInstitutionRequired),
		errors.Is(err, domain.ErrRequesterIncomplete),
		errors.Is(err, domain.ErrInvalidRUT),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrUsernameRequired),
		errors.Is(err, domain.ErrCredentialsRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
