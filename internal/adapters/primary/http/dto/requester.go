package dto

import (
	"strings"

	"artifact-catalog-service/internal/core/domain"
	"artifact-catalog-service/internal/core/services"
)

// DownloadRequest is the body an anonymous visitor sends before downloading.
type DownloadRequest struct {
	FullName    string `json:"fullName" form:"fullName"`
	RUT         string `json:"rut" form:"rut"`
	Email       string `json:"email" form:"email"`
	Comments    string `json:"comments" form:"comments"`
	Institution int64  `json:"institution" form:"institution"`
}

func (r DownloadRequest) IsEmpty() bool {
	return strings.TrimSpace(r.FullName) == "" &&
		strings.TrimSpace(r.RUT) == "" &&
		strings.TrimSpace(r.Email) == "" &&
		strings.TrimSpace(r.Comments) == "" &&
		r.Institution == 0
}

func (r DownloadRequest) ToForm() *services.RequesterForm {
	return &services.RequesterForm{
		FullName:      r.FullName,
		RUT:           r.RUT,
		Email:         r.Email,
		Comments:      r.Comments,
		InstitutionID: r.Institution,
	}
}

type RequesterResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	RUT          string `json:"rut"`
	Email        string `json:"email"`
	Comments     string `json:"comments"`
	IsRegistered bool   `json:"is_registered"`
	Institution  *int64 `json:"institution"`
	Artifact     int64  `json:"artifact"`
}

type ListRequestersResponse struct {
	Items      []RequesterResponse `json:"items"`
	Total      int                 `json:"total"`
	PageSize   int                 `json:"page_size"`
	NextOffset int                 `json:"next_offset"`
}

func ToRequesterResponse(r *domain.ArtifactRequester) RequesterResponse {
	return RequesterResponse{
		ID:           r.ID,
		Name:         r.Name,
		RUT:          r.RUT,
		Email:        r.Email,
		Comments:     r.Comments,
		IsRegistered: r.IsRegistered,
		Institution:  r.InstitutionID,
		Artifact:     r.ArtifactID,
	}
}
