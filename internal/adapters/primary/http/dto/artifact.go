package dto

import (
	"artifact-catalog-service/internal/core/domain"
	"artifact-catalog-service/internal/core/services"
)

// URLFunc turns a stored media path into the URL clients fetch it from.
type URLFunc func(path string) string

type ValueDTO struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

type AttributesDTO struct {
	Shape       *ValueDTO  `json:"shape"`
	Tags        []ValueDTO `json:"tags"`
	Culture     *ValueDTO  `json:"culture"`
	Description string     `json:"description"`
}

type CatalogItemResponse struct {
	ID         int64         `json:"id"`
	Attributes AttributesDTO `json:"attributes"`
	Thumbnail  *string       `json:"thumbnail"`
}

type CatalogPageResponse struct {
	CurrentPage int                   `json:"current_page"`
	Total       int                   `json:"total"`
	PerPage     int                   `json:"per_page"`
	TotalPages  int                   `json:"total_pages"`
	Data        []CatalogItemResponse `json:"data"`
}

type ModelFilesResponse struct {
	Object   string `json:"object"`
	Material string `json:"material"`
	Texture  string `json:"texture"`
}

type ArtifactResponse struct {
	ID         int64               `json:"id"`
	Attributes AttributesDTO       `json:"attributes"`
	Thumbnail  *string             `json:"thumbnail"`
	Model      *ModelFilesResponse `json:"model"`
	Images     []string            `json:"images"`
}

// ArtifactWriteResponse echoes the stored scalar fields after a create or
// update.
type ArtifactWriteResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	IDShape     *int64  `json:"id_shape"`
	IDCulture   *int64  `json:"id_culture"`
	IDTags      []int64 `json:"id_tags"`
}

func ToAttributes(a *domain.Artifact) AttributesDTO {
	attrs := AttributesDTO{
		Tags:        make([]ValueDTO, 0, len(a.Tags)),
		Description: a.Description,
	}
	if a.Shape != nil {
		attrs.Shape = &ValueDTO{ID: a.Shape.ID, Value: a.Shape.Name}
	}
	if a.Culture != nil {
		attrs.Culture = &ValueDTO{ID: a.Culture.ID, Value: a.Culture.Name}
	}
	for _, t := range a.Tags {
		attrs.Tags = append(attrs.Tags, ValueDTO{ID: t.ID, Value: t.Name})
	}
	return attrs
}

func thumbnailURL(a *domain.Artifact, url URLFunc) *string {
	if a.Thumbnail == nil || a.Thumbnail.Path == "" {
		return nil
	}
	u := url(a.Thumbnail.Path)
	return &u
}

func ToCatalogItem(a *domain.Artifact, url URLFunc) CatalogItemResponse {
	return CatalogItemResponse{
		ID:         a.ID,
		Attributes: ToAttributes(a),
		Thumbnail:  thumbnailURL(a, url),
	}
}

func ToCatalogPageResponse(page *services.CatalogPage, url URLFunc) CatalogPageResponse {
	items := make([]CatalogItemResponse, 0, len(page.Items))
	for _, a := range page.Items {
		items = append(items, ToCatalogItem(a, url))
	}
	return CatalogPageResponse{
		CurrentPage: page.CurrentPage,
		Total:       page.Total,
		PerPage:     page.PerPage,
		TotalPages:  page.TotalPages,
		Data:        items,
	}
}

func ToArtifactResponse(a *domain.Artifact, url URLFunc) ArtifactResponse {
	resp := ArtifactResponse{
		ID:         a.ID,
		Attributes: ToAttributes(a),
		Thumbnail:  thumbnailURL(a, url),
		Images:     make([]string, 0, len(a.Images)),
	}
	if a.Model != nil {
		resp.Model = &ModelFilesResponse{
			Object:   url(a.Model.Object),
			Material: url(a.Model.Material),
			Texture:  url(a.Model.Texture),
		}
	}
	for _, img := range a.Images {
		resp.Images = append(resp.Images, url(img.Path))
	}
	return resp
}

func ToArtifactWriteResponse(a *domain.Artifact) ArtifactWriteResponse {
	resp := ArtifactWriteResponse{
		ID:          a.ID,
		Description: a.Description,
		IDShape:     a.ShapeID,
		IDCulture:   a.CultureID,
		IDTags:      make([]int64, 0, len(a.Tags)),
	}
	for _, t := range a.Tags {
		resp.IDTags = append(resp.IDTags, t.ID)
	}
	return resp
}
