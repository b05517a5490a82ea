package dto

import (
	"artifact-catalog-service/internal/core/domain"
	"artifact-catalog-service/internal/core/services"
)

type MetadataResponse struct {
	Shapes   []ValueDTO `json:"shapes"`
	Tags     []ValueDTO `json:"tags"`
	Cultures []ValueDTO `json:"cultures"`
}

type CreateInstitutionRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=100"`
}

type InstitutionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ToValues renames reference names to "value", the shape the filter widgets
// consume.
func ToValues(refs []domain.Reference) []ValueDTO {
	out := make([]ValueDTO, 0, len(refs))
	for _, r := range refs {
		out = append(out, ValueDTO{ID: r.ID, Value: r.Name})
	}
	return out
}

func ToMetadataResponse(m *services.Metadata) MetadataResponse {
	return MetadataResponse{
		Shapes:   ToValues(m.Shapes),
		Tags:     ToValues(m.Tags),
		Cultures: ToValues(m.Cultures),
	}
}
