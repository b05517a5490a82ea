package domain

import "unicode/utf8"

// MaxDescriptionLength bounds Artifact.Description.
const MaxDescriptionLength = 300

// ============================================================================
// Media
// ============================================================================

// Thumbnail is a single preview image. Path is relative to the media root.
type Thumbnail struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Path string `gorm:"size:255;not null;uniqueIndex" json:"path"`
}

// Model3D is the trio of files that make up a renderable 3D model.
// The (texture, object, material) triple is unique.
type Model3D struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Texture  string `gorm:"size:255;not null;uniqueIndex:idx_model_triple" json:"texture"`
	Object   string `gorm:"size:255;not null;uniqueIndex:idx_model_triple" json:"object"`
	Material string `gorm:"size:255;not null;uniqueIndex:idx_model_triple" json:"material"`
}

func (Model3D) TableName() string { return "models" }

// Image is an additional photograph. ArtifactID is nullable: images are
// unlinked rather than deleted when an artifact drops them.
type Image struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	ArtifactID *int64 `gorm:"index" json:"artifact_id"`
	Path       string `gorm:"size:255;not null;uniqueIndex" json:"path"`
}

// ============================================================================
// Artifact
// ============================================================================

type Artifact struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Description string `gorm:"size:300;not null" json:"description"`

	ThumbnailID *int64     `json:"thumbnail_id"`
	Thumbnail   *Thumbnail `gorm:"constraint:OnDelete:SET NULL" json:"thumbnail,omitempty"`
	ModelID     *int64     `json:"model_id"`
	Model       *Model3D   `gorm:"constraint:OnDelete:SET NULL" json:"model,omitempty"`
	ShapeID     *int64     `json:"shape_id"`
	Shape       *Shape     `gorm:"constraint:OnDelete:SET NULL" json:"shape,omitempty"`
	CultureID   *int64     `json:"culture_id"`
	Culture     *Culture   `gorm:"constraint:OnDelete:SET NULL" json:"culture,omitempty"`

	Tags   []Tag   `gorm:"many2many:artifact_tags" json:"tags"`
	Images []Image `gorm:"foreignKey:ArtifactID" json:"images"`
}

// Validate checks the scalar fields of an artifact.
func (a *Artifact) Validate() error {
	if a.Description == "" {
		return ErrDescriptionRequired
	}
	if utf8.RuneCountInString(a.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// TagNames returns the names of the artifact's tags in stored order.
func (a *Artifact) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}

// MediaKind is the storage category of a media file. Each kind maps to its
// own directory under the media root.
type MediaKind string

const (
	MediaThumbnail MediaKind = "thumbnails"
	MediaObject    MediaKind = "objects"
	MediaMaterial  MediaKind = "materials"
	MediaImage     MediaKind = "images"
)

// ============================================================================
// Download Requests
// ============================================================================

// ArtifactRequester records who asked for an artifact's media bundle.
type ArtifactRequester struct {
	ID            int64        `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"size:100;not null" json:"name"`
	RUT           string       `gorm:"column:rut;size:50;not null" json:"rut"`
	Email         string       `gorm:"size:254;not null" json:"email"`
	Comments      string       `gorm:"type:text" json:"comments"`
	IsRegistered  bool         `gorm:"not null;default:false" json:"is_registered"`
	InstitutionID *int64       `json:"institution_id"`
	Institution   *Institution `gorm:"constraint:OnDelete:SET NULL" json:"institution,omitempty"`
	ArtifactID    int64        `gorm:"not null;index" json:"artifact_id"`
	Artifact      *Artifact    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
