package domain

// ============================================================================
// Reference Tables
// ============================================================================

// Shape is the morphological class of an artifact (e.g. "Vasija").
type Shape struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// Culture is the archaeological culture an artifact is attributed to.
type Culture struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// Tag is a free label attached to artifacts.
type Tag struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

type Institution struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// RefKind identifies one of the name-keyed reference tables.
type RefKind string

const (
	RefShape       RefKind = "shape"
	RefCulture     RefKind = "culture"
	RefTag         RefKind = "tag"
	RefInstitution RefKind = "institution"
)

// Reference is the {id, name} projection shared by every reference table.
type Reference struct {
	ID   int64
	Name string
}

// ============================================================================
// Bridge Tables
// ============================================================================

// Bridge rows associate a reference row with an external artifact id before
// the artifact itself exists. They are written by the import pipeline only.

type TagBridge struct {
	ID         int64 `gorm:"primaryKey"`
	TagID      int64 `gorm:"not null;uniqueIndex:idx_tag_bridge_pair"`
	ArtifactID int64 `gorm:"not null;uniqueIndex:idx_tag_bridge_pair;index"`
}

func (TagBridge) TableName() string { return "tag_ids" }

type CultureBridge struct {
	ID         int64 `gorm:"primaryKey"`
	CultureID  int64 `gorm:"not null;uniqueIndex:idx_culture_bridge_pair"`
	ArtifactID int64 `gorm:"not null;uniqueIndex:idx_culture_bridge_pair;index"`
}

func (CultureBridge) TableName() string { return "culture_ids" }

type ShapeBridge struct {
	ID         int64 `gorm:"primaryKey"`
	ShapeID    int64 `gorm:"not null;uniqueIndex:idx_shape_bridge_pair"`
	ArtifactID int64 `gorm:"not null;uniqueIndex:idx_shape_bridge_pair;index"`
}

func (ShapeBridge) TableName() string { return "shape_ids" }

// BridgeKind selects the bridge table an import writes to.
type BridgeKind string

const (
	BridgeTag     BridgeKind = "tag"
	BridgeCulture BridgeKind = "culture"
	BridgeShape   BridgeKind = "shape"
)
