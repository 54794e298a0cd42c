package model

const (
	DefaultImage     = "/images/no-image.png"
	DefaultThumbnail = "/images/no-image-tn.png"
)

// Classification groups vehicles (Sedan, SUV, ...)
type Classification struct {
	ID   int    `json:"classification_id"`
	Name string `json:"classification_name"`
}

// Inventory is a single vehicle on the lot
type Inventory struct {
	ID                 int     `json:"inv_id"`
	ClassificationID   int     `json:"classification_id"`
	ClassificationName string  `json:"classification_name,omitempty"`
	Make               string  `json:"inv_make"`
	Model              string  `json:"inv_model"`
	Year               int     `json:"inv_year"`
	Description        string  `json:"inv_description"`
	Image              string  `json:"inv_image"`
	Thumbnail          string  `json:"inv_thumbnail"`
	Price              float64 `json:"inv_price"`
	Miles              float64 `json:"inv_miles"`
	Color              string  `json:"inv_color"`
}

// ApplyImageDefaults fills empty image paths with the placeholder assets.
func (i *Inventory) ApplyImageDefaults() {
	if i.Image == "" {
		i.Image = DefaultImage
	}
	if i.Thumbnail == "" {
		i.Thumbnail = DefaultThumbnail
	}
}

// Name is the display name used in notices and titles.
func (i *Inventory) Name() string {
	return i.Make + " " + i.Model
}
