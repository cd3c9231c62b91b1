package domain

type Destination struct {
	ID              int64    `json:"id" db:"id"`
	Name            string   `json:"name" db:"name" validate:"notblank,max=255"`
	Country         string   `json:"country" db:"country" validate:"notblank,max=255"`
	City            string   `json:"city" db:"city" validate:"notblank,max=255"`
	Description     string   `json:"description" db:"description" validate:"max=2000"`
	Category        string   `json:"category" db:"category" validate:"max=255"` // beach, mountain, culture, ...
	Latitude        *float64 `json:"latitude" db:"latitude" validate:"omitnil,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" db:"longitude" validate:"omitnil,gte=-180,lte=180"`
	PopularityScore *int     `json:"popularityScore" db:"popularity_score" validate:"omitnil,gte=0"`
	ImageURL        string   `json:"imageUrl" db:"image_url" validate:"max=512"`
}

// DestinationFilter fields are equality matches; nil means "any".
type DestinationFilter struct {
	Country  *string
	Category *string
}
