package domain

type Activity struct {
	ID            int64    `json:"id" db:"id"`
	Name          string   `json:"name" db:"name" validate:"notblank,max=255"`
	DestinationID *int64   `json:"destinationId" db:"destination_id"`
	Description   string   `json:"description" db:"description" validate:"max=2000"`
	Type          string   `json:"type" db:"type" validate:"max=255"` // sightseeing, sport, culture, food, ...
	Price         *float64 `json:"price" db:"price" validate:"omitnil,gte=0"`
	Duration      *int     `json:"duration" db:"duration" validate:"omitnil,gte=1"` // hours
	Rating        *float64 `json:"rating" db:"rating" validate:"omitnil,gte=0,lte=5"`
	ImageURL      string   `json:"imageUrl" db:"image_url" validate:"max=512"`
}

type ActivityFilter struct {
	DestinationID *int64
	Type          *string
}
