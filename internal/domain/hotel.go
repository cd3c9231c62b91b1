package domain

type Hotel struct {
	ID            int64    `json:"id" db:"id"`
	Name          string   `json:"name" db:"name" validate:"notblank,max=255"`
	DestinationID *int64   `json:"destinationId" db:"destination_id"`
	Address       string   `json:"address" db:"address" validate:"notblank,max=255"`
	Stars         *int     `json:"stars" db:"stars" validate:"omitnil,gte=1,lte=5"`
	PricePerNight *float64 `json:"pricePerNight" db:"price_per_night" validate:"omitnil,gte=0"`
	Amenities     string   `json:"amenities" db:"amenities" validate:"max=1000"` // free text: WiFi, Pool, ...
	Rating        *float64 `json:"rating" db:"rating" validate:"omitnil,gte=0,lte=5"`
	ImageURL      string   `json:"imageUrl" db:"image_url" validate:"max=512"`
}

// HotelFilter: DestinationID is an equality match, MinStars and MinRating
// are inclusive lower bounds. Hotels with no stars/rating never match a bound.
type HotelFilter struct {
	DestinationID *int64
	MinStars      *int
	MinRating     *float64
}
