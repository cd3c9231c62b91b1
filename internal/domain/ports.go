package domain

import "context"

type DestinationRepository interface {
	ListDestinations(ctx context.Context, f DestinationFilter) ([]Destination, error)
	GetDestination(ctx context.Context, id int64) (Destination, error)
	CreateDestination(ctx context.Context, d Destination) (Destination, error)
	UpdateDestination(ctx context.Context, d Destination) (Destination, error)
	DeleteDestination(ctx context.Context, id int64) error
}

type HotelRepository interface {
	ListHotels(ctx context.Context, f HotelFilter) ([]Hotel, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	UpdateHotel(ctx context.Context, h Hotel) (Hotel, error)
	DeleteHotel(ctx context.Context, id int64) error
}

type ActivityRepository interface {
	ListActivities(ctx context.Context, f ActivityFilter) ([]Activity, error)
	GetActivity(ctx context.Context, id int64) (Activity, error)
	CreateActivity(ctx context.Context, a Activity) (Activity, error)
	UpdateActivity(ctx context.Context, a Activity) (Activity, error)
	DeleteActivity(ctx context.Context, id int64) error
}

type UserRepository interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	FindUserByUsername(ctx context.Context, username string) (User, error)
	CreateUser(ctx context.Context, u User) (User, error)
	UpdateUser(ctx context.Context, u User) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// CatalogStore is the full persistence surface used by the CRUD API.
// Every method returns ErrNotFound for unknown ids.
type CatalogStore interface {
	DestinationRepository
	HotelRepository
	ActivityRepository
	UserRepository
}

// CatalogAPI is the web tier's view of the CRUD API over HTTP.
type CatalogAPI interface {
	ListDestinations(ctx context.Context, f DestinationFilter) ([]Destination, error)
	GetDestination(ctx context.Context, id int64) (Destination, error)
	CreateDestination(ctx context.Context, d Destination) (Destination, error)
	UpdateDestination(ctx context.Context, id int64, d Destination) (Destination, error)
	DeleteDestination(ctx context.Context, id int64) error

	ListHotels(ctx context.Context, f HotelFilter) ([]Hotel, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
	UpdateHotel(ctx context.Context, id int64, h Hotel) (Hotel, error)
	DeleteHotel(ctx context.Context, id int64) error

	ListActivities(ctx context.Context, f ActivityFilter) ([]Activity, error)
	GetActivity(ctx context.Context, id int64) (Activity, error)
	CreateActivity(ctx context.Context, a Activity) (Activity, error)
	UpdateActivity(ctx context.Context, id int64, a Activity) (Activity, error)
	DeleteActivity(ctx context.Context, id int64) error

	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, u User) (User, error)
	UpdateUser(ctx context.Context, id int64, u User) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Recommendation is the payload returned by the recommendation service.
type Recommendation struct {
	Destination    string         `json:"destination"`
	Recommendation string         `json:"recommendation"`
	Weather        map[string]any `json:"weather,omitempty"`
}

type Recommender interface {
	Recommend(ctx context.Context, d Destination, preferences string) (Recommendation, error)
	SeasonalAdvice(ctx context.Context, d Destination, season string) (map[string]any, error)
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FlashStore keeps one-shot messages between a redirect and the next page.
type FlashStore interface {
	Push(ctx context.Context, session string, f Flash) error
	Pop(ctx context.Context, session string) ([]Flash, error)
}
