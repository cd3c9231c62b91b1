package app

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"travel_catalog/internal/domain"
)

const (
	DefaultSeason = "summer"

	FallbackRecommendation = "Discover this wonderful destination! The recommendation service is temporarily unavailable."
	FallbackAdvice         = "Consult a local guide for more information. The recommendation service is temporarily unavailable."
)

// PageService builds web view models from the CRUD API and the recommender.
// Listing reads never fail: they degrade to an empty list plus Error.
type PageService struct {
	api domain.CatalogAPI
	rec domain.Recommender
}

func NewPageService(api domain.CatalogAPI, rec domain.Recommender) *PageService {
	return &PageService{api: api, rec: rec}
}

type ListPage[T any] struct {
	Items []T    `json:"items"`
	Error string `json:"error,omitempty"`
}

type DestinationDetailPage struct {
	Destination domain.Destination `json:"destination"`
	Hotels      []domain.Hotel     `json:"hotels"`
	Activities  []domain.Activity  `json:"activities"`
	Error       string             `json:"error,omitempty"`
}

type FormPage[T any] struct {
	Entity T    `json:"entity"`
	IsNew  bool `json:"isNew"`
	// Destinations feeds the destination picker on hotel/activity forms.
	Destinations []domain.Destination `json:"destinations,omitempty"`
	Error        string               `json:"error,omitempty"`
}

type RecommendPage struct {
	Destination    domain.Destination    `json:"destination"`
	Preferences    string                `json:"preferences,omitempty"`
	Recommendation domain.Recommendation `json:"recommendation"`
	Fallback       bool                  `json:"fallback"`
}

type SeasonalPage struct {
	Destination domain.Destination `json:"destination"`
	Season      string             `json:"season"`
	Advice      map[string]any     `json:"advice"`
	Fallback    bool               `json:"fallback"`
}

// degrade substitutes an empty list and a readable message for a failed read.
func degrade[T any](items []T, err error, what string) ListPage[T] {
	if err != nil {
		log.Warn().Err(err).Str("list", what).Msg("catalog read failed; rendering empty list")
		return ListPage[T]{Items: []T{}, Error: "Unable to load " + what}
	}
	if items == nil {
		items = []T{}
	}
	return ListPage[T]{Items: items}
}

/********** reads **********/

func (s *PageService) Home(ctx context.Context) ListPage[domain.Destination] {
	return s.Destinations(ctx)
}

func (s *PageService) Destinations(ctx context.Context) ListPage[domain.Destination] {
	ds, err := s.api.ListDestinations(ctx, domain.DestinationFilter{})
	return degrade(ds, err, "destinations")
}

func (s *PageService) Hotels(ctx context.Context) ListPage[domain.Hotel] {
	hs, err := s.api.ListHotels(ctx, domain.HotelFilter{})
	return degrade(hs, err, "hotels")
}

func (s *PageService) Activities(ctx context.Context) ListPage[domain.Activity] {
	as, err := s.api.ListActivities(ctx, domain.ActivityFilter{})
	return degrade(as, err, "activities")
}

func (s *PageService) Users(ctx context.Context) ListPage[domain.User] {
	us, err := s.api.ListUsers(ctx)
	return degrade(us, err, "users")
}

// DestinationDetail returns an error only when the destination itself cannot
// be fetched; the hotel and activity lists degrade independently.
func (s *PageService) DestinationDetail(ctx context.Context, id int64) (DestinationDetailPage, error) {
	d, err := s.api.GetDestination(ctx, id)
	if err != nil {
		return DestinationDetailPage{}, err
	}
	hotels, herr := s.api.ListHotels(ctx, domain.HotelFilter{DestinationID: &id})
	acts, aerr := s.api.ListActivities(ctx, domain.ActivityFilter{DestinationID: &id})
	hs, as := degrade(hotels, herr, "hotels"), degrade(acts, aerr, "activities")
	return DestinationDetailPage{
		Destination: d,
		Hotels:      hs.Items,
		Activities:  as.Items,
		Error:       joinErrors(hs.Error, as.Error),
	}, nil
}

func joinErrors(msgs ...string) string {
	var out []string
	for _, m := range msgs {
		if m != "" {
			out = append(out, m)
		}
	}
	return strings.Join(out, "; ")
}

/********** forms **********/

func (s *PageService) NewDestinationForm() FormPage[domain.Destination] {
	return FormPage[domain.Destination]{IsNew: true}
}

func (s *PageService) EditDestinationForm(ctx context.Context, id int64) (FormPage[domain.Destination], error) {
	d, err := s.api.GetDestination(ctx, id)
	if err != nil {
		return FormPage[domain.Destination]{}, err
	}
	return FormPage[domain.Destination]{Entity: d}, nil
}

func (s *PageService) NewHotelForm(ctx context.Context) FormPage[domain.Hotel] {
	ds := s.Destinations(ctx)
	return FormPage[domain.Hotel]{IsNew: true, Destinations: ds.Items, Error: ds.Error}
}

func (s *PageService) EditHotelForm(ctx context.Context, id int64) (FormPage[domain.Hotel], error) {
	h, err := s.api.GetHotel(ctx, id)
	if err != nil {
		return FormPage[domain.Hotel]{}, err
	}
	ds := s.Destinations(ctx)
	return FormPage[domain.Hotel]{Entity: h, Destinations: ds.Items, Error: ds.Error}, nil
}

func (s *PageService) NewActivityForm(ctx context.Context) FormPage[domain.Activity] {
	ds := s.Destinations(ctx)
	return FormPage[domain.Activity]{IsNew: true, Destinations: ds.Items, Error: ds.Error}
}

func (s *PageService) EditActivityForm(ctx context.Context, id int64) (FormPage[domain.Activity], error) {
	a, err := s.api.GetActivity(ctx, id)
	if err != nil {
		return FormPage[domain.Activity]{}, err
	}
	ds := s.Destinations(ctx)
	return FormPage[domain.Activity]{Entity: a, Destinations: ds.Items, Error: ds.Error}, nil
}

// NewUserForm pre-fills the API defaults so the enabled box starts checked.
func (s *PageService) NewUserForm() FormPage[domain.User] {
	enabled := true
	return FormPage[domain.User]{IsNew: true, Entity: domain.User{Role: domain.RoleUser, Enabled: &enabled}}
}

func (s *PageService) EditUserForm(ctx context.Context, id int64) (FormPage[domain.User], error) {
	u, err := s.api.GetUser(ctx, id)
	if err != nil {
		return FormPage[domain.User]{}, err
	}
	return FormPage[domain.User]{Entity: u.Public()}, nil
}

/********** writes **********/

// saved turns a write outcome into the flash shown after the redirect.
func saved(err error, what string, created bool) domain.Flash {
	if err != nil {
		log.Warn().Err(err).Str("entity", what).Msg("save failed")
		return domain.Flash{Kind: domain.FlashError, Message: "Error while saving: " + reason(err)}
	}
	if created {
		return domain.Flash{Kind: domain.FlashSuccess, Message: what + " created successfully"}
	}
	return domain.Flash{Kind: domain.FlashSuccess, Message: what + " updated"}
}

func deleted(err error, what string) domain.Flash {
	if err != nil {
		log.Warn().Err(err).Str("entity", what).Msg("delete failed")
		return domain.Flash{Kind: domain.FlashError, Message: "Error while deleting: " + reason(err)}
	}
	return domain.Flash{Kind: domain.FlashSuccess, Message: what + " deleted"}
}

// RejectionDetail is implemented by client errors that carry a server-side reason.
type RejectionDetail interface{ Reasons() []string }

func reason(err error) string {
	var rd RejectionDetail
	var ce *domain.ConflictError
	switch {
	case errors.As(err, &rd):
		if rs := rd.Reasons(); len(rs) > 0 {
			return strings.Join(rs, "; ")
		}
		return "the request was rejected"
	case errors.As(err, &ce):
		return ce.Reason
	case errors.Is(err, domain.ErrNotFound):
		return "it no longer exists"
	default:
		return "the catalog service is unavailable"
	}
}

func (s *PageService) SaveDestination(ctx context.Context, d domain.Destination) domain.Flash {
	var err error
	if d.ID == 0 {
		_, err = s.api.CreateDestination(ctx, d)
	} else {
		_, err = s.api.UpdateDestination(ctx, d.ID, d)
	}
	return saved(err, "Destination", d.ID == 0)
}

func (s *PageService) DeleteDestination(ctx context.Context, id int64) domain.Flash {
	return deleted(s.api.DeleteDestination(ctx, id), "Destination")
}

func (s *PageService) SaveHotel(ctx context.Context, h domain.Hotel) domain.Flash {
	var err error
	if h.ID == 0 {
		_, err = s.api.CreateHotel(ctx, h)
	} else {
		_, err = s.api.UpdateHotel(ctx, h.ID, h)
	}
	return saved(err, "Hotel", h.ID == 0)
}

func (s *PageService) DeleteHotel(ctx context.Context, id int64) domain.Flash {
	return deleted(s.api.DeleteHotel(ctx, id), "Hotel")
}

func (s *PageService) SaveActivity(ctx context.Context, a domain.Activity) domain.Flash {
	var err error
	if a.ID == 0 {
		_, err = s.api.CreateActivity(ctx, a)
	} else {
		_, err = s.api.UpdateActivity(ctx, a.ID, a)
	}
	return saved(err, "Activity", a.ID == 0)
}

func (s *PageService) DeleteActivity(ctx context.Context, id int64) domain.Flash {
	return deleted(s.api.DeleteActivity(ctx, id), "Activity")
}

func (s *PageService) SaveUser(ctx context.Context, u domain.User) domain.Flash {
	var err error
	if u.ID == 0 {
		_, err = s.api.CreateUser(ctx, u)
	} else {
		_, err = s.api.UpdateUser(ctx, u.ID, u)
	}
	return saved(err, "User", u.ID == 0)
}

func (s *PageService) DeleteUser(ctx context.Context, id int64) domain.Flash {
	return deleted(s.api.DeleteUser(ctx, id), "User")
}

/********** recommendations **********/

// Recommend fails only if the destination cannot be loaded; recommender
// failures yield the fallback recommendation.
func (s *PageService) Recommend(ctx context.Context, id int64, preferences string) (RecommendPage, error) {
	d, err := s.api.GetDestination(ctx, id)
	if err != nil {
		return RecommendPage{}, err
	}
	rec, err := s.rec.Recommend(ctx, d, preferences)
	if err != nil {
		log.Warn().Err(err).Int64("destination_id", id).Msg("recommendation failed; using fallback")
		return RecommendPage{
			Destination:    d,
			Preferences:    preferences,
			Recommendation: domain.Recommendation{Destination: d.Name, Recommendation: FallbackRecommendation},
			Fallback:       true,
		}, nil
	}
	return RecommendPage{Destination: d, Preferences: preferences, Recommendation: rec}, nil
}

func (s *PageService) SeasonalAdvice(ctx context.Context, id int64, season string) (SeasonalPage, error) {
	if season == "" {
		season = DefaultSeason
	}
	d, err := s.api.GetDestination(ctx, id)
	if err != nil {
		return SeasonalPage{}, err
	}
	advice, err := s.rec.SeasonalAdvice(ctx, d, season)
	if err != nil {
		log.Warn().Err(err).Int64("destination_id", id).Msg("seasonal advice failed; using fallback")
		return SeasonalPage{
			Destination: d,
			Season:      season,
			Advice:      map[string]any{"advice": FallbackAdvice},
			Fallback:    true,
		}, nil
	}
	return SeasonalPage{Destination: d, Season: season, Advice: advice}, nil
}
