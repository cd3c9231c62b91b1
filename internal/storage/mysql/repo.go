package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"travel_catalog/internal/domain"
)

const (
	errDupEntry    = 1062
	errRowIsParent = 1451 // delete blocked by FK
	errNoParentRow = 1452 // insert/update references a missing parent
)

// Repo implements domain.CatalogStore on MySQL.
type Repo struct{ db *sqlx.DB }

var _ domain.CatalogStore = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: sqlx.NewDb(db, "mysql")} }

// mapErr translates driver errors into domain errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDupEntry, errRowIsParent, errNoParentRow:
			return &domain.ConflictError{Reason: me.Message}
		}
	}
	return err
}

// where accumulates optional predicates.
type where struct {
	preds []string
	args  []any
}

func (w *where) eq(col string, v any) {
	w.preds = append(w.preds, col+" = ?")
	w.args = append(w.args, v)
}

// gte is an inclusive lower bound; NULL columns never satisfy it.
func (w *where) gte(col string, v any) {
	w.preds = append(w.preds, col+" >= ?")
	w.args = append(w.args, v)
}

func (w *where) build(base string) string {
	q := base
	if len(w.preds) > 0 {
		q += " WHERE " + strings.Join(w.preds, " AND ")
	}
	return q + " ORDER BY id"
}

func (r *Repo) insert(ctx context.Context, query string, arg any) (int64, error) {
	res, err := r.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.LastInsertId()
}

func (r *Repo) exec(ctx context.Context, query string, arg any) error {
	_, err := r.db.NamedExecContext(ctx, query, arg)
	return mapErr(err)
}

func (r *Repo) remove(ctx context.Context, query string, id int64) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

/********** destinations **********/

func (r *Repo) ListDestinations(ctx context.Context, f domain.DestinationFilter) ([]domain.Destination, error) {
	var w where
	if f.Country != nil {
		w.eq("country", *f.Country)
	}
	if f.Category != nil {
		w.eq("category", *f.Category)
	}
	out := []domain.Destination{}
	if err := r.db.SelectContext(ctx, &out, w.build(selectDestinationsSQL), w.args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetDestination(ctx context.Context, id int64) (domain.Destination, error) {
	var d domain.Destination
	if err := r.db.GetContext(ctx, &d, getDestinationSQL, id); err != nil {
		return domain.Destination{}, mapErr(err)
	}
	return d, nil
}

func (r *Repo) CreateDestination(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	id, err := r.insert(ctx, insertDestinationSQL, d)
	if err != nil {
		return domain.Destination{}, err
	}
	d.ID = id
	return d, nil
}

func (r *Repo) UpdateDestination(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	if err := r.exec(ctx, updateDestinationSQL, d); err != nil {
		return domain.Destination{}, err
	}
	return r.GetDestination(ctx, d.ID)
}

func (r *Repo) DeleteDestination(ctx context.Context, id int64) error {
	return r.remove(ctx, deleteDestinationSQL, id)
}

/********** hotels **********/

func (r *Repo) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	var w where
	if f.DestinationID != nil {
		w.eq("destination_id", *f.DestinationID)
	}
	if f.MinStars != nil {
		w.gte("stars", *f.MinStars)
	}
	if f.MinRating != nil {
		w.gte("rating", *f.MinRating)
	}
	out := []domain.Hotel{}
	if err := r.db.SelectContext(ctx, &out, w.build(selectHotelsSQL), w.args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var h domain.Hotel
	if err := r.db.GetContext(ctx, &h, getHotelSQL, id); err != nil {
		return domain.Hotel{}, mapErr(err)
	}
	return h, nil
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	id, err := r.insert(ctx, insertHotelSQL, h)
	if err != nil {
		return domain.Hotel{}, err
	}
	h.ID = id
	return h, nil
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	if err := r.exec(ctx, updateHotelSQL, h); err != nil {
		return domain.Hotel{}, err
	}
	return r.GetHotel(ctx, h.ID)
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	return r.remove(ctx, deleteHotelSQL, id)
}

/********** activities **********/

func (r *Repo) ListActivities(ctx context.Context, f domain.ActivityFilter) ([]domain.Activity, error) {
	var w where
	if f.DestinationID != nil {
		w.eq("destination_id", *f.DestinationID)
	}
	if f.Type != nil {
		w.eq("type", *f.Type)
	}
	out := []domain.Activity{}
	if err := r.db.SelectContext(ctx, &out, w.build(selectActivitiesSQL), w.args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetActivity(ctx context.Context, id int64) (domain.Activity, error) {
	var a domain.Activity
	if err := r.db.GetContext(ctx, &a, getActivitySQL, id); err != nil {
		return domain.Activity{}, mapErr(err)
	}
	return a, nil
}

func (r *Repo) CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	id, err := r.insert(ctx, insertActivitySQL, a)
	if err != nil {
		return domain.Activity{}, err
	}
	a.ID = id
	return a, nil
}

func (r *Repo) UpdateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	if err := r.exec(ctx, updateActivitySQL, a); err != nil {
		return domain.Activity{}, err
	}
	return r.GetActivity(ctx, a.ID)
}

func (r *Repo) DeleteActivity(ctx context.Context, id int64) error {
	return r.remove(ctx, deleteActivitySQL, id)
}

/********** users **********/

func (r *Repo) ListUsers(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	if err := r.db.SelectContext(ctx, &out, selectUsersSQL+" ORDER BY id"); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return r.getUser(ctx, getUserSQL, id)
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, getUserByEmailSQL, email)
}

func (r *Repo) FindUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getUser(ctx, getUserByUsernameSQL, username)
}

func (r *Repo) getUser(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		return domain.User{}, mapErr(err)
	}
	return u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	id, err := r.insert(ctx, insertUserSQL, u)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	return u, nil
}

func (r *Repo) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if err := r.exec(ctx, updateUserSQL, u); err != nil {
		return domain.User{}, err
	}
	return r.GetUser(ctx, u.ID)
}

func (r *Repo) DeleteUser(ctx context.Context, id int64) error {
	return r.remove(ctx, deleteUserSQL, id)
}
