//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"travel_catalog/internal/adapters/catalogapi"
	httpserver "travel_catalog/internal/adapters/http_server"
	"travel_catalog/internal/adapters/recommender"
	redisad "travel_catalog/internal/adapters/redis"
	webserver "travel_catalog/internal/adapters/web_server"
	"travel_catalog/internal/app"
	"travel_catalog/internal/domain"
	mysqlrepo "travel_catalog/internal/storage/mysql"
)

// ---------- helpers ----------

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=travel"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/travel?parseTime=true&charset=utf8mb4&loc=UTC", resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		if db, e = sql.Open("mysql", dsn); e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := mysqlrepo.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type stack struct {
	api *catalogapi.Client
	web string
	c   *http.Client
}

func startStack(t *testing.T) stack {
	t.Helper()
	db := startMySQL(t)

	apiSrv := httpserver.New(httpserver.Options{})
	apiSrv.MountHandlers(&httpserver.Handlers{C: app.NewCatalogService(mysqlrepo.New(db))})
	ats := httptest.NewServer(apiSrv.Mux())
	t.Cleanup(ats.Close)
	client := catalogapi.New(ats.URL+"/api", 5*time.Second)

	rts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Destination domain.Destination `json:"destination"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(domain.Recommendation{
			Destination:    in.Destination.Name,
			Recommendation: "Visit " + in.Destination.City + " in spring.",
		})
	}))
	t.Cleanup(rts.Close)

	mr := miniredis.RunT(t)
	flashes := redisad.New(mr.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { _ = flashes.Close() })

	webSrv := httpserver.New(httpserver.Options{})
	webserver.Mount(webSrv.Router(), &webserver.Handlers{
		Pages:   app.NewPageService(client, recommender.New(recommender.Options{BaseURL: rts.URL})),
		Flashes: flashes,
	})
	wts := httptest.NewServer(webSrv.Mux())
	t.Cleanup(wts.Close)

	jar, _ := cookiejar.New(nil)
	return stack{api: client, web: wts.URL, c: &http.Client{Jar: jar, Timeout: 5 * time.Second}}
}

type page struct {
	View    string          `json:"view"`
	Model   json.RawMessage `json:"model"`
	Flashes []domain.Flash  `json:"flashes"`
	Error   string          `json:"error"`
}

func (s stack) open(t *testing.T, method, path string, form url.Values) page {
	t.Helper()
	var (
		res *http.Response
		err error
	)
	if method == http.MethodPost {
		res, err = s.c.PostForm(s.web+path, form)
	} else {
		res, err = s.c.Get(s.web + path)
	}
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	var p page
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return p
}

// ---------- the tests ----------

func TestE2E_SeedBrowseRecommend(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()

	items, err := app.LoadSeed(strings.NewReader(`[
	  {"name":"Istanbul","country":"Turkey","city":"Istanbul","category":"culture",
	   "hotels":[{"name":"Pera Palace","address":"Mesrutiyet 52","stars":5,"rating":4.6}],
	   "activities":[{"name":"Bosphorus cruise","type":"sightseeing","duration":2}]},
	  {"name":"Cappadocia","country":"Turkey","city":"Goreme","category":"nature"}
	]`))
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	rep, err := app.NewSeedService(s.api, 2).Run(ctx, items)
	if err != nil || rep.Destinations != 2 || rep.Hotels != 1 || rep.Activities != 1 {
		t.Fatalf("seed = %+v, %v", rep, err)
	}

	country := "Turkey"
	ds, err := s.api.ListDestinations(ctx, domain.DestinationFilter{Country: &country})
	if err != nil || len(ds) != 2 {
		t.Fatalf("destinations = %+v, %v", ds, err)
	}
	var ist domain.Destination
	for _, d := range ds {
		if d.Name == "Istanbul" {
			ist = d
		}
	}
	if ist.ID == 0 {
		t.Fatalf("Istanbul not seeded: %+v", ds)
	}

	p := s.open(t, http.MethodGet, fmt.Sprintf("/destinations/%d", ist.ID), nil)
	var detail app.DestinationDetailPage
	_ = json.Unmarshal(p.Model, &detail)
	if len(detail.Hotels) != 1 || detail.Hotels[0].Name != "Pera Palace" || len(detail.Activities) != 1 {
		t.Fatalf("detail = %+v", detail)
	}

	p = s.open(t, http.MethodGet, fmt.Sprintf("/destinations/%d/recommend?preferences=food", ist.ID), nil)
	var rp app.RecommendPage
	_ = json.Unmarshal(p.Model, &rp)
	if rp.Fallback || rp.Recommendation.Recommendation != "Visit Istanbul in spring." {
		t.Fatalf("recommend = %+v", rp)
	}

	// deleting a destination that still has hotels is refused
	p = s.open(t, http.MethodPost, fmt.Sprintf("/destinations/delete/%d", ist.ID), nil)
	if len(p.Flashes) != 1 || p.Flashes[0].Kind != domain.FlashError {
		t.Fatalf("flashes = %+v", p.Flashes)
	}
	if _, err := s.api.GetDestination(ctx, ist.ID); err != nil {
		t.Fatalf("destination gone after blocked delete: %v", err)
	}
}

func TestE2E_UserLifecycleThroughWeb(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()

	form := url.Values{"firstName": {"Ada"}, "lastName": {"Lovelace"}, "email": {"ada@example.com"}, "country": {"UK"}, "password": {"pw"}, "enabled": {"on"}}
	p := s.open(t, http.MethodPost, "/users/save", form)
	if len(p.Flashes) != 1 || p.Flashes[0].Kind != domain.FlashSuccess {
		t.Fatalf("create flashes = %+v", p.Flashes)
	}

	form.Set("firstName", "Grace")
	p = s.open(t, http.MethodPost, "/users/save", form)
	if len(p.Flashes) != 1 || p.Flashes[0].Kind != domain.FlashError {
		t.Fatalf("duplicate email accepted: %+v", p.Flashes)
	}

	us, err := s.api.ListUsers(ctx)
	if err != nil || len(us) != 1 {
		t.Fatalf("users = %+v, %v", us, err)
	}
	u := us[0]
	if u.Password != "" || u.Role != domain.RoleUser || u.Enabled == nil || !*u.Enabled || u.CreatedAt.IsZero() {
		t.Fatalf("user = %+v", u)
	}

	p = s.open(t, http.MethodGet, fmt.Sprintf("/users/delete/%d", u.ID), nil)
	if len(p.Flashes) != 1 || p.Flashes[0].Message != "User deleted" {
		t.Fatalf("delete flashes = %+v", p.Flashes)
	}
	if _, err := s.api.GetUser(ctx, u.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetUser after delete = %v", err)
	}
}
