package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lume/internal/api"
	"lume/internal/auth"
	"lume/internal/logs"
	"lume/internal/models"
	"lume/internal/repo"
)

type apiFixture struct {
	srv    *httptest.Server
	client *http.Client
	mem    *repo.Memory
}

func newAPIServer(t *testing.T) *apiFixture {
	t.Helper()
	logs.Init(logs.Options{Level: "error"})

	mem := repo.NewMemory()
	sessions := auth.NewSessions(auth.SessionOptions{
		Secret:     "test-secret",
		CookieName: "lume_session",
		MaxAge:     3600,
	})

	r := mux.NewRouter()
	auth.RegisterRoutes(r, auth.NewHandler(mem.Users(), sessions))
	api.RegisterRoutes(r, api.NewHandler(mem.Watches(), mem.Favorites()), sessions)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiFixture{srv: srv, client: &http.Client{Jar: jar}, mem: mem}
}

func (f *apiFixture) signIn(t *testing.T, email string) models.User {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()
	var u models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&u))
	return u
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	return resp
}

func (f *apiFixture) seed(t *testing.T, in models.WatchInput) models.Watch {
	t.Helper()
	w, err := f.mem.Watches().Create(context.Background(), in)
	require.NoError(t, err)
	return *w
}

func decodeWatches(t *testing.T, resp *http.Response) []models.Watch {
	t.Helper()
	defer resp.Body.Close()
	var ws []models.Watch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ws))
	return ws
}

func steel(brand, model string, size float64, price int64) models.WatchInput {
	return models.WatchInput{
		Brand: brand, Model: model, Reference: brand + "-" + model,
		Size: size, Material: "Steel", Price: price,
		ImageURL: "https://img.example.com/" + model,
	}
}

func TestListWatchesEmptyCatalogIsEmptyArray(t *testing.T) {
	f := newAPIServer(t)
	resp := f.do(t, http.MethodGet, "/api/watches", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeWatches(t, resp))
}

func TestListWatchesFilterQuery(t *testing.T) {
	f := newAPIServer(t)
	f.seed(t, steel("Rolex", "Submariner", 40, 1000000))
	f.seed(t, steel("Omega", "Seamaster", 42, 650000))
	gold := steel("Cartier", "Santos", 39.8, 3000000)
	gold.Material = "Gold"
	f.seed(t, gold)

	q := url.Values{}
	q.Add("brand", "Rolex")
	q.Add("brand", "Omega")
	q.Set("material", "Steel")
	q.Set("priceMax", "8000") // major units на проводе

	resp := f.do(t, http.MethodGet, "/api/watches?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ws := decodeWatches(t, resp)
	require.Len(t, ws, 1)
	assert.Equal(t, "Omega", ws[0].Brand)
}

func TestListWatchesRejectsGarbagePrice(t *testing.T) {
	f := newAPIServer(t)
	resp := f.do(t, http.MethodGet, "/api/watches?priceMin=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	resp.Body.Close()
}

func TestGetWatch(t *testing.T) {
	f := newAPIServer(t)
	w := f.seed(t, steel("Rolex", "Submariner", 40, 1000000))

	resp := f.do(t, http.MethodGet, fmt.Sprintf("/api/watches/%d", w.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var got models.Watch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, w.ID, got.ID)

	resp = f.do(t, http.MethodGet, "/api/watches/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestMutationsRequireSession(t *testing.T) {
	f := newAPIServer(t)
	w := f.seed(t, steel("Rolex", "Submariner", 40, 1000000))

	for _, tc := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodPost, "/api/watches", steel("Omega", "Speedmaster", 42, 1)},
		{http.MethodPut, fmt.Sprintf("/api/watches/%d", w.ID), map[string]int{"price": 1}},
		{http.MethodDelete, fmt.Sprintf("/api/watches/%d", w.ID), nil},
		{http.MethodGet, "/api/favorites", nil},
		{http.MethodPost, "/api/favorites", map[string]uint{"watchId": w.ID}},
		{http.MethodDelete, fmt.Sprintf("/api/favorites/%d", w.ID), nil},
	} {
		resp := f.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
		resp.Body.Close()
	}
}

func TestWatchCRUDOverHTTP(t *testing.T) {
	f := newAPIServer(t)
	f.signIn(t, "dealer@example.com")

	resp := f.do(t, http.MethodPost, "/api/watches", steel("Rolex", "Submariner", 40, 1000000))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Watch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotZero(t, created.ID)

	resp = f.do(t, http.MethodPut, fmt.Sprintf("/api/watches/%d", created.ID),
		map[string]interface{}{"price": 990000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Watch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, int64(990000), updated.Price)
	assert.Equal(t, "Rolex", updated.Brand, "patch не трогает остальные поля")

	resp = f.do(t, http.MethodDelete, fmt.Sprintf("/api/watches/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// повторное удаление — 404
	resp = f.do(t, http.MethodDelete, fmt.Sprintf("/api/watches/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateWatchValidation(t *testing.T) {
	f := newAPIServer(t)
	f.signIn(t, "dealer@example.com")

	bad := steel("", "Submariner", 40, 1000000)
	resp := f.do(t, http.MethodPost, "/api/watches", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	neg := steel("Rolex", "Submariner", 40, -1)
	resp = f.do(t, http.MethodPost, "/api/watches", neg)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestFavoritesOverHTTP(t *testing.T) {
	f := newAPIServer(t)
	f.signIn(t, "dealer@example.com")
	w := f.seed(t, steel("Rolex", "Submariner", 40, 1000000))

	// добавление идемпотентно: оба раза успех, закладка одна
	for i := 0; i < 2; i++ {
		resp := f.do(t, http.MethodPost, "/api/favorites", map[string]uint{"watchId": w.ID})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := f.do(t, http.MethodGet, "/api/favorites", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	favs := decodeWatches(t, resp)
	require.Len(t, favs, 1)
	assert.Equal(t, w.ID, favs[0].ID)

	resp = f.do(t, http.MethodGet, fmt.Sprintf("/api/favorites/%d", w.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st struct {
		IsFavorite bool `json:"isFavorite"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	resp.Body.Close()
	assert.True(t, st.IsFavorite)

	resp = f.do(t, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", w.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", w.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAddFavoriteUnknownWatch(t *testing.T) {
	f := newAPIServer(t)
	f.signIn(t, "dealer@example.com")

	resp := f.do(t, http.MethodPost, "/api/favorites", map[string]uint{"watchId": 777})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/favorites", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestFavoritesScopedPerUser(t *testing.T) {
	f := newAPIServer(t)
	w := f.seed(t, steel("Rolex", "Submariner", 40, 1000000))

	f.signIn(t, "first@example.com")
	resp := f.do(t, http.MethodPost, "/api/favorites", map[string]uint{"watchId": w.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// второй клиент со своей cookie
	g := &apiFixture{srv: f.srv, mem: f.mem}
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	g.client = &http.Client{Jar: jar}
	g.signIn(t, "second@example.com")

	resp = g.do(t, http.MethodGet, "/api/favorites", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeWatches(t, resp))
}
