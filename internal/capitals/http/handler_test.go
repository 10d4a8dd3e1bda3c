package http_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"

	"github.com/capitalsapp/capitals/internal/capitals/domain"
	capitalshttp "github.com/capitalsapp/capitals/internal/capitals/http"
	"github.com/capitalsapp/capitals/internal/capitals/repository"
	"github.com/capitalsapp/capitals/internal/capitals/service"
	"github.com/capitalsapp/capitals/internal/common/logger"
)

// memRepo keeps rows in insertion order, like the serial-id table it fakes.
type memRepo struct {
	mu     sync.Mutex
	rows   map[int64]domain.Capital
	nextID int64
	fail   error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]domain.Capital{}, nextID: 1}
}

func (m *memRepo) List(context.Context) ([]domain.Capital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]domain.Capital, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) FindByID(_ context.Context, id int64) (domain.Capital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return domain.Capital{}, m.fail
	}
	c, ok := m.rows[id]
	if !ok {
		return domain.Capital{}, repository.ErrCapitalNotFound
	}
	return c, nil
}

func (m *memRepo) Create(_ context.Context, country, capital string) (domain.Capital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return domain.Capital{}, m.fail
	}
	c := domain.Capital{ID: m.nextID, Country: country, Capital: capital}
	m.rows[c.ID] = c
	m.nextID++
	return c, nil
}

func (m *memRepo) Update(_ context.Context, id int64, country, capital string) (domain.Capital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return domain.Capital{}, m.fail
	}
	if _, ok := m.rows[id]; !ok {
		return domain.Capital{}, repository.ErrCapitalNotFound
	}
	c := domain.Capital{ID: id, Country: country, Capital: capital}
	m.rows[id] = c
	return c, nil
}

func (m *memRepo) Delete(_ context.Context, id int64) (domain.Capital, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return domain.Capital{}, m.fail
	}
	c, ok := m.rows[id]
	if !ok {
		return domain.Capital{}, repository.ErrCapitalNotFound
	}
	delete(m.rows, id)
	return c, nil
}

func setupRouter(t *testing.T) (*httprouter.Router, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	log, _ := logger.New("", "test", "error")
	router := httprouter.New()
	capitalshttp.NewHandler(service.NewService(repo, log), log).Mount(router)
	return router, repo
}

func TestList_EmptyTableReturnsEmptyArray(t *testing.T) {
	router, _ := setupRouter(t)

	apitest.Handler(router).
		Get("/api/capitals").
		Expect(t).
		Status(http.StatusOK).
		Body(`{"message":"List of capitals","data":[]}`).
		End()
}

func TestCRUD_RoundTrip(t *testing.T) {
	router, _ := setupRouter(t)

	apitest.Handler(router).
		Post("/country").
		JSON(`{"country":"Indonesia","capital":"Jakarta"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.data.country`, "Indonesia")).
		Assert(jsonpath.Equal(`$.data.id`, float64(1))).
		End()

	apitest.Handler(router).
		Get("/country/1").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.capital`, "Jakarta")).
		End()

	apitest.Handler(router).
		Put("/country/1").
		JSON(`{"country":"Indonesia","capital":"Nusantara"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.data.capital`, "Nusantara")).
		End()

	apitest.Handler(router).
		Get("/country/1").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.capital`, "Nusantara")).
		End()

	apitest.Handler(router).
		Delete("/country/1").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.data.capital`, "Nusantara")).
		End()

	apitest.Handler(router).
		Get("/country/1").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestList_OrderedByAscendingID(t *testing.T) {
	router, _ := setupRouter(t)

	for i, pair := range [][2]string{
		{"Indonesia", "Jakarta"},
		{"Japan", "Tokyo"},
		{"France", "Paris"},
	} {
		apitest.Handler(router).
			Post("/country").
			JSON(fmt.Sprintf(`{"country":%q,"capital":%q}`, pair[0], pair[1])).
			Expect(t).
			Status(http.StatusCreated).
			Assert(jsonpath.Equal(`$.data.id`, float64(i+1))).
			End()
	}

	apitest.Handler(router).
		Get("/api/capitals").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$.data`, 3)).
		Assert(jsonpath.Equal(`$.data[0].country`, "Indonesia")).
		Assert(jsonpath.Equal(`$.data[2].country`, "France")).
		End()
}

func TestGetUpdateDelete_MissingRowIs404(t *testing.T) {
	router, _ := setupRouter(t)

	apitest.Handler(router).
		Get("/country/99").
		Expect(t).
		Status(http.StatusNotFound).
		End()

	apitest.Handler(router).
		Put("/country/99").
		JSON(`{"country":"Nowhere","capital":"Nowhere City"}`).
		Expect(t).
		Status(http.StatusNotFound).
		End()

	apitest.Handler(router).
		Delete("/country/99").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestGet_NonNumericIDIs404(t *testing.T) {
	router, _ := setupRouter(t)

	apitest.Handler(router).
		Get("/country/abc").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestCreate_MissingFieldsIs400(t *testing.T) {
	router, _ := setupRouter(t)

	apitest.Handler(router).
		Post("/country").
		JSON(`{"country":"Indonesia"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.code`, "VALIDATION_FAILED")).
		End()
}

func TestStoreFailure_Is500WithScrubbedMessage(t *testing.T) {
	router, repo := setupRouter(t)
	repo.fail = errors.New("dial tcp 10.0.0.5:5432: connection refused")

	apitest.Handler(router).
		Get("/api/capitals").
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(jsonpath.Equal(`$.message`, "internal server error")).
		End()
}
