package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/capitalsapp/capitals/internal/capitals/domain"
	"github.com/capitalsapp/capitals/internal/capitals/repository"
	"github.com/capitalsapp/capitals/internal/capitals/service"
	commonerrors "github.com/capitalsapp/capitals/internal/common/errors"
	"github.com/capitalsapp/capitals/internal/common/logger"
)

type mockRepo struct {
	listFunc     func(ctx context.Context) ([]domain.Capital, error)
	findByIDFunc func(ctx context.Context, id int64) (domain.Capital, error)
	createFunc   func(ctx context.Context, country, capital string) (domain.Capital, error)
	updateFunc   func(ctx context.Context, id int64, country, capital string) (domain.Capital, error)
	deleteFunc   func(ctx context.Context, id int64) (domain.Capital, error)
}

func (m *mockRepo) List(ctx context.Context) ([]domain.Capital, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []domain.Capital{}, nil
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (domain.Capital, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.Capital{}, repository.ErrCapitalNotFound
}

func (m *mockRepo) Create(ctx context.Context, country, capital string) (domain.Capital, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, country, capital)
	}
	return domain.Capital{ID: 1, Country: country, Capital: capital}, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, country, capital string) (domain.Capital, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, country, capital)
	}
	return domain.Capital{}, repository.ErrCapitalNotFound
}

func (m *mockRepo) Delete(ctx context.Context, id int64) (domain.Capital, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return domain.Capital{}, repository.ErrCapitalNotFound
}

func setupService(t *testing.T) (*service.Service, *mockRepo) {
	t.Helper()
	repo := &mockRepo{}
	log, _ := logger.New("", "test", "error")
	return service.NewService(repo, log), repo
}

func TestService_Get_NotFound(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, service.ErrCapitalNotFound) {
		t.Fatalf("expected ErrCapitalNotFound, got %v", err)
	}

	de, _ := commonerrors.AsDomainError(err)
	if de.HTTPStatus() != 404 {
		t.Errorf("expected status 404, got %d", de.HTTPStatus())
	}
}

func TestService_Get_StoreFailureIsInternal(t *testing.T) {
	svc, repo := setupService(t)

	repo.findByIDFunc = func(context.Context, int64) (domain.Capital, error) {
		return domain.Capital{}, errors.New("dial tcp 10.0.0.5:5432: connection refused")
	}

	_, err := svc.Get(context.Background(), 1)
	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatalf("expected domain error, got %v", err)
	}
	if de.HTTPStatus() != 500 {
		t.Errorf("expected status 500, got %d", de.HTTPStatus())
	}
	if strings.Contains(de.Message(), "10.0.0.5") {
		t.Error("client-facing message must not contain driver error text")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := setupService(t)

	testCases := []struct {
		name  string
		input service.Input
	}{
		{"missing country", service.Input{Capital: "Jakarta"}},
		{"missing capital", service.Input{Country: "Indonesia"}},
		{"country too long", service.Input{Country: strings.Repeat("x", 129), Capital: "Jakarta"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			de, ok := commonerrors.AsDomainError(err)
			if !ok {
				t.Fatalf("expected domain error, got %v", err)
			}
			if de.HTTPStatus() != 400 {
				t.Errorf("expected status 400, got %d", de.HTTPStatus())
			}
		})
	}
}

func TestService_Create_AllowsDuplicateCountries(t *testing.T) {
	svc, repo := setupService(t)

	var created int
	repo.createFunc = func(_ context.Context, country, capital string) (domain.Capital, error) {
		created++
		return domain.Capital{ID: int64(created), Country: country, Capital: capital}, nil
	}

	input := service.Input{Country: "Indonesia", Capital: "Jakarta"}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	c, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if c.ID != 2 {
		t.Errorf("expected second row id 2, got %d", c.ID)
	}
}

func TestService_List_EmptyIsNotAnError(t *testing.T) {
	svc, _ := setupService(t)

	capitals, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if capitals == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(capitals) != 0 {
		t.Errorf("expected no rows, got %d", len(capitals))
	}
}
