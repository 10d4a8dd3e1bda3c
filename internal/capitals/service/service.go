package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/capitalsapp/capitals/internal/capitals/domain"
	"github.com/capitalsapp/capitals/internal/capitals/repository"
	commonerrors "github.com/capitalsapp/capitals/internal/common/errors"
	"github.com/capitalsapp/capitals/internal/common/logger"
)

var ErrCapitalNotFound = commonerrors.NewDomainError(
	"CAPITAL_NOT_FOUND",
	commonerrors.CategoryNotFound,
	http.StatusNotFound,
	"capital not found",
)

// Input is the client payload for create and full-replace update.
// Duplicate country names are allowed.
type Input struct {
	Country string `json:"country" validate:"required,max=128"`
	Capital string `json:"capital" validate:"required,max=128"`
}

type Service struct {
	repo     repository.Repository
	validate *validator.Validate
	log      *logger.Logger
}

func NewService(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Capital, error) {
	capitals, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithFields(logger.Fields{"action": "list_capitals_failed"}).Errorf("list capitals failed: %v", err)
		return nil, commonerrors.ErrInternal.WithCause(err)
	}
	return capitals, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Capital, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Capital{}, s.mapError(err, "get_capital_failed", id)
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, input Input) (domain.Capital, error) {
	if err := s.validateInput(input); err != nil {
		return domain.Capital{}, err
	}

	c, err := s.repo.Create(ctx, input.Country, input.Capital)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"country": input.Country,
			"action":  "create_capital_failed",
		}).Errorf("create capital failed: %v", err)
		return domain.Capital{}, commonerrors.ErrInternal.WithCause(err)
	}

	s.log.WithFields(logger.Fields{
		"capital_id": c.ID,
		"country":    c.Country,
		"action":     "create_capital_success",
	}).Info("capital created")

	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, input Input) (domain.Capital, error) {
	if err := s.validateInput(input); err != nil {
		return domain.Capital{}, err
	}

	c, err := s.repo.Update(ctx, id, input.Country, input.Capital)
	if err != nil {
		return domain.Capital{}, s.mapError(err, "update_capital_failed", id)
	}

	s.log.WithFields(logger.Fields{
		"capital_id": c.ID,
		"action":     "update_capital_success",
	}).Info("capital updated")

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (domain.Capital, error) {
	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.Capital{}, s.mapError(err, "delete_capital_failed", id)
	}

	s.log.WithFields(logger.Fields{
		"capital_id": c.ID,
		"action":     "delete_capital_success",
	}).Info("capital deleted")

	return c, nil
}

func (s *Service) mapError(err error, action string, id int64) error {
	if errors.Is(err, repository.ErrCapitalNotFound) {
		return ErrCapitalNotFound
	}
	s.log.WithFields(logger.Fields{
		"capital_id": id,
		"action":     action,
	}).Errorf("%s: %v", action, err)
	return commonerrors.ErrInternal.WithCause(err)
}

func (s *Service) validateInput(input Input) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return invalidInputError("invalid capital payload")
	}

	msgs := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}

	return invalidInputError(strings.Join(msgs, "; "))
}

func invalidInputError(message string) commonerrors.DomainError {
	return commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		message,
	)
}
