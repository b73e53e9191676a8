package projector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/beanmap/drip/internal/repositories/bean"
	"github.com/beanmap/drip/internal/repositories/brand"
	"github.com/beanmap/drip/internal/repositories/cityarea"
	"github.com/beanmap/drip/internal/repositories/country"
	"github.com/beanmap/drip/internal/repositories/location"
	"github.com/beanmap/drip/internal/repositories/shop"
	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/metrics"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/tracing"
)

// Projector decodes rehydrated CMS entries and writes their SQL projections.
type Projector interface {
	Project(ctx context.Context, model models.Model, data json.RawMessage) error
	Delete(ctx context.Context, model models.Model, documentID string) error
	Ping(ctx context.Context) error
}

// Service implements Projector over the per-model repositories.
type Service struct {
	db        database.DB
	shops     shop.ShopRepository
	brands    brand.BrandRepository
	beans     bean.BeanRepository
	locations location.LocationRepository
	countries country.CountryRepository
	cityAreas cityarea.CityAreaRepository
	validate  *validator.Validate
	logger    ectologger.Logger
}

// NewService creates a new projector over the given repositories.
func NewService(
	db database.DB,
	shops shop.ShopRepository,
	brands brand.BrandRepository,
	beans bean.BeanRepository,
	locations location.LocationRepository,
	countries country.CountryRepository,
	cityAreas cityarea.CityAreaRepository,
	logger ectologger.Logger,
) *Service {
	return &Service{
		db:        db,
		shops:     shops,
		brands:    brands,
		beans:     beans,
		locations: locations,
		countries: countries,
		cityAreas: cityAreas,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Project decodes the rehydrated entry for the model, validates it, and
// upserts its projection.
func (s *Service) Project(ctx context.Context, model models.Model, data json.RawMessage) error {
	ctx, span := tracing.StartSpan(ctx, "Projector.Project")
	defer span.End()

	err := s.upsert(ctx, model, data)
	metrics.RecordProjection(string(model), "upsert", outcome(err))
	return err
}

func (s *Service) upsert(ctx context.Context, model models.Model, data json.RawMessage) error {
	switch model {
	case models.ModelShop:
		var entity models.Shop
		if err := s.decode(data, &entity); err != nil {
			return fmt.Errorf("failed to decode shop: %w", err)
		}
		return s.shops.Upsert(ctx, entity)
	case models.ModelBrand:
		var entity models.Brand
		if err := s.decode(data, &entity); err != nil {
			return fmt.Errorf("failed to decode brand: %w", err)
		}
		return s.brands.Upsert(ctx, entity)
	case models.ModelBean:
		var entity models.Bean
		if err := s.decode(data, &entity); err != nil {
			return fmt.Errorf("failed to decode bean: %w", err)
		}
		return s.beans.Upsert(ctx, entity)
	case models.ModelLocation:
		var entity models.Location
		if err := s.decode(data, &entity); err != nil {
			return fmt.Errorf("failed to decode location: %w", err)
		}
		return s.locations.Upsert(ctx, entity)
	case models.ModelCountry:
		var entity models.Country
		if err := s.decode(data, &entity); err != nil {
			return fmt.Errorf("failed to decode country: %w", err)
		}
		return s.countries.Upsert(ctx, entity)
	case models.ModelCityArea:
		var entity models.CityArea
		if err := s.decode(data, &entity); err != nil {
			return fmt.Errorf("failed to decode city area: %w", err)
		}
		return s.cityAreas.Upsert(ctx, entity)
	default:
		return fmt.Errorf("unhandled model: %s", model)
	}
}

// Delete removes the projection for the model and document id, including the
// cascade cleanup each repository owns.
func (s *Service) Delete(ctx context.Context, model models.Model, documentID string) error {
	ctx, span := tracing.StartSpan(ctx, "Projector.Delete")
	defer span.End()

	err := s.remove(ctx, model, documentID)
	metrics.RecordProjection(string(model), "delete", outcome(err))
	return err
}

func (s *Service) remove(ctx context.Context, model models.Model, documentID string) error {
	switch model {
	case models.ModelShop:
		return s.shops.Delete(ctx, documentID)
	case models.ModelBrand:
		return s.brands.Delete(ctx, documentID)
	case models.ModelBean:
		return s.beans.Delete(ctx, documentID)
	case models.ModelLocation:
		return s.locations.Delete(ctx, documentID)
	case models.ModelCountry:
		return s.countries.Delete(ctx, documentID)
	case models.ModelCityArea:
		return s.cityAreas.Delete(ctx, documentID)
	default:
		return fmt.Errorf("unhandled model: %s", model)
	}
}

// Ping reports whether the projection database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (s *Service) decode(data json.RawMessage, entity any) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return err
	}
	if err := s.validate.Struct(entity); err != nil {
		return err
	}
	return nil
}
