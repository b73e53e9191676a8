package projector_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanmap/drip/internal/repositories/bean"
	"github.com/beanmap/drip/internal/repositories/brand"
	"github.com/beanmap/drip/internal/repositories/cityarea"
	"github.com/beanmap/drip/internal/repositories/country"
	"github.com/beanmap/drip/internal/repositories/location"
	"github.com/beanmap/drip/internal/repositories/shop"
	"github.com/beanmap/drip/pkg/metrics"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/projector"
)

type fakeShopRepo struct {
	upserted []models.Shop
	deleted  []string
}

func (f *fakeShopRepo) Upsert(ctx context.Context, entity models.Shop) error {
	f.upserted = append(f.upserted, entity)
	return nil
}

func (f *fakeShopRepo) Delete(ctx context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

func (f *fakeShopRepo) GetByDocumentID(ctx context.Context, documentID string) (*shop.Row, error) {
	return nil, nil
}

type fakeCountryRepo struct {
	upserted []models.Country
	deleted  []string
}

func (f *fakeCountryRepo) Upsert(ctx context.Context, entity models.Country) error {
	f.upserted = append(f.upserted, entity)
	return nil
}

func (f *fakeCountryRepo) Delete(ctx context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

func (f *fakeCountryRepo) GetByDocumentID(ctx context.Context, documentID string) (*country.Row, error) {
	return nil, nil
}

type fakeBrandRepo struct{ deleted []string }

func (f *fakeBrandRepo) Upsert(ctx context.Context, entity models.Brand) error { return nil }

func (f *fakeBrandRepo) Delete(ctx context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

func (f *fakeBrandRepo) GetByDocumentID(ctx context.Context, documentID string) (*brand.Row, error) {
	return nil, nil
}

func (f *fakeBrandRepo) GetSuppliers(ctx context.Context, brandDocumentID string) ([]brand.SupplierRow, error) {
	return nil, nil
}

func (f *fakeBrandRepo) GetRoastCountries(ctx context.Context, brandDocumentID string) ([]brand.RoastCountryRow, error) {
	return nil, nil
}

type fakeBeanRepo struct{}

func (fakeBeanRepo) Upsert(ctx context.Context, entity models.Bean) error  { return nil }
func (fakeBeanRepo) Delete(ctx context.Context, documentID string) error   { return nil }
func (fakeBeanRepo) GetByDocumentID(ctx context.Context, documentID string) (*bean.Row, error) {
	return nil, nil
}
func (fakeBeanRepo) GetOrigins(ctx context.Context, beanDocumentID string) ([]bean.OriginRow, error) {
	return nil, nil
}
func (fakeBeanRepo) GetFlavorTags(ctx context.Context, beanDocumentID string) ([]bean.FlavorTagRow, error) {
	return nil, nil
}

type fakeLocationRepo struct{}

func (fakeLocationRepo) Upsert(ctx context.Context, entity models.Location) error { return nil }
func (fakeLocationRepo) Delete(ctx context.Context, documentID string) error      { return nil }
func (fakeLocationRepo) GetByDocumentID(ctx context.Context, documentID string) (*location.Row, error) {
	return nil, nil
}

type fakeCityAreaRepo struct{}

func (fakeCityAreaRepo) Upsert(ctx context.Context, entity models.CityArea) error { return nil }
func (fakeCityAreaRepo) Delete(ctx context.Context, documentID string) error      { return nil }
func (fakeCityAreaRepo) GetByDocumentID(ctx context.Context, documentID string) (*cityarea.Row, error) {
	return nil, nil
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

func newTestService(shops *fakeShopRepo, brands *fakeBrandRepo, countries *fakeCountryRepo) *projector.Service {
	return projector.NewService(nil, shops, brands, fakeBeanRepo{}, fakeLocationRepo{}, countries, fakeCityAreaRepo{}, noopLogger())
}

func TestProjectDispatch(t *testing.T) {
	shops := &fakeShopRepo{}
	svc := newTestService(shops, &fakeBrandRepo{}, &fakeCountryRepo{})

	err := svc.Project(context.Background(), models.ModelShop,
		json.RawMessage(`{"id":1,"documentId":"doc-1","name":"Bonanza"}`))
	require.NoError(t, err)

	require.Len(t, shops.upserted, 1)
	assert.Equal(t, "doc-1", shops.upserted[0].DocumentID)
	assert.Equal(t, "Bonanza", shops.upserted[0].Name)
}

func TestProjectValidation(t *testing.T) {
	shops := &fakeShopRepo{}
	countries := &fakeCountryRepo{}
	svc := newTestService(shops, &fakeBrandRepo{}, countries)

	t.Run("missing required name", func(t *testing.T) {
		err := svc.Project(context.Background(), models.ModelShop,
			json.RawMessage(`{"documentId":"doc-1"}`))
		require.Error(t, err)
		assert.Empty(t, shops.upserted)
	})

	t.Run("country requires code", func(t *testing.T) {
		err := svc.Project(context.Background(), models.ModelCountry,
			json.RawMessage(`{"documentId":"doc-1","name":"Germany"}`))
		require.Error(t, err)
		assert.Empty(t, countries.upserted)
	})

	t.Run("malformed json", func(t *testing.T) {
		err := svc.Project(context.Background(), models.ModelShop, json.RawMessage(`{broken`))
		require.Error(t, err)
	})
}

func TestProjectUnhandledModel(t *testing.T) {
	svc := newTestService(&fakeShopRepo{}, &fakeBrandRepo{}, &fakeCountryRepo{})

	err := svc.Project(context.Background(), models.Model("article"), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unhandled model")
}

func TestProjectRecordsMetrics(t *testing.T) {
	svc := newTestService(&fakeShopRepo{}, &fakeBrandRepo{}, &fakeCountryRepo{})
	model := string(models.ModelCityArea)

	upsertBefore := testutil.ToFloat64(metrics.ProjectionsTotal.WithLabelValues(model, "upsert", "success"))
	deleteBefore := testutil.ToFloat64(metrics.ProjectionsTotal.WithLabelValues(model, "delete", "success"))
	errorBefore := testutil.ToFloat64(metrics.ProjectionsTotal.WithLabelValues(model, "upsert", "error"))

	require.NoError(t, svc.Project(context.Background(), models.ModelCityArea,
		json.RawMessage(`{"documentId":"doc-1","name":"Mitte"}`)))
	require.NoError(t, svc.Delete(context.Background(), models.ModelCityArea, "doc-1"))
	require.Error(t, svc.Project(context.Background(), models.ModelCityArea, json.RawMessage(`{broken`)))

	assert.Equal(t, upsertBefore+1,
		testutil.ToFloat64(metrics.ProjectionsTotal.WithLabelValues(model, "upsert", "success")))
	assert.Equal(t, deleteBefore+1,
		testutil.ToFloat64(metrics.ProjectionsTotal.WithLabelValues(model, "delete", "success")))
	assert.Equal(t, errorBefore+1,
		testutil.ToFloat64(metrics.ProjectionsTotal.WithLabelValues(model, "upsert", "error")))
}

func TestDeleteDispatch(t *testing.T) {
	brands := &fakeBrandRepo{}
	countries := &fakeCountryRepo{}
	svc := newTestService(&fakeShopRepo{}, brands, countries)

	require.NoError(t, svc.Delete(context.Background(), models.ModelBrand, "brand-doc-1"))
	require.NoError(t, svc.Delete(context.Background(), models.ModelCountry, "country-doc-1"))

	assert.Equal(t, []string{"brand-doc-1"}, brands.deleted)
	assert.Equal(t, []string{"country-doc-1"}, countries.deleted)
}
