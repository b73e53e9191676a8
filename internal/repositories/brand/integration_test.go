package brand_test

import (
	"context"
	"os"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beanmap/drip/internal/repositories/brand"
	"github.com/beanmap/drip/pkg/database"
	"github.com/beanmap/drip/pkg/models"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) database.DB {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbUser := os.Getenv("DB_USER_NAME")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "drip"
	}

	dsn := "host=" + dbHost + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	return database.NewDatabaseInstance(db, getTestLogger())
}

func TestBrandRepository_UpsertIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	repo := brand.NewRepository(db, getTestLogger())
	ctx := context.Background()

	docID := uuid.New().String()
	entity := models.Brand{
		ID:         1,
		DocumentID: docID,
		Name:       "Repeat Roasters",
		Slug:       "repeat-roasters",
	}

	require.NoError(t, repo.Upsert(ctx, entity))
	require.NoError(t, repo.Upsert(ctx, entity))

	row, err := repo.GetByDocumentID(ctx, docID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Repeat Roasters", row.Name.String)

	entity.Name = "Renamed Roasters"
	require.NoError(t, repo.Upsert(ctx, entity))

	row, err = repo.GetByDocumentID(ctx, docID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Renamed Roasters", row.Name.String)

	require.NoError(t, repo.Delete(ctx, docID))
}

func TestBrandRepository_JunctionReplace(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	repo := brand.NewRepository(db, getTestLogger())
	ctx := context.Background()

	docID := uuid.New().String()
	entity := models.Brand{
		DocumentID: docID,
		Name:       "Junction Roasters",
		Suppliers: []models.SupplierRef{
			{DocumentID: "sup-a", Name: "Supplier A"},
			{DocumentID: "sup-b", Name: "Supplier B"},
		},
		RoastCountries: []models.CountryRef{
			{DocumentID: "country-et", Code: "ET", Name: "Ethiopia"},
		},
	}

	require.NoError(t, repo.Upsert(ctx, entity))

	suppliers, err := repo.GetSuppliers(ctx, docID)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "sup-a", suppliers[0].SupplierDocumentID)
	assert.Equal(t, "sup-b", suppliers[1].SupplierDocumentID)

	// Replace [A, B] with [B, C]; A must be gone afterwards.
	entity.Suppliers = []models.SupplierRef{
		{DocumentID: "sup-b", Name: "Supplier B"},
		{DocumentID: "sup-c", Name: "Supplier C"},
	}
	require.NoError(t, repo.Upsert(ctx, entity))

	suppliers, err = repo.GetSuppliers(ctx, docID)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "sup-b", suppliers[0].SupplierDocumentID)
	assert.Equal(t, "sup-c", suppliers[1].SupplierDocumentID)

	countries, err := repo.GetRoastCountries(ctx, docID)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "ET", countries[0].CountryCode.String)

	require.NoError(t, repo.Delete(ctx, docID))

	suppliers, err = repo.GetSuppliers(ctx, docID)
	require.NoError(t, err)
	assert.Empty(t, suppliers, "delete must clear junction rows")
}
