package database

import (
	"testing"

	"pickmypit/internal/config"
	"pickmypit/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	assert.NoError(t, configurePool(db, cfg))

	// Zero values fall back to defaults without error.
	assert.NoError(t, configurePool(db, &config.Config{}))
}

func TestConfigurePoolOverPostgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`SELECT version\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("PostgreSQL 16.3"))

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, configurePool(db, &config.Config{
		DBMaxOpenConns:           4,
		DBMaxIdleConns:           2,
		DBConnMaxLifetimeMinutes: 5,
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersistentModels(t *testing.T) {
	registered := PersistentModels()
	require.NotEmpty(t, registered)

	hasPost := false
	hasAddress := false
	for _, model := range registered {
		switch model.(type) {
		case *models.Post:
			hasPost = true
		case *models.Address:
			hasAddress = true
		}
	}
	assert.True(t, hasPost, "PersistentModels should include Post")
	assert.True(t, hasAddress, "PersistentModels should include Address")
}

func TestRegisteredMigrations(t *testing.T) {
	all := GetMigrations()
	require.NotEmpty(t, all, "embedded migrations should be registered")

	first := GetMigrationByVersion(1)
	require.NotNil(t, first)
	assert.Equal(t, "init", first.Name)
	assert.NotEmpty(t, first.UpScript)
	assert.NotEmpty(t, first.DownScript)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		runSQL  bool
		runAuto bool
		wantErr bool
	}{
		{
			name:    "hybrid in development",
			cfg:     &config.Config{Env: "development", DBSchemaMode: "hybrid"},
			runSQL:  true,
			runAuto: true,
		},
		{
			name:    "hybrid in production",
			cfg:     &config.Config{Env: "production", DBSchemaMode: "hybrid"},
			runSQL:  true,
			runAuto: false,
		},
		{
			name:    "sql only",
			cfg:     &config.Config{Env: "development", DBSchemaMode: "sql"},
			runSQL:  true,
			runAuto: false,
		},
		{
			name:    "auto refused in production",
			cfg:     &config.Config{Env: "production", DBSchemaMode: "auto"},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			cfg:     &config.Config{Env: "development", DBSchemaMode: "yolo"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.runSQL, runSQL)
			assert.Equal(t, tt.runAuto, runAuto)
		})
	}
}
