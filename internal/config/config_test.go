package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readreviews/internal/apperrors"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "./test.db")
	t.Setenv("DEV_KEY", "abc")

	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "./test.db", cfg.Database.URL)
	assert.Equal(t, "abc", cfg.Ratings.APIKey)
	assert.True(t, cfg.Ratings.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Ratings.Timeout)
	assert.Equal(t, 4, cfg.Ratings.Concurrency)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 8, cfg.Auth.MinPasswordLength)
	assert.True(t, cfg.Auth.RememberMeEnabled)
	assert.False(t, cfg.RatingsSync.Enabled)
	assert.Equal(t, "0 3 * * *", cfg.RatingsSync.Schedule)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig_LegacyNames(t *testing.T) {
	t.Setenv("DB_URI", "postgres://localhost/books")
	t.Setenv("RATINGS_API_KEY", "new-key")
	t.Setenv("DEV_KEY", "old-key")

	cfg := NewConfig()

	assert.Equal(t, "postgres://localhost/books", cfg.Database.URL)
	assert.Equal(t, "new-key", cfg.Ratings.APIKey, "new name wins over legacy name")
}

func TestValidate(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		cfg := &Config{Ratings: Ratings{Enabled: true, APIKey: "key"}}

		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrConfig))
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("missing api key with ratings enabled", func(t *testing.T) {
		cfg := &Config{Database: Database{URL: "x.db"}, Ratings: Ratings{Enabled: true}}

		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrConfig))
		assert.Contains(t, err.Error(), "RATINGS_API_KEY")
	})

	t.Run("reports every missing variable", func(t *testing.T) {
		cfg := &Config{Ratings: Ratings{Enabled: true}}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
		assert.Contains(t, err.Error(), "RATINGS_API_KEY")
	})

	t.Run("api key optional when ratings disabled", func(t *testing.T) {
		cfg := &Config{Database: Database{URL: "x.db"}}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("sync requires ratings", func(t *testing.T) {
		cfg := &Config{
			Database:    Database{URL: "x.db"},
			RatingsSync: RatingsSync{Enabled: true},
			Tasks:       Tasks{Enabled: true},
		}
		assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfig)
	})

	t.Run("sync requires tasks", func(t *testing.T) {
		cfg := &Config{
			Database:    Database{URL: "x.db"},
			Ratings:     Ratings{Enabled: true, APIKey: "k"},
			RatingsSync: RatingsSync{Enabled: true},
		}
		assert.ErrorIs(t, cfg.Validate(), apperrors.ErrConfig)
	})
}
