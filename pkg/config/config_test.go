package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	for key := range defaults {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "socialmedia", cfg.MongoDatabase)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.CommentCountTTL)
	assert.Equal(t, []string{"*"}, cfg.Origins())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "3001")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("USER_STORE", "mongo")
	t.Setenv("COMMENT_COUNT_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, DriverMemory, cfg.UserStore, "users follow the memory driver")
	assert.Equal(t, 90*time.Second, cfg.CommentCountTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Port: "8080", StoreDriver: DriverMongo, UserStore: DriverMongo, MongoURI: "mongodb://x"}
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.StoreDriver = "cassandra"
	assert.ErrorContains(t, c.Validate(), "STORE_DRIVER")

	c = valid()
	c.UserStore = DriverPostgres
	assert.ErrorContains(t, c.Validate(), "POSTGRES_URL")

	c = valid()
	c.MongoURI = ""
	assert.ErrorContains(t, c.Validate(), "MONGO_URI")

	c = valid()
	c.RequestTimeout = -time.Second
	assert.Error(t, c.Validate())
}

func TestInitDBMemoryOpensNothing(t *testing.T) {
	cfg := &Config{Port: "8080", StoreDriver: DriverMemory, UserStore: DriverMemory}
	db, err := InitDB(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, db.Mongo)
	assert.Nil(t, db.Postgres)
	db.CloseDB()
}
