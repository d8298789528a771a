package cmd_test

import (
	"log/slog"
	"net/http"
	"testing"

	"marketplace/cmd"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestCompositionRoot_WiresEveryComponent(t *testing.T) {
	// Given: clients that connect lazily, so nothing is dialed here.
	cfg, err := cmd.LoadConfig(env(requiredEnv()))
	require.NoError(t, err)
	db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	notifier := kafka.NewNotifier(cfg.KafkaBrokers(), cfg.KafkaOrderEventsTopic)
	t.Cleanup(func() {
		_ = redisClient.Close()
		_ = notifier.Close()
	})

	// When
	root := cmd.NewCompositionRoot(cfg, db, redisClient, notifier, slog.New(slog.DiscardHandler))

	// Then
	e := echo.New()
	require.NoError(t, root.CreateHTTPServer().Register(t.Context(), e))
	assert.NotEmpty(t, e.Routes())
	assert.NotNil(t, root.CreateJobManager())

	env := root.CreateOrderService().GetOrder(t.Context(), "not-an-id")
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Equal(t, order.CodeOrderNotFound, env.Error.Code)
}
