package di

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/bloomorders/internal/app"
	"github.com/polkiloo/bloomorders/internal/config"
	"github.com/polkiloo/bloomorders/internal/domain/repository"
	"github.com/polkiloo/bloomorders/internal/storage/postgres"
	"github.com/polkiloo/bloomorders/internal/test"
)

type factoryStub struct {
	orders repository.OrderRepository
}

func (f factoryStub) Orders() repository.OrderRepository { return f.orders }
func (f factoryStub) Ping(context.Context) error         { return nil }

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		SessionSecret:   "secret",
		SessionTTL:      time.Hour,
		ShutdownTimeout: time.Millisecond,
		MaxUploadSize:   1 << 20,
		DisplayLocation: time.UTC,
		Storage:         config.StorageConfig{Bucket: "order-photos", Region: "us-east-1"},
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	orderRepo := test.NewOrderRepositoryStub()
	photos := &test.PhotoStorageStub{}

	var (
		facade *app.ShopFacade
		engine *gin.Engine
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.Factory(factoryStub{orders: orderRepo})),
			fx.Replace(repository.PhotoStorage(photos)),
		),
		fx.Populate(&facade, &engine),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected shop facade instance")
	}
	if facade.AuthEnabled() {
		t.Fatal("auth should be disabled without a password hash")
	}

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected healthy service, got %d", resp.Code)
	}
}
