package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/bloomorders/internal/app"
	"github.com/polkiloo/bloomorders/internal/config"
	"github.com/polkiloo/bloomorders/internal/logger"
	"github.com/polkiloo/bloomorders/internal/pkg/auth"
	"github.com/polkiloo/bloomorders/internal/pkg/validation"
	"github.com/polkiloo/bloomorders/internal/server/http/router"
	"github.com/polkiloo/bloomorders/internal/storage/objectstore"
	"github.com/polkiloo/bloomorders/internal/storage/postgres"
	"github.com/polkiloo/bloomorders/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		validation.Module,
		postgres.Module,
		objectstore.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
