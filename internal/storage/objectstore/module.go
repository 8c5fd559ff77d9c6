package objectstore

import (
	"context"

	"go.uber.org/fx"

	"github.com/polkiloo/bloomorders/internal/config"
	"github.com/polkiloo/bloomorders/internal/domain/repository"
)

// Module wires the S3 photo store.
var Module = fx.Provide(newPhotoStorage)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
}

func newPhotoStorage(p storeParams) (repository.PhotoStorage, error) {
	awsCfg, err := LoadAWSConfig(p.Ctx, p.Config.Storage)
	if err != nil {
		return nil, err
	}
	return New(NewClient(awsCfg, p.Config.Storage), p.Config.Storage), nil
}
