//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/zeusync/artrainer/internal/app"
	"github.com/zeusync/artrainer/internal/config"
)

func InitializeApp(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {
	wire.Build(app.ProviderSet)
	return nil, nil, nil
}

func InitializeSolverd(cfg *config.Config) (*app.Solverd, func(), error) {
	wire.Build(app.SolverdSet)
	return nil, nil, nil
}
