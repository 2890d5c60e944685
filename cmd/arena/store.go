package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Warfront/internal/match/app/port"
	"Warfront/internal/match/infra/persistence/memory"
	matchmongo "Warfront/internal/match/infra/persistence/mongodb"
	matchmysql "Warfront/internal/match/infra/persistence/mysql"
	"Warfront/internal/shared/infrastructure/db"
	sharedmongo "Warfront/internal/shared/infrastructure/mongo"
	"Warfront/internal/shared/logs"
	"Warfront/internal/shared/serverconfig"
)

// openStore 按 store.driver 打开归档存储，返回的 closer 在退出时调用。
func openStore(cfg serverconfig.Config) (port.MatchRepository, func(), error) {
	switch cfg.Store.Driver {
	case "", "memory":
		return memory.NewMatchRepository(), func() {}, nil
	case "mongodb":
		client, database, err := sharedmongo.Database(cfg.MongoDB, "warfront", logs.Logger())
		if err != nil {
			return nil, nil, fmt.Errorf("open mongodb: %w", err)
		}
		closer := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return matchmongo.NewMatchRepository(database), closer, nil
	case "mysql":
		gdb, err := db.Open(cfg.MySQL)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		repo := matchmysql.NewMatchRepo(gdb)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.AutoMigrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate match table: %w", err)
		}
		closer := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repo, closer, nil
	}
	logs.Error("unknown store driver", zap.String("driver", cfg.Store.Driver))
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
