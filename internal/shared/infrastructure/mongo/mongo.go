package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"Warfront/internal/shared/serverconfig"
)

var ErrEmptyURI = errors.New("mongodb uri is empty")

func Open(cfg serverconfig.MongoDBConfig, l *zap.Logger) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, ErrEmptyURI
	}
	if l == nil {
		l = zap.NewNop()
	}

	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	l.Info("open mongodb success",
		zap.String("database", cfg.Database),
	)
	return client, nil
}

// Database 打开客户端并返回配置中的库，database 为空时使用 fallback。
func Database(cfg serverconfig.MongoDBConfig, fallback string, l *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := Open(cfg, l)
	if err != nil {
		return nil, nil, err
	}
	name := cfg.Database
	if name == "" {
		name = fallback
	}
	return client, client.Database(name), nil
}
