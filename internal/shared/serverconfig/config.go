package serverconfig

import (
	"os"

	"Warfront/internal/shared/config"
)

const EnvPrefix = "WARFRONT"

var Conf Config

// Defaults 配置文件缺项时使用的值。
func Defaults() map[string]any {
	return map[string]any{
		"log.level":    "info",
		"log.max_size": 100,

		"arena.host":           "0.0.0.0",
		"arena.port":           8080,
		"arena.grpc_port":      9090,
		"arena.ask_timeout_ms": 2000,
		"arena.max_sessions":   256,

		"sim.tick_interval_ms": 100,
		"sim.max_queue":        10,

		"store.driver":         "memory",
		"store.retry_delay_ms": 1000,
		"store.save_timeout_s": 3,

		"mongodb.database":          "warfront",
		"mongodb.connect_timeout_s": 3,

		"mysql.charset":  "utf8mb4",
		"mysql.max_idle": 4,
		"mysql.max_conn": 16,

		"auth.seat_ttl_min": 120,
	}
}

// Load 读取 cfgName（为空时向上查找 configs/conf.yml），找不到文件时只用默认值。
func Load(cfgName string, opts ...config.Option) (string, error) {
	all := append([]config.Option{
		config.WithDefaults(Defaults()),
		config.WithEnvPrefix(EnvPrefix),
		config.Optional(),
	}, opts...)
	path, err := config.Load(cfgName, &Conf, all...)
	if err != nil {
		return path, err
	}
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && Conf.Auth.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.Auth.JWTSecret)
	}
	return path, nil
}
