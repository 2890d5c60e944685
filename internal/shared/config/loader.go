package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type options struct {
	defaults  map[string]any
	envPrefix string
	onChange  func(decode func(dst any) error)
	optional  bool
}

type Option func(*options)

// WithDefaults 以 viper 的点分 key 设置默认值，配置文件缺项时生效。
func WithDefaults(d map[string]any) Option {
	return func(o *options) { o.defaults = d }
}

// WithEnvPrefix 开启环境变量覆盖：PREFIX_SECTION_KEY。
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// WithWatch 配置文件变更时回调 fn。fn 自己决定解码到哪个新对象，
// 不会改写 Load 传入的 dst，调用方按需替换可热更的字段。
func WithWatch(fn func(decode func(dst any) error)) Option {
	return func(o *options) { o.onChange = fn }
}

// Optional 找不到配置文件时只使用默认值和环境变量。
func Optional() Option {
	return func(o *options) { o.optional = true }
}

// Load 读取配置并解码到 dst（指针）。返回实际使用的配置文件路径，未找到时为空。
func Load(cfgName string, dst any, opts ...Option) (string, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	for k, val := range o.defaults {
		v.SetDefault(k, val)
	}
	if o.envPrefix != "" {
		v.SetEnvPrefix(o.envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	path, err := Resolve(cfgName)
	switch {
	case err == nil:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("read config %s: %w", path, err)
		}
	case o.optional:
		path = ""
	default:
		return "", fmt.Errorf("resolve config %q: %w", cfgName, err)
	}

	if err := v.Unmarshal(dst); err != nil {
		return path, fmt.Errorf("unmarshal config: %w", err)
	}

	if path != "" && o.onChange != nil {
		v.OnConfigChange(func(fsnotify.Event) {
			o.onChange(func(next any) error { return v.Unmarshal(next) })
		})
		v.WatchConfig()
	}
	return path, nil
}
