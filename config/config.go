// Package config 提供了统一的配置加载与管理能力.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wyfcoding/bsengine/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 全局顶级配置结构.
type Config struct {
	Version   string          `mapstructure:"version"   toml:"version"`
	Server    ServerConfig    `mapstructure:"server"    toml:"server"`
	Log       LogConfig       `mapstructure:"log"       toml:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   toml:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing"   toml:"tracing"`
	Cache     CacheConfig     `mapstructure:"cache"     toml:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit" toml:"ratelimit"`
	Pricing   PricingConfig   `mapstructure:"pricing"   toml:"pricing"`
	IDGen     IDGenConfig     `mapstructure:"idgen"     toml:"idgen"`
}

// ServerConfig 定义服务器运行时的基础网络与环境参数.
type ServerConfig struct {
	Name        string `mapstructure:"name"        toml:"name"        validate:"required"`
	Environment string `mapstructure:"environment" toml:"environment" validate:"oneof=dev test prod"`
	HTTP        struct {
		Addr              string        `mapstructure:"addr"                toml:"addr"`
		ReadTimeout       time.Duration `mapstructure:"read_timeout"        toml:"read_timeout"`
		ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" toml:"read_header_timeout"`
		WriteTimeout      time.Duration `mapstructure:"write_timeout"       toml:"write_timeout"`
		IdleTimeout       time.Duration `mapstructure:"idle_timeout"        toml:"idle_timeout"`
		MaxBodyBytes      int64         `mapstructure:"max_body_bytes"      toml:"max_body_bytes"`
		Port              int           `mapstructure:"port"                toml:"port"                validate:"required,min=1,max=65535"`
	} `mapstructure:"http" toml:"http"`
}

// LogConfig 定义日志输出、级别与切割策略.
type LogConfig struct {
	Level      string `mapstructure:"level"       toml:"level"       validate:"omitempty,oneof=debug info warn error"`
	File       string `mapstructure:"file"        toml:"file"`        // 日志文件路径。
	Console    bool   `mapstructure:"console"     toml:"console"`     // 写文件时是否同时输出到 stdout。
	MaxSize    int    `mapstructure:"max_size"    toml:"max_size"`    // 单个文件最大大小 (MB)。
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups"` // 最大备份数。
	MaxAge     int    `mapstructure:"max_age"     toml:"max_age"`     // 最大保留天数。
	Compress   bool   `mapstructure:"compress"    toml:"compress"`    // 是否启用压缩。
}

// TracingConfig 分布式链路追踪（OpenTelemetry）配置.
type TracingConfig struct {
	ServiceName  string  `mapstructure:"service_name"  toml:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" toml:"otlp_endpoint" validate:"required_if=Enabled true"`
	SamplerRatio float64 `mapstructure:"sampler_ratio" toml:"sampler_ratio" validate:"min=0,max=1"`
	Enabled      bool    `mapstructure:"enabled"       toml:"enabled"`
}

// MetricsConfig 普罗米修斯监控指标暴露配置.
type MetricsConfig struct {
	Port    string `mapstructure:"port"    toml:"port"`
	Path    string `mapstructure:"path"    toml:"path"`
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
}

// RateLimitConfig 令牌桶限流参数.
type RateLimitConfig struct {
	Rate    int  `mapstructure:"rate"    toml:"rate"    validate:"min=0"`
	Burst   int  `mapstructure:"burst"   toml:"burst"   validate:"min=0"`
	Enabled bool `mapstructure:"enabled" toml:"enabled"`
}

// CacheConfig 报价缓存（BigCache）参数.
type CacheConfig struct {
	Enabled          bool          `mapstructure:"enabled"             toml:"enabled"`
	LifeWindow       time.Duration `mapstructure:"life_window"         toml:"life_window"`
	CleanWindow      time.Duration `mapstructure:"clean_window"        toml:"clean_window"`
	Shards           int           `mapstructure:"shards"              toml:"shards"`
	MaxEntrySize     int           `mapstructure:"max_entry_size"      toml:"max_entry_size"`
	HardMaxCacheSize int           `mapstructure:"hard_max_cache_size" toml:"hard_max_cache_size"`
}

// PricingConfig 定价服务参数.
type PricingConfig struct {
	BatchConcurrency int  `mapstructure:"batch_concurrency" toml:"batch_concurrency" validate:"min=1"`
	MaxBatchSize     int  `mapstructure:"max_batch_size"    toml:"max_batch_size"    validate:"min=1"`
	RecordGreeks     bool `mapstructure:"record_greeks"     toml:"record_greeks"`
}

// IDGenConfig 报价记录 ID 生成器参数.
type IDGenConfig struct {
	Type      string `mapstructure:"type"       toml:"type"       validate:"omitempty,oneof=snowflake sonyflake"`
	StartTime string `mapstructure:"start_time" toml:"start_time"`
	MachineID int64  `mapstructure:"machine_id" toml:"machine_id" validate:"min=0,max=65535"`
}

var (
	vInstance = viper.New()
	mu        sync.Mutex
	onReload  []func(*Config)
)

// RegisterReloadHook 注册配置热更新回调。
func RegisterReloadHook(hook func(*Config)) {
	if hook == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	onReload = append(onReload, hook)
}

// SetDefaults 写入默认值，配置文件与环境变量可覆盖。
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.environment", "dev")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", 5*time.Second)
	v.SetDefault("server.http.read_header_timeout", 2*time.Second)
	v.SetDefault("server.http.write_timeout", 10*time.Second)
	v.SetDefault("server.http.idle_timeout", 60*time.Second)
	v.SetDefault("server.http.max_body_bytes", 1<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.port", "9090")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("tracing.sampler_ratio", 1.0)
	v.SetDefault("cache.life_window", 10*time.Minute)
	v.SetDefault("cache.clean_window", time.Minute)
	v.SetDefault("cache.shards", 64)
	v.SetDefault("cache.max_entry_size", 1024)
	v.SetDefault("ratelimit.rate", 1000)
	v.SetDefault("ratelimit.burst", 2000)
	v.SetDefault("pricing.batch_concurrency", 8)
	v.SetDefault("pricing.max_batch_size", 256)
	v.SetDefault("pricing.record_greeks", true)
	v.SetDefault("idgen.type", "snowflake")
	v.SetDefault("idgen.machine_id", 1)
}

// Load 读取 TOML 配置并监听变更，APP_ 前缀环境变量优先.
func Load(path string, conf *Config) error {
	SetDefaults(vInstance)
	vInstance.SetConfigFile(path)
	vInstance.SetConfigType("toml")

	vInstance.SetEnvPrefix("APP")
	vInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vInstance.AutomaticEnv()

	if err := vInstance.ReadInConfig(); err != nil {
		return fmt.Errorf("read config error: %w", err)
	}

	if err := decode(vInstance, conf); err != nil {
		return err
	}

	vInstance.WatchConfig()
	vInstance.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name)
		const debounceTimeout = 500 * time.Millisecond
		time.Sleep(debounceTimeout)

		var next Config
		if err := decode(vInstance, &next); err != nil {
			slog.Error("reload config failed", "error", err)
			return
		}
		*conf = next
		logging.SetLevel(next.Log.Level)
		slog.Info("config hot-reloaded and validated successfully")

		mu.Lock()
		hooks := append([]func(*Config){}, onReload...)
		mu.Unlock()
		for _, hook := range hooks {
			hook(conf)
		}
	})

	return nil
}

// LoadFrom 从已配置好的 viper 实例解码，不监听变更。
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	var conf Config
	if err := decode(v, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

var validate = validator.New()

func decode(v *viper.Viper, conf *Config) error {
	if err := v.Unmarshal(conf); err != nil {
		return fmt.Errorf("unmarshal config error: %w", err)
	}
	if err := validate.Struct(conf); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// PrintWithMask 脱敏打印当前配置.
func PrintWithMask(conf any) {
	data, err := json.Marshal(conf)
	if err != nil {
		slog.Error("failed to marshal config for printing", "error", err)
		return
	}

	var configMap map[string]any
	if unmarshalErr := json.Unmarshal(data, &configMap); unmarshalErr != nil {
		slog.Error("failed to unmarshal config for masking", "error", unmarshalErr)
		return
	}

	mask(configMap)

	maskedJSON, marshalErr := json.Marshal(configMap)
	if marshalErr != nil {
		slog.Error("failed to marshal masked config", "error", marshalErr)
		return
	}

	slog.Info("current effective configuration", "config", string(maskedJSON))
}

func mask(configMap map[string]any) {
	sensitiveKeys := []string{"password", "secret", "dsn", "key", "token"}

	for key, val := range configMap {
		if subMap, ok := val.(map[string]any); ok {
			mask(subMap)
			continue
		}
		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(strings.ToLower(key), sensitiveKey) {
				configMap[key] = "******"
				break
			}
		}
	}
}

// GetViper 返回底层的 Viper 实例.
func GetViper() *viper.Viper {
	return vInstance
}
