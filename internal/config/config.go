package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Rummy     RummyConfig     `mapstructure:"rummy"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type NATSConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	WorkerCount   int           `mapstructure:"worker_count"` // 命令订阅的工作协程数
	BufferSize    int           `mapstructure:"buffer_size"`
}

type RummyConfig struct {
	MinPlayers           int           `mapstructure:"min_players"`
	MaxPlayers           int           `mapstructure:"max_players"`
	HandSize             int           `mapstructure:"hand_size"`
	InitialMeldThreshold int           `mapstructure:"initial_meld_threshold"`
	ComputerPlayChance   float64       `mapstructure:"computer_play_chance"`
	ThinkDelayMin        time.Duration `mapstructure:"think_delay_min"`
	ThinkDelayMax        time.Duration `mapstructure:"think_delay_max"`
	MaxTables            int           `mapstructure:"max_tables"`
	EvictTimeout         time.Duration `mapstructure:"evict_timeout"`
}

type SchedulerConfig struct {
	Tick        time.Duration `mapstructure:"tick"`
	Slots       int           `mapstructure:"slots"`
	Workers     int           `mapstructure:"workers"`
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
}

// EnvPrefix 环境变量前缀，例如 RUMMY_NATS_URL 覆盖 nats.url
const EnvPrefix = "RUMMY"

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "rummy")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.mode", "release")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.max_reconnects", 60)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)
	v.SetDefault("nats.worker_count", 16)
	v.SetDefault("nats.buffer_size", 1024)

	v.SetDefault("rummy.min_players", 2)
	v.SetDefault("rummy.max_players", 4)
	v.SetDefault("rummy.hand_size", 14)
	v.SetDefault("rummy.initial_meld_threshold", 30)
	v.SetDefault("rummy.computer_play_chance", 0.7)
	v.SetDefault("rummy.think_delay_min", time.Second)
	v.SetDefault("rummy.think_delay_max", 3*time.Second)
	v.SetDefault("rummy.max_tables", 1000)
	v.SetDefault("rummy.evict_timeout", 30*time.Minute)

	v.SetDefault("scheduler.tick", 100*time.Millisecond)
	v.SetDefault("scheduler.slots", 600)
	v.SetDefault("scheduler.workers", 10)
	v.SetDefault("scheduler.task_timeout", 10*time.Second)
}

// Load 从指定路径加载配置，路径为空时只使用默认值和环境变量
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
