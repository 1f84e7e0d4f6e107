package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"answerlens/internal/store"
)

// 配置键
const (
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyServerHost    = "server.host"
	KeyServerPort    = "server.port"
	KeyStoreDriver   = "store.driver"
	KeyStorePath     = "store.path"
	KeyRedisAddr     = "store.redis_addr"
	KeyRedisKey      = "store.redis_key"
	KeyRemoteBaseURL = "remote.base_url"
	KeyPrivacyRedact = "privacy.redact"
)

// Settings is the resolved process configuration.
type Settings struct {
	LogLevel      string
	LogFormat     string
	ServerHost    string
	ServerPort    int
	Store         store.Options
	RemoteBaseURL string
	PrivacyRedact bool
}

// Addr returns host:port for the HTTP relay.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.ServerHost, s.ServerPort)
}

// SetDefaults 注册默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeyServerHost, "127.0.0.1")
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyStoreDriver, "file")
	v.SetDefault(KeyStorePath, "")
	v.SetDefault(KeyRedisAddr, "localhost:6379")
	v.SetDefault(KeyRedisKey, "answerlens")
	v.SetDefault(KeyRemoteBaseURL, "")
	v.SetDefault(KeyPrivacyRedact, true)
}

// Init 初始化配置，加载 .env 和 config.yaml
func Init(cfgFile string) {
	// Load .env file (ignore if not exists)
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	SetDefaults(viper.GetViper())

	// Environment variables
	viper.SetEnvPrefix("ANSWERLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// Load resolves Settings from v.
func Load(v *viper.Viper) Settings {
	path := v.GetString(KeyStorePath)
	driver := v.GetString(KeyStoreDriver)
	if path == "" {
		path = store.DefaultPath()
		if driver == "sqlite" {
			path = strings.TrimSuffix(path, ".yaml") + ".db"
		}
	}
	return Settings{
		LogLevel:   v.GetString(KeyLogLevel),
		LogFormat:  v.GetString(KeyLogFormat),
		ServerHost: v.GetString(KeyServerHost),
		ServerPort: v.GetInt(KeyServerPort),
		Store: store.Options{
			Driver:    driver,
			Path:      path,
			RedisAddr: v.GetString(KeyRedisAddr),
			RedisKey:  v.GetString(KeyRedisKey),
		},
		RemoteBaseURL: v.GetString(KeyRemoteBaseURL),
		PrivacyRedact: v.GetBool(KeyPrivacyRedact),
	}
}
