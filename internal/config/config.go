package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Log          LogConfig
	Zones        ZonesConfig
	Classifier   ClassifierConfig
	Geocoder     GeocoderConfig
	Storage      StorageConfig
	Connectivity ConnectivityConfig
	Session      SessionConfig
	Flow         FlowConfig
	Worker       WorkerConfig
	RabbitMQ     RabbitMQConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	StatsCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

// ZonesConfig - источник конфигурации зон (GeoJSON FeatureCollection)
type ZonesConfig struct {
	File        string
	DefaultZone string
}

// ClassifierConfig - внешний детектор повреждений (YOLO backend)
type ClassifierConfig struct {
	BaseURL string
	// RequestTimeout в секундах; 0 - без клиентского таймаута,
	// работает дефолтное поведение транспорта
	RequestTimeout int
}

// GeocoderConfig - обратное геокодирование (Nominatim)
type GeocoderConfig struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout int
}

// StorageConfig - объектное хранилище фотографий (Supabase Storage)
type StorageConfig struct {
	BaseURL        string
	APIKey         string
	Bucket         string
	Folder         string
	RequestTimeout int
}

// ConnectivityConfig - проба доступности облака перед submit'ом
type ConnectivityConfig struct {
	HealthURL string
}

// SessionConfig - верификация Supabase JWT
type SessionConfig struct {
	JWTSecret string
}

// FlowConfig - параметры in-memory хранилища визардов
type FlowConfig struct {
	TTL time.Duration
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	MaxRetries    int
}

type RabbitMQConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			StatsCacheTTL: time.Duration(viper.GetInt("STATS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Zones: ZonesConfig{
			File:        viper.GetString("ZONES_FILE"),
			DefaultZone: viper.GetString("ZONES_DEFAULT"),
		},
		Classifier: ClassifierConfig{
			BaseURL:        viper.GetString("CLASSIFIER_BASE_URL"),
			RequestTimeout: viper.GetInt("CLASSIFIER_REQUEST_TIMEOUT"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:        viper.GetString("GEOCODER_BASE_URL"),
			UserAgent:      viper.GetString("GEOCODER_USER_AGENT"),
			RequestTimeout: viper.GetInt("GEOCODER_REQUEST_TIMEOUT"),
		},
		Storage: StorageConfig{
			BaseURL:        viper.GetString("STORAGE_BASE_URL"),
			APIKey:         viper.GetString("STORAGE_API_KEY"),
			Bucket:         viper.GetString("STORAGE_BUCKET"),
			Folder:         viper.GetString("STORAGE_FOLDER"),
			RequestTimeout: viper.GetInt("STORAGE_REQUEST_TIMEOUT"),
		},
		Connectivity: ConnectivityConfig{
			HealthURL: viper.GetString("CONNECTIVITY_HEALTH_URL"),
		},
		Session: SessionConfig{
			JWTSecret: viper.GetString("SESSION_JWT_SECRET"),
		},
		Flow: FlowConfig{
			TTL: time.Duration(viper.GetInt("FLOW_TTL")) * time.Second,
		},
		Worker: WorkerConfig{
			Enabled:       viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup: viper.GetString("WORKER_CONSUMER_GROUP"),
			MaxRetries:    viper.GetInt("WORKER_MAX_RETRIES"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        viper.GetString("RABBITMQ_URL"),
			Exchange:   viper.GetString("RABBITMQ_EXCHANGE"),
			RoutingKey: viper.GetString("RABBITMQ_ROUTING_KEY"),
		},
	}

	// Set default values if not provided
	if cfg.Zones.File == "" {
		cfg.Zones.File = "config/zones.geojson"
	}
	if cfg.Zones.DefaultZone == "" {
		cfg.Zones.DefaultZone = "zone1"
	}
	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = "RoadReport/1.0"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "report-images"
	}
	if cfg.Storage.Folder == "" {
		cfg.Storage.Folder = "damage-photos"
	}
	if cfg.Cache.StatsCacheTTL == 0 {
		cfg.Cache.StatsCacheTTL = 5 * time.Minute
	}
	if cfg.Flow.TTL == 0 {
		cfg.Flow.TTL = 30 * time.Minute
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "report-sync-workers"
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}
	if cfg.RabbitMQ.Exchange == "" {
		cfg.RabbitMQ.Exchange = "reports"
	}
	if cfg.RabbitMQ.RoutingKey == "" {
		cfg.RabbitMQ.RoutingKey = "report.submitted"
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
