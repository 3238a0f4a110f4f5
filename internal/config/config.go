package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	ImagesBucket   string
	PublicBaseURL  string

	ServiceSecret string
	JWTPublicKey  string

	RedisAddr     string
	RedisPassword string

	FetchTimeout         time.Duration
	FetchMaxBytes        int64
	StorageTimeout       time.Duration
	BatchConcurrency     int
	StaleProcessingAfter time.Duration
	ProcessingLockTTL    time.Duration
	WorkerConcurrency    int
}

// ClientSettings configures the operator CLIs that call the admin API.
type ClientSettings struct {
	AdminAPIURL    string
	ServiceSecret  string
	RequestTimeout time.Duration
}

var (
	databaseKeys = []string{"MARIADB_DSN", "MARIADB_MAX_OPEN_CONN", "MARIADB_MAX_IDLE_CONNS", "MARIADB_CONN_MAX_LIFETIME"}
	storageKeys  = []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_USE_SSL"}
)

func readEnv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	viper.SetDefault("IMAGES_BUCKET", "product-images")
	viper.SetDefault("FETCH_TIMEOUT", 30*time.Second)
	viper.SetDefault("FETCH_MAX_BYTES", 50<<20)
	viper.SetDefault("STORAGE_TIMEOUT", 20*time.Second)
	viper.SetDefault("BATCH_CONCURRENCY", 4)
	viper.SetDefault("STALE_PROCESSING_AFTER", 15*time.Minute)
	viper.SetDefault("PROCESSING_LOCK_TTL", 5*time.Minute)
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("CLIENT_TIMEOUT", 10*time.Minute)
}

func require(keys ...string) error {
	for _, k := range keys {
		if !viper.IsSet(k) || viper.GetString(k) == "" {
			return fmt.Errorf("%s is required", k)
		}
	}
	return nil
}

// Load reads the settings shared by every service binary. Only the database
// keys are required here; each binary checks the rest with Require*.
func Load() (*Settings, error) {
	readEnv()

	if err := require(databaseKeys...); err != nil {
		return nil, err
	}

	s := &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),
		ImagesBucket:   viper.GetString("IMAGES_BUCKET"),
		PublicBaseURL:  viper.GetString("PUBLIC_BASE_URL"),

		ServiceSecret: viper.GetString("SERVICE_SECRET"),
		JWTPublicKey:  viper.GetString("JWT_PUBLIC_KEY"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		FetchTimeout:         viper.GetDuration("FETCH_TIMEOUT"),
		FetchMaxBytes:        viper.GetInt64("FETCH_MAX_BYTES"),
		StorageTimeout:       viper.GetDuration("STORAGE_TIMEOUT"),
		BatchConcurrency:     viper.GetInt("BATCH_CONCURRENCY"),
		StaleProcessingAfter: viper.GetDuration("STALE_PROCESSING_AFTER"),
		ProcessingLockTTL:    viper.GetDuration("PROCESSING_LOCK_TTL"),
		WorkerConcurrency:    viper.GetInt("WORKER_CONCURRENCY"),
	}

	if s.BatchConcurrency < 1 {
		return nil, fmt.Errorf("BATCH_CONCURRENCY must be at least 1, got %d", s.BatchConcurrency)
	}
	if s.WorkerConcurrency < 1 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", s.WorkerConcurrency)
	}
	return s, nil
}

// RequireAPI checks the keys the HTTP API cannot start without.
func (s *Settings) RequireAPI() error {
	return require(append([]string{"SERVER_PORT", "SERVICE_SECRET"}, storageKeys...)...)
}

// RequireWorker checks the keys the task worker cannot start without.
func (s *Settings) RequireWorker() error {
	return require(append([]string{"REDIS_ADDR"}, storageKeys...)...)
}

// LoadClient reads the settings of the operator CLIs.
func LoadClient() (*ClientSettings, error) {
	readEnv()

	if err := require("ADMIN_API_URL", "SERVICE_SECRET"); err != nil {
		return nil, err
	}

	return &ClientSettings{
		AdminAPIURL:    viper.GetString("ADMIN_API_URL"),
		ServiceSecret:  viper.GetString("SERVICE_SECRET"),
		RequestTimeout: viper.GetDuration("CLIENT_TIMEOUT"),
	}, nil
}
