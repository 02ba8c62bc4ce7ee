package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	AppEnv         string        `mapstructure:"APP_ENV"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	DBDriver       string        `mapstructure:"DB_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBHost         string        `mapstructure:"DB_HOST"`
	DBPort         string        `mapstructure:"DB_PORT"`
	DBUser         string        `mapstructure:"DB_USER"`
	DBPassword     string        `mapstructure:"DB_PASSWORD"`
	DBName         string        `mapstructure:"DB_NAME"`
	SQLitePath     string        `mapstructure:"SQLITE_PATH"`
	MongoURI       string        `mapstructure:"MONGO_URI"`
	MongoDB        string        `mapstructure:"MONGO_DB"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	UploadDir      string        `mapstructure:"UPLOAD_DIR"`
	MaxUploadBytes int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	GatewayAPIKey  string        `mapstructure:"GATEWAY_API_KEY"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
}

var defaults = map[string]any{
	"PORT":             "8080",
	"APP_ENV":          "development",
	"LOG_LEVEL":        "info",
	"DB_DRIVER":        "postgres",
	"DATABASE_URL":     "",
	"DB_HOST":          "localhost",
	"DB_PORT":          "5432",
	"DB_USER":          "postgres",
	"DB_PASSWORD":      "",
	"DB_NAME":          "artisan",
	"SQLITE_PATH":      "./artisans.db",
	"MONGO_URI":        "",
	"MONGO_DB":         "artisan",
	"JWT_SECRET":       "",
	"TOKEN_TTL":        "24h",
	"UPLOAD_DIR":       "./static/uploads",
	"MAX_UPLOAD_BYTES": 16 << 20,
	"GATEWAY_API_KEY":  "",
	"CORS_ORIGINS":     []string{"*"},
}

// LoadEnv reads a .env file into the process environment when one exists.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load builds a Config from the environment. Unset keys take the defaults above.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
