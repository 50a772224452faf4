package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"crowdfund-service/infrastructure/logger"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	ImageStore  ImageStore  `json:"imageStore"`
	ContentGen  ContentGen  `json:"contentGen"`
	Auth        Auth        `json:"auth"`
	RedisClient RedisClient `json:"redisClient"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	Logger      Logger      `json:"logger"`
	Cors        Cors        `json:"cors"`
}

type App struct {
	Port        int    `json:"port"        validate:"min=1,max=65535"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile" validate:"required_if=TLSEnabled true"`
	TLSKeyFile  string `json:"tlsKeyFile"  validate:"required_if=TLSEnabled true"`
	UploadDir   string `json:"uploadDir"`
	MaxUploadMB int64  `json:"maxUploadMB" validate:"min=1"`
}

type Database struct {
	Mongo Mongo `json:"mongo"`
}

type Mongo struct {
	URI      string `json:"uri"`
	Name     string `json:"name"     validate:"required"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// ImageStore holds the credentials of the Cloudinary-compatible image host.
type ImageStore struct {
	BaseURL   string `json:"baseURL"   validate:"omitempty,url"`
	CloudName string `json:"cloudName"`
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`
	Folder    string `json:"folder"`
}

func (i ImageStore) Enabled() bool {
	return i.CloudName != "" && i.APIKey != "" && i.APISecret != ""
}

type ContentGen struct {
	URL            string `json:"url"            validate:"omitempty,url"`
	TimeoutSeconds int    `json:"timeoutSeconds" validate:"min=1"`
}

type Auth struct {
	SecretKey string `json:"secretKey"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

func (r RedisClient) Enabled() bool { return r.Host != "" }

func (r RedisClient) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", r.Host, port)
}

type Pubsub struct {
	ProjectID       string `json:"projectID"`
	Topic           string `json:"topic"`
	CredentialsFile string `json:"credentialsFile"`
}

type ServiceBus struct {
	Namespace        string `json:"namespace"`
	ConnectionString string `json:"connectionString"`
	Queue            string `json:"queue"`
}

type Logger struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins"`
}

// env bindings, config key -> environment variables in precedence order
var envBindings = map[string][]string{
	"app.port":                    {"APP_PORT", "PORT"},
	"app.tlsenabled":              {"TLS_ENABLED"},
	"app.tlscertfile":             {"TLS_CERT_FILE"},
	"app.tlskeyfile":              {"TLS_KEY_FILE"},
	"app.uploaddir":               {"UPLOAD_DIR"},
	"database.mongo.uri":          {"MONGO_URI", "MONGODB_URI"},
	"database.mongo.name":         {"MONGO_DB_NAME"},
	"database.mongo.host":         {"MONGO_HOST"},
	"database.mongo.port":         {"MONGO_PORT"},
	"database.mongo.user":         {"MONGO_USER"},
	"database.mongo.password":     {"MONGO_PASSWORD"},
	"imagestore.baseurl":          {"CLOUDINARY_BASE_URL"},
	"imagestore.cloudname":        {"CLOUDINARY_CLOUD_NAME"},
	"imagestore.apikey":           {"CLOUDINARY_API_KEY"},
	"imagestore.apisecret":        {"CLOUDINARY_API_SECRET"},
	"imagestore.folder":           {"CLOUDINARY_FOLDER"},
	"contentgen.url":              {"CONTENT_GEN_URL"},
	"contentgen.timeoutseconds":   {"CONTENT_GEN_TIMEOUT_SECONDS"},
	"auth.secretkey":              {"SECRET_KEY"},
	"redisclient.host":            {"REDIS_HOST"},
	"redisclient.port":            {"REDIS_PORT"},
	"redisclient.username":        {"REDIS_USERNAME"},
	"redisclient.password":        {"REDIS_PASSWORD"},
	"redisclient.db":              {"REDIS_DB"},
	"pubsub.projectid":            {"PUBSUB_PROJECT_ID"},
	"pubsub.topic":                {"PUBSUB_TOPIC"},
	"pubsub.credentialsfile":      {"GOOGLE_APPLICATION_CREDENTIALS"},
	"servicebus.namespace":        {"SERVICEBUS_NAMESPACE"},
	"servicebus.connectionstring": {"SERVICEBUS_CONNECTION_STRING"},
	"servicebus.queue":            {"SERVICEBUS_QUEUE"},
	"logger.level":                {"LOG_LEVEL"},
	"logger.format":               {"LOG_FORMAT"},
	"cors.alloworigins":           {"CORS_ALLOW_ORIGINS"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 5000)
	v.SetDefault("app.maxuploadmb", 10)
	v.SetDefault("database.mongo.name", "crowdfund")
	v.SetDefault("database.mongo.host", "localhost")
	v.SetDefault("database.mongo.port", "27017")
	v.SetDefault("imagestore.baseurl", "https://api.cloudinary.com")
	v.SetDefault("imagestore.folder", "projects")
	v.SetDefault("contentgen.url", "http://localhost:8000/generate-content")
	v.SetDefault("contentgen.timeoutseconds", 30)
	v.SetDefault("pubsub.topic", "project-events")
	v.SetDefault("servicebus.queue", "project-events")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("cors.alloworigins", []string{"http://localhost:5173", "http://localhost:3000"})
}

// Load reads config.json (or config-<ENV>.json) from the working directory
// or its parents, then applies environment overrides and validates the result.
// A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	name := getConfig()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	setDefaults(v)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", name, err)
		}
		logger.GetLogger().WithField("config", name).Warn("Config file not found, using defaults and environment")
	} else {
		logger.GetLogger().WithField("config", v.ConfigFileUsed()).Info("Config set up successfully")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Cors.AllowOrigins = splitOrigins(cfg.Cors.AllowOrigins)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Auth.SecretKey == "" {
		logger.GetLogger().Warn("Auth.SecretKey not set; bearer tokens will be rejected. Provide SECRET_KEY via environment.")
	}
	return &cfg, nil
}

func getConfig() string {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// MongoURI returns the explicit URI when set, otherwise one built from the
// host parts.
func (m Mongo) MongoURI() string {
	if m.URI != "" {
		return m.URI
	}
	u := &url.URL{Scheme: "mongodb", Host: fmt.Sprintf("%s:%s", m.Host, m.Port)}
	if m.User != "" {
		if m.Password != "" {
			u.User = url.UserPassword(m.User, m.Password)
		} else {
			u.User = url.User(m.User)
		}
	}
	return u.String()
}

// splitOrigins flattens comma separated entries coming from the environment.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
