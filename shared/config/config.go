package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/itchan-dev/itblog/shared/domain"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	BaseURL         string        `yaml:"base_url" validate:"required"`
	JwtTTL          time.Duration `yaml:"jwt_ttl" validate:"required"` // seconds
	PostsPerPage    int           `yaml:"posts_per_page"`
	UsersPerPage    int           `yaml:"users_per_page"`
	TagsPerPage     int           `yaml:"tags_per_page"`
	CommentsPerPage int           `yaml:"comments_per_page"`

	UserDeletePolicy  domain.UserDeletePolicy `yaml:"user_delete_policy" validate:"omitempty,oneof=restrict cascade"`
	RevocationBackend string                  `yaml:"revocation_backend" validate:"omitempty,oneof=memory redis"`

	MediaPath              string   `yaml:"media_path" validate:"required"`
	MaxImageSize           int64    `yaml:"max_image_size"` // bytes
	AllowedImageExtensions []string `yaml:"allowed_image_extensions"`

	AllowedOrigins []string `yaml:"allowed_origins"`
	SecureCookies  bool     `yaml:"secure_cookies"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

type Private struct {
	JwtKey     string `yaml:"jwt_key" validate:"required"`
	AdminEmail string `yaml:"admin_email"`
	Pg         Pg     `yaml:"pg"`
	Redis      Redis  `yaml:"redis"`
	Email      Email  `yaml:"email"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL * time.Second
}

const defaultPageSize = 10

func (p *Public) setDefaults() {
	for _, size := range []*int{&p.PostsPerPage, &p.UsersPerPage, &p.TagsPerPage, &p.CommentsPerPage} {
		if *size <= 0 {
			*size = defaultPageSize
		}
	}
	if p.UserDeletePolicy == "" {
		p.UserDeletePolicy = domain.UserDeleteRestrict
	}
	if p.RevocationBackend == "" {
		p.RevocationBackend = "memory"
	}
	if p.MaxImageSize <= 0 {
		p.MaxImageSize = 5 << 20
	}
	if len(p.AllowedImageExtensions) == 0 {
		p.AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
}

// applyEnv overrides secrets from the environment (and a .env file, if any).
func (p *Private) applyEnv() {
	if v := os.Getenv("JWT_KEY"); v != "" {
		p.JwtKey = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		p.AdminEmail = v
	}
	if v := os.Getenv("PG_HOST"); v != "" {
		p.Pg.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			p.Pg.Port = port
		}
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		p.Pg.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		p.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		p.Redis.Password = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		p.Email.Password = v
	}
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %v", configPath, err))
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, applies
// environment overrides and validates the result. It panics on any failure.
func MustLoad(configFolder string) *Config {
	_ = godotenv.Load(path.Join(configFolder, ".env")) // optional

	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.setDefaults()

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)
	private.applyEnv()

	cfg := &Config{Public: public, Private: private}
	if err := cfg.Validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Public.RevocationBackend == "redis" && c.Private.Redis.Addr == "" {
		return fmt.Errorf("invalid config: redis revocation backend requires redis.addr")
	}
	return nil
}
