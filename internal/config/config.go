package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
}

type Config struct {
	Server struct {
		Port  int  `yaml:"port"`
		Debug bool `yaml:"debug"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret    string `yaml:"jwt_secret"`
		AccessTTLMin int    `yaml:"access_ttl_minutes"`
	} `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Notify   struct {
		DueSoonHours int `yaml:"due_soon_hours"`
	} `yaml:"notify"`
}

// LoadConfig reads config/config.yaml, then lets environment variables win.
// A missing .env file is not an error.
func LoadConfig() *Config {
	_ = godotenv.Load()

	var cfg Config
	if f, err := os.Open("config/config.yaml"); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			panic("Failed to parse config.yaml: " + err.Error())
		}
	}

	overrideString(&cfg.Database.DSN, "DATABASE_URL")
	overrideString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.Email.SMTPHost, "SMTP_HOST")
	overrideString(&cfg.Email.SMTPUser, "SMTP_USER")
	overrideString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	overrideString(&cfg.Email.FromEmail, "SMTP_FROM")
	overrideString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	overrideInt(&cfg.Server.Port, "PORT")
	overrideInt(&cfg.Email.SMTPPort, "SMTP_PORT")

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Auth.AccessTTLMin == 0 {
		cfg.Auth.AccessTTLMin = 15
	}
	if cfg.Notify.DueSoonHours == 0 {
		cfg.Notify.DueSoonHours = 24
	}
	return &cfg
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
