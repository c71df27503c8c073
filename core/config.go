package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName          string
		Build            string
		Env              string // DEV (local; default), TEST, QA, PROD
		Debug            bool
		TestMode         bool
		SecretKey        string
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		StaffEmails      []mail.Address // volunteer applications are forwarded here
		RollbarToken     string
		SendgridApiKey   string

		Server   ServerConfig
		Database DatabaseConfig
		Redirect RedirectConfig
		Media    MediaConfig
	}

	ServerConfig struct {
		Address                   string
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		DisableReqLogs            bool
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedirectConfig struct {
		CanonicalHost    string
		LegacyHosts      []string
		PreservedPaths   []string
		PassThroughPaths []string
	}

	MediaConfig struct {
		Bucket        string
		Region        string
		Endpoint      string
		PublicBaseURL string
		AccessKey     string
		SecretKey     string
		MaxUploadSize int64
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

// NewConfig loads the configuration from the environment (prefixed by the ENV name)
// and from config/.env.<env> when it exists.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Lumen")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("secretKey", "r8$u1-kq0)zd!vx&3p_m(9t@e%wl=5yh^c2n#bfg7j*a")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "Lumen <noreply@localhost>")
	v.SetDefault("staffEmails", []string{})
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("serverDisableReqLogs", false)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 30*24*time.Hour)

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbName", "lumen")
	v.SetDefault("dbUser", "lumen")
	v.SetDefault("dbPassword", "lumen")
	v.SetDefault("dbAdminUser", "postgres")
	v.SetDefault("dbAdminPassword", "postgres")
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("redirectCanonicalHost", "")
	v.SetDefault("redirectLegacyHosts", []string{})
	v.SetDefault("redirectPreservedPaths", []string{})
	v.SetDefault("redirectPassThroughPaths", []string{"/healthz", "/api/newsletter/unsubscribe"})

	v.SetDefault("mediaBucket", "")
	v.SetDefault("mediaRegion", "us-east-1")
	v.SetDefault("mediaEndpoint", "")
	v.SetDefault("mediaPublicBaseURL", "")
	v.SetDefault("mediaAccessKey", "")
	v.SetDefault("mediaSecretKey", "")
	v.SetDefault("mediaMaxUploadSize", int64(5<<20))

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          wd,
		FrontendBaseURL:  strings.TrimRight(v.GetString("frontendBaseURL"), "/"),
		DefaultFromEmail: parseAddress(v.GetString("defaultFromEmail")),
		StaffEmails:      parseAddresses(v.GetStringSlice("staffEmails")),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		Server: ServerConfig{
			Address:                   v.GetString("serverAddress"),
			Host:                      v.GetString("serverHost"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			DisableReqLogs:            v.GetBool("serverDisableReqLogs"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Redirect: RedirectConfig{
			CanonicalHost:    v.GetString("redirectCanonicalHost"),
			LegacyHosts:      v.GetStringSlice("redirectLegacyHosts"),
			PreservedPaths:   v.GetStringSlice("redirectPreservedPaths"),
			PassThroughPaths: v.GetStringSlice("redirectPassThroughPaths"),
		},
		Media: MediaConfig{
			Bucket:        v.GetString("mediaBucket"),
			Region:        v.GetString("mediaRegion"),
			Endpoint:      v.GetString("mediaEndpoint"),
			PublicBaseURL: strings.TrimRight(v.GetString("mediaPublicBaseURL"), "/"),
			AccessKey:     v.GetString("mediaAccessKey"),
			SecretKey:     v.GetString("mediaSecretKey"),
			MaxUploadSize: v.GetInt64("mediaMaxUploadSize"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: no env lookups, no .env file.
func NewTestConfig() *Config {
	return &Config{
		AppName:          "Lumen",
		Build:            "test",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        "secret",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Lumen", Address: "noreply@localhost"},
		StaffEmails:      []mail.Address{{Name: "Staff", Address: "staff@localhost"}},
		Server: ServerConfig{
			DisableReqLogs:            true,
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Media: MediaConfig{MaxUploadSize: 1 << 20},
	}
}

func parseAddress(s string) mail.Address {
	if addr, err := mail.ParseAddress(s); err == nil {
		return *addr
	}
	return mail.Address{Address: s}
}

func parseAddresses(list []string) []mail.Address {
	addrs := make([]mail.Address, 0, len(list))
	for _, s := range list {
		if s = CleanString(s); s != "" {
			addrs = append(addrs, parseAddress(s))
		}
	}
	return addrs
}
