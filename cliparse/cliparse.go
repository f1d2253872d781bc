package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-score/links"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// DevSigningKey is used only outside production when EMAIL_SIGNING_KEY is unset.
// Links signed with it must never reach real recipients.
const DevSigningKey = "dev-signing-key-change-me"

const defaultPort = 3318

// LinkConfig holds what is needed to mint and verify score links.
type LinkConfig struct {
	Environment string
	SigningKey  string
	AppHost     string
	ScoreMin    int
	ScoreMax    int
}

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminAPIKey  string
	IPHashSalt   string
	LinkConfig
}

// IsProduction reports whether the production rules apply.
func (c LinkConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ScoreRange returns the configured closed score range.
func (c LinkConfig) ScoreRange() links.Range {
	return links.Range{Min: c.ScoreMin, Max: c.ScoreMax}
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-score", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminAPIKey, "admin-key", "", "Admin API key (prefer env)")
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "Salt for client IP hashing (prefer env)")
	cfg.LinkConfig.register(fs)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.AdminAPIKey == "" {
		cfg.AdminAPIKey = os.Getenv("ADMIN_API_KEY")
	}
	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, admin endpoints will reject every request")
	}

	if err := cfg.LinkConfig.resolve(fs); err != nil {
		return Config{}, err
	}

	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = cfg.SigningKey
	}

	return cfg, nil
}

// ParseLinkFlags parses only the link-signing settings, for offline tools.
// It returns the remaining positional arguments.
func ParseLinkFlags(name string, args []string) (LinkConfig, []string, error) {
	var cfg LinkConfig

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.register(fs)

	if err := fs.Parse(args); err != nil {
		return LinkConfig{}, nil, err
	}
	if err := cfg.resolve(fs); err != nil {
		return LinkConfig{}, nil, err
	}

	return cfg, fs.Args(), nil
}

func (c *LinkConfig) register(fs *flag.FlagSet) {
	fs.StringVar(&c.Environment, "env", "", "Environment (production or development)")
	fs.StringVar(&c.SigningKey, "signing-key", "", "Token signing key (prefer env)")
	fs.StringVar(&c.AppHost, "host", "", "Public base URL used in score links")
	fs.IntVar(&c.ScoreMin, "score-min", links.DefaultRange.Min, "Lowest allowed score")
	fs.IntVar(&c.ScoreMax, "score-max", links.DefaultRange.Max, "Highest allowed score")
}

// resolve applies env fallbacks and enforces the signing key rule:
// production refuses to start without a key.
func (c *LinkConfig) resolve(fs *flag.FlagSet) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if c.Environment == "" {
		c.Environment = os.Getenv("APP_ENV")
	}
	if c.Environment == "" {
		c.Environment = EnvProduction
	}

	if c.SigningKey == "" {
		c.SigningKey = os.Getenv("EMAIL_SIGNING_KEY")
	}
	if c.SigningKey == "" {
		if c.IsProduction() {
			return errors.New("EMAIL_SIGNING_KEY required in production")
		}
		slog.Warn("EMAIL_SIGNING_KEY not set, using development signing key", "env", c.Environment)
		c.SigningKey = DevSigningKey
	}

	if c.AppHost == "" {
		c.AppHost = os.Getenv("APP_HOST")
	}
	if c.AppHost == "" {
		c.AppHost = "http://localhost:" + strconv.Itoa(defaultPort)
	}
	c.AppHost = strings.TrimRight(c.AppHost, "/")

	if !set["score-min"] {
		if v, ok, err := envInt("SCORE_MIN"); err != nil {
			return err
		} else if ok {
			c.ScoreMin = v
		}
	}
	if !set["score-max"] {
		if v, ok, err := envInt("SCORE_MAX"); err != nil {
			return err
		} else if ok {
			c.ScoreMax = v
		}
	}

	return c.ScoreRange().Validate()
}

func envInt(name string) (int, bool, error) {
	s := os.Getenv(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s env variable", name)
	}
	return v, true, nil
}
