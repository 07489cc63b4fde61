package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/skillgalaxy/pkg/cache"
	"github.com/matzehuels/skillgalaxy/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvCacheBackend, EnvRedisAddr, EnvRedisPassword, EnvMongoURI, EnvProficiencyURL, EnvRedisDB} {
		t.Setenv(k, "")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := DefaultPath(), "/custom/config/skillgalaxy/config.toml"; got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", `
[cache]
backend = "redis"
redis_addr = "cache:6379"
redis_db = 2

[proficiency]
url = "https://example.com/solved.json"
ttl_hours = 6

[layout]
width = 1600
height = 1200
seed = 7

[render]
style = "simple"
fog = true

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Path = path
	want.Cache.Backend = cache.BackendRedis
	want.Cache.RedisAddr = "cache:6379"
	want.Cache.RedisDB = 2
	want.Proficiency.URL = "https://example.com/solved.json"
	want.Proficiency.TTLHours = 6
	want.Layout.Width = 1600
	want.Layout.Height = 1200
	want.Layout.Seed = 7
	want.Render.Style = "simple"
	want.Render.Fog = true
	want.Server.Addr = "127.0.0.1:9000"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := cfg.ProficiencyTTL().Hours(); got != 6 {
		t.Errorf("ProficiencyTTL = %vh, want 6h", got)
	}
	if opts := cfg.LayoutOptions(); opts.Width != 1600 || opts.Seed != 7 {
		t.Errorf("LayoutOptions = %+v", opts)
	}
	if opts := cfg.CacheOptions(); opts.Redis.DB != 2 || opts.Redis.Addr != "cache:6379" {
		t.Errorf("CacheOptions = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"UnknownKey", "[cache]\nbakend = \"file\"\n", errors.ErrCodeInvalidConfig},
		{"Malformed", "[cache\n", errors.ErrCodeInvalidConfig},
		{"UnknownBackend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"UnknownStyle", "[render]\nstyle = \"neon\"\n", errors.ErrCodeInvalidStyle},
		{"ZeroWidth", "[layout]\nwidth = 0\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeFile(t, t.TempDir(), "config.toml", tt.content)
			_, err := Load(path)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", "[cache]\nbackend = \"file\"\n")

	t.Setenv(EnvCacheBackend, "mongo")
	t.Setenv(EnvMongoURI, "mongodb://db:27017")
	t.Setenv(EnvRedisPassword, "hunter2")
	t.Setenv(EnvProficiencyURL, "https://example.com/p.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != cache.BackendMongo {
		t.Errorf("backend = %q, want mongo", cfg.Cache.Backend)
	}
	if cfg.Cache.MongoURI != "mongodb://db:27017" {
		t.Errorf("mongo uri = %q", cfg.Cache.MongoURI)
	}
	if cfg.Proficiency.URL != "https://example.com/p.json" {
		t.Errorf("proficiency url = %q", cfg.Proficiency.URL)
	}
	if s := cfg.String(); strings.Contains(s, "hunter2") {
		t.Errorf("String() leaks the redis password:\n%s", s)
	}
}

func TestEnvRedisDBInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvRedisDB, "two")
	if _, err := Load(""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SKILLGALAXY_DOTENV_TEST"
	t.Setenv(key, "")
	os.Unsetenv(key)

	path := writeFile(t, t.TempDir(), ".env", key+"=from-dotenv\n")
	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(key); got != "from-dotenv" {
		t.Errorf("%s = %q, want from-dotenv", key, got)
	}

	t.Setenv(key, "explicit")
	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(key); got != "explicit" {
		t.Errorf("existing variable overwritten: %q", got)
	}
}
