package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/okian/devmatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
				convey.So(cfg.ScorerConcurrency, convey.ShouldEqual, runtime.NumCPU()*2)
				convey.So(cfg.ScorerTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.ModelBackend, convey.ShouldEqual, "process")
				convey.So(cfg.Store, convey.ShouldEqual, "memory")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DEVMATCH_ADDR", ":9090")
			_ = os.Setenv("DEVMATCH_TOP_N", "3")
			_ = os.Setenv("DEVMATCH_SCORER_CONCURRENCY", "16")
			_ = os.Setenv("DEVMATCH_SCORER_TIMEOUT_MS", "2500")
			_ = os.Setenv("DEVMATCH_MODEL_BACKEND", "http")
			_ = os.Setenv("DEVMATCH_MODEL_URL", "http://model:8000/predict")
			_ = os.Setenv("DEVMATCH_AUTO_MIGRATE", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
				convey.So(cfg.ScorerConcurrency, convey.ShouldEqual, 16)
				convey.So(cfg.ScorerTimeout(), convey.ShouldEqual, 2500*time.Millisecond)
				convey.So(cfg.ModelBackend, convey.ShouldEqual, config.BackendHTTP)
				convey.So(cfg.ModelURL, convey.ShouldEqual, "http://model:8000/predict")
				convey.So(cfg.AutoMigrate, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When model args come from a comma separated env var", func() {
			_ = os.Setenv("DEVMATCH_MODEL_ARGS", "-u,model.py")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they should split into a list", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ModelArgs, convey.ShouldResemble, []string{"-u", "model.py"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars()
			yamlContent := `
addr: ":7070"
top_n: 4
scorer_concurrency: 8
model_command: /usr/bin/python3
model_args:
  - models/recommend.py
  - --quiet
store: postgres
database_url: postgres://devmatch@localhost/devmatch?sslmode=disable
tracing_sampling_rate: 0.25
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("DEVMATCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.TopN, convey.ShouldEqual, 4)
				convey.So(cfg.ScorerConcurrency, convey.ShouldEqual, 8)
				convey.So(cfg.ModelCommand, convey.ShouldEqual, "/usr/bin/python3")
				convey.So(cfg.ModelArgs, convey.ShouldResemble, []string{"models/recommend.py", "--quiet"})
				convey.So(cfg.Store, convey.ShouldEqual, config.StorePostgres)
				convey.So(cfg.TracingSamplingRate, convey.ShouldEqual, 0.25)
			})

			convey.Convey("Then fields missing from the file should keep defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ScorerTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.ServiceName, convey.ShouldEqual, "devmatch")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			clearConfigEnvVars()
			tmpFile := createTempConfigFile(t, "addr: \":7070\"\ntop_n: 4\n")
			_ = os.Setenv("DEVMATCH_CONFIG", tmpFile)
			_ = os.Setenv("DEVMATCH_TOP_N", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.TopN, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When a .env file is provided", func() {
			clearConfigEnvVars()
			dir := t.TempDir()
			envFile := filepath.Join(dir, "devmatch.env")
			err := os.WriteFile(envFile, []byte("DEVMATCH_ADDR=:6060\nDEVMATCH_LOG_LEVEL=debug\n"), 0o600)
			convey.So(err, convey.ShouldBeNil)
			_ = os.Setenv("DEVMATCH_ENV_FILE", envFile)
			_ = os.Setenv("DEVMATCH_LOG_LEVEL", "warn")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fill unset variables only", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			})
		})

		convey.Convey("When an explicit .env file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("DEVMATCH_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			clearConfigEnvVars()
			tmpFile := createTempConfigFile(t, "addr: [unclosed\n")
			_ = os.Setenv("DEVMATCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			clearConfigEnvVars()
			_ = os.Setenv("DEVMATCH_CONFIG", "/non/existent/devmatch.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DEVMATCH_TOP_N", "many")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config that fails validation", func() {
			_ = os.Setenv("DEVMATCH_STORE", "postgres")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "database_url")
			})
		})
	})
}

// clearConfigEnvVars removes every DEVMATCH_ variable touched by the tests.
func clearConfigEnvVars() {
	for _, key := range []string{
		"DEVMATCH_CONFIG", "DEVMATCH_ENV_FILE", "DEVMATCH_ADDR", "DEVMATCH_LOG_LEVEL",
		"DEVMATCH_TOP_N", "DEVMATCH_SCORER_CONCURRENCY", "DEVMATCH_SCORER_TIMEOUT_MS",
		"DEVMATCH_MODEL_BACKEND", "DEVMATCH_MODEL_URL", "DEVMATCH_MODEL_ARGS",
		"DEVMATCH_AUTO_MIGRATE", "DEVMATCH_STORE",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devmatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
