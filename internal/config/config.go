// Package config loads the service settings from defaults, an optional
// etc/main.toml, an optional .env file and the process environment.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// PathEnv selects the config directory used by Get.
	PathEnv = "APP_CONFIG_PATH"

	// JSONEnv holds a JSON document merged over everything else.
	JSONEnv = "APP_CONFIG_JSON"

	// DefaultPath is the config directory used when none is given.
	DefaultPath = "./etc/"

	// FileName is the config file looked up inside the config directory.
	FileName = "main.toml"

	defaultShutDownTime = 5
)

// EnvFile is the dotenv file read on load. Exported variables win over it.
var EnvFile = ".env" //nolint:gochecknoglobals

var (
	cacheMu sync.Mutex //nolint:gochecknoglobals
	cached  *Config    //nolint:gochecknoglobals
)

// Get returns the process wide settings. They are read once from the
// directory in APP_CONFIG_PATH (default ./etc/) and cached afterwards.
// A failed read is not cached.
func Get() (*Config, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached != nil {
		return cached, nil
	}

	c, err := ReadConfig(os.Getenv(PathEnv))
	if err != nil {
		return nil, err
	}

	cached = &c

	return cached, nil
}

// Load reads the settings from path and replaces the cached ones.
func Load(path string) (*Config, error) {
	c, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cached = &c
	cacheMu.Unlock()

	return &c, nil
}

// Reset drops the cached settings.
func Reset() {
	cacheMu.Lock()
	cached = nil
	cacheMu.Unlock()
}

// ReadConfig from the config directory path.
// Precedence, lowest first: defaults, main.toml, .env, environment, APP_CONFIG_JSON.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	setDefaults(v)

	for _, key := range v.AllKeys() {
		if err := v.BindEnv(append([]string{key}, envNames(key)...)...); err != nil {
			return Config{}, errors.Wrapf(err, "failed to bind env for %s", key)
		}
	}

	file := filepath.Join(path, FileName)
	if _, err := os.Stat(file); err == nil {
		v.SetConfigFile(file)
		v.SetConfigType("toml")

		if err = v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "failed to read main config file")
		}
	}

	if err := applyDotEnv(v, EnvFile); err != nil {
		return Config{}, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	if JSONConfigEnv := os.Getenv(JSONEnv); JSONConfigEnv != "" {
		var err error

		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

// applyDotEnv sets every known key found in the dotenv file unless one of its
// environment variables is exported.
func applyDotEnv(v *viper.Viper, name string) error {
	if name == "" {
		return nil
	}

	if _, err := os.Stat(name); err != nil {
		return nil //nolint:nilerr // the file is optional
	}

	values, err := godotenv.Read(name)
	if err != nil {
		return errors.Wrapf(err, "failed to read env file %s", name)
	}

	for _, key := range v.AllKeys() {
		names := envNames(key)
		if exported(names) {
			continue
		}

		for _, n := range names {
			if value, ok := values[n]; ok {
				v.Set(key, value)

				break
			}
		}
	}

	return nil
}

func exported(names []string) bool {
	for _, n := range names {
		if _, ok := os.LookupEnv(n); ok {
			return true
		}
	}

	return false
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service can not start without and
// fills the shutdown time default.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if err := validator.New().Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			fe := fieldErrors[0]

			return errors.Wrapf(ErrInvalidField, "%s: %s failed on %q", invalidErrMessage, fe.Namespace(), fe.Tag())
		}

		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}

// envNames returns the environment variables read for a config key.
// DB.URL for example is DATABASE_URL first and DB_URL second.
func envNames(key string) []string {
	plain := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))

	if alias, ok := envAliases[key]; ok {
		return []string{alias, plain}
	}

	return []string{plain}
}
