// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable holding a JSON config override.
const EnvConfigJSON = "RELAONE_WEB_CONFIG_JSON"

const (
	defaultShutDownTime   = 5
	defaultSessionExpiry  = 7 * 24 * 60 * 60
	defaultSessionCache   = 4096
	defaultAPITimeout     = 10
	defaultCookieName     = "relaone_session"
	defaultAuthPath       = "/auth"
	defaultTokenStoreType = DriverMemory
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
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

// validate checks the settings relaone-web can not start without and fills in
// defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.API.BaseURL == "" {
		return errors.Wrap(ErrEmptyAPIBaseURL, invalidErrMessage)
	}

	switch c.TokenStore.Driver {
	case "":
		c.TokenStore.Driver = defaultTokenStoreType
	case DriverFile:
		if c.TokenStore.FilePath == "" {
			return errors.Wrap(ErrEmptyTokenFilePath, invalidErrMessage)
		}
	case DriverMemory, DriverGorm, DriverRedis, DriverMySQL, DriverPostgres:
	default:
		return errors.Wrapf(ErrUnknownTokenDriver, "%s: %q", invalidErrMessage, c.TokenStore.Driver)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpirySeconds == 0 {
		c.Webserver.Session.ExpirySeconds = defaultSessionExpiry
	}

	if c.Webserver.Session.CacheSize == 0 {
		c.Webserver.Session.CacheSize = defaultSessionCache
	}

	if c.Webserver.Session.CookieName == "" {
		c.Webserver.Session.CookieName = defaultCookieName
	}

	if c.API.AuthPath == "" {
		c.API.AuthPath = defaultAuthPath
	}

	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = defaultAPITimeout
	}

	return nil
}
