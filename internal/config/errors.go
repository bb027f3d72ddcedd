package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyAPIBaseURL error if config api.baseurl is empty.
	ErrEmptyAPIBaseURL = errors.New("toml config api.baseurl can not be empty")

	// ErrUnknownTokenDriver error if config tokenstore.driver is not supported.
	ErrUnknownTokenDriver = errors.New("toml config tokenstore.driver is not supported")

	// ErrEmptyTokenFilePath error if the file token driver has no path.
	ErrEmptyTokenFilePath = errors.New("toml config tokenstore.filepath can not be empty for the file driver")
)
