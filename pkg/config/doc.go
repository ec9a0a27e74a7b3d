// Package config loads environment variables into tagged configuration
// structs. A .env file in the working directory is loaded once, lazily, before
// the first parse so local development does not require exporting variables.
//
// Each subsystem declares its own Config struct with env tags:
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
