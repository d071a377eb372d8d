// Package config loads typed configuration structs from environment
// variables using github.com/caarlos0/env, with optional .env file support
// through godotenv.
//
// Each configuration type is loaded once per process and cached, so every
// package that declares the same config struct observes identical values.
package config
