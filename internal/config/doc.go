// Package config loads the cmd binary's environment-variable
// configuration, optionally from a .env file. Only the cmd/ binary
// reads the environment; the core packages take explicit parameters
// so they remain free of mutable globals.
package config
