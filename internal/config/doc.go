// Package config defines the format-agnostic patch model for the
// application, along with the Loader interface used to read it from
// configuration files.
//
// The `config.Model` is the single source of truth for the `patch`
// package. Concrete loaders, such as the HCL one, live in separate packages.
package config
