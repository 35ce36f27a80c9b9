// Package config reads and validates the forwarder settings held in viper.
package config
