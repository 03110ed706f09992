// Package config loads the runtime configuration file and builds the commit
// store it describes.
package config
