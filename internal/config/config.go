// Package config supplies the embedded default ignore lists and loads custom
// configuration files.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/dir2prompt/dir2prompt/internal/ignore"
)

// embeddedDefaultConfiguration holds the default ignore lists shipped with
// the binary. It is parsed on demand; there is no process-wide parsed
// singleton, so embedders and tests can substitute alternates freely.
//
//go:embed config.json
var embeddedDefaultConfiguration []byte

const (
	embeddedConfigurationOrigin = "embedded configuration"
	embeddedConfigurationType   = "json"

	// errorReadConfigurationFormat reports a configuration source that cannot be read.
	errorReadConfigurationFormat = "read configuration from %s: %w"
	// errorDecodeConfigurationFormat reports a configuration source that cannot be decoded.
	errorDecodeConfigurationFormat = "decode configuration from %s: %w"
	// errorStatConfigurationFormat reports a configuration path that cannot be inspected.
	errorStatConfigurationFormat = "stat configuration %s: %w"
	// errorConfigurationIsDirectoryFormat reports a configuration path that is a directory.
	errorConfigurationIsDirectoryFormat = "configuration path %s is a directory"
)

// IgnoreConfiguration holds the ordered ignore lists consumed by the engine
// together with the pattern matching granularity. Values are plain data;
// construct one, pass it in, and never mutate it afterwards.
type IgnoreConfiguration struct {
	IgnoreDirectories []string         `mapstructure:"IGNORE_DIRS"`
	IgnoreFiles       []string         `mapstructure:"IGNORE_FILES"`
	MatchMode         ignore.MatchMode `mapstructure:"match_mode"`
}

// DefaultIgnoreConfiguration decodes the embedded default ignore lists into a
// fresh value. Every call returns an independent copy.
func DefaultIgnoreConfiguration() (IgnoreConfiguration, error) {
	reader := viper.New()
	reader.SetConfigType(embeddedConfigurationType)
	if readError := reader.ReadConfig(bytes.NewReader(embeddedDefaultConfiguration)); readError != nil {
		return IgnoreConfiguration{}, fmt.Errorf(errorReadConfigurationFormat, embeddedConfigurationOrigin, readError)
	}
	return decodeIgnoreConfiguration(reader, embeddedConfigurationOrigin)
}

// LoadIgnoreConfiguration reads a custom configuration file from the given
// path. The file replaces the embedded defaults entirely.
func LoadIgnoreConfiguration(configurationPath string) (IgnoreConfiguration, error) {
	pathInformation, statError := os.Stat(configurationPath)
	if statError != nil {
		return IgnoreConfiguration{}, fmt.Errorf(errorStatConfigurationFormat, configurationPath, statError)
	}
	if pathInformation.IsDir() {
		return IgnoreConfiguration{}, fmt.Errorf(errorConfigurationIsDirectoryFormat, configurationPath)
	}

	reader := viper.New()
	reader.SetConfigFile(configurationPath)
	reader.SetConfigType(embeddedConfigurationType)
	if readError := reader.ReadInConfig(); readError != nil {
		return IgnoreConfiguration{}, fmt.Errorf(errorReadConfigurationFormat, configurationPath, readError)
	}
	return decodeIgnoreConfiguration(reader, configurationPath)
}

// decodeIgnoreConfiguration unmarshals the read configuration into a value.
func decodeIgnoreConfiguration(reader *viper.Viper, origin string) (IgnoreConfiguration, error) {
	var configuration IgnoreConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return IgnoreConfiguration{}, fmt.Errorf(errorDecodeConfigurationFormat, origin, decodeError)
	}
	return configuration, nil
}

// Merge returns a new configuration with the extra entries appended after the
// configured defaults. Order is preserved and duplicates are kept: entries
// are OR-ed during matching, so repetition is harmless.
func (configuration IgnoreConfiguration) Merge(extraDirectories []string, extraFiles []string) IgnoreConfiguration {
	merged := IgnoreConfiguration{MatchMode: configuration.MatchMode}
	merged.IgnoreDirectories = append(append([]string{}, configuration.IgnoreDirectories...), extraDirectories...)
	merged.IgnoreFiles = append(append([]string{}, configuration.IgnoreFiles...), extraFiles...)
	return merged
}
