// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/oalprint/queuemap/pkg/defaults"
	"github.com/oalprint/queuemap/pkg/errors"
	"github.com/oalprint/queuemap/pkg/ppd"
	"github.com/oalprint/queuemap/pkg/queue"
	"github.com/oalprint/queuemap/pkg/version"
)

const (
	// EnvPrefix prefixes environment overrides: service.server is read from
	// QUEUEMAP_SERVICE_SERVER.
	EnvPrefix = "QUEUEMAP"

	// FileName is the base name searched for when no file is given.
	FileName = "queuemap"

	// DefaultLogFile is the append-only run log.
	DefaultLogFile = "/Library/Logs/queuemap.log"
)

// SearchPaths are the directories searched for queuemap.{yaml,yml,json}.
var SearchPaths = []string{
	"/Library/Preferences",
	"/etc/queuemap",
	".",
}

// Config is the complete, validated runtime configuration. It is loaded
// once at startup and passed to constructors; nothing mutates it afterwards.
type Config struct {
	Service ServiceConfig  `mapstructure:"service" json:"service" yaml:"service"`
	Drivers DriversConfig  `mapstructure:"drivers" json:"drivers" yaml:"drivers"`
	Catalog []queue.Driver `mapstructure:"catalog" json:"catalog" yaml:"catalog" validate:"required,dive"`
	Logging LoggingConfig  `mapstructure:"logging" json:"logging" yaml:"logging"`
	Network NetworkConfig  `mapstructure:"network" json:"network" yaml:"network"`
	Spooler SpoolerConfig  `mapstructure:"spooler" json:"spooler" yaml:"spooler"`
	Metrics MetricsConfig  `mapstructure:"metrics" json:"metrics" yaml:"metrics"`
}

// ServiceConfig locates the directory service and describes its SOAP call.
type ServiceConfig struct {
	Server       string        `mapstructure:"server" json:"server" yaml:"server" validate:"required,hostname_rfc1123|ip"`
	Port         int           `mapstructure:"port" json:"port,omitempty" yaml:"port,omitempty" validate:"min=0,max=65535"`
	Scheme       string        `mapstructure:"scheme" json:"scheme" yaml:"scheme" validate:"oneof=http https"`
	PostPath     string        `mapstructure:"postPath" json:"postPath" yaml:"postPath" validate:"required,startswith=/"`
	SOAPAction   string        `mapstructure:"soapAction" json:"soapAction" yaml:"soapAction" validate:"required"`
	Namespace    string        `mapstructure:"namespace" json:"namespace" yaml:"namespace" validate:"required"`
	Key          string        `mapstructure:"key" json:"-" yaml:"-"`
	UserDomain   string        `mapstructure:"userDomain" json:"userDomain,omitempty" yaml:"userDomain,omitempty"`
	ServerDomain string        `mapstructure:"serverDomain" json:"serverDomain,omitempty" yaml:"serverDomain,omitempty"`
	Timeout      time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" validate:"gt=0"`
	Insecure     bool          `mapstructure:"insecureSkipVerify" json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty"`
}

// DriversConfig describes where PPD files live.
type DriversConfig struct {
	GenericPath string `mapstructure:"genericPath" json:"genericPath" yaml:"genericPath" validate:"required"`
	// LegacyGenericPath is the generic PPD on legacyMax and older releases.
	LegacyGenericPath string `mapstructure:"legacyGenericPath" json:"legacyGenericPath,omitempty" yaml:"legacyGenericPath,omitempty"`
	ModernPrefix      string `mapstructure:"modernPrefix" json:"modernPrefix" yaml:"modernPrefix" validate:"required"`
	LegacyPrefix      string `mapstructure:"legacyPrefix" json:"legacyPrefix" yaml:"legacyPrefix" validate:"required"`
	LegacyMax         string `mapstructure:"legacyMax" json:"legacyMax" yaml:"legacyMax" validate:"required"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `mapstructure:"level" json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	File  string `mapstructure:"file" json:"file" yaml:"file"`
}

// NetworkConfig controls the readiness wait before the service call.
type NetworkConfig struct {
	WaitTimeout  time.Duration `mapstructure:"waitTimeout" json:"waitTimeout" yaml:"waitTimeout" validate:"min=0"`
	PollInterval time.Duration `mapstructure:"pollInterval" json:"pollInterval" yaml:"pollInterval" validate:"gt=0"`
}

// SpoolerConfig controls how the local print spooler is driven.
type SpoolerConfig struct {
	// SystemdUnit, when set, must be active before any queue is touched.
	SystemdUnit string `mapstructure:"systemdUnit" json:"systemdUnit,omitempty" yaml:"systemdUnit,omitempty"`
	// RateLimit is the maximum spooler mutations per second; 0 is unlimited.
	RateLimit float64 `mapstructure:"rateLimit" json:"rateLimit" yaml:"rateLimit" validate:"min=0"`
	Burst     int     `mapstructure:"burst" json:"burst" yaml:"burst" validate:"min=1"`
}

// MetricsConfig controls the node_exporter textfile output.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.server", "")
	v.SetDefault("service.port", 0)
	v.SetDefault("service.scheme", "http")
	v.SetDefault("service.postPath", "/printservices/printservices.asmx")
	v.SetDefault("service.soapAction", "http://server/PrintServices/GetPrintQueuesForWorkstation")
	v.SetDefault("service.namespace", "http://server/PrintServices/")
	v.SetDefault("service.key", "")
	v.SetDefault("service.userDomain", "")
	v.SetDefault("service.serverDomain", "")
	v.SetDefault("service.timeout", defaults.ServiceRequestTimeout)
	v.SetDefault("service.insecureSkipVerify", false)

	v.SetDefault("drivers.genericPath", ppd.DefaultGenericPath)
	v.SetDefault("drivers.legacyGenericPath", ppd.DefaultGenericPath)
	v.SetDefault("drivers.modernPrefix", ppd.DefaultModernPrefix)
	v.SetDefault("drivers.legacyPrefix", ppd.DefaultLegacyPrefix)
	v.SetDefault("drivers.legacyMax", ppd.DefaultLegacyMax)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", DefaultLogFile)

	v.SetDefault("network.waitTimeout", defaults.NetworkWaitTimeout)
	v.SetDefault("network.pollInterval", defaults.NetworkPollInterval)

	v.SetDefault("spooler.systemdUnit", "")
	v.SetDefault("spooler.rateLimit", 0.0)
	v.SetDefault("spooler.burst", 1)

	v.SetDefault("metrics.textfile", "")
}

// Load reads configuration from path, or from the first queuemap.* file in
// SearchPaths when path is empty. A missing file is only an error when path
// was given explicitly. Environment variables override file values. Files
// ending in .jsonc may contain comments and trailing commas.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadLocal is Load for commands that never call the directory service:
// the service section is not validated.
func LoadLocal(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, requireService bool) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfig(v, path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "failed to decode configuration", err)
	}
	if len(cfg.Catalog) == 0 {
		cfg.Catalog = DefaultCatalog()
	}

	if err := cfg.validate(requireService); err != nil {
		return nil, err
	}

	slog.Debug("configuration loaded",
		"file", v.ConfigFileUsed(),
		"server", cfg.Service.Server,
		"catalogEntries", len(cfg.Catalog))

	return &cfg, nil
}

func readConfig(v *viper.Viper, path string) error {
	if path == "" {
		v.SetConfigName(FileName)
		for _, p := range SearchPaths {
			v.AddConfigPath(p)
		}
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !stderrors.As(err, &notFound) {
			return errors.Wrap(errors.ErrCodeInvalidConfig, "failed to read configuration", err)
		}
		return nil
	}

	if strings.EqualFold(filepath.Ext(path), ".jsonc") {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, fmt.Sprintf("failed to read %s", path), err)
		}
		v.SetConfigType("json")
		if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, fmt.Sprintf("failed to parse %s", path), err)
		}
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, fmt.Sprintf("failed to read %s", path), err)
	}
	return nil
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	return c.validate(true)
}

func (c *Config) validate(requireService bool) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	var err error
	if requireService {
		err = validate.Struct(c)
	} else {
		err = validate.StructExcept(c, "Service")
	}
	if err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.NewWithContext(errors.ErrCodeInvalidConfig,
				"invalid configuration: "+strings.Join(msgs, "; "),
				map[string]any{"fields": len(verrs)})
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid configuration", err)
	}

	if _, err := version.ParseVersion(c.Drivers.LegacyMax); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid drivers.legacyMax", err)
	}

	seen := make(map[string]bool, len(c.Catalog))
	for _, d := range c.Catalog {
		if seen[d.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, fmt.Sprintf("duplicate catalog entry %q", d.Name))
		}
		seen[d.Name] = true
	}
	return nil
}

// ServiceURL returns the POST target of the directory service.
func (c *Config) ServiceURL() string {
	host := c.Service.Server
	if c.Service.Port != 0 {
		host = net.JoinHostPort(host, strconv.Itoa(c.Service.Port))
	}
	u := url.URL{
		Scheme: c.Service.Scheme,
		Host:   host,
		Path:   c.Service.PostPath,
	}
	return u.String()
}

// Resolver returns the PPD resolver described by Drivers.
func (c *Config) Resolver() *ppd.Resolver {
	return &ppd.Resolver{
		GenericPath:       c.Drivers.GenericPath,
		LegacyGenericPath: c.Drivers.LegacyGenericPath,
		ModernPrefix:      c.Drivers.ModernPrefix,
		LegacyPrefix:      c.Drivers.LegacyPrefix,
		LegacyMax:         version.MustParseVersion(c.Drivers.LegacyMax),
	}
}
