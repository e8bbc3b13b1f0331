// config.go --  This file is part of goHF project.
// Mirzaeva Irina, 2023
//
//	goHF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------

// Package config loads goHF run settings from TOML files and GOHF_*
// environment variables.
package config

import (
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/MirzaevaIV/goHF/errors"
)

type Config struct {
	Denominator DenominatorConfig `mapstructure:"denominator"`
	Runtime     RuntimeConfig     `mapstructure:"runtime"`
	Log         LogConfig         `mapstructure:"log"`
	Output      OutputConfig      `mapstructure:"output"`
}

type DenominatorConfig struct {
	Algorithm string  `mapstructure:"algorithm"`
	Delta     float64 `mapstructure:"delta"`
	MaxTerms  int     `mapstructure:"max_terms"`
	Debug     bool    `mapstructure:"debug"`
}

type RuntimeConfig struct {
	NProcs int `mapstructure:"nprocs"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	JSON      bool   `mapstructure:"json"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

type OutputConfig struct {
	Plot    string `mapstructure:"plot"`
	Summary string `mapstructure:"summary"`
}

// SetDefaults configures the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("denominator.algorithm", "LAPLACE")
	v.SetDefault("denominator.delta", 1e-6)
	v.SetDefault("denominator.max_terms", 64)
	v.SetDefault("denominator.debug", false)

	v.SetDefault("runtime.nprocs", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.max_size_mb", 10)

	v.SetDefault("output.plot", "")
	v.SetDefault("output.summary", "")
}

// New returns a viper instance with defaults and GOHF_ environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GOHF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads path (TOML) on top of the defaults. An empty path loads the
// defaults and the environment only.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. The algorithm name is checked by the
// denominator factory, not here.
func (c *Config) Validate() error {
	d := c.Denominator.Delta
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return errors.Configurationf("denominator.delta must be a positive number, got %g", d)
	}
	if c.Denominator.MaxTerms < 1 {
		return errors.Configurationf("denominator.max_terms must be at least 1, got %d", c.Denominator.MaxTerms)
	}
	if c.Runtime.NProcs < 1 {
		return errors.Configurationf("runtime.nprocs must be at least 1, got %d", c.Runtime.NProcs)
	}
	if c.Log.MaxSizeMB < 0 {
		return errors.Configurationf("log.max_size_mb must not be negative, got %d", c.Log.MaxSizeMB)
	}
	return nil
}
