/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package config

import (
	"os"

	"github.com/spf13/viper"
)

const (
	keySeed          = "random-seed"
	keyModulePrefix  = "modules.prefix"
	keyModuleMinSize = "modules.min-size"
	keyModuleMaxSize = "modules.max-size"
	keyModuleLength  = "modules.max-length"
	keyTempDir       = "temp-dir"

	defaultModulePrefix  = "MOD"
	defaultModuleMinSize = 2
)

// ModuleSettings control building modules from motif interactions.
type ModuleSettings struct {
	// prefix of generated module names
	Prefix string `mapstructure:"prefix"`

	// smallest and largest number of motifs in a module; 0 MaxSize means no
	// limit
	MinSize int `mapstructure:"min-size"`
	MaxSize int `mapstructure:"max-size"`

	// maximum span in bp of a module's sites; 0 means no limit
	MaxLength int `mapstructure:"max-length"`
}

// Settings are analysis settings read from a YAML (or any other format viper
// understands) file.
type Settings struct {
	// seed for random collections and partitions; 0 means seed from the
	// clock
	Seed uint64 `mapstructure:"random-seed"`

	Modules ModuleSettings `mapstructure:"modules"`

	// where output dependency files are written before being saved
	TempDir string `mapstructure:"temp-dir"`
}

// LoadSettings reads Settings from the given file. A blank path gives the
// default settings.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault(keySeed, 0)
	v.SetDefault(keyModulePrefix, defaultModulePrefix)
	v.SetDefault(keyModuleMinSize, defaultModuleMinSize)
	v.SetDefault(keyModuleMaxSize, 0)
	v.SetDefault(keyModuleLength, 0)
	v.SetDefault(keyTempDir, os.TempDir())

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var s Settings

	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}

	return &s, nil
}
