/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/carverauto/fwmetrics/pkg/logger"
	"github.com/carverauto/fwmetrics/pkg/models"
)

// LegacySection is the ini section holding exporter settings.
const LegacySection = "extra_metrics"

var (
	errNotLegacySetter = errors.New("destination does not accept legacy ini keys")
	errMissingSection  = errors.New("ini file has no [" + LegacySection + "] section")
)

// LegacySetter accepts individual keys from the ini section.
type LegacySetter interface {
	SetLegacyValue(key, value string) error
}

// LegacyValuer exposes the keys that are written back to an ini file.
type LegacyValuer interface {
	LegacyValues() map[string]string
}

// IniConfigLoader reads the [extra_metrics] section of an ini file.
type IniConfigLoader struct {
	logger logger.Logger
}

func NewIniConfigLoader(log logger.Logger) *IniConfigLoader {
	return &IniConfigLoader{logger: log}
}

// Load implements ConfigLoader.
func (l *IniConfigLoader) Load(_ context.Context, path string, dst interface{}) error {
	setter, ok := dst.(LegacySetter)
	if !ok {
		return errNotLegacySetter
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(formatINI)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read ini file '%s': %w", path, err)
	}

	prefix := LegacySection + "."
	keys := v.AllKeys()
	sort.Strings(keys)

	found := 0

	for _, k := range keys {
		name, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}

		found++

		if err := setter.SetLegacyValue(name, v.GetString(k)); err != nil {
			if errors.Is(err, models.ErrUnknownLegacyKey) {
				l.logger.Warn().Str("key", name).Msg("Ignoring unknown ini key")

				continue
			}

			return fmt.Errorf("invalid ini value in '%s': %w", path, err)
		}
	}

	if found == 0 {
		return fmt.Errorf("%w: %s", errMissingSection, path)
	}

	l.logger.Debug().Str("path", path).Int("keys", found).Msg("Loaded ini configuration")

	return nil
}
