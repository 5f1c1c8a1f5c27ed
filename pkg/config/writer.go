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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configFileMode = 0o600

// WriteFile persists cfg to path in the format implied by its extension.
// Ini files only receive the keys exposed through LegacyValuer.
func WriteFile(path string, cfg interface{}) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	switch formatOf(path) {
	case formatINI:
		return writeIni(path, cfg)
	case formatYAML:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}

		return os.WriteFile(path, data, configFileMode)
	case formatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}

		return os.WriteFile(path, append(data, '\n'), configFileMode)
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFormat, path)
	}
}

func writeIni(path string, cfg interface{}) error {
	valuer, ok := cfg.(LegacyValuer)
	if !ok {
		return errNotLegacySetter
	}

	values := valuer.LegacyValues()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	v := viper.New()
	v.SetConfigType(formatINI)

	for _, k := range keys {
		v.Set(LegacySection+"."+k, values[k])
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write ini file '%s': %w", path, err)
	}

	return os.Chmod(path, configFileMode)
}
