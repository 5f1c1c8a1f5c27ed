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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carverauto/fwmetrics/pkg/logger"
)

var errUnsupportedFormat = errors.New("unsupported configuration file format")

// FileConfigLoader loads configuration from a local file, choosing the
// decoder from the file extension.
type FileConfigLoader struct {
	logger logger.Logger
	ini    *IniConfigLoader
}

func NewFileConfigLoader(log logger.Logger) *FileConfigLoader {
	return &FileConfigLoader{logger: log, ini: NewIniConfigLoader(log)}
}

// Load implements ConfigLoader.
func (f *FileConfigLoader) Load(ctx context.Context, path string, dst interface{}) error {
	format := formatOf(path)

	if format == formatINI {
		return f.ini.Load(ctx, path, dst)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	switch format {
	case formatJSON:
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from '%s': %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFormat, path)
	}

	f.logger.Debug().Str("path", path).Str("format", format).Msg("Loaded configuration file")

	return nil
}

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatINI  = "ini"
)

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	case ".ini", ".conf", ".cfg":
		return formatINI
	default:
		return ""
	}
}
