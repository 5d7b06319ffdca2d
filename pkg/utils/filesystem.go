// Copyright 2025 Kadir Pekel
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

// Package utils provides filesystem and token-accounting helpers shared
// across agent variants.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureAsklyDir ensures the .asklly state directory exists at basePath.
// If basePath is empty or ".", it creates ./.asklly in the current
// directory; otherwise {basePath}/.asklly. Nothing else in this module
// calls it.
//
// Returns the full path to the .asklly directory and any error.
func EnsureAsklyDir(basePath string) (string, error) {
	var dir string
	if basePath == "" || basePath == "." {
		dir = ".asklly"
	} else {
		dir = filepath.Join(basePath, ".asklly")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create .asklly directory at '%s': %w", dir, err)
	}

	return dir, nil
}

// ReadFileTruncated reads path and returns its content truncated to maxBytes,
// used by the file agent to keep oversized documents out of the prompt.
func ReadFileTruncated(path string, maxBytes int) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	truncated := false
	if len(data) > maxBytes {
		data = data[:maxBytes]
		truncated = true
	}
	return string(data), truncated, nil
}
