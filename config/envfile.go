// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrEnvFileExists is returned by WriteEnvTemplate when the target already exists.
var ErrEnvFileExists = errors.New("env file already exists")

// EnvTemplate lists the variables a fresh .env file is seeded with.
var EnvTemplate = []struct {
	Name  string
	Value string
}{
	{"OPENAI_API_KEY", "your_openai_api_key_here"},
	{"AMAP_API_KEY", "your_amap_api_key_here"},
	{"AMAP_JS_API_KEY", "your_amap_js_api_key_here"},
	{"AMAP_JS_API_PWD", "your_amap_js_security_code_here"},
}

// WriteEnvTemplate creates a dotenv file with placeholder values. It never
// overwrites an existing file.
func WriteEnvTemplate(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrEnvFileExists, path)
		}

		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	env := make(map[string]string, len(EnvTemplate))
	for _, v := range EnvTemplate {
		env[v.Name] = v.Value
	}

	content, err := godotenv.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshaling env template: %w", err)
	}

	if _, err := f.WriteString(strings.TrimRight(content, "\n") + "\n"); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
