// Copyright © 2021 Sebastián Zaffarano <sebas@zaffarano.com.ar>.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/assert"
)

var (
	validConfig = `
---
port: 4242
timeout: 250ms
request:
  limit: 2048
server:
  command: /usr/local/bin/gtd-server
verbose: false
quiet: false
  `
	invalidConfig = validConfig + "\n invalid format"
)

func TestConfig(t *testing.T) {
	validConfigPath, validConfigDir := mockConfig(t, validConfig)
	invalidConfigPath, invalidConfigDir := mockConfig(t, invalidConfig)
	_, nonExistentDataDir := mockConfig(t, "")

	defer os.RemoveAll(validConfigDir)
	defer os.RemoveAll(invalidConfigDir)
	defer os.RemoveAll(nonExistentDataDir)

	unsetEnv(t, DataVariableName)

	t.Run("configure works with valid --config flag", func(t *testing.T) {
		defer clearConfig()
		if err := InitConfig(Flags{ConfigFile: validConfigPath}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}

		assertConfig(t, Get())
	})

	t.Run("configure set quiet log level", func(t *testing.T) {
		defer clearConfig()

		if err := InitConfig(Flags{ConfigFile: validConfigPath, Quiet: true}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}

		memoryHandler := memory.New()
		log.SetHandler(memoryHandler)

		assert.True(t, Get().Quiet)

		log.Info("log something")
		assert.Equal(t, 0, len(memoryHandler.Entries))

		log.Error("log something")
		assert.Equal(t, 1, len(memoryHandler.Entries))
	})

	t.Run("configure set debug log level even if quiet is set as well", func(t *testing.T) {
		defer clearConfig()

		if err := InitConfig(Flags{ConfigFile: validConfigPath, Verbose: true, Quiet: true}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}

		memoryHandler := memory.New()
		log.SetHandler(memoryHandler)

		assert.True(t, Get().Verbose)

		log.Debug("log something")
		assert.Equal(t, 1, len(memoryHandler.Entries))
	})

	t.Run("flags override file values", func(t *testing.T) {
		defer clearConfig()

		port, timeout := 1234, 3*time.Second
		err := InitConfig(Flags{ConfigFile: validConfigPath, Port: &port, Timeout: &timeout})
		assert.Nil(t, err)

		assert.Equal(t, 1234, Get().Port)
		assert.Equal(t, 3*time.Second, Get().Timeout.Duration)
		assert.Equal(t, 2048, Get().Request.Limit)
	})

	t.Run("configure fails with invalid --config flag", func(t *testing.T) {
		defer clearConfig()
		if err := InitConfig(Flags{ConfigFile: invalidConfigPath}); err == nil {
			t.Error("Error expected")
		}
	})

	t.Run("configure fails with non-existent --config flag", func(t *testing.T) {
		defer clearConfig()
		err := InitConfig(Flags{ConfigFile: filepath.Join(nonExistentDataDir, "missing")})
		assert.NotNil(t, err)
	})

	t.Run("configure fails with non-existent --data flag", func(t *testing.T) {
		defer clearConfig()
		if err := InitConfig(Flags{DataDir: nonExistentDataDir}); err == nil {
			t.Error("Error expected")
		}
	})

	t.Run("configure works with valid --data flag", func(t *testing.T) {
		defer clearConfig()
		if err := InitConfig(Flags{DataDir: validConfigDir}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}

		assertConfig(t, Get())
	})

	t.Run("configure fails with invalid --data flag", func(t *testing.T) {
		defer clearConfig()
		if err := InitConfig(Flags{DataDir: invalidConfigDir}); err == nil {
			t.Error("Error expected")
		}
	})

	t.Run("configure works with GTDDATA environment var", func(t *testing.T) {
		defer clearConfig()
		if err := os.Setenv(DataVariableName, validConfigDir); err != nil {
			t.Errorf("Error setting environment variable: %v", err)
		}
		defer unsetEnv(t, DataVariableName)

		if err := InitConfig(Flags{}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}

		assertConfig(t, Get())
	})

	t.Run("configure uses defaults without any config file", func(t *testing.T) {
		defer clearConfig()

		home := os.Getenv("HOME")
		if err := os.Setenv("HOME", nonExistentDataDir); err != nil {
			t.Errorf("Error setting environment variable: %v", err)
		}
		defer os.Setenv("HOME", home)

		assert.Nil(t, InitConfig(Flags{}))

		conf := Get()
		assert.Equal(t, DefaultPort, conf.Port)
		assert.Equal(t, DefaultTimeout, conf.Timeout.Duration)
		assert.Equal(t, DefaultRequestLimit, conf.Request.Limit)
		assert.Equal(t, DefaultServerCommand, conf.Server.Command)
	})

	t.Run("get returns defaults before initialization", func(t *testing.T) {
		clearConfig()
		assert.Equal(t, DefaultPort, Get().Port)
	})
}

func TestValidation(t *testing.T) {
	unsetEnv(t, DataVariableName)

	cases := []struct {
		title   string
		content string
		flags   Flags
	}{
		{"port too big", "port: 70000", Flags{}},
		{"negative port flag", "verbose: false", Flags{Port: intPtr(-1)}},
		{"zero port flag", "port: 4242", Flags{Port: intPtr(0)}},
		{"zero timeout flag", "timeout: 1s", Flags{Timeout: durationPtr(0)}},
		{"zero timeout", "timeout: 0s", Flags{}},
		{"timeout without unit", "timeout: 5", Flags{}},
		{"negative limit", "request:\n  limit: -1", Flags{}},
		{"empty server command", "server:\n  command: \"\"", Flags{}},
		{"unknown key", "color: true", Flags{}},
	}

	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			defer clearConfig()

			path, dir := mockConfig(t, c.content+"\n")
			defer os.RemoveAll(dir)

			c.flags.ConfigFile = path
			assert.NotNil(t, InitConfig(c.flags))
		})
	}
}

func intPtr(value int) *int {
	return &value
}

func durationPtr(value time.Duration) *time.Duration {
	return &value
}

func assertConfig(t *testing.T, conf *Config) {
	t.Helper()
	assert := assert.New(t)

	assert.Equal(4242, conf.Port)
	assert.Equal(250*time.Millisecond, conf.Timeout.Duration)
	assert.Equal(2048, conf.Request.Limit)
	assert.Equal("/usr/local/bin/gtd-server", conf.Server.Command)
	assert.Equal(false, conf.Verbose)
	assert.Equal(false, conf.Quiet)
}

func clearConfig() {
	cfg = nil
	log.SetLevel(log.InfoLevel)
}

func unsetEnv(t *testing.T, name string) {
	t.Helper()

	if err := os.Unsetenv(name); err != nil {
		t.Errorf("Error unsetting environment variable: %v", err)
	}
}

func mockConfig(t *testing.T, content string) (string, string) {
	t.Helper()

	dir, err := ioutil.TempDir(os.TempDir(), "gtd")
	if err != nil {
		t.Error(err.Error())
	}
	configPath := filepath.Join(dir, "config")

	if content == "" {
		return "", dir
	}
	file, err := os.Create(configPath)
	if err != nil {
		t.Error(err.Error())
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	if err != nil {
		t.Error(err.Error())
	}

	return configPath, dir
}
