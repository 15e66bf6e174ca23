package tooring

import (
	"bytes"
	"context"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/tooring/service/document"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	t.Setenv("TOORING_TEST_CONSUL", "127.0.0.1:8500")
	testCases := []struct {
		name      string
		URL       string
		content   string
		expectErr bool
		validate  func(t *testing.T, config *Config)
	}{
		{
			name: "yaml with env expression",
			URL:  "mem://localhost/tooring/config/consul.yaml",
			content: `store:
  backend: consul
  consul:
    address: ${env.TOORING_TEST_CONSUL}
claim:
  lockWait: 250ms
processor:
  workerCount: 4
  idleInterval: 50ms
  checkpointSteps: 100
taskTTL: 1h
`,
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, StoreConsul, config.Store.Backend)
				require.NotNil(t, config.Store.Consul)
				assert.Equal(t, "127.0.0.1:8500", config.Store.Consul.Address)
				assert.Equal(t, 250*time.Millisecond, config.Claim.LockWait)
				assert.Equal(t, 30*time.Second, config.Claim.LockHold)
				assert.Equal(t, 4, config.Processor.WorkerCount)
				assert.Equal(t, 100, config.Processor.CheckpointSteps)
				assert.Equal(t, time.Hour, config.TaskTTL)
				assert.Equal(t, 10*time.Second, config.Reclaimer.Interval)
			},
		},
		{
			name:    "json keeps defaults",
			URL:     "mem://localhost/tooring/config/default.json",
			content: `{"metricsNamespace":"tm"}`,
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, StoreMemory, config.Store.Backend)
				assert.Equal(t, "tm", config.MetricsNamespace)
				assert.Equal(t, 1, config.Processor.WorkerCount)
			},
		},
		{
			name:      "unsupported backend",
			URL:       "mem://localhost/tooring/config/redis.yaml",
			content:   "store:\n  backend: redis\n",
			expectErr: true,
		},
		{
			name:      "invalid worker count",
			URL:       "mem://localhost/tooring/config/workers.yaml",
			content:   "processor:\n  workerCount: 0\n",
			expectErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, fs.Upload(ctx, tc.URL, file.DefaultFileOsMode, strings.NewReader(tc.content)))
			actual, err := LoadConfig(ctx, tc.URL, document.WithFS(fs))
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.validate(t, actual)
		})
	}
}

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name        string
		level       string
		format      string
		expectErr   bool
		expectLevel logrus.Level
		expectText  string
	}{
		{name: "defaults", expectLevel: logrus.InfoLevel, expectText: "msg=hello"},
		{name: "json debug", level: "debug", format: LogFormatJSON, expectLevel: logrus.DebugLevel, expectText: `"msg":"hello"`},
		{name: "invalid level", level: "loud", expectErr: true},
		{name: "invalid format", format: "xml", expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(tc.level, tc.format, &buf)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectLevel, logger.GetLevel())
			logger.Info("hello")
			assert.Contains(t, buf.String(), tc.expectText)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, config.Validate())
	config.Reclaimer.Interval = 0
	assert.Error(t, config.Validate())
	var nilConfig *Config
	assert.NoError(t, nilConfig.Validate())
}
