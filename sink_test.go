package envsim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLSinkAppendsDailyFile(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewJSONLSink(filepath.Join(dir, "Logs"))
	require.NoError(t, err)
	defer sink.Close()

	p := Payload{DeviceID: "dev-01", Region: "r", Period: "day"}
	require.NoError(t, sink.Publish(&p))
	require.NoError(t, sink.Publish(&p))

	path := filepath.Join(dir, "Logs", time.Now().Format("2006-01-02")+".jsonl")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var got Payload
		require.NoError(t, json.Unmarshal([]byte(line), &got))
		assert.Equal(t, "dev-01", got.DeviceID)
	}
}

func TestJSONLSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	_, err := NewJSONLSink(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewMQTTSinkRejectsBadConnectionString(t *testing.T) {
	for _, cs := range []string{"", "not-a-url", "tcp://"} {
		_, err := NewMQTTSink("dev-01", cs, time.Second)
		assert.Error(t, err, "connection string %q", cs)
	}
}

func TestNewMQTTSinkUnreachableBroker(t *testing.T) {
	// Port 1 is never a broker; connect must fail and the caller degrades
	// to local-only operation.
	_, err := NewMQTTSink("dev-01", "tcp://127.0.0.1:1", 500*time.Millisecond)
	assert.Error(t, err)
}
