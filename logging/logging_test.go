package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "catalogadmin", "json", "debug")

	log.WithField("slug", "phim-abc").Info("movie updated")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "catalogadmin", line["service"])
	assert.Equal(t, "phim-abc", line["slug"])
	assert.Equal(t, "movie updated", line["msg"])
	assert.Equal(t, logrus.DebugLevel, log.Logger.GetLevel())
}

func TestNewWithOutput_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "catalogadmin", "text", "loud")

	assert.Equal(t, logrus.InfoLevel, log.Logger.GetLevel())
	log.Debug("hidden")
	assert.Empty(t, buf.String())
}
