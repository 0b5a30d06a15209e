package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.TraceLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestSimulationLoggerSeason(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogSeasonSimulated("nyy21", "martingale", 162, 92, 3, 41.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "simulation", logEntry["component"])
	assert.Equal(t, "nyy21", logEntry["season_id"])
	assert.Equal(t, float64(92), logEntry["wins"])
	assert.Equal(t, 41.5, logEntry["final_earnings"])
}

func TestSimulationLoggerRefill(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogRefill("bos19", 57, 3.5, 12, 4)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "refill", logEntry["event_type"])
	assert.Equal(t, float64(57), logEntry["game"])
}

func TestSimulationLoggerCombinationFailed(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogCombinationFailed("season", 2, 20, 2, errors.New("insufficient data"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "insufficient data", logEntry["error"])
	assert.Equal(t, "combination_failed", logEntry["event_type"])
}

func TestSimulationLoggerSeasonFailed(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogSeasonFailed("team", "bad21", 2, 20, 2, errors.New("zero moneyline"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "bad21", logEntry["season_id"])
	assert.Equal(t, "season_failed", logEntry["event_type"])
	assert.Equal(t, "zero moneyline", logEntry["error"])
}

func TestSimulationLoggerSweepCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogSweepCompleted("run-1", "team", 4, 0, 8, 12.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Grid search complete", logEntry["msg"])
	assert.Equal(t, float64(4), logEntry["combinations"])
}

func TestNewLoggerWithOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerWithOutput("debug", "production", buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log.Info("hello")
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "hello", logEntry["msg"])
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerWithOutput("loud", "development", buf)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Contains(t, buf.String(), "Invalid log level")
}
