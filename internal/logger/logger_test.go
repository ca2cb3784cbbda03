package logger

import (
	"bytes"
	"encoding/json"
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
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("chatty")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestMLLoggerPredictionRequest(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogPredictionRequest("model-42", 16, true, 45)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "model-42", logEntry["model_id"])
	assert.Equal(t, "ml", logEntry["component"])
	assert.Equal(t, true, logEntry["cache_hit"])
}

func TestMLLoggerModelTraining(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogModelTraining(
		"model-42",
		2400,
		120.5,
		map[string]interface{}{"num_leaves": 31, "learning_rate": 0.05},
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "model-42", logEntry["model_id"])
	assert.Equal(t, float64(2400), logEntry["samples"])
}

func TestMLLoggerTrainingDeclined(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogTrainingDeclined(42, 100)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(42), logEntry["samples"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestRunLoggerBacktest(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogBacktestStart("2024-01-01", "2024-06-30", "weekly")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "run", logEntry["component"])
	assert.Equal(t, "weekly", logEntry["retrain_interval"])
}

func TestRunLoggerRaceSkipped(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogRaceSkipped("2024-r9", "no results recorded")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "2024-r9", logEntry["race_id"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogSimulationComplete("show", 120, 210, 0.83)

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkMLLoggerPredictionRequest(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	mlLogger := NewMLLogger(log)

	for i := 0; i < b.N; i++ {
		mlLogger.LogPredictionRequest("model-42", 16, false, 45)
	}
}
