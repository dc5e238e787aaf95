package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/internportal/internal/logging"
	"github.com/dmitrijs2005/internportal/internal/server/models"
)

func TestLogNotifier_WritesToken(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logging.New("json", "info", &buf))

	exp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	err := n.NotifyPasswordReset(context.Background(), &models.User{ID: 7, Email: "a@x.com"}, "deadbeef", exp)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "password reset requested", rec["msg"])
	assert.Equal(t, "reset-notifier", rec["component"])
	assert.Equal(t, "deadbeef", rec["token"])
	assert.Equal(t, "a@x.com", rec["email"])
	assert.EqualValues(t, 7, rec["user_id"])
	assert.Equal(t, "2025-01-02T03:04:05Z", rec["expires_at"])
}
