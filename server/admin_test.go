package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func doRequest(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleAdminConfig(t *testing.T) {
	t.Cleanup(GetRoomManager().StopAll)
	const target = "/admin/config?room=admin-test"

	rec := doRequest(HandleAdminConfig, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.Bytes()
	assert.Equal(t, "admin-test", gjson.GetBytes(body, "room").String())
	assert.Equal(t, int64(4), gjson.GetBytes(body, "maxInputsPerTick").Int())
	assert.Equal(t, int64(3), gjson.GetBytes(body, "winsToMatch").Int())

	rec = doRequest(HandleAdminConfig, http.MethodPost, target, `{"maxInputsPerTick":2,"winsToMatch":5,"recordReplays":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gjson.GetBytes(rec.Body.Bytes(), "ok").Bool())

	room, ok := GetRoomManager().GetRoom("admin-test")
	require.True(t, ok)
	s := room.Settings()
	assert.Equal(t, 2, s.MaxInputsPerTick)
	assert.Equal(t, uint8(5), s.WinsToMatch)
	assert.True(t, s.RecordReplays)

	// 只更新出现的字段
	rec = doRequest(HandleAdminConfig, http.MethodPost, target, `{"recordReplays":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	s = room.Settings()
	assert.False(t, s.RecordReplays)
	assert.Equal(t, 2, s.MaxInputsPerTick)

	for _, bad := range []string{`not json`, `[1,2]`, `{"maxInputsPerTick":"x"}`, `{"maxInputsPerTick":0}`, `{"winsToMatch":200}`, `{"recordReplays":1}`} {
		rec = doRequest(HandleAdminConfig, http.MethodPost, target, bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
	assert.Equal(t, 2, room.Settings().MaxInputsPerTick)

	rec = doRequest(HandleAdminConfig, http.MethodPut, target, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleMetricsAndStats(t *testing.T) {
	t.Cleanup(GetRoomManager().StopAll)

	rec := doRequest(HandleMetrics, http.MethodGet, "/metrics?room=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(HandleStats, http.MethodGet, "/stats?room=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	GetRoomManager().GetOrCreateRoom("metrics-test")
	rec = doRequest(HandleMetrics, http.MethodGet, "/metrics?room=metrics-test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.Bytes()
	assert.Equal(t, "metrics-test", gjson.GetBytes(body, "room").String())
	assert.True(t, gjson.GetBytes(body, "metrics.rollbacks").Exists())
	assert.True(t, gjson.GetBytes(body, "metrics.avg_tick_ms").Exists())

	rec = doRequest(HandleStats, http.MethodGet, "/stats?room=metrics-test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics-test", gjson.GetBytes(rec.Body.Bytes(), "room").String())
}

func TestHandleWSRejectsMissingPlayer(t *testing.T) {
	rec := doRequest(HandleWS, http.MethodGet, "/ws?room=ws-test", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
