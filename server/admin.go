package server

import (
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func roomParam(r *http.Request) string {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = "room-1"
	}
	return roomID
}

func writeJSON(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func settingsJSON(roomID string, s RoomSettings) []byte {
	b := []byte(`{}`)
	b, _ = sjson.SetBytes(b, "room", roomID)
	b, _ = sjson.SetBytes(b, "maxInputsPerTick", s.MaxInputsPerTick)
	b, _ = sjson.SetBytes(b, "recordReplays", s.RecordReplays)
	b, _ = sjson.SetBytes(b, "winsToMatch", s.WinsToMatch)
	return b
}

// HandleAdminConfig 提供房间设置的读取与更新（热更新）
// GET /admin/config?room=room-1  返回当前设置
// POST /admin/config?room=room-1 以 JSON 载荷更新部分字段，例如 {"maxInputsPerTick":2}
func HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room := GetRoomManager().GetOrCreateRoom(roomID)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, settingsJSON(roomID, room.Settings()))
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
		if err != nil || !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		mipt := gjson.GetBytes(body, "maxInputsPerTick")
		if mipt.Exists() && (mipt.Type != gjson.Number || mipt.Int() < 1) {
			http.Error(w, "maxInputsPerTick must be a positive number", http.StatusBadRequest)
			return
		}
		rec := gjson.GetBytes(body, "recordReplays")
		if rec.Exists() && rec.Type != gjson.True && rec.Type != gjson.False {
			http.Error(w, "recordReplays must be a boolean", http.StatusBadRequest)
			return
		}
		wins := gjson.GetBytes(body, "winsToMatch")
		if wins.Exists() && (wins.Type != gjson.Number || wins.Int() < 1 || wins.Int() > 99) {
			http.Error(w, "winsToMatch must be in 1..99", http.StatusBadRequest)
			return
		}

		s := room.UpdateSettings(func(s *RoomSettings) {
			if mipt.Exists() {
				s.MaxInputsPerTick = int(mipt.Int())
			}
			if rec.Exists() {
				s.RecordReplays = rec.Bool()
			}
			if wins.Exists() {
				s.WinsToMatch = uint8(wins.Int())
			}
		})
		out, _ := sjson.SetBytes(settingsJSON(roomID, s), "ok", true)
		writeJSON(w, out)
		Log.Infow("config updated", "room", roomID, "maxInputsPerTick", s.MaxInputsPerTick,
			"recordReplays", s.RecordReplays, "winsToMatch", s.WinsToMatch)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room, ok := GetRoomManager().GetRoom(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	frame, round := room.Frame()
	b := []byte(`{}`)
	b, _ = sjson.SetBytes(b, "room", roomID)
	b, _ = sjson.SetBytes(b, "tick", room.TickSeq())
	b, _ = sjson.SetBytes(b, "frame", frame)
	b, _ = sjson.SetBytes(b, "round", round)
	b, _ = sjson.SetBytes(b, "metrics", room.Metrics().Snapshot())
	writeJSON(w, b)
}

// HandleStats 输出指定房间的累计战绩
// GET /stats?room=room-1
func HandleStats(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room, ok := GetRoomManager().GetRoom(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	b, _ := sjson.SetBytes(room.Stats().Bytes(), "room", roomID)
	writeJSON(w, b)
}
