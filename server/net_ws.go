package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		// 为了实时性，丢弃旧消息（防止阻塞 Tick）
	}
}

// Close 关闭底层连接与发送队列
func (c *ClientConn) Close() {
	if c.send != nil {
		// 关闭发送通道以结束写协程
		close(c.send)
		c.send = nil
	}
	if c.ws != nil {
		_ = c.ws.Close()
	}
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump(send <-chan []byte) {
	defer c.ws.Close()
	for msg := range send {
		c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump 读取客户端输入，转换为 Input 注入房间
func (c *ClientConn) readPump(room *Room, playerID PlayerID) {
	defer c.ws.Close()
	// 读泵退出时，通知房间在 Tick 线程中移除该玩家
	defer room.RequestLeave(playerID)
	c.ws.SetReadLimit(1 << 16)
	c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Debugw("read failed", "room", room.ID, "player", playerID, "err", err)
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		var im InputMessage
		if err := json.Unmarshal(payload, &im); err != nil {
			continue
		}
		if strings.ToLower(im.Type) != "input" {
			continue
		}
		room.OnInput(im.toInput(playerID))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：?room=room-1&player=alice[&bot=1]
func HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomID := q.Get("room")
	if roomID == "" {
		roomID = "room-1"
	}
	playerID := PlayerID(q.Get("player"))
	if playerID == "" {
		http.Error(w, "missing player query", http.StatusBadRequest)
		return
	}
	bot := q.Get("bot") == "1" || q.Get("bot") == "true"

	room := GetRoomManager().GetOrCreateRoom(roomID)
	// 升级前先占座，满员时直接返回 409
	seat, err := room.JoinPlayer(playerID, bot, nil)
	if err != nil {
		status := http.StatusConflict
		if !errors.Is(err, ErrRoomFull) && !errors.Is(err, ErrNameTaken) {
			status = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), status)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("upgrade error", "room", roomID, "player", playerID, "err", err)
		room.RequestLeave(playerID)
		return
	}

	client := NewClientConn(ws)
	room.Attach(seat, client)

	go client.writePump(client.send)
	go client.readPump(room, playerID)
}
