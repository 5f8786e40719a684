package main

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteWait        = 10 * time.Second
)

// writeWSWithHeartbeat drains send into conn, writing a JSON ping after each idle interval.
// It returns nil once send is closed.
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	write := func(data []byte) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return err
		}
		lastWrite = time.Now()
		return nil
	}

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteWait))
				return nil
			}
			if err := write(msg); err != nil {
				return err
			}
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := write(pingPayload); err != nil {
				return err
			}
		}
	}
}
