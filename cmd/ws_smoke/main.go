package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	"warzone/internal/logger"

	"github.com/gorilla/websocket"
)

// ws_smoke drives a running server started with DEV_MODE=true: two players
// sign in, B listens on /ws, A attacks B, B must receive the notice.
func main() {
	base := flag.String("addr", "127.0.0.1:8080", "server host:port")
	combo := flag.String("combo", "simple", "attack combo")
	flag.Parse()

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	httpBase := "http://" + *base + "/api/v1"

	tokenA := login(httpBase, 3001, "smokeA")
	tokenB := login(httpBase, 3002, "smokeB")

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?token=%s", *base, tokenB), nil)
	if err != nil {
		logger.Fatal("dial B", "error", err)
	}
	defer conn.Close()

	waitFor(conn, "ready", 2*time.Second)

	status, body := post(httpBase+"/attack", tokenA, map[string]any{"target_id": 3002, "combo": *combo})
	logger.Info("attack response", "status", status, "body", string(body))
	if status != http.StatusOK {
		logger.Fatal("attack rejected", "status", status)
	}

	msg := waitFor(conn, "attacked", 3*time.Second)
	logger.Info("B got notice", "payload", string(msg))
	logger.Info("smoke test finished")
}

func login(base string, id int64, username string) string {
	status, body := post(base+"/auth", "", map[string]any{
		"user": map[string]any{"id": id, "username": username, "first_name": username},
	})
	if status != http.StatusOK {
		logger.Fatal("auth failed", "id", id, "status", status, "body", string(body))
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Token == "" {
		logger.Fatal("auth response", "body", string(body))
	}
	return out.Token
}

func post(url, token string, payload any) (int, []byte) {
	raw, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		logger.Fatal("request failed", "url", url, "error", err)
	}
	defer res.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(res.Body)
	return res.StatusCode, buf.Bytes()
}

// waitFor drains frames until one of the given type arrives.
func waitFor(conn *websocket.Conn, msgType string, timeout time.Duration) []byte {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Fatal("read", "waiting_for", msgType, "error", err)
		}
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		if t, ok := obj["type"].(string); ok && t == msgType {
			return msg
		}
	}
	logger.Fatal("timed out", "waiting_for", msgType)
	return nil
}
