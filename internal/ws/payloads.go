package ws

// server → client
type ReadyPayload struct {
	PlayerID int64 `json:"player_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
