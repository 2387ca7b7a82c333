package relay

// PingRequest is the liveness probe message exchanged between agents
type PingRequest struct {
	Message string `json:"message" validate:"required,min=1,max=500"`
}

type PingResponse struct {
	Echo      string `json:"echo"`
	Timestamp int64  `json:"timestamp"`
}
