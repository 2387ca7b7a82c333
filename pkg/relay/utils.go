package relay

import (
	"github.com/gofiber/fiber/v2"
)

// createResponse creates a StdResponse with the given body and error
func createResponse[T any](body T, err error) StdResponse[T] {
	if err != nil {
		errMsg := err.Error()
		return StdResponse[T]{
			Body:  body,
			Error: &errMsg,
		}
	}
	return StdResponse[T]{
		Body:  body,
		Error: nil,
	}
}

// GetRequestContext extracts the auth headers from the request for your own
// business specific logic
func GetRequestContext(c *fiber.Ctx) *RequestContext {
	message := c.Get(MessageHeader)
	hotkey := c.Get(HotkeyHeader)
	sig := c.Get(SignatureHeader)

	return &RequestContext{
		c: c,
		Auth: AuthParams{
			Hotkey:    hotkey,
			Message:   message,
			Signature: sig,
		},
	}
}
