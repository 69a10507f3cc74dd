// Package response writes the JSON envelopes every API route answers with.
package response

import (
	"github.com/gofiber/fiber/v2"
)

// TraceIDLocal is the fiber.Ctx locals key holding the request's trace id.
const TraceIDLocal = "trace_id"

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ListMetadata accompanies collection responses.
type ListMetadata struct {
	Count int `json:"count"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object. Fields is set for rejected input, keyed by the
// offending JSON field.
type ErrorDetail struct {
	Message    string            `json:"message"`
	StatusCode int               `json:"statusCode"`
	TraceID    string            `json:"traceId,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Details    interface{}       `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return send(c, fiber.StatusOK, message, data, metadata)
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return send(c, fiber.StatusCreated, message, data, metadata)
}

// List sends a 200 OK collection response with its count. A nil slice is sent as [].
func List[T any](c *fiber.Ctx, message string, items []T) error {
	if items == nil {
		items = []T{}
	}
	return send(c, fiber.StatusOK, message, items, ListMetadata{Count: len(items)})
}

func send(c *fiber.Ctx, code int, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(code).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	return Fail(c, ErrorDetail{Message: message, StatusCode: statusCode, Details: details})
}

// Invalid sends a 400 listing the rejected fields.
func Invalid(c *fiber.Ctx, message string, fields map[string]string) error {
	return Fail(c, ErrorDetail{Message: message, StatusCode: fiber.StatusBadRequest, Fields: fields})
}

// Fail sends d, stamping it with the request's trace id when one is set.
func Fail(c *fiber.Ctx, d ErrorDetail) error {
	if d.TraceID == "" {
		if id, ok := c.Locals(TraceIDLocal).(string); ok {
			d.TraceID = id
		}
	}
	return c.Status(d.StatusCode).JSON(ErrorBody{Status: statusError, Error: d})
}
