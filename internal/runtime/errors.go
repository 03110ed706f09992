package runtime

import (
	"log/slog"
	"strconv"

	"github.com/aretw0/scorm/pkg/domain"
)

// ErrorChannel is the last-error register of a session.
type ErrorChannel struct {
	table      *domain.ErrorTable
	logger     *slog.Logger
	code       int
	diagnostic string
}

// NewErrorChannel creates a register reporting codes from table.
func NewErrorChannel(table *domain.ErrorTable, logger *slog.Logger) *ErrorChannel {
	return &ErrorChannel{table: table, logger: logger}
}

// Throw records err under the code the variant assigns to its key.
func (c *ErrorChannel) Throw(op domain.Operation, err *domain.Error) {
	c.ThrowCode(op, c.table.Code(err.Key), err.Message)
}

// ThrowCode records a raw numeric code, as reported by a commit receiver.
// An empty message falls back to the table's detailed text.
func (c *ErrorChannel) ThrowCode(op domain.Operation, code int, message string) {
	if message == "" {
		if m, ok := c.table.Message(code); ok {
			message = m.Detail
		}
	}
	c.code = code
	c.diagnostic = message
	c.logger.Warn("scorm error", "operation", op, "code", code, "message", message)
}

// Clear resets the register, but only when the operation succeeded.
func (c *ErrorChannel) Clear(succeeded bool) {
	if succeeded {
		c.code = 0
		c.diagnostic = ""
	}
}

// Code returns the register as a number.
func (c *ErrorChannel) Code() int {
	return c.code
}

// LastError returns the register as content reads it.
func (c *ErrorChannel) LastError() string {
	return strconv.Itoa(c.code)
}

// ErrorString returns the short text of code.
func (c *ErrorChannel) ErrorString(code string) string {
	return c.table.Lookup(code).Short
}

// Diagnostic returns the detailed text of code. An empty code, or the code currently
// in the register, returns the message recorded with the last error.
func (c *ErrorChannel) Diagnostic(code string) string {
	if code == "" || (code == c.LastError() && c.diagnostic != "") {
		return c.diagnostic
	}
	return c.table.Lookup(code).Detail
}
