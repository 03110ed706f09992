package domain

import "strconv"

// ErrorMessage holds the short and detailed texts of a numeric code.
type ErrorMessage struct {
	Short  string
	Detail string
}

// ErrorTable maps error keys to a variant's numeric codes and the codes to messages.
type ErrorTable struct {
	codes    map[ErrorKey]int
	messages map[int]ErrorMessage
}

// NewErrorTable creates a table from the key mapping and the message catalog.
// Code 0 is always present as "No Error".
func NewErrorTable(codes map[ErrorKey]int, messages map[int]ErrorMessage) *ErrorTable {
	t := &ErrorTable{
		codes:    make(map[ErrorKey]int, len(codes)),
		messages: make(map[int]ErrorMessage, len(messages)+1),
	}
	for k, v := range codes {
		t.codes[k] = v
	}
	for k, v := range messages {
		t.messages[k] = v
	}
	if _, ok := t.messages[0]; !ok {
		t.messages[0] = ErrorMessage{Short: "No Error", Detail: "No Error"}
	}
	return t
}

// Code returns the numeric code for key, falling back to the GENERAL code.
func (t *ErrorTable) Code(key ErrorKey) int {
	if c, ok := t.codes[key]; ok {
		return c
	}
	if c, ok := t.codes[KeyGeneral]; ok {
		return c
	}
	return 101
}

// Message returns the catalog entry for code.
func (t *ErrorTable) Message(code int) (ErrorMessage, bool) {
	m, ok := t.messages[code]
	return m, ok
}

// Lookup resolves a code given as a string, the way content passes it.
// Unknown or malformed codes resolve to empty messages.
func (t *ErrorTable) Lookup(code string) ErrorMessage {
	n, err := strconv.Atoi(code)
	if err != nil {
		return ErrorMessage{}
	}
	m, _ := t.Message(n)
	return m
}
