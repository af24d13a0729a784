package handler

import (
	"encoding/json"
	"strings"
)

// sanitizeSSE keeps payloads on a single data line; bare newlines
// would terminate the event early.
func sanitizeSSE(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "\\n")
}

func marshalSSE(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return sanitizeSSE(string(raw)), nil
}
