package utils

import (
	"log"
	"strings"
)

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// LogEvent prints one `[MODULE] action=... request_id=... msg=...` line.
// Messages often carry request paths or ids, so line breaks are flattened.
// Never pass tokens, passwords or API keys in message.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	if module == "" {
		module = "console"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, lineBreaks.Replace(message))
}
