// Package inbox decides whether an inbound free-text message opts into
// task creation. The marker convention ("#todo" / "#to-do" anywhere in the
// text) lets a single generic message channel double as a task-creation
// surface without a dedicated command syntax.
package inbox

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nhle/taskflow/internal/model"
)

// triggerPattern matches the trigger marker as a whole word, hyphen
// optional, so "#todoist" does not trigger.
var triggerPattern = regexp.MustCompile(`(?i)#to-?do\b`)

// ParseResult is the outcome of inspecting one inbound message.
type ParseResult struct {
	// Owner is the resolved task owner (override wins over sender).
	Owner string

	// Triggered reports whether the message contained the marker.
	Triggered bool

	// Title is the message text with all marker occurrences removed and
	// trimmed. Only meaningful when Triggered is true.
	Title string

	// Reason explains a non-triggered outcome in human-readable form.
	Reason string
}

// Parse validates an inbound message and extracts the candidate task title.
// A message with no resolvable owner or no content is a client error, not a
// "not triggered" outcome; errors returned here are always input errors.
func Parse(msg model.InboundMessage) (ParseResult, error) {
	owner := strings.TrimSpace(msg.OwnerOverride)
	if owner == "" {
		owner = strings.TrimSpace(msg.Sender)
	}
	text := strings.TrimSpace(msg.Text)

	if owner == "" || text == "" {
		return ParseResult{}, fmt.Errorf("user_identifier (or from) and message are required")
	}

	if !triggerPattern.MatchString(text) {
		return ParseResult{
			Owner:     owner,
			Triggered: false,
			Reason:    "message did not include #to-do / #todo",
		}, nil
	}

	// Remove every occurrence, not just the first, so a repeated marker
	// never leaks into the stored title.
	title := strings.TrimSpace(triggerPattern.ReplaceAllString(text, ""))
	if title == "" {
		return ParseResult{}, fmt.Errorf("message contained trigger but title is empty")
	}

	return ParseResult{
		Owner:     owner,
		Triggered: true,
		Title:     title,
	}, nil
}
