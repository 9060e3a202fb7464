package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskmill/internal/dispatch"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	raw := buildMessage("noreply@example.com", dispatch.Message{
		To:      "priya@example.com",
		Subject: "Task due today: Monthly GST filing for Acme Corp",
		Body:    "The task is due today.\n\nReference: https://tasks.example.com/42",
	})
	text := string(raw)

	assert.True(t, strings.HasPrefix(text, "From: noreply@example.com\r\n"))
	assert.Contains(t, text, "To: priya@example.com\r\n")
	assert.Contains(t, text, "Subject: Task due today: Monthly GST filing for Acme Corp\r\n")
	assert.Contains(t, text, "Content-Type: text/plain; charset=UTF-8\r\n")

	// Headers and body are separated by a blank line, and body line endings
	// are normalized to CRLF.
	parts := strings.SplitN(text, "\r\n\r\n", 2)
	assert.Len(t, parts, 2)
	assert.Contains(t, parts[1], "due today.\r\n\r\nReference:")
	assert.NotContains(t, parts[1], "\n\n")
}
