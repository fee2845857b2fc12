package gmailclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@example.org", "anna@example.com", "Accepted", "Hello Anna"))

	assert.Equal(t, "From: noreply@example.org\r\n"+
		"To: anna@example.com\r\n"+
		"Subject: Accepted\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n"+
		"\r\n"+
		"Hello Anna", msg)
}

func TestBuildMessage_EncodesSubjectAndOmitsEmptySender(t *testing.T) {
	msg := string(buildMessage("", "anna@example.com", "Уборка парка", "body"))

	assert.NotContains(t, msg, "From:")
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.NotContains(t, msg, "Уборка")
}
