package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{Host: "smtp.mailtrap.io", Port: "2525", User: "u", Password: "p", From: "noreply@reviewdesk.test"}
}

func TestSend_DeliversRenderedMessage(t *testing.T) {
	m := New(testConfig())
	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		assert.Equal(t, "noreply@reviewdesk.test", from)
		return nil
	}

	err := m.Send(context.Background(), Message{To: "applicant@example.com", Subject: "Your application", Body: "<p>Thanks</p>"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.mailtrap.io:2525", gotAddr)
	assert.Equal(t, []string{"applicant@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Your application\r\n")
	assert.Contains(t, string(gotMsg), "Content-Type: text/html; charset=UTF-8")
}

func TestSend_Validation(t *testing.T) {
	m := New(testConfig())
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("should not send")
		return nil
	}

	cases := []Message{
		{To: "", Subject: "s", Body: "b"},
		{To: "a@b.co", Subject: "", Body: "b"},
		{To: "a@b.co", Subject: "hi\r\nBcc: victim@x.co", Body: "b"},
	}
	for _, msg := range cases {
		assert.Error(t, m.Send(context.Background(), msg))
	}

	noCreds := New(Config{Host: "h", Port: "25", From: "f@x.co"})
	assert.Error(t, noCreds.Send(context.Background(), Message{To: "a@b.co", Subject: "s"}))
}

func TestSend_WrapsTransportError(t *testing.T) {
	m := New(testConfig())
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("535 auth failed")
	}
	err := m.Send(context.Background(), Message{To: "a@b.co", Subject: "s", Body: "b"})
	assert.EqualError(t, err, "failed to send email: 535 auth failed")
}

func TestBuildMessage_PlainText(t *testing.T) {
	raw := string(buildMessage("f@x.co", Message{To: "a@b.co", Subject: "Reset", Body: "Click the link"}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, strings.HasPrefix(raw, "To: a@b.co\r\nFrom: f@x.co\r\n"))
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, raw, "Date: Sat, 01 Jun 2024 00:00:00 +0000")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nClick the link\r\n"))
}
