package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"saldoplus/config"
)

func newTestEmailService() *EmailService {
	return NewEmailService(&config.EmailConfig{})
}

func TestGenerateResetEmailBody(t *testing.T) {
	s := newTestEmailService()
	body := s.generateResetEmailBody("Maria", "https://example.com/reset?token=abc")
	assert.Contains(t, body, "Maria")
	assert.Contains(t, body, "https://example.com/reset?token=abc")
	assert.Contains(t, body, "Redefinir senha")
	assert.Contains(t, body, "30 minutos")
}

func TestSendPasswordResetEmail_Disabled(t *testing.T) {
	s := newTestEmailService()
	err := s.SendPasswordResetEmail("user@example.com", "Maria", "https://example.com/reset")
	assert.Error(t, err)
}
