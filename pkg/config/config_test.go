package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHAT_REPLY_DELAY", "")
	t.Setenv("CONTACT_SUBJECT_PREFIX", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 450*time.Millisecond, cfg.Chat.ReplyDelay)
	assert.Equal(t, 30*time.Minute, cfg.Chat.SessionTTL)
	assert.Equal(t, "Nuvana Contact: ", cfg.Contact.SubjectPrefix)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CHAT_REPLY_DELAY", "1s")
	t.Setenv("CHAT_SESSION_TTL", "not-a-duration")
	t.Setenv("KNOWLEDGE_FILE", "/etc/nuvana/knowledge.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Chat.ReplyDelay)
	assert.Equal(t, 30*time.Minute, cfg.Chat.SessionTTL, "invalid duration falls back to default")
	assert.Equal(t, "/etc/nuvana/knowledge.yaml", cfg.Knowledge.File)
}
