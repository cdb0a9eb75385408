package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func Test_Credentials_Are_Redacted(t *testing.T) {
	req := require.New(t)
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("database_url", "postgres://u:p@db/ucoa").Info("connected", "jwt_secret", "s3cret", "chat_id", "c1")

	entries := logs.All()
	req.Len(entries, 1)
	fields := entries[0].ContextMap()
	req.Equal("[REDACTED]", fields["database_url"])
	req.Equal("[REDACTED]", fields["jwt_secret"])
	req.Equal("c1", fields["chat_id"])
}

func Test_New_Rejects_Unknown_Level(t *testing.T) {
	_, err := New("production", "loud")
	require.Error(t, err)

	l, err := New("development", "")
	require.NoError(t, err)
	require.NotNil(t, l.SugaredLogger)
}
