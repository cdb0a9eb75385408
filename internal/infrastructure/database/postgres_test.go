package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_normalizeDSN(t *testing.T) {
	req := require.New(t)
	req.Equal("postgresql://u:p@db:5432/ucoa", normalizeDSN(" postgresql+asyncpg://u:p@db:5432/ucoa "))
	req.Equal("postgres://u:p@db/ucoa?sslmode=disable", normalizeDSN("postgres+pgx://u:p@db/ucoa?sslmode=disable"))
	req.Equal("postgres://db/ucoa", normalizeDSN("postgres://db/ucoa"))
	req.Empty(normalizeDSN("  "))
}
