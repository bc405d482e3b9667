package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepareURLForDB(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain", "postgresql://u:p@db/rsm", "postgresql://u:p@db/rsm?sslmode=disable"},
		{"other options", "postgresql://db/rsm?x=1", "postgresql://db/rsm?x=1&sslmode=disable"},
		{"keep sslmode", "postgresql://db/rsm?sslmode=require", "postgresql://db/rsm?sslmode=require"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prepareURLForDB(tt.url))
		})
	}
}
