package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "valid jsonl config",
			config: Config{Backend: BackendJSONL, DataDir: "/tmp/notes"},
		},
		{
			name:   "valid sqlite config",
			config: Config{Backend: BackendSQLite},
		},
		{
			name:    "empty backend rejected",
			config:  Config{},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend rejected",
			config:  Config{Backend: "postgres"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "negative notice TTL rejected",
			config:  Config{Backend: BackendJSONL, NoticeTTL: -time.Second},
			wantErr: ErrNoticeTTLInvalid,
		},
		{
			name:    "negative organizer timeout rejected",
			config:  Config{Backend: BackendJSONL, Organizer: OrganizerConfig{Timeout: -time.Second}},
			wantErr: ErrTimeoutInvalid,
		},
		{
			name: "organizer endpoint optional at config time",
			config: Config{
				Backend:   BackendJSONL,
				Organizer: OrganizerConfig{Timeout: 30 * time.Second},
				NoticeTTL: DefaultNoticeTTL,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
