package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name: "valid context",
			ctx:  context.Background(),
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, validateString("tally.db", "dbPath"))
	assert.ErrorIs(t, validateString("   ", "dbPath"), ErrEmptyString)
}

func TestValidateSession(t *testing.T) {
	tests := []struct {
		name    string
		sess    model.Session
		wantErr bool
	}{
		{"complete", model.Session{Date: "2025-03-14", StationName: "Glenorchy"}, false},
		{"blank station", model.Session{Date: "2025-03-14", StationName: "  "}, true},
		{"no date", model.Session{StationName: "Glenorchy"}, true},
		{"unparseable date", model.Session{Date: "March 14", StationName: "Glenorchy"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSession(tt.sess)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidSession)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, validateKey(model.NewSessionKey("2025-03-14", "Glenorchy")))
	assert.ErrorIs(t, validateKey(model.NewSessionKey("2025-03-14", "")), common.ErrInvalidSession)
}
