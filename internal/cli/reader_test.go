package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonBlockingReader_ReadLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantEOF bool
	}{
		{name: "answer", input: "y\n", want: []string{"y"}, wantEOF: true},
		{name: "padded answer", input: "  yes \r\n", want: []string{"yes"}, wantEOF: true},
		{name: "blank answer", input: "\n", want: []string{""}, wantEOF: true},
		{name: "piped without newline", input: "y", want: []string{"y"}, wantEOF: true},
		{name: "several answers", input: "maybe\nn", want: []string{"maybe", "n"}, wantEOF: true},
		{name: "no input", input: "", wantEOF: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nbr := NewNonBlockingReader(strings.NewReader(tt.input))
			ctx := context.Background()

			for _, want := range tt.want {
				got, err := nbr.ReadLine(ctx)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
			if tt.wantEOF {
				_, err := nbr.ReadLine(ctx)
				assert.ErrorIs(t, err, io.EOF)
			}
		})
	}
}

func TestNonBlockingReader_Cancellation(t *testing.T) {
	t.Run("already canceled does not consume input", func(t *testing.T) {
		nbr := NewNonBlockingReader(strings.NewReader("y\n"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := nbr.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)

		got, err := nbr.ReadLine(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "y", got)
	})

	t.Run("canceled while waiting", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pr.Close() }()
		defer func() { _ = pw.Close() }()

		nbr := NewNonBlockingReader(pr)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := nbr.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})
}

func TestNewNonBlockingReader_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewNonBlockingReader(nil) })
}
