package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/pcfcalc/internal/cli"
	"github.com/greenledger/pcfcalc/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		require.NotNil(t, root)
		assert.Equal(t, "pcfcalc", root.Use)
	})
}

func TestExtractExitCode(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantExitCode int
	}{
		{
			name:         "nil error returns 0",
			err:          nil,
			wantExitCode: 0,
		},
		{
			name:         "ReconciliationExitError with exit code 2",
			err:          &cli.ReconciliationExitError{ExitCode: 2, Reason: "coverage incomplete"},
			wantExitCode: 2,
		},
		{
			name:         "wrapped ReconciliationExitError",
			err:          errors.Join(errors.New("outer"), &cli.ReconciliationExitError{ExitCode: 3, Reason: "wrapped"}),
			wantExitCode: 3,
		},
		{
			name:         "generic error falls through to 1",
			err:          errors.New("generic error"),
			wantExitCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantExitCode, extractExitCode(tt.err))
		})
	}
}
