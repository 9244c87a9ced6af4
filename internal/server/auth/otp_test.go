package auth

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestRandomOtpGenerator_Format(t *testing.T) {
	g := NewRandomOtpGenerator(15*time.Minute, clockAt(t0))

	for i := 0; i < 500; i++ {
		otp, exp, err := g.Generate()
		require.NoError(t, err)
		require.Regexp(t, sixDigits, otp)
		require.Equal(t, t0.Add(15*time.Minute), exp)
	}
}

func TestRandomOtpGenerator_ZeroPads(t *testing.T) {
	g := NewRandomOtpGenerator(time.Minute, clockAt(t0))
	// A zero-filled source makes rand.Int return 0.
	g.rand = bytes.NewReader(make([]byte, 64))

	otp, _, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "000000", otp)
}

func TestRandomOtpGenerator_SourceFailure(t *testing.T) {
	g := NewRandomOtpGenerator(time.Minute, clockAt(t0))
	g.rand = iotest.ErrReader(errors.New("entropy exhausted"))

	_, _, err := g.Generate()
	assert.ErrorContains(t, err, "entropy exhausted")
}
