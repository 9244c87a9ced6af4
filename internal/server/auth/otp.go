package auth

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/weynak/weynak/internal/timex"
)

// OtpLength is the number of decimal digits in a reset code.
const OtpLength = 6

var otpSpace = big.NewInt(1_000_000)

// OtpGenerator produces a reset code together with its expiry.
type OtpGenerator interface {
	Generate() (otp string, expiresAt time.Time, err error)
}

// RandomOtpGenerator draws codes uniformly from 000000..999999.
type RandomOtpGenerator struct {
	rand     io.Reader
	now      timex.Clock
	validity time.Duration
}

func NewRandomOtpGenerator(validity time.Duration, now timex.Clock) *RandomOtpGenerator {
	if now == nil {
		now = timex.SystemClock
	}
	return &RandomOtpGenerator{rand: rand.Reader, now: now, validity: validity}
}

func (g *RandomOtpGenerator) Generate() (string, time.Time, error) {
	n, err := rand.Int(g.rand, otpSpace)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OtpLength, n.Int64()), g.now().Add(g.validity), nil
}
