package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

const (
	siteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	siteCodeLength   = 6
	maxCodeAttempts  = 20
)

// GenerateSiteCode produces a share code for a new site: 6 characters
// from [A-Z0-9], checked against existing sites and retried up to 20
// times on collision.
//
// On exhaustion it falls back to appending a short timestamp-derived
// suffix to the last candidate rather than blocking site creation
// indefinitely. The fallback is best-effort, not a hard uniqueness
// guarantee; it is logged as a warning so the weakened guarantee is
// observable.
func (s *Store) GenerateSiteCode(ctx context.Context) (string, error) {
	var candidate string
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomSiteCode()
		if err != nil {
			return "", fmt.Errorf("generate site code: %w", err)
		}
		candidate = code

		taken, err := s.siteCodeTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("generate site code: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	suffix := timestampSuffix(s.clock.Now().Unix())
	fallback := candidate + suffix
	s.log.WithFields(map[string]any{
		"attempts": maxCodeAttempts,
		"code":     fallback,
	}).WithError(codeExhausted(maxCodeAttempts)).Warn("site code generation exhausted, using timestamp-suffixed fallback")
	return fallback, nil
}

// codeExhausted tags the fallback event with its CODE_EXHAUSTED code so
// log scrapers can classify the weakened-uniqueness warning.
func codeExhausted(attempts int) *ledger.Error {
	return &ledger.Error{
		Code:    ledger.ErrCodeGenExhausted,
		Entity:  "site",
		Message: fmt.Sprintf("no unique code after %d attempts", attempts),
	}
}

// siteCodeTaken reports whether any site already holds the code.
func (s *Store) siteCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sites WHERE site_code = ?
	`, code).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check site code: %w", err)
	}
	return count > 0, nil
}

// randomSiteCode draws 6 uniform characters from the code alphabet.
func randomSiteCode() (string, error) {
	max := big.NewInt(int64(len(siteCodeAlphabet)))
	var b strings.Builder
	b.Grow(siteCodeLength)
	for i := 0; i < siteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b.WriteByte(siteCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// timestampSuffix renders the low bits of a unix timestamp in base 36,
// upper-cased so the fallback code stays within the code alphabet.
func timestampSuffix(unix int64) string {
	return strings.ToUpper(strconv.FormatInt(unix%(36*36*36), 36))
}
