package validate

import (
	"regexp"
	"strings"
)

// minPasswordScore is how many of the seven checks a master password must
// pass before the signup flow accepts it.
const minPasswordScore = 6

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`\d`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
	commonRe = regexp.MustCompile(`(?i)password|123456|qwerty|admin|letmein|welcome`)
)

// PasswordChecks records the outcome of each individual strength check.
type PasswordChecks struct {
	Length   bool // at least 12 characters
	Upper    bool
	Lower    bool
	Digit    bool
	Symbol   bool
	NoCommon bool // no well-known password substring
	NoRepeat bool // no run of 3+ identical characters
}

// PasswordStrength is the aggregate scoring result for a master password.
type PasswordStrength struct {
	Checks PasswordChecks
	Score  int
	Valid  bool
}

// Label maps the score to the strength wording shown next to the meter.
func (p PasswordStrength) Label() string {
	labels := []string{"No Password", "Very Weak", "Weak", "Fair", "Good", "Strong", "Very Strong", "Excellent"}
	if p.Score < 0 {
		return labels[0]
	}
	if p.Score >= len(labels) {
		return labels[len(labels)-1]
	}
	return labels[p.Score]
}

// hasRepeatRun reports whether s contains three or more identical
// consecutive characters.
func hasRepeatRun(s string) bool {
	run := 1
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}
	return false
}

// ScorePassword evaluates the master password against seven weighted checks
// and returns the per-check outcomes, the 0–7 score, and whether the
// password clears the signup threshold (score >= 6).
func ScorePassword(password string) PasswordStrength {
	checks := PasswordChecks{
		Length:   len(password) >= 12,
		Upper:    upperRe.MatchString(password),
		Lower:    lowerRe.MatchString(password),
		Digit:    digitRe.MatchString(password),
		Symbol:   symbolRe.MatchString(password),
		NoCommon: !commonRe.MatchString(password),
		NoRepeat: password != "" && !hasRepeatRun(password),
	}

	score := 0
	for _, ok := range []bool{checks.Length, checks.Upper, checks.Lower, checks.Digit, checks.Symbol, checks.NoCommon, checks.NoRepeat} {
		if ok {
			score++
		}
	}

	return PasswordStrength{Checks: checks, Score: score, Valid: score >= minPasswordScore}
}

// ConfirmMatches reports whether the confirmation equals the password and is
// non-empty.
func ConfirmMatches(password, confirm string) bool {
	return confirm != "" && strings.Compare(password, confirm) == 0
}
