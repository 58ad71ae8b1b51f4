package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	usernameMaxLen   = 8
	passwordLength   = 12
	lowerChars       = "abcdefghijklmnopqrstuvwxyz"
	upperChars       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars       = "0123456789"
	passwordAlphabet = lowerChars + upperChars + digitChars
)

// deriveUsername builds a panel username candidate from a domain: lowercase
// alphanumerics only, must start with a letter, at most 8 characters.
func deriveUsername(domain string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(domain) {
		if b.Len() >= usernameMaxLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			// panel usernames cannot start with a digit
			if b.Len() > 0 {
				b.WriteRune(r)
			}
		}
	}
	if b.Len() == 0 {
		return "host"
	}
	return b.String()
}

// suffixUsername disambiguates a taken candidate with a two-digit counter,
// trimming the base so the result stays within the length limit.
func suffixUsername(base string, n int) string {
	suffix := fmt.Sprintf("%02d", n)
	if len(base)+len(suffix) > usernameMaxLen {
		base = base[:usernameMaxLen-len(suffix)]
	}
	return base + suffix
}

// generatePassword returns a random password meeting the panel's complexity
// rules: at least one lowercase, one uppercase and one digit.
func generatePassword() (string, error) {
	chars := make([]byte, 0, passwordLength)

	for _, class := range []string{lowerChars, upperChars, digitChars} {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < passwordLength {
		c, err := randomChar(passwordAlphabet)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// shuffle so the guaranteed classes are not positionally predictable
	for i := len(chars) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars), nil
}

func randomChar(class string) (byte, error) {
	idx, err := randomIndex(len(class))
	if err != nil {
		return 0, err
	}
	return class[idx], nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
