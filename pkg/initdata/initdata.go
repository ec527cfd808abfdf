// Package initdata validates the init data string that Telegram passes to
// Web Apps (https://core.telegram.org/bots/webapps#validating-data-received-via-the-mini-app).
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"
)

// webAppDataKey is the fixed key Telegram uses to derive the secret from the bot token.
const webAppDataKey = "WebAppData"

var (
	ErrEmpty       = errors.New("init data is empty")
	ErrMissingUser = errors.New("init data has no user field")
)

// User is the Telegram user embedded in init data
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Validate reports whether initData carries a hash produced with botToken.
// Any parse failure is reported as invalid.
func Validate(initData, botToken string) bool {
	if initData == "" {
		return false
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}

	hash := values.Get("hash")
	if hash == "" {
		return false
	}
	values.Del("hash")

	expected := Sign(values, botToken)
	return hmac.Equal([]byte(expected), []byte(hash))
}

// Sign computes the hex hash for values. A "hash" key, if present, is ignored.
func Sign(values url.Values, botToken string) string {
	secret := hmacSHA256([]byte(webAppDataKey), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secret, []byte(checkString(values))))
}

// checkString joins key=value pairs sorted by key with newlines.
func checkString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	return strings.Join(pairs, "\n")
}

// ParseUser extracts the user object from initData without checking its hash
func ParseUser(initData string) (*User, error) {
	if initData == "" {
		return nil, ErrEmpty
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, err
	}

	raw := values.Get("user")
	if raw == "" {
		return nil, ErrMissingUser
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
