package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	maxInitDataAge  = time.Hour
	maxClockSkew    = 5 * time.Minute
	MaxInitDataSize = 4096
)

// WebAppUser is the "user" field of Telegram WebApp init data.
type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName joins first and last name.
func (u WebAppUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ValidateInitData verifies the init_data HMAC and rejects auth_date values
// older than an hour.
func ValidateInitData(initData, botToken string, now time.Time) (url.Values, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, false
	}
	values.Del("hash")

	var dataCheck []string
	for k, v := range values {
		dataCheck = append(dataCheck, k+"="+strings.Join(v, ""))
	}
	sort.Strings(dataCheck)

	provided, err := hex.DecodeString(hash)
	if err != nil {
		return nil, false
	}
	if !hmac.Equal(signInitData(botToken, strings.Join(dataCheck, "\n")), provided) {
		return nil, false
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, false
	}
	age := now.Sub(time.Unix(authDate, 0))
	if age > maxInitDataAge || -age > maxClockSkew {
		return nil, false
	}

	return values, true
}

func signInitData(botToken, dataString string) []byte {
	secret := sha256.Sum256([]byte(botToken))
	h := hmac.New(sha256.New, secret[:])
	h.Write([]byte(dataString))
	return h.Sum(nil)
}

// ParseUser decodes the user JSON from validated init data values.
func ParseUser(values url.Values) (*WebAppUser, error) {
	raw := values.Get("user")
	if raw == "" {
		return nil, errors.New("user not found")
	}
	var user WebAppUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	if user.ID <= 0 {
		return nil, errors.New("user id missing")
	}
	return &user, nil
}
