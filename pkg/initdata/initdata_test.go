package initdata

import (
	"net/url"
	"strings"
	"testing"
)

const testToken = "123456:TEST-bot-token"

func signedInitData(t *testing.T) string {
	t.Helper()
	values := url.Values{}
	values.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	values.Set("user", `{"id":279058397,"first_name":"Anna","username":"anna_bakes","language_code":"ru"}`)
	values.Set("auth_date", "1700000000")
	values.Set("hash", Sign(values, testToken))
	return values.Encode()
}

func TestValidateAcceptsSignedData(t *testing.T) {
	if !Validate(signedInitData(t), testToken) {
		t.Fatal("Validate() = false for correctly signed data")
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	base := signedInitData(t)

	tests := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"changed field", func(v url.Values) { v.Set("auth_date", "1700000001") }},
		{"added field", func(v url.Values) { v.Set("chat_type", "private") }},
		{"removed field", func(v url.Values) { v.Del("query_id") }},
		{"changed hash", func(v url.Values) {
			h := []byte(v.Get("hash"))
			if h[0] == 'a' {
				h[0] = 'b'
			} else {
				h[0] = 'a'
			}
			v.Set("hash", string(h))
		}},
		{"missing hash", func(v url.Values) { v.Del("hash") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(base)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			tt.mutate(values)
			if Validate(values.Encode(), testToken) {
				t.Error("Validate() = true for tampered data")
			}
		})
	}
}

func TestValidateRejectsWrongToken(t *testing.T) {
	if Validate(signedInitData(t), "654321:other-token") {
		t.Error("Validate() = true with a different bot token")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "%zz", "hash=", "no-hash-at-all"} {
		if Validate(in, testToken) {
			t.Errorf("Validate(%q) = true", in)
		}
	}
}

func TestCheckStringSortsKeys(t *testing.T) {
	values := url.Values{}
	values.Set("b", "2")
	values.Set("a", "1")
	values.Set("hash", "ignored")

	if got, want := checkString(values), "a=1\nb=2"; got != want {
		t.Errorf("checkString() = %q, want %q", got, want)
	}
}

func TestParseUser(t *testing.T) {
	user, err := ParseUser(signedInitData(t))
	if err != nil {
		t.Fatalf("ParseUser() error = %v", err)
	}
	if user.ID != 279058397 || user.Username != "anna_bakes" {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := ParseUser("auth_date=1"); err != ErrMissingUser {
		t.Errorf("ParseUser without user: err = %v, want ErrMissingUser", err)
	}
	if _, err := ParseUser(""); err != ErrEmpty {
		t.Errorf("ParseUser(\"\"): err = %v, want ErrEmpty", err)
	}
	if _, err := ParseUser("user=" + url.QueryEscape("{not json")); err == nil || strings.Contains(err.Error(), "no user") {
		t.Errorf("ParseUser with bad JSON: err = %v", err)
	}
}
