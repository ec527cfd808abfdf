package model

import (
	"encoding/json"
	"testing"
)

func TestFlexStringAcceptsStringsAndNumbers(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"telegramId":"279058397","name":"Anna"}`, "279058397"},
		{`{"telegramId":279058397,"name":"Anna"}`, "279058397"},
		{`{"telegramId":null,"name":"Anna"}`, ""},
		{`{"name":"Anna"}`, ""},
	}

	for _, tt := range tests {
		var in CustomerInput
		if err := json.Unmarshal([]byte(tt.body), &in); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tt.body, err)
		}
		if in.TelegramID.String() != tt.want {
			t.Errorf("Unmarshal(%s): TelegramID = %q, want %q", tt.body, in.TelegramID, tt.want)
		}
	}
}

func TestFlexStringRejectsObjects(t *testing.T) {
	var in CustomerInput
	if err := json.Unmarshal([]byte(`{"telegramId":{"id":1}}`), &in); err == nil {
		t.Error("expected an error for an object id")
	}
}
