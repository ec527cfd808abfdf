package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Customer is a mini-app user registered by Telegram identity
type Customer struct {
	ID               string `json:"id"`
	TelegramID       string `json:"telegramId"`
	Name             string `json:"name"`
	Username         string `json:"username"`
	Phone            string `json:"phone"`
	RegistrationDate string `json:"registrationDate"`
	LastActivity     string `json:"lastActivity"`
}

// CustomerInput carries the client-supplied customer fields
type CustomerInput struct {
	TelegramID FlexString `json:"telegramId"`
	Name       string     `json:"name"`
	Username   string     `json:"username"`
	Phone      string     `json:"phone"`
}

// DeliveryResult is the outcome of one broadcast send
type DeliveryResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// FlexString decodes from either a JSON string or a JSON number.
// Telegram Web Apps expose user ids as numbers while the sheets store text.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
