package dto

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spec-kit/ticket-tracker/internal/validation"
)

// AuthForm is the signup and login form payload. Name is ignored on login.
type AuthForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DecodeAuthForm reads a single AuthForm. Unknown fields are rejected.
func DecodeAuthForm(r io.Reader) (AuthForm, error) {
	var form AuthForm
	if err := decodeStrict(r, &form); err != nil {
		return AuthForm{}, fmt.Errorf("decode auth form: %w", err)
	}
	return form, nil
}

// Input converts the form for validation.
func (f AuthForm) Input() validation.AuthInput {
	return validation.AuthInput{
		Name:     f.Name,
		Email:    f.Email,
		Password: f.Password,
	}
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after form")
	}
	return nil
}
