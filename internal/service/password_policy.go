package service

import (
	"github.com/artmart-next/internal/config"
)

const minPasswordLength = 8

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	minLength := policy.MinLength
	if minLength < minPasswordLength {
		minLength = minPasswordLength
	}
	if len([]rune(password)) < minLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{minLength}}
	}
	return nil
}
