package handler

import (
	"strings"
	"testing"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"required uses json name", &registerRequest{Email: "a@x.com", Password: "p", ConfirmPassword: "p"}, "fullName is required"},
		{"email", &registerRequest{FullName: "Ann", Email: "nope", Password: "p", ConfirmPassword: "p"}, "email must be a valid email"},
		{"http url", &analyzeRequest{VideoURL: "ftp://x/y"}, "video_url must be an http or https URL"},
		{"max", &registerRequest{FullName: strings.Repeat("a", 201), Email: "a@x.com", Password: "p", ConfirmPassword: "p"}, "fullName must be at most 200 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.in)
			if err == nil || err.Error() != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}

	if err := v.Validate(&loginRequest{Email: "a@x.com", Password: "p"}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}
