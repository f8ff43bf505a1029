package auth

import "testing"

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name     string
		creds    credentials
		needName bool
		wantMsg  string
	}{
		{
			name:    "missing email",
			creds:   credentials{Password: "long enough"},
			wantMsg: "email is required",
		},
		{
			name:    "email without at sign",
			creds:   credentials{Email: "not-an-address", Password: "long enough"},
			wantMsg: "email is not valid",
		},
		{
			name:    "short password",
			creds:   credentials{Email: "a@b.dev", Password: "short"},
			wantMsg: "password must be at least 8 characters",
		},
		{
			name:     "missing display name on register",
			creds:    credentials{Email: "a@b.dev", Password: "long enough"},
			needName: true,
			wantMsg:  "displayName is required",
		},
		{
			name:  "login needs no display name",
			creds: credentials{Email: "a@b.dev", Password: "long enough"},
		},
		{
			name:     "valid register",
			creds:    credentials{Email: "a@b.dev", Password: "long enough", DisplayName: "Ada"},
			needName: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.validate(tt.needName); got != tt.wantMsg {
				t.Errorf("validate() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestCredentialsValidateNormalizes(t *testing.T) {
	c := credentials{Email: "  Ada@Example.COM ", Password: "long enough", DisplayName: "  Ada  "}
	if msg := c.validate(true); msg != "" {
		t.Fatalf("validate() = %q", msg)
	}
	if c.Email != "ada@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", c.Email)
	}
	if c.DisplayName != "Ada" {
		t.Errorf("displayName = %q, want trimmed", c.DisplayName)
	}
}
