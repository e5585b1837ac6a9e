package normalize

import "testing"

func TestEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Admin@Example.COM ", "admin@example.com"},
		{"user@test.com", "user@test.com"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Email(c.in); got != c.want {
			t.Errorf("Email(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  María   García ", "María García"},
		{"Acme\t\nCorp", "Acme Corp"},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := Name(c.in); got != c.want {
			t.Errorf("Name(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}
