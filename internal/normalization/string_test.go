package normalization

import "testing"

func TestParseInputString(t *testing.T) {
  cases := []struct {
    in   string
    want string
  }{
    {"  User@Example.COM ", "user@example.com"},
    {"", ""},
    {"  \t ", ""},
  }
  for _, tc := range cases {
    if got := ParseInputString(tc.in); got != tc.want {
      t.Errorf("ParseInputString(%q) = %q, want %q", tc.in, got, tc.want)
    }
  }
}

func TestParseName(t *testing.T) {
  cases := []struct {
    in   string
    want string
  }{
    {"  Intake   Form ", "Intake Form"},
    {"Already Fine", "Already Fine"},
    {"   ", ""},
    {"Tabs\tand\nnewlines", "Tabs and newlines"},
  }
  for _, tc := range cases {
    if got := ParseName(tc.in); got != tc.want {
      t.Errorf("ParseName(%q) = %q, want %q", tc.in, got, tc.want)
    }
  }
}
