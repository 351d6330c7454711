package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	cases := []struct {
		name string
		in   []interface{}
		want []interface{}
	}{
		{
			name: "password redacted",
			in:   []interface{}{"password", "hunter2", "email", "a@b.c"},
			want: []interface{}{"password", "[REDACTED]", "email", "a@b.c"},
		},
		{
			name: "case and padding insensitive",
			in:   []interface{}{" Refresh_Token ", "abc"},
			want: []interface{}{" Refresh_Token ", "[REDACTED]"},
		},
		{
			name: "dangling key kept",
			in:   []interface{}{"token", "x", "orphan"},
			want: []interface{}{"token", "[REDACTED]", "orphan"},
		},
		{
			name: "empty passthrough",
			in:   nil,
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeKVs(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("kv[%d] = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
