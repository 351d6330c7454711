package utils

import (
  "testing"
  "time"
)

func TestGetEnv(t *testing.T) {
  t.Run("unset uses default", func(t *testing.T) {
    if got := GetEnv("STRUCTA_TEST_UNSET", "fallback"); got != "fallback" {
      t.Errorf("GetEnv = %q, want fallback", got)
    }
  })
  t.Run("set wins", func(t *testing.T) {
    t.Setenv("STRUCTA_TEST_SET", "value")
    if got := GetEnv("STRUCTA_TEST_SET", "fallback"); got != "value" {
      t.Errorf("GetEnv = %q, want value", got)
    }
  })
  t.Run("empty set value wins over default", func(t *testing.T) {
    t.Setenv("STRUCTA_TEST_EMPTY", "")
    if got := GetEnv("STRUCTA_TEST_EMPTY", "fallback"); got != "" {
      t.Errorf("GetEnv = %q, want empty", got)
    }
  })
}

func TestGetEnvAsInt(t *testing.T) {
  t.Run("parses integer", func(t *testing.T) {
    t.Setenv("STRUCTA_TEST_INT", "42")
    if got := GetEnvAsInt("STRUCTA_TEST_INT", 7); got != 42 {
      t.Errorf("GetEnvAsInt = %d, want 42", got)
    }
  })
  t.Run("garbage falls back", func(t *testing.T) {
    t.Setenv("STRUCTA_TEST_INT", "not a number")
    if got := GetEnvAsInt("STRUCTA_TEST_INT", 7); got != 7 {
      t.Errorf("GetEnvAsInt = %d, want 7", got)
    }
  })
}

func TestGetEnvAsSeconds(t *testing.T) {
  t.Setenv("STRUCTA_TEST_TTL", "90")
  if got := GetEnvAsSeconds("STRUCTA_TEST_TTL", 10); got != 90*time.Second {
    t.Errorf("GetEnvAsSeconds = %v, want 90s", got)
  }
  if got := GetEnvAsSeconds("STRUCTA_TEST_TTL_UNSET", 10); got != 10*time.Second {
    t.Errorf("GetEnvAsSeconds default = %v, want 10s", got)
  }
}
