package utils

import (
  "os"
  "strconv"
  "time"
)

// Env helpers are pure lookups. Callers that want the resolved
// configuration on record log it once after loading, not per variable.

func GetEnv(key, defaultVal string) string {
  if val, ok := os.LookupEnv(key); ok {
    return val
  }
  return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
  valStr, ok := os.LookupEnv(key)
  if !ok {
    return defaultVal
  }
  i, err := strconv.Atoi(valStr)
  if err != nil {
    return defaultVal
  }
  return i
}

// GetEnvAsSeconds reads an integer seconds value into a time.Duration.
func GetEnvAsSeconds(key string, defaultSeconds int) time.Duration {
  return time.Duration(GetEnvAsInt(key, defaultSeconds)) * time.Second
}
