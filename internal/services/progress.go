package services

import (
  "math"
  "strings"

  "github.com/structa/structa-backend/internal/types"
)

// isFilledValue is the single filled-ness predicate shared by the progress
// calculator and the section-level breakdown: nil and empty-string values
// both count as not filled.
func isFilledValue(value *string) bool {
  if value == nil {
    return false
  }
  return strings.TrimSpace(*value) != ""
}

// completionPercent maps filled/required counts to a 0-100 integer. A
// blueprint with no required fields is vacuously complete.
func completionPercent(filled, required int) int {
  if required <= 0 {
    return 100
  }
  return int(math.Round(100 * float64(filled) / float64(required)))
}

func progressStatus(percent int) string {
  if percent == 100 {
    return types.SessionStatusCompleted
  }
  return types.SessionStatusInProgress
}

// isCommittedValue reports whether a row contributes to progress: only
// reviewed rows count, so suggestions awaiting review never advance a
// session no matter which code path recomputes it.
func isCommittedValue(row *types.SessionFieldValue) bool {
  return row != nil && row.Reviewed && isFilledValue(row.Value)
}

// countFilledRequired applies the committed-value predicate to the required
// fields of a blueprint given the session's value rows keyed by field id.
func countFilledRequired(requiredFields []*types.Field, valuesByField map[string]*types.SessionFieldValue) int {
  filled := 0
  for _, field := range requiredFields {
    if isCommittedValue(valuesByField[field.ID.String()]) {
      filled++
    }
  }
  return filled
}
