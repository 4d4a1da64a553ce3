package pointer

import "time"

// To returns a pointer to the provided value
func To[T any](value T) *T {
	return &value
}

// OrDefault returns the pointer if not nil, otherwise a pointer to the default value
func OrDefault[T any](value *T, defaultValue T) *T {
	if value != nil {
		return value
	}
	return &defaultValue
}

// IfValid returns a pointer to the value if it's valid, otherwise nil
func IfValid[T any](valid bool, value T) *T {
	if valid {
		return &value
	}
	return nil
}

// Copy returns a pointer that's a copy of the provided value
func Copy[T any](value *T) *T {
	if value == nil {
		return nil
	}

	return To(*value)
}

// String returns a pointer to the provided string value
func String(value string) *string {
	return To(value)
}

// StringCopy returns a pointer that's a copy of the provided value
func StringCopy(value *string) *string {
	return Copy(value)
}

// Time returns a pointer to the provided time value
func Time(value time.Time) *time.Time {
	return To(value)
}

// TimeIfValid returns a pointer to the value if it's valid, otherwise nil
func TimeIfValid(valid bool, value time.Time) *time.Time {
	return IfValid(valid, value)
}

// TimeCopy returns a pointer that's a copy of the provided value
func TimeCopy(value *time.Time) *time.Time {
	return Copy(value)
}
