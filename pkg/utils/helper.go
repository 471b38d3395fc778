package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseBoolPtr returns nil for an empty or unparsable value so that the
// caller can tell "no filter" apart from "false".
func ParseBoolPtr(value string) *bool {
	if value == "" {
		return nil
	}

	result, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &result
}

// StringPtr returns nil for blank values.
func StringPtr(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// GenerateTxRef creates a gateway transaction reference for a booking.
// Format: LODGR-YYYYMMDD-<first 8 of booking id>-<random>
func GenerateTxRef(bookingID string) string {
	datePart := time.Now().Format("20060102")
	prefix := strings.ReplaceAll(bookingID, "-", "")
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("LODGR-%s-%s-%s", datePart, prefix, random)
}
