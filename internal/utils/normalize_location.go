package utils

import "strings"

// NormalizeLocation collapses whitespace in a location string so that
// "Hostel A -  Room 101" and "hostel a - room 101" match the same prefix.
func NormalizeLocation(raw string) string {
	fields := strings.Fields(raw)
	return strings.ToLower(strings.Join(fields, " "))
}
