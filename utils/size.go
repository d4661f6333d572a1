package utils

import "strings"

// NormalizeSize normalizes garment size values to standard format
// Extra Large -> XL, Double XL/XXL -> 2XL
// This function is exported so it can be used by other packages
func NormalizeSize(size string) string {
	sizeUpper := strings.ToUpper(strings.TrimSpace(size))

	// Normalize size aliases
	if sizeUpper == "EXTRA SMALL" {
		return "XS"
	}
	if sizeUpper == "SMALL" {
		return "S"
	}
	if sizeUpper == "MEDIUM" {
		return "M"
	}
	if sizeUpper == "LARGE" {
		return "L"
	}
	if sizeUpper == "EXTRA LARGE" {
		return "XL"
	}
	if sizeUpper == "XXL" || sizeUpper == "DOUBLE XL" {
		return "2XL"
	}

	return sizeUpper
}
