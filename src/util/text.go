package util

import "strings"

// NormalizeSpace collapses whitespace runs to one space and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func NormalizeLower(s string) string {
	return strings.ToLower(NormalizeSpace(s))
}

func NormalizeUpper(s string) string {
	return strings.ToUpper(NormalizeSpace(s))
}

// NormalizeOptional lower-cases an optional field; blank input becomes nil.
func NormalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeLower(*s)
	if v == "" {
		return nil
	}
	return &v
}

// NormalizePhone drops common separators so "+1 (555) 010-9999" is stored
// as "+15550109999". Blank input becomes nil.
func NormalizePhone(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.', '\t':
			return -1
		}
		return r
	}, *s)
	if v == "" {
		return nil
	}
	return &v
}
