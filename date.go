package gofat32

import (
	"time"
)

// ParseDate decodes a FAT date stamp:
//  Bits 0–4:  day of month, 1–31
//  Bits 5–8:  month of year, 1–12
//  Bits 9–15: years since 1980, 0–127
// The result always has the time 00:00:00 UTC.
//
// Day or month 0 is not a valid date, in this case time.Time{} is returned
// so that IsZero() can be used to detect it.
// A month bigger than 12 rolls over into the next year like time.Date does.
func ParseDate(input uint16) time.Time {
	day := input & 0x1F
	month := input & 0x1E0 >> 5
	year := input & 0xFE00 >> 9

	if day == 0 || month == 0 {
		return time.Time{}
	}

	return time.Date(1980+int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
}

// ParseTime decodes a FAT time stamp with a granularity of two seconds:
//  Bits 0–4:   seconds / 2, 0–29
//  Bits 5–10:  minutes, 0–59
//  Bits 11–15: hours, 0–23
// The result is on January 1, year 1 so that midnight IsZero().
// Out of range values are clamped to 23:59:59.
func ParseTime(input uint16) time.Time {
	seconds := int(input&0x1F) * 2
	minutes := input & 0x7E0 >> 5
	hours := input & 0xF800 >> 11

	result := time.Date(1, 1, 1, int(hours), int(minutes), seconds, 0, time.UTC)

	if result.Day() > 1 {
		return time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)
	}

	return result
}

// FormatDate encodes t as FAT date stamp.
// Dates before 1980 are stored as 1980-01-01 and after 2107 as 2107-12-31,
// the only representable range.
func FormatDate(t time.Time) uint16 {
	switch {
	case t.Year() < 1980:
		return 1<<5 | 1
	case t.Year() > 2107:
		return 127<<9 | 12<<5 | 31
	}

	return uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
}

// FormatTime encodes t as FAT time stamp. Odd seconds are rounded down.
func FormatTime(t time.Time) uint16 {
	hour, minute, sec := t.Clock()
	return uint16(hour)<<11 | uint16(minute)<<5 | uint16(sec/2)
}
