package archive

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var monthShort = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// MonthName returns the Indonesian month name.
func MonthName(m time.Month) string {
	return monthNames[m-1]
}

func MonthShort(m time.Month) string {
	return monthShort[m-1]
}

// MonthFolder returns the storage folder for a month, e.g. "03-Maret".
func MonthFolder(t time.Time) string {
	return fmt.Sprintf("%02d-%s", int(t.Month()), MonthName(t.Month()))
}

// LongDate formats t as "05 Maret 2024".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), MonthName(t.Month()), t.Year())
}

// IsFutureDate compares calendar days only; d is taken as a plain date and
// today is the current instant already converted to the archive time zone.
func IsFutureDate(d, today time.Time) bool {
	dy, dm, dd := d.Date()
	ty, tm, td := today.Date()
	if dy != ty {
		return dy > ty
	}
	if dm != tm {
		return dm > tm
	}
	return dd > td
}

// ParseDate parses the ISO date used in forms and query strings.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
