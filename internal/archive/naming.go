package archive

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"arsip/internal/model"
)

// UploadRoot is the top-level prefix of every stored document.
const UploadRoot = "uploads"

const maxUniqueAttempts = 1000

var (
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Zs}-]`)
	separators  = regexp.MustCompile(`[-\s\p{Zs}]+`)
)

// CleanName strips everything but letters, digits and underscores while
// keeping the original case: "ATK & Alat Tulis" becomes "ATKAlatTulis".
func CleanName(s string) string {
	return separators.ReplaceAllString(unsafeChars.ReplaceAllString(s, ""), "")
}

// DocumentFilename names a non-SPD document after its category. Child
// categories use their display name, root categories their slug.
func DocumentFilename(cat model.Category, date time.Time) string {
	name := cat.Slug
	if cat.HasParent() {
		name = cat.Name
	}
	return fmt.Sprintf("%s_%s.pdf", CleanName(name), date.Format(time.DateOnly))
}

// SPDFilename names a travel order as SPD_{employee}_{destination}_{date}.pdf.
func SPDFilename(employee, destination string, date time.Time) string {
	return fmt.Sprintf("SPD_%s_%s_%s.pdf", CleanName(employee), CleanName(destination), date.Format(time.DateOnly))
}

// UploadDir is uploads/{category path}/{YYYY}/{MM-Bulan}.
func UploadDir(categoryPath string, date time.Time) string {
	return path.Join(UploadRoot, categoryPath, fmt.Sprintf("%04d", date.Year()), MonthFolder(date))
}

func UploadPath(categoryPath string, date time.Time, filename string) string {
	return path.Join(UploadDir(categoryPath, date), filename)
}

// SuffixedKey inserts _n before the extension.
func SuffixedKey(key string, n int) string {
	ext := path.Ext(key)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(key, ext), n, ext)
}

// ExistsFunc reports whether a storage key is taken.
type ExistsFunc func(ctx context.Context, key string) (bool, error)

// UniqueKey returns key, or the first free key_1, key_2, ... variant.
func UniqueKey(ctx context.Context, key string, exists ExistsFunc) (string, error) {
	candidate := key
	for n := 1; n <= maxUniqueAttempts; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = SuffixedKey(key, n)
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", key, maxUniqueAttempts)
}

// DisplayName is the human title of a document.
func DisplayName(doc *model.Document) string {
	date := LongDate(doc.DocumentDate)
	if doc.SPD != nil {
		return fmt.Sprintf("SPD - %s → %s (%s)", doc.SPD.EmployeeName, DestinationLabel(doc.SPD.Destination, doc.SPD.DestinationOther), date)
	}
	return fmt.Sprintf("%s - %s", doc.Category.Name, date)
}

var sizeUnits = [...]string{"B", "KB", "MB", "GB", "TB", "PB"}

// FormatFileSize renders a byte count with base-1024 units and two decimals.
func FormatFileSize(n int64) string {
	size := float64(n)
	for i, unit := range sizeUnits {
		if size < 1024 || i == len(sizeUnits)-1 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return ""
}
