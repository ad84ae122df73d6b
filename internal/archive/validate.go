package archive

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/h2non/filetype"
	"github.com/ledongthuc/pdf"
)

// DefaultMaxUploadBytes caps an uploaded PDF at 10 MB.
const DefaultMaxUploadBytes int64 = 10 << 20

const NIPLength = 18

var (
	ErrNotPDFExtension = errors.New("File harus berformat PDF")
	ErrInvalidPDF      = errors.New("File bukan PDF yang valid")
	ErrNIPNotNumeric   = errors.New("NIP harus berupa angka")
	ErrNIPLength       = fmt.Errorf("NIP harus %d digit", NIPLength)
	ErrFutureDate      = errors.New("Tanggal dokumen tidak boleh melebihi hari ini.")
	ErrFutureStartDate = errors.New("Tanggal mulai tidak boleh melebihi hari ini.")
	ErrFutureEndDate   = errors.New("Tanggal selesai tidak boleh melebihi hari ini.")
	ErrEndBeforeStart  = errors.New("Tanggal selesai harus setelah atau sama dengan tanggal mulai")
	ErrOtherRequired   = errors.New("Harap isi tujuan lainnya")
	ErrBadDestination  = errors.New("Tujuan tidak valid")
)

// FileTooLargeError is returned when an upload exceeds the size limit.
type FileTooLargeError struct {
	MaxBytes int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("Ukuran file maksimal %d MB", e.MaxBytes>>20)
}

// ValidatePDF checks extension, size and the %PDF signature, in that order.
// The reader is rewound before returning.
func ValidatePDF(name string, size int64, r io.ReadSeeker, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return ErrNotPDFExtension
	}
	if size > maxBytes {
		return &FileTooLargeError{MaxBytes: maxBytes}
	}

	head := make([]byte, 262)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	if !filetype.Is(head[:n], "pdf") {
		return ErrInvalidPDF
	}
	return nil
}

// PageCount parses the PDF cross-reference table and returns the page count.
func PageCount(r io.ReaderAt, size int64) (pages int, err error) {
	defer func() {
		if p := recover(); p != nil {
			pages, err = 0, ErrInvalidPDF
		}
	}()
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return 0, ErrInvalidPDF
	}
	return doc.NumPage(), nil
}

// NormalizeNIP strips spaces and hyphens and checks the 18-digit format.
func NormalizeNIP(raw string) (string, error) {
	nip := strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	for _, r := range nip {
		if r < '0' || r > '9' {
			return "", ErrNIPNotNumeric
		}
	}
	if len(nip) != NIPLength {
		return "", ErrNIPLength
	}
	return nip, nil
}
