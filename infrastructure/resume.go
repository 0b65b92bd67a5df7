package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nguyenthenguyen/docx"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"itcommunity/domain"
)

const (
	MimePDF  = "application/pdf"
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	xmlTag          = regexp.MustCompile(`<[^>]+>`)
	spaceRun        = regexp.MustCompile(`[ \t]+`)
)

// ConfigureUnidoc installs the metered license key used by the PDF extractor.
func ConfigureUnidoc(key string) error {
	if key == "" {
		return nil
	}
	return license.SetMeteredKey(key)
}

// StoredFile describes a resume handed to the blob store.
type StoredFile struct {
	Name     string
	Key      string
	URL      string
	MimeType string
	Size     int64
	Data     []byte
}

// BlobStore persists an object under key and returns the URL it is served from.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// LocalBlobStore writes objects below dir; they are served under baseURL.
type LocalBlobStore struct {
	dir     string
	baseURL string
}

func NewLocalBlobStore(dir, baseURL string) *LocalBlobStore {
	return &LocalBlobStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalBlobStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// ResumeStore validates resume uploads and keeps them under resumes/.
type ResumeStore struct {
	blobs   BlobStore
	maxSize int64
}

func NewResumeStore(blobs BlobStore, maxSize int64) *ResumeStore {
	return &ResumeStore{blobs: blobs, maxSize: maxSize}
}

// Save checks size and content type, then stores the file as
// resumes/{unixMillis}-{userID}-{sanitizedName}.
func (s *ResumeStore) Save(ctx context.Context, userID uint, header *multipart.FileHeader, now time.Time) (*StoredFile, error) {
	if header.Size > s.maxSize {
		return nil, domain.NewBadRequestError("resume must be at most %d bytes", s.maxSize)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, domain.NewBadRequestError("resume must be at most %d bytes", s.maxSize)
	}

	mime := DetectResumeMime(data, header.Filename)
	if mime == "" {
		return nil, domain.NewBadRequestError("only PDF and Word documents are accepted")
	}

	name := fmt.Sprintf("%d-%d-%s", now.UnixMilli(), userID, SanitizeFileName(header.Filename))
	key := "resumes/" + name
	url, err := s.blobs.Put(ctx, key, data, mime)
	if err != nil {
		return nil, err
	}

	return &StoredFile{Name: name, Key: key, URL: url, MimeType: mime, Size: int64(len(data)), Data: data}, nil
}

// DetectResumeMime sniffs the content and returns one of the accepted resume
// types, or "" when the content is anything else.
func DetectResumeMime(data []byte, filename string) string {
	detected := mimetype.Detect(data)
	switch {
	case detected.Is(MimePDF):
		return MimePDF
	case detected.Is(MimeDocx):
		return MimeDocx
	case detected.Is(MimeDoc):
		return MimeDoc
	case detected.Is("application/x-ole-storage") && strings.EqualFold(filepath.Ext(filename), ".doc"):
		return MimeDoc
	}
	return ""
}

// SanitizeFileName keeps the base name and replaces anything outside [A-Za-z0-9._-].
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "._")
	if clean == "" {
		return "resume"
	}
	return clean
}

// ExtractText pulls plain text out of PDF and DOCX resumes. Legacy .doc files
// yield no text.
func ExtractText(data []byte, mime string) (string, error) {
	switch mime {
	case MimePDF:
		return extractTextFromPDF(data)
	case MimeDocx:
		return extractTextFromDocx(data)
	}
	return "", nil
}

func extractTextFromPDF(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		text, err := ex.ExtractText()
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	result := strings.TrimSpace(b.String())
	if result == "" {
		return "", fmt.Errorf("no text could be extracted from any page of the PDF")
	}
	return result, nil
}

func extractTextFromDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer doc.Close()

	content := strings.ReplaceAll(doc.Editable().GetContent(), "</w:p>", "\n")
	text := spaceRun.ReplaceAllString(xmlTag.ReplaceAllString(content, " "), " ")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}
