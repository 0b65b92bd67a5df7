package infrastructure

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itcommunity/domain"
)

// minimalPDF is enough of a PDF header for content sniffing.
var minimalPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))
	return req.MultipartForm.File["resume"][0]
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"My Resume (final).pdf": "My_Resume_final_.pdf",
		"../../etc/passwd":      "passwd",
		`C:\Users\me\cv.docx`:   "cv.docx",
		"...":                   "resume",
		"résumé.pdf":            "r_sum_.pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFileName(in), in)
	}
}

func TestDetectResumeMime(t *testing.T) {
	assert.Equal(t, MimePDF, DetectResumeMime(minimalPDF, "cv.pdf"))
	assert.Equal(t, "", DetectResumeMime([]byte("just some text"), "cv.pdf"))
	assert.Equal(t, "", DetectResumeMime([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, "cv.png"))
}

func TestResumeStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewResumeStore(NewLocalBlobStore(dir, "/uploads/"), 5<<20)
	now := time.UnixMilli(1700000000123)

	stored, err := store.Save(context.Background(), 42, fileHeader(t, "My CV.pdf", minimalPDF), now)
	require.NoError(t, err)

	assert.Equal(t, "1700000000123-42-My_CV.pdf", stored.Name)
	assert.Equal(t, "resumes/1700000000123-42-My_CV.pdf", stored.Key)
	assert.Equal(t, "/uploads/resumes/1700000000123-42-My_CV.pdf", stored.URL)
	assert.Equal(t, MimePDF, stored.MimeType)
	assert.Equal(t, int64(len(minimalPDF)), stored.Size)

	onDisk, err := os.ReadFile(filepath.Join(dir, "resumes", stored.Name))
	require.NoError(t, err)
	assert.Equal(t, minimalPDF, onDisk)
}

func TestResumeStoreRejectsOversizedAndWrongType(t *testing.T) {
	ctx := context.Background()
	store := NewResumeStore(NewLocalBlobStore(t.TempDir(), "/uploads"), 16)

	_, err := store.Save(ctx, 1, fileHeader(t, "cv.pdf", minimalPDF), time.Now())
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))

	store = NewResumeStore(NewLocalBlobStore(t.TempDir(), "/uploads"), 5<<20)
	_, err = store.Save(ctx, 1, fileHeader(t, "cv.txt", []byte("plain text resume")), time.Now())
	assert.True(t, domain.IsKind(err, domain.KindBadRequest))
}

func TestExtractTextIgnoresLegacyDoc(t *testing.T) {
	text, err := ExtractText([]byte{0xD0, 0xCF, 0x11, 0xE0}, MimeDoc)
	require.NoError(t, err)
	assert.Empty(t, text)
}
