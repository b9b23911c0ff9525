package service

import (
	"context"
	"strings"
	"testing"

	"prepareup-be/internal/constant"
	"prepareup-be/internal/repository/memory"
	"prepareup-be/pkg/extractor"
	"prepareup-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func newUploadService(pub *capturePublisher) (IUploadService, *memory.CorpusRepository) {
	repo := memory.NewCorpusRepository()
	svc := NewUploadService(repo, pub, nil, nopLogger{})
	return svc, repo
}

func TestUploadRejectsEmptyBatch(t *testing.T) {
	svc, _ := newUploadService(&capturePublisher{})

	_, err := svc.Upload(context.Background(), nil, nil)
	assert.Error(t, err)
	fe, ok := err.(*fiber.Error)
	assert.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestUploadRejectsTooManyFiles(t *testing.T) {
	svc, _ := newUploadService(&capturePublisher{})

	files := make([]UploadInput, constant.MaxFiles+1)
	for i := range files {
		files[i] = UploadInput{Name: "n.txt", Mime: "text/plain", Data: []byte("x")}
	}

	_, err := svc.Upload(context.Background(), nil, files)
	fe, ok := err.(*fiber.Error)
	assert.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, _ := newUploadService(&capturePublisher{})

	big := make([]byte, constant.MaxBytesPerFile+1)
	_, err := svc.Upload(context.Background(), nil, []UploadInput{
		{Name: "big.txt", Mime: "text/plain", Data: big},
	})
	fe, ok := err.(*fiber.Error)
	assert.True(t, ok)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, fe.Code)
}

func TestUploadCombinesTextAndStoresCorpus(t *testing.T) {
	pub := &capturePublisher{}
	svc, repo := newUploadService(pub)

	res, err := svc.Upload(context.Background(), nil, []UploadInput{
		{Name: "a.txt", Mime: "text/plain", Data: []byte("alpha body")},
		{Name: "b.md", Mime: "text/markdown", Data: []byte("beta body")},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.SessionId)
	assert.Len(t, res.Files, 2)
	assert.Equal(t, extractor.StatusExtracted, res.Files[0].Status)
	assert.Equal(t, int(store.CorpusTTL.Seconds()), res.TTLSeconds)

	corpus, ok := repo.Get(res.SessionId)
	assert.True(t, ok)
	assert.Contains(t, corpus.Text, "--- a.txt ---\nalpha body")
	assert.Contains(t, corpus.Text, "--- b.md ---\nbeta body")
	assert.Contains(t, corpus.Text, "\n\n")

	// Persistence goes through the bus, one message per batch.
	assert.Len(t, pub.messages, 1)
	assert.Len(t, pub.messages[0].Documents, 2)
}

func TestUploadEmptyFileKeepsMetadataWithoutText(t *testing.T) {
	svc, _ := newUploadService(&capturePublisher{})

	res, err := svc.Upload(context.Background(), nil, []UploadInput{
		{Name: "real.txt", Mime: "text/plain", Data: []byte("content")},
		{Name: "empty.txt", Mime: "text/plain", Data: nil},
	})
	assert.NoError(t, err)
	assert.Len(t, res.Files, 2)
	assert.Equal(t, extractor.StatusUploadedOnly, res.Files[1].Status)
	assert.Equal(t, int64(0), res.Files[1].Size)
}

func TestUploadFailsWhenNothingExtractable(t *testing.T) {
	svc, _ := newUploadService(&capturePublisher{})

	// Unknown binary: accepted per-file but the batch yields no text and
	// nothing awaiting OCR.
	_, err := svc.Upload(context.Background(), nil, []UploadInput{
		{Name: "blob.bin", Mime: "application/octet-stream", Data: []byte{0x00, 0x01, 0x02}},
	})
	fe, ok := err.(*fiber.Error)
	assert.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestUploadImageOnlyBatchSucceedsAwaitingOCR(t *testing.T) {
	svc, repo := newUploadService(&capturePublisher{})

	// Screenshots carry no text layer; the batch must still go through so
	// OCR can fill the corpus in later.
	res, err := svc.Upload(context.Background(), nil, []UploadInput{
		{Name: "screenshot.png", Mime: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47}},
	})
	assert.NoError(t, err)
	assert.Equal(t, extractor.StatusNeedsOCR, res.Files[0].Status)

	corpus, ok := repo.Get(res.SessionId)
	assert.True(t, ok)
	assert.Empty(t, corpus.Text)
	assert.True(t, corpus.NeedsOCR)
}

func TestUploadPreviewIsCapped(t *testing.T) {
	svc, _ := newUploadService(&capturePublisher{})

	long := strings.Repeat("a", constant.PreviewLen*2)
	res, err := svc.Upload(context.Background(), nil, []UploadInput{
		{Name: "long.txt", Mime: "text/plain", Data: []byte(long)},
	})
	assert.NoError(t, err)
	assert.Equal(t, constant.PreviewLen, res.PreviewLen)
	assert.Len(t, res.Preview, constant.PreviewLen)
}
