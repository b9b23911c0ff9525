package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prepareup-be/internal/constant"
	"prepareup-be/internal/dto"
	"prepareup-be/internal/pkg/logger"
	"prepareup-be/internal/repository/memory"
	"prepareup-be/pkg/events"
	"prepareup-be/pkg/extractor"
	natspub "prepareup-be/pkg/nats"
	"prepareup-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadInput is one file as received by the controller, already read into
// memory. Size is tracked separately so empty files keep their metadata.
type UploadInput struct {
	Name string
	Mime string
	Data []byte
}

type IUploadService interface {
	Upload(ctx context.Context, userId *uuid.UUID, files []UploadInput) (*dto.UploadResponse, error)
}

type uploadService struct {
	corpusRepo       *memory.CorpusRepository
	publisherService IPublisherService
	eventPublisher   *natspub.Publisher
	log              logger.ILogger
}

func NewUploadService(
	corpusRepo *memory.CorpusRepository,
	publisherService IPublisherService,
	eventPublisher *natspub.Publisher,
	log logger.ILogger,
) IUploadService {
	return &uploadService{
		corpusRepo:       corpusRepo,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *uploadService) Upload(ctx context.Context, userId *uuid.UUID, files []UploadInput) (*dto.UploadResponse, error) {
	if len(files) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No files provided.")
	}
	if len(files) > constant.MaxFiles {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Too many files. Max %d.", constant.MaxFiles))
	}

	results := make([]dto.UploadFileResult, 0, len(files))
	combinedParts := make([]string, 0, len(files))
	needsOCR := false

	for _, f := range files {
		size := int64(len(f.Data))

		if size == 0 {
			results = append(results, dto.UploadFileResult{
				Id:     uuid.NewString(),
				Name:   f.Name,
				Mime:   f.Mime,
				Size:   0,
				Status: extractor.StatusUploadedOnly,
			})
			continue
		}
		if size > constant.MaxBytesPerFile {
			return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: %s", f.Name))
		}

		status, text := extractor.ExtractAny(f.Name, f.Mime, f.Data)

		results = append(results, dto.UploadFileResult{
			Id:      uuid.NewString(),
			Name:    f.Name,
			Mime:    f.Mime,
			Size:    size,
			Status:  status,
			TextLen: len(text),
		})

		if status == extractor.StatusNeedsOCR {
			needsOCR = true
		}
		if text != "" {
			combinedParts = append(combinedParts, fmt.Sprintf("--- %s ---\n%s", f.Name, text))
		}
	}

	combined := strings.TrimSpace(strings.Join(combinedParts, "\n\n"))

	// Image-only uploads are allowed through with an empty corpus; OCR
	// fills it in later. Everything else with no text is a hard failure.
	if combined == "" && !needsOCR {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Could not extract text from the uploaded files.")
	}

	sessionId := uuid.NewString()
	fileNames := make([]string, 0, len(results))
	for _, r := range results {
		fileNames = append(fileNames, r.Name)
	}
	s.corpusRepo.Save(&store.Corpus{
		ID:        sessionId,
		Text:      combined,
		FileNames: fileNames,
		NeedsOCR:  needsOCR,
		CreatedAt: time.Now(),
	})

	s.persistAsync(sessionId, userId, results)
	s.eventPublisher.Publish(ctx, events.UploadCompleted(sessionId, len(results), len(combined)))

	preview := combined
	if len(preview) > constant.PreviewLen {
		preview = preview[:constant.PreviewLen]
	}

	s.log.Info("upload", "Upload session created", map[string]interface{}{
		"session_id": sessionId,
		"files":      len(results),
		"text_len":   len(combined),
		"needs_ocr":  needsOCR,
	})

	return &dto.UploadResponse{
		SessionId:  sessionId,
		Files:      results,
		Preview:    preview,
		PreviewLen: len(preview),
		TTLSeconds: int(store.CorpusTTL.Seconds()),
	}, nil
}

func (s *uploadService) persistAsync(sessionId string, userId *uuid.UUID, results []dto.UploadFileResult) {
	items := make([]dto.PersistDocumentItem, 0, len(results))
	for _, r := range results {
		id, err := uuid.Parse(r.Id)
		if err != nil {
			continue
		}
		items = append(items, dto.PersistDocumentItem{
			Id:       id,
			Filename: r.Name,
			Mime:     r.Mime,
			Size:     r.Size,
			Status:   r.Status,
			TextLen:  r.TextLen,
		})
	}

	if err := s.publisherService.PublishPersistDocuments(&dto.PersistDocumentsMessage{
		SessionId: sessionId,
		UserId:    userId,
		Documents: items,
	}); err != nil {
		s.log.Error("upload", "Failed to enqueue document persistence", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}
