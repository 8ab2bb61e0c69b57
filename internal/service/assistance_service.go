package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/model"
	"github.com/hijrafr/expat-services-api/internal/repository"
)

var ErrRequestNotFound = errors.New("assistance request not found")

type AssistanceService struct {
	requests *repository.AssistanceRepository
	catalog  *repository.CatalogRepository
}

func NewAssistanceService(requests *repository.AssistanceRepository, catalog *repository.CatalogRepository) *AssistanceService {
	return &AssistanceService{requests: requests, catalog: catalog}
}

func (s *AssistanceService) Create(ctx context.Context, req *dto.CreateAssistanceRequest) (*model.AssistanceRequest, error) {
	if _, err := s.catalog.FindCountry(ctx, req.CountryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}

	request := &model.AssistanceRequest{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		CountryID:   req.CountryID,
		ServiceCode: req.ServiceCode,
	}
	if err := s.requests.Insert(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *AssistanceService) List(ctx context.Context, status string, limit, offset int) ([]model.AssistanceRequest, int, error) {
	return s.requests.List(ctx, status, limit, offset)
}

func (s *AssistanceService) Get(ctx context.Context, id string) (*model.AssistanceRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *AssistanceService) Update(ctx context.Context, id string, req *dto.UpdateAssistanceRequest) (*model.AssistanceRequest, error) {
	if err := s.requests.Update(ctx, id, req.Status, req.Priority, req.AssignedTo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return s.requests.FindByID(ctx, id)
}

func (s *AssistanceService) AddDocument(ctx context.Context, requestID string, req *dto.AddDocumentRequest) (*model.Document, error) {
	if _, err := s.Get(ctx, requestID); err != nil {
		return nil, err
	}

	doc := &model.Document{
		RequestID: requestID,
		Name:      req.Name,
		DocType:   req.DocType,
	}
	if err := s.requests.AddDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *AssistanceService) Documents(ctx context.Context, requestID string) ([]model.Document, error) {
	if _, err := s.Get(ctx, requestID); err != nil {
		return nil, err
	}
	return s.requests.ListDocuments(ctx, requestID)
}

func (s *AssistanceService) ReviewDocument(ctx context.Context, docID string, req *dto.ReviewDocumentRequest, reviewer string) error {
	return s.requests.ReviewDocument(ctx, docID, req.Status, req.Notes, reviewer)
}

func (s *AssistanceService) AddNote(ctx context.Context, requestID string, req *dto.AddNoteRequest, author string) (*model.AdminNote, error) {
	if _, err := s.Get(ctx, requestID); err != nil {
		return nil, err
	}

	noteType := req.NoteType
	if noteType == "" {
		noteType = "internal"
	}
	note := &model.AdminNote{
		RequestID: requestID,
		Content:   req.Content,
		NoteType:  noteType,
		CreatedBy: author,
	}
	if err := s.requests.AddNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *AssistanceService) Notes(ctx context.Context, requestID string) ([]model.AdminNote, error) {
	if _, err := s.Get(ctx, requestID); err != nil {
		return nil, err
	}
	return s.requests.ListNotes(ctx, requestID)
}
