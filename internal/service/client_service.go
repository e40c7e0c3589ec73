package service

import (
	"errors"
	"fmt"

	"go-pos-backoffice/internal/model"
	"go-pos-backoffice/internal/repository"
	"go-pos-backoffice/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClientDocumentTaken = errors.New("client document already registered")
)

type ClientService interface {
	CreateClient(req *model.Client, userID string) error
	UpdateClient(id uuid.UUID, req *model.Client, userID string) (*model.Client, error)
	DeleteClient(id uuid.UUID) error
	GetAllClients() ([]model.Client, error)
	GetClientByID(id uuid.UUID) (*model.Client, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
}

func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) CreateClient(req *model.Client, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.clientRepo.FindByDocument(req.Document)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrClientDocumentTaken
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID

	return s.clientRepo.Create(req)
}

func (s *clientService) UpdateClient(id uuid.UUID, req *model.Client, userID string) (*model.Client, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	existing, err := s.clientRepo.FindByID(id)
	if err != nil {
		return nil, ErrClientNotFound
	}

	if req.Document != existing.Document {
		taken, _ := s.clientRepo.FindByDocument(req.Document)
		if taken != nil && taken.ID != id {
			return nil, ErrClientDocumentTaken
		}
	}

	existing.Name = req.Name
	existing.Document = req.Document
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.CEP = req.CEP
	existing.Address = req.Address
	existing.Number = req.Number
	existing.City = req.City
	existing.State = req.State
	existing.UpdatedBy = userID

	if err := s.clientRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *clientService) DeleteClient(id uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(id); err != nil {
		return ErrClientNotFound
	}
	return s.clientRepo.Delete(id)
}

func (s *clientService) GetAllClients() ([]model.Client, error) {
	return s.clientRepo.FindAll()
}

func (s *clientService) GetClientByID(id uuid.UUID) (*model.Client, error) {
	client, err := s.clientRepo.FindByID(id)
	if err != nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}
