package repository

import (
	"go-pos-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(client *model.Client) error
	FindAll() ([]model.Client, error)
	FindByID(id uuid.UUID) (*model.Client, error)
	FindByDocument(document string) (*model.Client, error)
	Update(client *model.Client) error
	Delete(id uuid.UUID) error
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db}
}

func (r *clientRepo) Create(client *model.Client) error {
	return r.db.Create(client).Error
}

func (r *clientRepo) FindAll() ([]model.Client, error) {
	var clients []model.Client
	err := r.db.Order("name ASC").Find(&clients).Error
	return clients, err
}

func (r *clientRepo) FindByID(id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := r.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) FindByDocument(document string) (*model.Client, error) {
	var client model.Client
	if err := r.db.First(&client, "document = ?", document).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Update(client *model.Client) error {
	return r.db.Save(client).Error
}

func (r *clientRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Client{}, "id = ?", id).Error
}
