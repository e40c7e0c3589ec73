package service

import (
	"testing"

	"go-pos-backoffice/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *fakeClientRepo) Create(client *model.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *fakeClientRepo) FindAll() ([]model.Client, error) {
	var out []model.Client
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeClientRepo) FindByID(id uuid.UUID) (*model.Client, error) {
	if c, ok := r.clients[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeClientRepo) FindByDocument(document string) (*model.Client, error) {
	for _, c := range r.clients {
		if c.Document == document {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeClientRepo) Update(client *model.Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *fakeClientRepo) Delete(id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}

func TestCreateClient(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo)

	client := &model.Client{Name: "Maria Souza", Document: "123.456.789-00", Email: "maria@example.com"}
	require.NoError(t, svc.CreateClient(client, "user-1"))
	assert.NotEqual(t, uuid.Nil, client.ID)
	assert.Equal(t, "user-1", client.CreatedBy)
}

func TestCreateClient_RequiresNameAndDocument(t *testing.T) {
	svc := NewClientService(newFakeClientRepo())

	err := svc.CreateClient(&model.Client{Document: "123"}, "user-1")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.CreateClient(&model.Client{Name: "Sem Documento"}, "user-1")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.CreateClient(&model.Client{Name: "Email Ruim", Document: "123", Email: "nao-e-email"}, "user-1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateClient_RejectsDuplicateDocument(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo)

	require.NoError(t, svc.CreateClient(&model.Client{Name: "Primeiro", Document: "111"}, "user-1"))
	err := svc.CreateClient(&model.Client{Name: "Segundo", Document: "111"}, "user-1")
	assert.ErrorIs(t, err, ErrClientDocumentTaken)
}

func TestUpdateClient(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo)

	client := &model.Client{Name: "Antigo", Document: "222"}
	require.NoError(t, svc.CreateClient(client, "user-1"))

	updated, err := svc.UpdateClient(client.ID, &model.Client{Name: "Novo", Document: "222", City: "Campinas"}, "user-2")
	require.NoError(t, err)
	assert.Equal(t, "Novo", updated.Name)
	assert.Equal(t, "Campinas", updated.City)
	assert.Equal(t, "user-2", updated.UpdatedBy)
}

func TestUpdateClient_DocumentCollision(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewClientService(repo)

	require.NoError(t, svc.CreateClient(&model.Client{Name: "Um", Document: "333"}, "user-1"))
	second := &model.Client{Name: "Dois", Document: "444"}
	require.NoError(t, svc.CreateClient(second, "user-1"))

	_, err := svc.UpdateClient(second.ID, &model.Client{Name: "Dois", Document: "333"}, "user-1")
	assert.ErrorIs(t, err, ErrClientDocumentTaken)
}

func TestDeleteClient_Unknown(t *testing.T) {
	svc := NewClientService(newFakeClientRepo())
	assert.ErrorIs(t, svc.DeleteClient(uuid.New()), ErrClientNotFound)
}
