package service

import (
	"errors"
	"fmt"
	"time"

	"go-pos-backoffice/internal/model"
	"go-pos-backoffice/internal/repository"
	"go-pos-backoffice/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already exists")
	ErrDocumentExists = errors.New("employee document already exists")
	ErrProtectedUser  = errors.New("the primary administrator cannot be removed")
	ErrForbiddenRole  = errors.New("managers cannot modify administrator accounts")
)

type UserService interface {
	CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID, updaterRole string) (*model.User, error)
	DeleteUser(userID uuid.UUID, deleterRole string) error
	UpdateUserPrivileges(userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

// EmployeeRequest carries the HR fields stored alongside the user account.
type EmployeeRequest struct {
	Document         string  `json:"document"`
	Position         string  `json:"position"`
	AdmissionDate    *string `json:"admission_date"` // Format: YYYY-MM-DD
	BloodType        string  `json:"blood_type"`
	EmergencyContact string  `json:"emergency_contact"`
	Salary           float64 `json:"salary"`
	CEP              string  `json:"cep"`
	Address          string  `json:"address"`
	Number           string  `json:"number"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Notes            string  `json:"notes"`
}

type CreateUserRequest struct {
	Email       string           `json:"email" validate:"required,email"`
	Password    string           `json:"password" validate:"required,min=6"`
	FullName    string           `json:"full_name" validate:"required"`
	PhoneNumber string           `json:"phone_number"`
	BirthDate   *string          `json:"birth_date"` // Format: YYYY-MM-DD
	RoleID      uint             `json:"role_id" validate:"required"`
	Employee    *EmployeeRequest `json:"employee"`
}

type UpdateUserRequest struct {
	Email       string           `json:"email" validate:"required,email"`
	Password    *string          `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName    string           `json:"full_name" validate:"required"`
	PhoneNumber string           `json:"phone_number"`
	BirthDate   *string          `json:"birth_date"` // Format: YYYY-MM-DD
	RoleID      uint             `json:"role_id" validate:"required"`
	IsActive    *bool            `json:"is_active"`
	Employee    *EmployeeRequest `json:"employee"`
}

type userService struct {
	userRepo      repository.UserRepository
	employeeRepo  repository.EmployeeRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	db            TxRunner
}

func NewUserService(userRepo repository.UserRepository, employeeRepo repository.EmployeeRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository, db TxRunner) UserService {
	return &userService{
		userRepo:      userRepo,
		employeeRepo:  employeeRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		db:            db,
	}
}

// CreateUser registers the account and its HR record in one transaction.
func (s *userService) CreateUser(req *CreateUserRequest, creatorID string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, ErrEmailExists
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, errors.New("role not found")
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		BirthDate:   birthDate,
		RoleID:      &req.RoleID,
		IsActive:    true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// Privileges follow the role by default
	user.Privileges = role.Privileges

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.CreateTx(tx, user); err != nil {
			return err
		}
		if req.Employee == nil {
			return nil
		}
		if req.Employee.Document != "" {
			if _, err := s.employeeRepo.FindByDocument(req.Employee.Document); err == nil {
				return ErrDocumentExists
			}
		}
		employee, err := buildEmployee(user.ID, req.Employee, creatorID)
		if err != nil {
			return err
		}
		return s.employeeRepo.CreateTx(tx, employee)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, updaterID, updaterRole string) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// Managers may not touch administrator accounts
	if updaterRole == model.RoleManager && user.Role != nil && user.Role.Code == model.RoleAdmin {
		return nil, ErrForbiddenRole
	}

	if req.Email != user.Email {
		existing, _ := s.userRepo.FindByEmail(req.Email)
		if existing != nil {
			return nil, ErrEmailExists
		}
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, errors.New("role not found")
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.BirthDate = birthDate
	user.RoleID = &req.RoleID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	user.Privileges = role.Privileges

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if req.Employee != nil {
		if err := s.upsertEmployee(user.ID, req.Employee, updaterID); err != nil {
			return nil, err
		}
	}

	return s.userRepo.FindByID(userID)
}

// DeleteUser removes the account and its HR record together. The seeded
// administrator is protected and can never be deleted.
func (s *userService) DeleteUser(userID uuid.UUID, deleterRole string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if user.Protected {
		return ErrProtectedUser
	}
	if deleterRole == model.RoleManager && user.Role != nil && user.Role.Code == model.RoleAdmin {
		return ErrForbiddenRole
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.employeeRepo.DeleteByUserIDTx(tx, userID); err != nil {
			return err
		}
		return s.userRepo.DeleteTx(tx, userID)
	})
}

func (s *userService) UpdateUserPrivileges(userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	privileges, err := s.privilegeRepo.FindByCodes(privilegeCodes)
	if err != nil {
		return nil, errors.New("failed to find privileges")
	}

	if err := s.userRepo.UpdatePrivileges(userID, privileges); err != nil {
		return nil, err
	}

	user.UpdatedBy = updaterID
	s.userRepo.Update(user)

	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) upsertEmployee(userID uuid.UUID, req *EmployeeRequest, actorID string) error {
	existing, err := s.employeeRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Transaction(func(tx *gorm.DB) error {
			employee, buildErr := buildEmployee(userID, req, actorID)
			if buildErr != nil {
				return buildErr
			}
			return s.employeeRepo.CreateTx(tx, employee)
		})
	}
	if err != nil {
		return err
	}

	admissionDate, err := parseDate(req.AdmissionDate)
	if err != nil {
		return err
	}

	existing.Document = req.Document
	existing.Position = req.Position
	existing.AdmissionDate = admissionDate
	existing.BloodType = req.BloodType
	existing.EmergencyContact = req.EmergencyContact
	existing.Salary = req.Salary
	existing.CEP = req.CEP
	existing.Address = req.Address
	existing.Number = req.Number
	existing.City = req.City
	existing.State = req.State
	existing.Notes = req.Notes
	existing.UpdatedBy = actorID

	return s.employeeRepo.Update(existing)
}

func buildEmployee(userID uuid.UUID, req *EmployeeRequest, actorID string) (*model.Employee, error) {
	admissionDate, err := parseDate(req.AdmissionDate)
	if err != nil {
		return nil, err
	}

	employee := &model.Employee{
		UserID:           userID,
		Document:         req.Document,
		Position:         req.Position,
		AdmissionDate:    admissionDate,
		BloodType:        req.BloodType,
		EmergencyContact: req.EmergencyContact,
		Salary:           req.Salary,
		CEP:              req.CEP,
		Address:          req.Address,
		Number:           req.Number,
		City:             req.City,
		State:            req.State,
		Notes:            req.Notes,
	}
	employee.CreatedBy = actorID
	employee.UpdatedBy = actorID
	return employee, nil
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", ErrValidation)
	}
	return &parsed, nil
}
