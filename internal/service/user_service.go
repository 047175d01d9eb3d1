package service

import (
	"context"
	"fmt"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/middleware"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for request validation
type RegisterCustomerRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type CreateStaffRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse returns a user without exposing sensitive data.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// UserService defines account management and authentication.
type UserService interface {
	RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*UserResponse, error)
	CreateStaff(ctx context.Context, actor Actor, req CreateStaffRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, *UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	ListUsers(ctx context.Context, actor Actor, role string, page, limit int) ([]UserResponse, int64, error)
	DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) (*UserResponse, error)
}

type userService struct {
	repo  repository.UserRepository
	audit auditEmitter
}

func NewUserService(repo repository.UserRepository, activity repository.ActivityRepository) UserService {
	return &userService{
		repo:  repo,
		audit: newAuditEmitter(activity),
	}
}

func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *userService) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*UserResponse, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Role:     model.RoleCustomer,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.emit(ctx, Actor{ID: user.ID, Role: user.Role}, model.ActionRegisterUser, model.ResourceUser, user.ID,
		"customer account registered", nil, map[string]interface{}{"email": user.Email})

	return mapToResponse(user), nil
}

func (s *userService) CreateStaff(ctx context.Context, actor Actor, req CreateStaffRequest) (*UserResponse, error) {
	if !actor.Is(model.RoleAdmin) {
		return nil, apperror.Forbidden("only admins can create staff accounts")
	}
	if !model.ValidStaffRole(req.Role) {
		return nil, apperror.Validation("invalid staff role %q", req.Role)
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.emit(ctx, actor, model.ActionCreateStaff, model.ResourceUser, user.ID,
		fmt.Sprintf("staff account created with role %s", req.Role),
		nil, map[string]interface{}{"email": user.Email, "role": user.Role})

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, *UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, apperror.Validation("invalid email or password")
	}
	if !user.IsActive {
		return nil, nil, apperror.Forbidden("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, apperror.Validation("invalid email or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
	})

	tokenString, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResponse{Token: tokenString}, mapToResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user %s not found", id)
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, actor Actor, role string, page, limit int) ([]UserResponse, int64, error) {
	if !actor.Is(model.RoleAdmin) {
		return nil, 0, apperror.Forbidden("only admins can list users")
	}
	if role != "" && !model.ValidRole(role) {
		return nil, 0, apperror.Validation("unknown role %q", role)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, role, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var responses []UserResponse
	for _, u := range users {
		responses = append(responses, *mapToResponse(&u))
	}

	return responses, total, nil
}

// DeactivateUser soft-disables an account. Deactivated staff stop appearing
// in assignment candidate lists; existing assignments are untouched.
func (s *userService) DeactivateUser(ctx context.Context, actor Actor, id uuid.UUID) (*UserResponse, error) {
	if !actor.Is(model.RoleAdmin) {
		return nil, apperror.Forbidden("only admins can deactivate users")
	}
	if actor.ID == id {
		return nil, apperror.Validation("admins cannot deactivate their own account")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user %s not found", id)
	}
	if !user.IsActive {
		return nil, apperror.InvalidState("user is already deactivated")
	}

	user.IsActive = false
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.emit(ctx, actor, model.ActionDeactivateUser, model.ResourceUser, user.ID,
		"account deactivated",
		map[string]interface{}{"is_active": true},
		map[string]interface{}{"is_active": false})

	return mapToResponse(user), nil
}
