package service

import (
	"context"

	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/repository"
)

// StaffDirectory is the read-only view of active staff by role used for
// assignment candidate lookup. The order of the returned slice is stable
// (created_at, then id) so auto-assignment scans are deterministic.
type StaffDirectory interface {
	ActiveByRole(ctx context.Context, role string) ([]model.User, error)
}

type staffDirectory struct {
	users repository.UserRepository
}

func NewStaffDirectory(users repository.UserRepository) StaffDirectory {
	return &staffDirectory{users: users}
}

func (d *staffDirectory) ActiveByRole(ctx context.Context, role string) ([]model.User, error) {
	return d.users.ListActiveByRole(ctx, role)
}
