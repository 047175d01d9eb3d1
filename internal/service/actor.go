package service

import (
	"github.com/sean-camara/RMV-Stainless-Steel-Fabrication-Backend/internal/model"

	"github.com/google/uuid"
)

// Actor is the pre-validated caller identity injected into every workflow
// operation. The engines never read identity from globals or request state;
// capability checks happen explicitly against this value.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsStaff reports whether the actor holds any staff role.
func (a Actor) IsStaff() bool {
	return model.ValidStaffRole(a.Role)
}

// Is reports whether the actor holds one of the given roles.
func (a Actor) Is(roles ...string) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
