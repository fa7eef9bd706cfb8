package handlers

import (
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/api/dto"
	"github.com/Shaphalovy/Kilo-Code-Digitrench-Work-Management/internal/domain/user"
)

func toUserResponse(u *user.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		Department: u.Department,
		Position:   u.Position,
		IsActive:   u.IsActive,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}

func toUserResponses(users []user.User) []dto.UserResponse {
	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}
