package mapper

import (
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToModel(e *entity.User) *model.User {
	return &model.User{
		Id:           e.Id,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		FullName:     e.FullName,
		Role:         string(e.Role),
		Status:       string(e.Status),
		AvatarURL:    e.AvatarURL,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (m *UserMapper) ToEntity(mo *model.User) *entity.User {
	return &entity.User{
		Id:           mo.Id,
		Email:        mo.Email,
		PasswordHash: mo.PasswordHash,
		FullName:     mo.FullName,
		Role:         entity.UserRole(mo.Role),
		Status:       entity.UserStatus(mo.Status),
		AvatarURL:    mo.AvatarURL,
		CreatedAt:    mo.CreatedAt,
		UpdatedAt:    mo.UpdatedAt,
	}
}

func (m *UserMapper) AgentProfileToEntity(mo *model.AgentProfile) *entity.AgentProfile {
	return &entity.AgentProfile{
		Id:          mo.Id,
		UserId:      mo.UserId,
		Departments: mo.Departments,
		IsDefault:   mo.IsDefault,
		CreatedAt:   mo.CreatedAt,
		UpdatedAt:   mo.UpdatedAt,
	}
}

func (m *UserMapper) AgentProfileToModel(e *entity.AgentProfile) *model.AgentProfile {
	return &model.AgentProfile{
		Id:          e.Id,
		UserId:      e.UserId,
		Departments: e.Departments,
		IsDefault:   e.IsDefault,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
