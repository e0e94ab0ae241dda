package mapper

import (
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatToModel(e *entity.Chat) *model.Chat {
	return &model.Chat{
		Id:        e.Id,
		Type:      string(e.Type),
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *ChatMapper) ChatToEntity(mo *model.Chat) *entity.Chat {
	return &entity.Chat{
		Id:        mo.Id,
		Type:      entity.ChatType(mo.Type),
		Name:      mo.Name,
		CreatedAt: mo.CreatedAt,
		UpdatedAt: mo.UpdatedAt,
	}
}

func (m *ChatMapper) ParticipantToModel(e *entity.ChatParticipant) *model.ChatParticipant {
	return &model.ChatParticipant{
		Id:        e.Id,
		ChatId:    e.ChatId,
		UserId:    e.UserId,
		IsOwner:   e.IsOwner,
		CreatedAt: e.CreatedAt,
	}
}

func (m *ChatMapper) ParticipantToEntity(mo *model.ChatParticipant) *entity.ChatParticipant {
	return &entity.ChatParticipant{
		Id:        mo.Id,
		ChatId:    mo.ChatId,
		UserId:    mo.UserId,
		IsOwner:   mo.IsOwner,
		CreatedAt: mo.CreatedAt,
	}
}

func (m *ChatMapper) DetailsToModel(e *entity.ChatDetails) *model.ChatDetail {
	return &model.ChatDetail{
		Id:           e.Id,
		ChatId:       e.ChatId,
		Status:       string(e.Status),
		CategoryId:   e.CategoryId,
		DepartmentId: e.DepartmentId,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (m *ChatMapper) DetailsToEntity(mo *model.ChatDetail) *entity.ChatDetails {
	return &entity.ChatDetails{
		Id:           mo.Id,
		ChatId:       mo.ChatId,
		Status:       entity.ChatStatus(mo.Status),
		CategoryId:   mo.CategoryId,
		DepartmentId: mo.DepartmentId,
		CreatedAt:    mo.CreatedAt,
		UpdatedAt:    mo.UpdatedAt,
	}
}

func (m *ChatMapper) MessageToModel(e *entity.Message) *model.Message {
	return &model.Message{
		Id:            e.Id,
		ChatId:        e.ChatId,
		SenderId:      e.SenderId,
		ReceiverId:    e.ReceiverId,
		Body:          e.Body,
		AttachmentURL: e.AttachmentURL,
		IsRead:        e.IsRead,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ChatMapper) MessageToEntity(mo *model.Message) *entity.Message {
	return &entity.Message{
		Id:            mo.Id,
		ChatId:        mo.ChatId,
		SenderId:      mo.SenderId,
		ReceiverId:    mo.ReceiverId,
		Body:          mo.Body,
		AttachmentURL: mo.AttachmentURL,
		IsRead:        mo.IsRead,
		CreatedAt:     mo.CreatedAt,
	}
}
