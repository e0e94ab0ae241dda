package controller

import (
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorFromCtx reads the identity the JWT middleware stored in locals.
func actorFromCtx(ctx *fiber.Ctx) (*entity.Actor, error) {
	rawId, ok := ctx.Locals("user_id").(string)
	if !ok {
		return nil, apperror.Unauthorized("missing identity")
	}
	userId, err := uuid.Parse(rawId)
	if err != nil {
		return nil, apperror.Unauthorized("invalid identity")
	}

	rawRole, ok := ctx.Locals("role").(string)
	if !ok {
		return nil, apperror.Unauthorized("missing role")
	}

	return &entity.Actor{Id: userId, Role: entity.UserRole(rawRole)}, nil
}

// pathUUID parses a uuid path parameter.
func pathUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid " + name)
	}
	return id, nil
}
