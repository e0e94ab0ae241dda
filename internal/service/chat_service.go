package service

import (
	"context"
	"time"

	"fintrust-support-be/internal/dto"
	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/apperror"
	"fintrust-support-be/internal/pkg/logger"
	"fintrust-support-be/internal/repository/unitofwork"
	"fintrust-support-be/pkg/events"
	pktNats "fintrust-support-be/pkg/nats"

	"github.com/google/uuid"
)

type IChatService interface {
	ListChats(ctx context.Context, actor *entity.Actor, chatType string) ([]dto.ChatListItem, error)
	GetChat(ctx context.Context, actor *entity.Actor, chatId uuid.UUID) (*dto.ChatDetailResponse, error)
	CreateGroupChat(ctx context.Context, actor *entity.Actor, req *dto.CreateGroupChatRequest) (*dto.CreateGroupChatResponse, error)
	EnsureTeamChat(ctx context.Context, actor *entity.Actor, req *dto.EnsureTeamChatRequest) (*dto.EnsureTeamChatResponse, error)
	SetStatus(ctx context.Context, actor *entity.Actor, chatId uuid.UUID, status entity.ChatStatus) error
	Takeover(ctx context.Context, actor *entity.Actor, chatId uuid.UUID) (*dto.TakeoverResponse, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	pusher         Pusher
	logger         logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, pusher Pusher, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		pusher:         pusher,
		logger:         log,
	}
}

func (s *chatService) ListChats(ctx context.Context, actor *entity.Actor, chatType string) ([]dto.ChatListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatRepository().FindForUser(ctx, actor.Id, entity.ChatType(chatType))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	items := make([]dto.ChatListItem, 0, len(chats))
	for _, chat := range chats {
		views, err := s.participantViews(ctx, uow, chat, actor.Id)
		if err != nil {
			return nil, err
		}

		last, err := uow.MessageRepository().FindLastByChatID(ctx, chat.Id)
		if err != nil {
			return nil, apperror.Internal(err)
		}

		unread, err := uow.MessageRepository().CountUnread(ctx, chat.Id, actor.Id)
		if err != nil {
			return nil, apperror.Internal(err)
		}

		item := dto.ChatListItem{
			Id:           chat.Id,
			Type:         string(chat.Type),
			Name:         chat.Name,
			Participants: views,
			UnreadCount:  unread,
			UpdatedAt:    chat.UpdatedAt,
		}
		if last != nil {
			item.LastMessage = messageToResponse(last)
		}
		items = append(items, item)
	}

	return items, nil
}

// GetChat returns the full transcript and flips every unread message
// addressed to the caller; the caller's own messages stay untouched.
func (s *chatService) GetChat(ctx context.Context, actor *entity.Actor, chatId uuid.UUID) (*dto.ChatDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindByID(ctx, chatId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if chat == nil {
		return nil, apperror.NotFound("chat not found")
	}

	isParticipant, err := uow.ParticipantRepository().Exists(ctx, chatId, actor.Id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !isParticipant {
		return nil, apperror.Forbidden("not a participant of this chat")
	}

	if err := uow.MessageRepository().MarkReadByReceiver(ctx, chatId, actor.Id); err != nil {
		return nil, apperror.Internal(err)
	}

	messages, err := uow.MessageRepository().FindByChatID(ctx, chatId)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	views, err := s.participantViews(ctx, uow, chat, actor.Id)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChatDetailResponse{
		Id:           chat.Id,
		Type:         string(chat.Type),
		Name:         chat.Name,
		Participants: views,
		Messages:     make([]dto.MessageResponse, 0, len(messages)),
		CreatedAt:    chat.CreatedAt,
		UpdatedAt:    chat.UpdatedAt,
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, *messageToResponse(m))
	}

	// Lifecycle state only exists on customer-facing chats.
	if chat.Type == entity.ChatTypeCustomerToAgent {
		details, err := uow.ChatRepository().FindDetailsByChatID(ctx, chatId)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if details != nil {
			resp.Status = string(details.Status)
			resp.CategoryId = details.CategoryId
			resp.DepartmentId = details.DepartmentId
		}
	}

	return resp, nil
}

// CreateGroupChat builds a named group owned by the calling admin. The
// listed participants are deduplicated and the admin's own id, if present,
// is ignored; the admin joins as owner exactly once.
func (s *chatService) CreateGroupChat(ctx context.Context, actor *entity.Actor, req *dto.CreateGroupChatRequest) (*dto.CreateGroupChatResponse, error) {
	if actor.Role != entity.UserRoleAdmin {
		return nil, apperror.Forbidden("only admins can create group chats")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	seen := map[uuid.UUID]bool{actor.Id: true}
	memberIds := make([]uuid.UUID, 0, len(req.ParticipantIds))
	for _, id := range req.ParticipantIds {
		if seen[id] {
			continue
		}
		seen[id] = true
		memberIds = append(memberIds, id)
	}
	if len(memberIds) == 0 {
		return nil, apperror.Validation("group chat needs at least one other participant")
	}

	members, err := uow.UserRepository().FindByIDs(ctx, memberIds)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(members) != len(memberIds) {
		return nil, apperror.NotFound("one or more participants do not exist")
	}

	now := time.Now()
	chat := &entity.Chat{
		Id:        uuid.New(),
		Type:      entity.ChatTypeGroupChat,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, apperror.Internal(err)
	}

	participants := []*entity.ChatParticipant{
		{Id: uuid.New(), ChatId: chat.Id, UserId: actor.Id, IsOwner: true, CreatedAt: now},
	}
	for _, id := range memberIds {
		participants = append(participants, &entity.ChatParticipant{
			Id: uuid.New(), ChatId: chat.Id, UserId: id, CreatedAt: now,
		})
	}
	if err := uow.ParticipantRepository().CreateBatch(ctx, participants); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.publish(ctx, events.TypeGroupChatCreated, map[string]interface{}{
		"chat_id":  chat.Id,
		"name":     chat.Name,
		"actor_id": actor.Id,
		"members":  memberIds,
	})

	return &dto.CreateGroupChatResponse{Id: chat.Id}, nil
}

// EnsureTeamChat finds or creates the 1:1 staff channel between the caller
// and a peer. Repeated calls always land on the same chat.
func (s *chatService) EnsureTeamChat(ctx context.Context, actor *entity.Actor, req *dto.EnsureTeamChatRequest) (*dto.EnsureTeamChatResponse, error) {
	if !actor.Role.IsStaff() {
		return nil, apperror.Forbidden("team chats are staff only")
	}
	if req.PeerId == actor.Id {
		return nil, apperror.Validation("cannot open a team chat with yourself")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	peer, err := uow.UserRepository().FindByID(ctx, req.PeerId)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if peer == nil {
		return nil, apperror.NotFound("peer not found")
	}
	if !peer.Role.IsStaff() {
		return nil, apperror.Forbidden("team chats are staff only")
	}

	existing, err := uow.ChatRepository().FindPairByType(ctx, actor.Id, req.PeerId, entity.ChatTypeTeamChat)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return &dto.EnsureTeamChatResponse{Id: existing.Id, Created: false}, nil
	}

	now := time.Now()
	chat := &entity.Chat{
		Id:        uuid.New(),
		Type:      entity.ChatTypeTeamChat,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, apperror.Internal(err)
	}

	participants := []*entity.ChatParticipant{
		{Id: uuid.New(), ChatId: chat.Id, UserId: actor.Id, IsOwner: true, CreatedAt: now},
		{Id: uuid.New(), ChatId: chat.Id, UserId: req.PeerId, CreatedAt: now},
	}
	if err := uow.ParticipantRepository().CreateBatch(ctx, participants); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	return &dto.EnsureTeamChatResponse{Id: chat.Id, Created: true}, nil
}

// SetStatus moves a customer chat through its lifecycle. Re-asserting the
// current status is rejected so clients learn their view is already current.
func (s *chatService) SetStatus(ctx context.Context, actor *entity.Actor, chatId uuid.UUID, status entity.ChatStatus) error {
	if !actor.Role.IsStaff() {
		return apperror.Forbidden("only staff can change chat status")
	}
	if !status.Valid() {
		return apperror.Validation("unknown chat status")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindByIDAndType(ctx, chatId, entity.ChatTypeCustomerToAgent)
	if err != nil {
		return apperror.Internal(err)
	}
	if chat == nil {
		return apperror.NotFound("chat not found")
	}

	details, err := uow.ChatRepository().FindDetailsByChatID(ctx, chatId)
	if err != nil {
		return apperror.Internal(err)
	}
	if details == nil {
		return apperror.NotFound("chat has no lifecycle state")
	}

	if details.Status == status {
		return apperror.StateConflict("chat status already set")
	}

	if err := uow.ChatRepository().UpdateDetailsStatus(ctx, chatId, status); err != nil {
		return apperror.Internal(err)
	}

	payload := map[string]interface{}{
		"chat_id":  chatId,
		"status":   string(status),
		"actor_id": actor.Id,
	}
	customerId, err := s.findCustomer(ctx, uow, chatId)
	if err == nil && customerId != uuid.Nil {
		payload["user_id"] = customerId
	}
	s.publish(ctx, events.TypeChatStatusChanged, payload)

	// A successful close is the one transition the customer's client reacts
	// to immediately, so it gets a dedicated frame.
	if status == entity.ChatStatusSuccessful && customerId != uuid.Nil {
		s.pusher.SendToUser(customerId, "chat-successful", map[string]interface{}{
			"chat_id": chatId,
		})
	}

	return nil
}

// Takeover claims a customer chat currently held by the default agent. The
// swap is a single conditional update keyed on the default agent's id, so it
// doubles as the precondition check: when two staff race only the first one
// wins, and a chat already claimed (or never held by the default agent)
// reports zero affected rows.
func (s *chatService) Takeover(ctx context.Context, actor *entity.Actor, chatId uuid.UUID) (*dto.TakeoverResponse, error) {
	if !actor.Role.IsStaff() {
		return nil, apperror.Forbidden("only staff can take over chats")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindByIDAndType(ctx, chatId, entity.ChatTypeCustomerToAgent)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if chat == nil {
		return nil, apperror.NotFound("chat not found")
	}

	defaultAgent, err := uow.AgentRepository().FindDefault(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if defaultAgent == nil {
		return nil, apperror.NotFound("no default agent configured")
	}
	if defaultAgent.UserId == actor.Id {
		return nil, apperror.StateConflict("chat is already handled by caller")
	}

	customerId, err := s.findCustomer(ctx, uow, chatId)
	if err != nil {
		return nil, err
	}

	rows, err := uow.ParticipantRepository().ReplaceUser(ctx, chatId, defaultAgent.UserId, actor.Id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if rows == 0 {
		return nil, apperror.NotFound("chat is not held by the default agent")
	}

	s.publish(ctx, events.TypeChatTakenOver, map[string]interface{}{
		"chat_id":           chatId,
		"new_agent_id":      actor.Id,
		"previous_agent_id": defaultAgent.UserId,
		"user_id":           customerId,
	})

	return &dto.TakeoverResponse{ChatId: chatId, NewOwner: actor.Id}, nil
}

// splitPair resolves the staff and customer side of a customer_to_agent
// participant set.
func (s *chatService) splitPair(ctx context.Context, uow unitofwork.UnitOfWork, participants []*entity.ChatParticipant) (uuid.UUID, uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.UserId)
	}
	users, err := uow.UserRepository().FindByIDs(ctx, ids)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.Internal(err)
	}

	var agentId, customerId uuid.UUID
	for _, u := range users {
		if u.Role.IsStaff() {
			agentId = u.Id
		} else {
			customerId = u.Id
		}
	}
	if agentId == uuid.Nil {
		return uuid.Nil, uuid.Nil, apperror.NotFound("chat has no handling agent")
	}
	return agentId, customerId, nil
}

func (s *chatService) findCustomer(ctx context.Context, uow unitofwork.UnitOfWork, chatId uuid.UUID) (uuid.UUID, error) {
	participants, err := uow.ParticipantRepository().FindByChatID(ctx, chatId)
	if err != nil {
		return uuid.Nil, err
	}
	_, customerId, err := s.splitPair(ctx, uow, participants)
	if err != nil {
		return uuid.Nil, err
	}
	return customerId, nil
}

// participantViews shapes the participant list for one viewer. The 1:1 chat
// types show only the counterpart; group chats list everyone.
func (s *chatService) participantViews(ctx context.Context, uow unitofwork.UnitOfWork, chat *entity.Chat, viewerId uuid.UUID) ([]dto.ParticipantView, error) {
	participants, err := uow.ParticipantRepository().FindByChatID(ctx, chat.Id)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	ids := make([]uuid.UUID, 0, len(participants))
	owners := make(map[uuid.UUID]bool, len(participants))
	for _, p := range participants {
		ids = append(ids, p.UserId)
		owners[p.UserId] = p.IsOwner
	}

	users, err := uow.UserRepository().FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	views := make([]dto.ParticipantView, 0, len(users))
	for _, u := range users {
		if chat.Type != entity.ChatTypeGroupChat && u.Id == viewerId {
			continue
		}
		views = append(views, dto.ParticipantView{
			UserId:   u.Id,
			FullName: u.FullName,
			Role:     string(u.Role),
			IsOwner:  owners[u.Id],
		})
	}
	return views, nil
}

func (s *chatService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("Chat", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func messageToResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:            m.Id,
		ChatId:        m.ChatId,
		SenderId:      m.SenderId,
		ReceiverId:    m.ReceiverId,
		Body:          m.Body,
		AttachmentURL: m.AttachmentURL,
		IsRead:        m.IsRead,
		CreatedAt:     m.CreatedAt,
	}
}
