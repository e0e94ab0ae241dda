package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/model"
	"fintrust-support-be/internal/repository"
	"fintrust-support-be/internal/repository/contract"
	"fintrust-support-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// fakeStore is the shared backing state for the in-memory repositories used
// across the service tests.
type fakeStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*entity.User
	agents       map[uuid.UUID]*entity.AgentProfile
	chats        map[uuid.UUID]*entity.Chat
	details      map[uuid.UUID]*entity.ChatDetails
	participants []*entity.ChatParticipant
	messages     []*entity.Message

	notifications []*model.Notification
	notifTypes    map[string]*model.NotificationType
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[uuid.UUID]*entity.User),
		agents:     make(map[uuid.UUID]*entity.AgentProfile),
		chats:      make(map[uuid.UUID]*entity.Chat),
		details:    make(map[uuid.UUID]*entity.ChatDetails),
		notifTypes: make(map[string]*model.NotificationType),
	}
}

func (s *fakeStore) addUser(role entity.UserRole, name string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &entity.User{
		Id:       uuid.New(),
		Email:    name + "@test.dev",
		FullName: name,
		Role:     role,
		Status:   entity.UserStatusActive,
	}
	s.users[u.Id] = u
	return u
}

func (s *fakeStore) addAgentProfile(userId uuid.UUID, departments []int64, isDefault bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[userId] = &entity.AgentProfile{
		Id:          uuid.New(),
		UserId:      userId,
		Departments: departments,
		IsDefault:   isDefault,
	}
}

func (s *fakeStore) addNotifType(code, template, targetType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifTypes[code] = &model.NotificationType{
		Code:        code,
		DisplayName: code,
		Template:    template,
		TargetType:  targetType,
		IsActive:    true,
	}
}

type fakeFactory struct {
	store *fakeStore
}

func newFakeFactory(store *fakeStore) unitofwork.RepositoryFactory {
	return &fakeFactory{store: store}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}
func (u *fakeUow) AgentRepository() contract.AgentRepository {
	return &fakeAgentRepo{store: u.store}
}
func (u *fakeUow) ChatRepository() contract.ChatRepository {
	return &fakeChatRepo{store: u.store}
}
func (u *fakeUow) ParticipantRepository() contract.ParticipantRepository {
	return &fakeParticipantRepo{store: u.store}
}
func (u *fakeUow) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepo{store: u.store}
}
func (u *fakeUow) NotificationRepository() repository.NotificationRepository {
	return &fakeNotificationRepo{store: u.store}
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.store.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByRole(ctx context.Context, role entity.UserRole) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.User
	for _, u := range r.store.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeAgentRepo struct{ store *fakeStore }

func (r *fakeAgentRepo) Create(ctx context.Context, profile *entity.AgentProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.agents[profile.UserId] = profile
	return nil
}

func (r *fakeAgentRepo) FindByUserID(ctx context.Context, userId uuid.UUID) (*entity.AgentProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.agents[userId], nil
}

func (r *fakeAgentRepo) FindDefault(ctx context.Context) (*entity.AgentProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.agents {
		if p.IsDefault {
			return p, nil
		}
	}
	return nil, nil
}

type fakeChatRepo struct{ store *fakeStore }

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.chats[chat.Id] = chat
	return nil
}

func (r *fakeChatRepo) FindByIDAndType(ctx context.Context, id uuid.UUID, chatType entity.ChatType) (*entity.Chat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	chat, ok := r.store.chats[id]
	if !ok || chat.Type != chatType {
		return nil, nil
	}
	return chat, nil
}

func (r *fakeChatRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.chats[id], nil
}

func (r *fakeChatRepo) FindForUser(ctx context.Context, userId uuid.UUID, chatType entity.ChatType) ([]*entity.Chat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Chat
	for _, p := range r.store.participants {
		if p.UserId != userId {
			continue
		}
		chat := r.store.chats[p.ChatId]
		if chat == nil {
			continue
		}
		if chatType != "" && chat.Type != chatType {
			continue
		}
		out = append(out, chat)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *fakeChatRepo) FindPairByType(ctx context.Context, userA, userB uuid.UUID, chatType entity.ChatType) (*entity.Chat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, chat := range r.store.chats {
		if chat.Type != chatType {
			continue
		}
		var hasA, hasB bool
		for _, p := range r.store.participants {
			if p.ChatId != chat.Id {
				continue
			}
			if p.UserId == userA {
				hasA = true
			}
			if p.UserId == userB {
				hasB = true
			}
		}
		if hasA && hasB {
			return chat, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) BumpUpdatedAt(ctx context.Context, chatId uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if chat, ok := r.store.chats[chatId]; ok {
		chat.UpdatedAt = at
	}
	return nil
}

func (r *fakeChatRepo) CreateDetails(ctx context.Context, details *entity.ChatDetails) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.details[details.ChatId] = details
	return nil
}

func (r *fakeChatRepo) FindDetailsByChatID(ctx context.Context, chatId uuid.UUID) (*entity.ChatDetails, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.details[chatId], nil
}

func (r *fakeChatRepo) UpdateDetailsStatus(ctx context.Context, chatId uuid.UUID, status entity.ChatStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if d, ok := r.store.details[chatId]; ok {
		d.Status = status
		d.UpdatedAt = time.Now()
	}
	return nil
}

type fakeParticipantRepo struct{ store *fakeStore }

func (r *fakeParticipantRepo) CreateBatch(ctx context.Context, participants []*entity.ChatParticipant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, np := range participants {
		for _, p := range r.store.participants {
			if p.ChatId == np.ChatId && p.UserId == np.UserId {
				return fmt.Errorf("duplicate participant %s in chat %s", np.UserId, np.ChatId)
			}
		}
		r.store.participants = append(r.store.participants, np)
	}
	return nil
}

func (r *fakeParticipantRepo) FindByChatID(ctx context.Context, chatId uuid.UUID) ([]*entity.ChatParticipant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ChatParticipant
	for _, p := range r.store.participants {
		if p.ChatId == chatId {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) Exists(ctx context.Context, chatId, userId uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.participants {
		if p.ChatId == chatId && p.UserId == userId {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeParticipantRepo) CountByChatID(ctx context.Context, chatId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, p := range r.store.participants {
		if p.ChatId == chatId {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipantRepo) ReplaceUser(ctx context.Context, chatId, fromUserId, toUserId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var rows int64
	for _, p := range r.store.participants {
		if p.ChatId == chatId && p.UserId == fromUserId {
			p.UserId = toUserId
			rows++
		}
	}
	return rows, nil
}

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.messages = append(r.store.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindByChatID(ctx context.Context, chatId uuid.UUID) ([]*entity.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.store.messages {
		if m.ChatId == chatId {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) FindLastByChatID(ctx context.Context, chatId uuid.UUID) (*entity.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var last *entity.Message
	for _, m := range r.store.messages {
		if m.ChatId == chatId {
			last = m
		}
	}
	return last, nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, chatId, receiverId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, m := range r.store.messages {
		if m.ChatId == chatId && !m.IsRead && m.ReceiverId != nil && *m.ReceiverId == receiverId {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) MarkReadByReceiver(ctx context.Context, chatId, receiverId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.messages {
		if m.ChatId == chatId && m.ReceiverId != nil && *m.ReceiverId == receiverId {
			m.IsRead = true
		}
	}
	return nil
}

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, notification *model.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications = append(r.store.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var all []model.Notification
	for _, n := range r.store.notifications {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, n := range r.store.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.notifications {
		if n.ID == notificationID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.notifTypes[code], nil
}

func (r *fakeNotificationRepo) GetUsersByRole(ctx context.Context, role entity.UserRole) ([]model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.User
	for _, u := range r.store.users {
		if u.Role == role {
			out = append(out, model.User{Id: u.Id, Email: u.Email, FullName: u.FullName, Role: string(u.Role)})
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) GetPreference(ctx context.Context, userID uuid.UUID) (*model.UserNotificationPreference, error) {
	return &model.UserNotificationPreference{UserID: userID, EmailEnabled: true, PushEnabled: true}, nil
}

// fakePusher records frames per recipient.
type fakePusher struct {
	mu     sync.Mutex
	frames map[uuid.UUID][]pushedFrame
}

type pushedFrame struct {
	event string
	data  interface{}
}

func newFakePusher() *fakePusher {
	return &fakePusher{frames: make(map[uuid.UUID][]pushedFrame)}
}

func (p *fakePusher) SendToUser(userID uuid.UUID, event string, data interface{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames[userID] = append(p.frames[userID], pushedFrame{event: event, data: data})
	return true
}

func (p *fakePusher) eventsFor(userID uuid.UUID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.frames[userID]))
	for _, f := range p.frames[userID] {
		out = append(out, f.event)
	}
	return out
}

// noopLogger satisfies logger.ILogger for tests.
type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }
