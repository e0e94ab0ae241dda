package presence

import (
	"sync"

	"github.com/google/uuid"
)

// Handle is the live connection a session is bound to. Implemented by the
// websocket client.
type Handle interface {
	// Key uniquely identifies the underlying connection.
	Key() string

	// Push enqueues an event frame; returns false if the connection's send
	// buffer is full or closed.
	Push(event string, data interface{}) bool
}

// AgentSession is a connected agent or admin plus the departments the
// directory authorizes them to serve.
type AgentSession struct {
	UserID      uuid.UUID
	Departments []int64
	IsDefault   bool
	Handle      Handle
}

// ServesDepartment reports whether the session's actor may serve the
// department.
func (s *AgentSession) ServesDepartment(departmentId int64) bool {
	for _, d := range s.Departments {
		if d == departmentId {
			return true
		}
	}
	return false
}

// CustomerSession is a connected customer plus the routing hints supplied
// at connect time. It exists only while the connection is open.
type CustomerSession struct {
	UserID          uuid.UUID
	DepartmentId    int64
	CategoryId      int64
	IsAgentAssigned bool
	Handle          Handle
}

// Registry holds the live set of connected actors. Two logically distinct
// membership sets: one for agents/admins, one for customers. Lookup misses
// are routing information (actor offline), not errors.
type Registry interface {
	RegisterAgent(session *AgentSession)
	RegisterCustomer(session *CustomerSession)

	// Unregister removes whichever session owns the handle. Unknown handles
	// are a no-op.
	Unregister(handleKey string)

	LookupAgent(userId uuid.UUID) (*AgentSession, bool)
	LookupCustomer(userId uuid.UUID) (*CustomerSession, bool)

	// Lookup finds a handle in either membership set.
	Lookup(userId uuid.UUID) (Handle, bool)

	// OnlineAgents returns a snapshot of the connected agent set for the
	// assignment engine's linear scan.
	OnlineAgents() []*AgentSession
}

// MemoryRegistry is the process-local Registry. Membership is not
// replicated across instances; multi-instance deployments fan pushes out
// through the hub's pub/sub channel instead.
type MemoryRegistry struct {
	mu        sync.RWMutex
	agents    map[uuid.UUID]*AgentSession
	customers map[uuid.UUID]*CustomerSession
	byHandle  map[string]uuid.UUID
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		agents:    make(map[uuid.UUID]*AgentSession),
		customers: make(map[uuid.UUID]*CustomerSession),
		byHandle:  make(map[string]uuid.UUID),
	}
}

func (r *MemoryRegistry) RegisterAgent(session *AgentSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-registering the same handle replaces in place (idempotent).
	if existing, ok := r.agents[session.UserID]; ok {
		delete(r.byHandle, existing.Handle.Key())
	}
	r.agents[session.UserID] = session
	r.byHandle[session.Handle.Key()] = session.UserID
}

func (r *MemoryRegistry) RegisterCustomer(session *CustomerSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.customers[session.UserID]; ok {
		delete(r.byHandle, existing.Handle.Key())
	}
	r.customers[session.UserID] = session
	r.byHandle[session.Handle.Key()] = session.UserID
}

func (r *MemoryRegistry) Unregister(handleKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userId, ok := r.byHandle[handleKey]
	if !ok {
		return
	}
	delete(r.byHandle, handleKey)

	// Only drop the membership entry if it still points at this handle;
	// a newer connection for the same actor must survive the old
	// connection's disconnect cleanup.
	if s, ok := r.agents[userId]; ok && s.Handle.Key() == handleKey {
		delete(r.agents, userId)
	}
	if s, ok := r.customers[userId]; ok && s.Handle.Key() == handleKey {
		delete(r.customers, userId)
	}
}

func (r *MemoryRegistry) LookupAgent(userId uuid.UUID) (*AgentSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.agents[userId]
	return s, ok
}

func (r *MemoryRegistry) LookupCustomer(userId uuid.UUID) (*CustomerSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.customers[userId]
	return s, ok
}

func (r *MemoryRegistry) Lookup(userId uuid.UUID) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.agents[userId]; ok {
		return s.Handle, true
	}
	if s, ok := r.customers[userId]; ok {
		return s.Handle, true
	}
	return nil, false
}

func (r *MemoryRegistry) OnlineAgents() []*AgentSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]*AgentSession, 0, len(r.agents))
	for _, s := range r.agents {
		snapshot = append(snapshot, s)
	}
	return snapshot
}
