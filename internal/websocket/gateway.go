package websocket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fintrust-support-be/internal/entity"
	"fintrust-support-be/internal/pkg/logger"
	"fintrust-support-be/internal/presence"
	"fintrust-support-be/internal/repository/memory"
	"fintrust-support-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

// Gateway owns the websocket connect/disconnect lifecycle: it authenticates
// the upgrade, registers the actor in the presence registry, and runs the
// assignment scan for customers before their registration completes.
type Gateway struct {
	registry presence.Registry
	hub      *Hub
	sessions *memory.SessionRepository
	verifier service.ITokenVerifier
	agents   service.IAgentService
	assigner service.IAssignmentService
	logger   logger.ILogger
}

func NewGateway(
	registry presence.Registry,
	hub *Hub,
	sessions *memory.SessionRepository,
	verifier service.ITokenVerifier,
	agents service.IAgentService,
	assigner service.IAssignmentService,
	log logger.ILogger,
) *Gateway {
	return &Gateway{
		registry: registry,
		hub:      hub,
		sessions: sessions,
		verifier: verifier,
		agents:   agents,
		assigner: assigner,
		logger:   log,
	}
}

// Handle serves one upgraded connection. Authentication failures close the
// socket without any response payload.
func (g *Gateway) Handle(conn *websocket.Conn) {
	actor, err := g.verifier.VerifyToken(conn.Query("token"))
	if err != nil {
		conn.Close()
		return
	}

	client := NewClient(conn, actor.Id, actor.Role, g.onDisconnect)
	if err := g.register(actor, client, conn.Query); err != nil {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

// register places the actor in the presence registry and saves the
// connection session. An error means the connection must be dropped with no
// registry state behind it; the role captured here is what disconnect
// cleanup later relies on.
func (g *Gateway) register(actor *entity.Actor, client *Client, query func(key string, defaultValue ...string) string) error {
	session := &presence.ConnectionSession{
		ID:          client.ID,
		UserID:      actor.Id,
		Role:        actor.Role,
		ConnectedAt: time.Now(),
	}

	ctx := context.Background()

	if actor.Role.IsStaff() {
		profile, err := g.agents.GetProfile(ctx, actor.Id)
		if err != nil {
			g.logger.Error("Gateway", "Directory lookup failed", map[string]interface{}{
				"user_id": actor.Id,
				"error":   err.Error(),
			})
			return err
		}

		agentSession := &presence.AgentSession{
			UserID: actor.Id,
			Handle: client,
		}
		// Admins without a directory row connect with no serving departments;
		// they can still read, take over and push into chats.
		if profile != nil {
			agentSession.Departments = profile.Departments
			agentSession.IsDefault = profile.IsDefault
		}
		g.registry.RegisterAgent(agentSession)
	} else {
		departmentId, err := strconv.ParseInt(query("departmentId"), 10, 64)
		if err != nil {
			return err
		}
		categoryId, err := strconv.ParseInt(query("categoryId"), 10, 64)
		if err != nil {
			return err
		}

		// Assignment failure is routing information, not a reason to drop the
		// connection: the customer stays present and unassigned, same as when
		// no agent is online. No automatic retry follows.
		result, err := g.assigner.Assign(ctx, actor.Id, departmentId, categoryId)
		if err != nil {
			g.logger.Error("Gateway", "Assignment failed, registering unassigned", map[string]interface{}{
				"user_id": actor.Id,
				"error":   err.Error(),
			})
			result = &service.AssignmentResult{Assigned: false}
		}

		g.registry.RegisterCustomer(&presence.CustomerSession{
			UserID:          actor.Id,
			DepartmentId:    departmentId,
			CategoryId:      categoryId,
			IsAgentAssigned: result.Assigned,
			Handle:          client,
		})

		session.DepartmentId = departmentId
		session.CategoryId = categoryId
		session.IsAgentAssigned = result.Assigned

		if result.Assigned {
			// The agent learns about the new customer, the customer learns
			// which agent picked them up; both frames are department scoped.
			g.hub.SendToUser(result.AgentId, fmt.Sprintf("customerAssigned_%d", departmentId), map[string]interface{}{
				"chat_id":     result.ChatId,
				"customer_id": actor.Id,
				"category_id": categoryId,
			})
			client.Push(fmt.Sprintf("agentAssigned_%d", departmentId), map[string]interface{}{
				"chat_id":  result.ChatId,
				"agent_id": result.AgentId,
			})
		}
	}

	g.sessions.Save(session)
	g.logger.Info("Gateway", "Connection established", map[string]interface{}{
		"user_id": actor.Id,
		"role":    actor.Role,
		"session": client.ID,
	})

	return nil
}

func (g *Gateway) onDisconnect(c *Client) {
	g.registry.Unregister(c.ID)
	g.sessions.Delete(c.ID)
	g.logger.Info("Gateway", "Connection closed", map[string]interface{}{
		"user_id": c.UserID,
		"session": c.ID,
	})
}
