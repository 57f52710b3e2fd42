package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/foodgram-backend/internal/http/response"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/services"
)

type UserHandler struct {
	log           *logger.Logger
	auth          services.AuthService
	users         services.UserService
	avatars       services.AvatarService
	subscriptions services.SubscriptionService
}

func NewUserHandler(
	log *logger.Logger,
	auth services.AuthService,
	users services.UserService,
	avatars services.AvatarService,
	subscriptions services.SubscriptionService,
) *UserHandler {
	return &UserHandler{
		log:           log.With("handler", "UserHandler"),
		auth:          auth,
		users:         users,
		avatars:       avatars,
		subscriptions: subscriptions,
	}
}

// List handles GET /api/users.
func (uh *UserHandler) List(c *gin.Context) {
	page, ok := response.ParsePage(c)
	if !ok {
		return
	}
	users, total, err := uh.users.List(c.Request.Context(), page.Offset(), page.Limit)
	if err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	views := make([]services.AuthorView, 0, len(users))
	for _, u := range users {
		views = append(views, services.AuthorView{UserView: u})
	}
	response.RespondPage(c, page, total, presentUsersFor("list", views))
}

// Create handles POST /api/users (registration).
func (uh *UserHandler) Create(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := uh.auth.Register(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondCreated(c, presentUserFor("create", services.AuthorView{UserView: services.UserView{User: user}}))
}

// Get handles GET /api/users/:id.
func (uh *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := uh.users.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondOK(c, presentUserFor("retrieve", services.AuthorView{UserView: view}))
}

// Me handles GET /api/users/me.
func (uh *UserHandler) Me(c *gin.Context) {
	view, err := uh.users.Me(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondOK(c, presentUserFor("me", services.AuthorView{UserView: view}))
}

// DeleteMe handles DELETE /api/users/me.
func (uh *UserHandler) DeleteMe(c *gin.Context) {
	var req services.DeleteMeInput
	if !bindJSON(c, &req) {
		return
	}
	if err := uh.users.DeleteMe(c.Request.Context(), req); err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondNoContent(c)
}

// SetPassword handles POST /api/users/set_password.
func (uh *UserHandler) SetPassword(c *gin.Context) {
	var req services.SetPasswordInput
	if !bindJSON(c, &req) {
		return
	}
	if err := uh.auth.SetPassword(c.Request.Context(), req); err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondNoContent(c)
}

// GetAvatar handles GET /api/users/me/avatar.
func (uh *UserHandler) GetAvatar(c *gin.Context) {
	url, err := uh.avatars.Get(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"avatar": url})
}

// PutAvatar handles PUT /api/users/me/avatar with {"avatar": "<data URL>"}.
func (uh *UserHandler) PutAvatar(c *gin.Context) {
	var req struct {
		Avatar *string `json:"avatar"`
	}
	if !bindJSON(c, &req) {
		return
	}
	url, err := uh.avatars.Put(c.Request.Context(), req.Avatar)
	if err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondOK(c, gin.H{"avatar": url})
}

// DeleteAvatar handles DELETE /api/users/me/avatar.
func (uh *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := uh.avatars.Delete(c.Request.Context()); err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondNoContent(c)
}

// Subscriptions handles GET /api/users/subscriptions.
func (uh *UserHandler) Subscriptions(c *gin.Context) {
	page, ok := response.ParsePage(c)
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(c, "recipes_limit")
	if !ok {
		return
	}
	authors, total, err := uh.subscriptions.List(c.Request.Context(), page.Offset(), page.Limit, recipesLimit)
	if err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	views := make([]services.AuthorView, 0, len(authors))
	for _, a := range authors {
		views = append(views, *a)
	}
	response.RespondPage(c, page, total, presentUsersFor("subscriptions", views))
}

// Subscribe handles POST /api/users/:id/subscribe.
func (uh *UserHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(c, "recipes_limit")
	if !ok {
		return
	}
	author, err := uh.subscriptions.Subscribe(c.Request.Context(), id, recipesLimit)
	if err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondCreated(c, presentUserFor("subscribe", *author))
}

// Unsubscribe handles DELETE /api/users/:id/subscribe.
func (uh *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := uh.subscriptions.Unsubscribe(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, uh.log, err)
		return
	}
	response.RespondNoContent(c)
}
