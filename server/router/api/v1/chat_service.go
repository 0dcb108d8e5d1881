package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/studymate/studymate/store"
)

type chatResponse struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	Pinned    bool   `json:"pinned"`
	CreatedTs int64  `json:"created_ts"`
	UpdatedTs int64  `json:"updated_ts"`
}

type chatMessageResponse struct {
	UID       string   `json:"uid"`
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Sources   []string `json:"sources,omitempty"`
	Category  string   `json:"category,omitempty"`
	CreatedTs int64    `json:"created_ts"`
}

type createChatRequest struct {
	Title string `json:"title"`
}

type updateChatRequest struct {
	Title  *string `json:"title"`
	Pinned *bool   `json:"pinned"`
}

func convertChat(chat *store.Chat) chatResponse {
	return chatResponse{
		UID:       chat.UID,
		Title:     chat.Title,
		Pinned:    chat.Pinned,
		CreatedTs: chat.CreatedTs,
		UpdatedTs: chat.UpdatedTs,
	}
}

func convertChatMessage(message *store.ChatMessage) chatMessageResponse {
	resp := chatMessageResponse{
		UID:       message.UID,
		Role:      string(message.Role),
		Content:   message.Content,
		Category:  message.Category,
		CreatedTs: message.CreatedTs,
	}
	if message.Sources != "" {
		// Sources are stored as a JSON array of URLs; a decode failure just
		// drops them from the response.
		_ = json.Unmarshal([]byte(message.Sources), &resp.Sources)
	}
	return resp
}

// findOwnedChat resolves a chat by UID scoped to the authenticated user.
func (s *APIV1Service) findOwnedChat(c echo.Context, uid string) (*store.Chat, error) {
	user := currentUser(c)
	chat, err := s.Store.GetChat(c.Request().Context(), &store.FindChat{
		UID:       &uid,
		CreatorID: &user.ID,
	})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to look up chat").SetInternal(err)
	}
	if chat == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}
	return chat, nil
}

// ListChats returns the user's chats, pinned first.
func (s *APIV1Service) ListChats(c echo.Context) error {
	user := currentUser(c)
	chats, err := s.Store.ListChats(c.Request().Context(), &store.FindChat{CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list chats").SetInternal(err)
	}

	responses := make([]chatResponse, 0, len(chats))
	for _, chat := range chats {
		responses = append(responses, convertChat(chat))
	}
	return c.JSON(http.StatusOK, responses)
}

// CreateChat starts a new conversation.
func (s *APIV1Service) CreateChat(c echo.Context) error {
	user := currentUser(c)

	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Cuộc trò chuyện mới"
	}

	now := s.Now().Unix()
	chat, err := s.Store.CreateChat(c.Request().Context(), &store.Chat{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Title:     title,
		RowStatus: store.Normal,
		CreatedTs: now,
		UpdatedTs: now,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create chat").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, convertChat(chat))
}

// GetChat returns one chat by UID.
func (s *APIV1Service) GetChat(c echo.Context) error {
	chat, err := s.findOwnedChat(c, c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertChat(chat))
}

// UpdateChat renames or pins a chat.
func (s *APIV1Service) UpdateChat(c echo.Context) error {
	chat, err := s.findOwnedChat(c, c.Param("uid"))
	if err != nil {
		return err
	}

	var req updateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.Title == nil && req.Pinned == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	update := &store.UpdateChat{ID: chat.ID, Pinned: req.Pinned}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "title cannot be empty")
		}
		update.Title = &title
	}
	now := s.Now().Unix()
	update.UpdatedTs = &now

	updated, err := s.Store.UpdateChat(c.Request().Context(), update)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update chat").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertChat(updated))
}

// DeleteChat removes a chat and its messages.
func (s *APIV1Service) DeleteChat(c echo.Context) error {
	chat, err := s.findOwnedChat(c, c.Param("uid"))
	if err != nil {
		return err
	}
	if err := s.Store.DeleteChat(c.Request().Context(), &store.DeleteChat{ID: chat.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete chat").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListChatMessages returns a chat's messages in chronological order.
func (s *APIV1Service) ListChatMessages(c echo.Context) error {
	chat, err := s.findOwnedChat(c, c.Param("uid"))
	if err != nil {
		return err
	}

	messages, err := s.Store.ListChatMessages(c.Request().Context(), &store.FindChatMessage{ChatID: &chat.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list messages").SetInternal(err)
	}

	responses := make([]chatMessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, convertChatMessage(message))
	}
	return c.JSON(http.StatusOK, responses)
}
