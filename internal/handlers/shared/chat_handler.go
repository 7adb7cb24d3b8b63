package shared

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"afyalink/internal/middleware"
	"afyalink/internal/models"
	"afyalink/internal/services"
	"afyalink/internal/utils"
	"afyalink/internal/validators"
)

type ChatHandler struct {
	chatService    services.ChatService
	chatbotService services.ChatbotService
}

func NewChatHandler(chatService services.ChatService, chatbotService services.ChatbotService) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		chatbotService: chatbotService,
	}
}

// StartSession opens a chat session in the waiting queue
func (h *ChatHandler) StartSession(c *gin.Context) {
	var request models.StartSessionRequest
	if !bindJSON(c, &request, true) {
		return
	}
	if !checkValid(c, validators.ValidateStartSession(&request)) {
		return
	}

	if userID, _, ok := middleware.CurrentUser(c); ok {
		request.UserID = &userID
	}

	session, err := h.chatService.StartSession(c.Request.Context(), &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"sessionId":           session.SessionID,
		"session":             session,
		"pollIntervalSeconds": h.pollIntervalSeconds(),
	})
}

// GetSession returns the current state of a session
func (h *ChatHandler) GetSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.chatService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, session)
}

// SendMessage appends a message to the session log
func (h *ChatHandler) SendMessage(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var request models.SendMessageRequest
	if !bindJSON(c, &request, false) {
		return
	}
	if !checkValid(c, validators.ValidateSendMessage(&request)) {
		return
	}

	var senderID *primitive.ObjectID
	userID, userType, authenticated := middleware.CurrentUser(c)
	if authenticated {
		senderID = &userID
	}
	if request.SenderType == models.SenderTypeCounselor && !isCounselor(userType) {
		utils.ForbiddenResponse(c)
		return
	}

	message, err := h.chatService.RecordMessage(c.Request.Context(), sessionID, request.SenderType, senderID, request.Message)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, message)
}

// GetMessages pages through the session log in send order
func (h *ChatHandler) GetMessages(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c, utils.DefaultMessagePage)
	messages, pagination, err := h.chatService.ListMessages(c.Request.Context(), sessionID, params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"messages":            messages,
		"pagination":          pagination,
		"pollIntervalSeconds": h.pollIntervalSeconds(),
	})
}

// MarkRead marks the other party's messages as read. Counselors read the
// user's messages; everyone else reads the counselor's.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	reader := models.SenderTypeUser
	if _, userType, ok := middleware.CurrentUser(c); ok && isCounselor(userType) {
		reader = models.SenderTypeCounselor
	}

	updated, err := h.chatService.MarkRead(c.Request.Context(), sessionID, reader)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"updated": updated})
}

// CancelSession lets the user leave the queue. Only waiting sessions can be
// cancelled; active ones are ended by the counselor.
func (h *ChatHandler) CancelSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.chatService.CancelSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, session)
}

// ListWaiting returns the triage queue, most urgent first
func (h *ChatHandler) ListWaiting(c *gin.Context) {
	params := utils.GetPaginationParams(c, utils.DefaultPageSize)
	sessions, pagination, err := h.chatService.ListWaiting(c.Request.Context(), params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sessions":   sessions,
		"pagination": pagination,
	})
}

// AssignCounselor claims a waiting session. Admins may assign on behalf of
// another counselor.
func (h *ChatHandler) AssignCounselor(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var request validators.AssignCounselorRequest
	if !bindJSON(c, &request, true) {
		return
	}
	if !checkValid(c, validators.ValidateAssignCounselor(&request)) {
		return
	}

	counselorID, userType, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	if requested := request.CounselorObjectID(); requested != nil && *requested != counselorID {
		if userType != models.UserTypeAdmin {
			utils.ForbiddenResponse(c)
			return
		}
		counselorID = *requested
	}

	session, err := h.chatService.AssignCounselor(c.Request.Context(), sessionID, counselorID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, session)
}

// EndSession closes a session with optional rating and feedback
func (h *ChatHandler) EndSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var request models.EndSessionRequest
	if !bindJSON(c, &request, true) {
		return
	}
	if !checkValid(c, validators.ValidateEndSession(&request)) {
		return
	}

	session, err := h.chatService.EndSession(c.Request.Context(), sessionID, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, session)
}

// BotReply records the user's message and answers with a scripted reply
func (h *ChatHandler) BotReply(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var request validators.BotMessageRequest
	if !bindJSON(c, &request, false) {
		return
	}
	if !checkValid(c, validators.ValidateBotMessage(&request)) {
		return
	}

	reply, err := h.chatbotService.Reply(c.Request.Context(), sessionID, request.Message)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *ChatHandler) pollIntervalSeconds() int {
	return int(h.chatService.PollInterval().Seconds())
}

func isCounselor(userType string) bool {
	return userType == models.UserTypeCounselor || userType == models.UserTypeAdmin
}
