package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/lshigami/Quokka/internal/signaling"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The browser cannot set Authorization on a websocket handshake, so the
	// origin check is left to the CORS layer in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type SignalingController struct {
	hub      *signaling.Hub
	tokens   service.TokenService
	userRepo repository.UserRepository
}

func NewSignalingController(hub *signaling.Hub, tokens service.TokenService, userRepo repository.UserRepository) *SignalingController {
	return &SignalingController{hub: hub, tokens: tokens, userRepo: userRepo}
}

// Connect godoc
// @Summary Open the WebRTC signaling websocket
// @Description Authenticates via the token query parameter, then speaks the signaling protocol (create-room, join-room, offer, answer, ice-candidate, user-blur).
// @Tags Signaling
// @Param token query string true "Access token"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} dto.ErrorResponse
// @Router /ws/signaling [get]
func (ctl *SignalingController) Connect(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing token"})
		return
	}
	claims, err := ctl.tokens.ParseAccess(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
		return
	}
	user, err := ctl.userRepo.FindByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Account no longer exists"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Signaling: websocket upgrade failed")
		return
	}

	client := ctl.hub.Attach(conn, user.StudentID, user.Name, user.IsAdmin)
	log.Info().Str("peer", client.ID).Str("student", user.StudentID).Msg("Signaling connection opened")
}
