package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/h2o/internal/sender"
)

// SendController triggers send actions.
type SendController struct {
	sender SendService
}

func NewSendController(s SendService) *SendController {
	return &SendController{sender: s}
}

// PreviewRequest is the body of POST /api/preview.
type PreviewRequest struct {
	OnlyNew bool `json:"only_new"`
}

// SendBooksRequest is the body of POST /api/send/books.
type SendBooksRequest struct {
	BookIDs []int64 `json:"book_ids" binding:"required"`
	OnlyNew bool    `json:"only_new"`
}

// SendNew sends highlights made since the last send.
func (s *SendController) SendNew(c *gin.Context) {
	s.respond(c)(s.sender.SendNew(sender.TriggerAPI))
}

// SendAll sends every highlight.
func (s *SendController) SendAll(c *gin.Context) {
	s.respond(c)(s.sender.SendAll(sender.TriggerAPI))
}

// Resend repeats the previous send.
func (s *SendController) Resend(c *gin.Context) {
	s.respond(c)(s.sender.Resend(sender.TriggerAPI))
}

// SendBooks sends the highlights of selected books.
func (s *SendController) SendBooks(c *gin.Context) {
	var req SendBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}
	s.respond(c)(s.sender.SendBooks(sender.TriggerAPI, req.BookIDs, req.OnlyNew))
}

// Preview returns the notes a send would deliver. An empty body previews
// every highlight.
func (s *SendController) Preview(c *gin.Context) {
	var req PreviewRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request: "+err.Error())
			return
		}
	}
	s.respond(c)(s.sender.Preview(sender.TriggerAPI, req.OnlyNew))
}

func (s *SendController) respond(c *gin.Context) func(*sender.Result, error) {
	return func(result *sender.Result, err error) {
		if err != nil {
			respondSendError(c, err, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
