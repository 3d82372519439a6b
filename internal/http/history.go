package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/h2o/internal/entities"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryController lists past send actions.
type HistoryController struct {
	store HistoryStore
}

func NewHistoryController(store HistoryStore) *HistoryController {
	return &HistoryController{store: store}
}

// GetHistory returns send events, most recent first.
// Query: limit, offset, action.
func (h *HistoryController) GetHistory(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", defaultHistoryLimit)
	if !ok {
		return
	}
	if limit == 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	offset, ok := parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	var (
		events []entities.SendEvent
		total  int64
		err    error
	)
	if action := c.Query("action"); action != "" {
		events, total, err = h.store.GetEventsByAction(entities.SendAction(action), limit, offset)
	} else {
		events, total, err = h.store.GetEvents(limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "get history")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
