package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Davsooonowy/TripWhizz/database"
	"github.com/Davsooonowy/TripWhizz/models"
	"github.com/Davsooonowy/TripWhizz/utils"
)

// GET /trip/{id}/balances/
func GetTripBalances(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Trip not found")
		return
	}

	if _, ok := resolveTrip(tripID, userID); !ok {
		utils.NotFound(c, "Trip not found")
		return
	}

	ctx := c.Request.Context()

	if cached, ok := balanceCache.Get(ctx, tripID); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	balances, err := svc.Balances(ctx, tripID)
	if err != nil {
		renderError(c, err)
		return
	}

	memberIDs := make([]uuid.UUID, 0, len(balances))
	for _, b := range balances {
		memberIDs = append(memberIDs, b.UserID)
	}

	users := map[uuid.UUID]models.User{}
	var records []models.User
	database.DB.Where("id IN ?", memberIDs).Find(&records)
	for _, u := range records {
		users[u.ID] = u
	}

	entries := []models.BalanceEntry{}
	for _, b := range balances {
		user := users[b.UserID]
		entries = append(entries, models.BalanceEntry{
			User:    user.ToBasic(),
			Balance: models.NewMoney(b.Balance),
		})
	}

	balanceCache.Set(ctx, tripID, entries)
	c.JSON(http.StatusOK, entries)
}
