package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Davsooonowy/TripWhizz/database"
	"github.com/Davsooonowy/TripWhizz/models"
	"github.com/Davsooonowy/TripWhizz/utils"
)

// POST /trip/{id}/settlements/
func CreateSettlement(c *gin.Context) {
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

	var req models.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Malformed request body")
		return
	}

	settlement, err := svc.AddSettlement(c.Request.Context(), tripID, req)
	if err != nil {
		renderError(c, err)
		return
	}

	balanceCache.Invalidate(c.Request.Context(), tripID)
	c.JSON(http.StatusCreated, buildSettlementResponse(settlement))
}

// GET /trip/{id}/settlements/
func ListSettlements(c *gin.Context) {
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

	settlements, err := svc.Settlements(c.Request.Context(), tripID)
	if err != nil {
		renderError(c, err)
		return
	}

	responses := []models.SettlementResponse{}
	for i := range settlements {
		responses = append(responses, buildSettlementResponse(&settlements[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// GET /trip/{id}/settlements/{settlement_id}/
func GetSettlement(c *gin.Context) {
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

	settlementID, err := uuid.Parse(c.Param("settlement_id"))
	if err != nil {
		utils.NotFound(c, "Settlement not found")
		return
	}

	settlement, err := svc.Settlement(c.Request.Context(), tripID, settlementID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildSettlementResponse(settlement))
}

func buildSettlementResponse(settlement *models.Settlement) models.SettlementResponse {
	payer := settlement.Payer
	if payer.ID == uuid.Nil {
		database.DB.First(&payer, "id = ?", settlement.PayerID)
	}
	payee := settlement.Payee
	if payee.ID == uuid.Nil {
		database.DB.First(&payee, "id = ?", settlement.PayeeID)
	}

	return models.SettlementResponse{
		ID:        settlement.ID,
		Trip:      settlement.TripID,
		Payer:     payer.ToBasic(),
		Payee:     payee.ToBasic(),
		Amount:    models.NewMoney(settlement.Amount),
		Currency:  settlement.Currency,
		Note:      settlement.Note,
		CreatedAt: settlement.CreatedAt,
	}
}
