package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Davsooonowy/TripWhizz/database"
	"github.com/Davsooonowy/TripWhizz/models"
	"github.com/Davsooonowy/TripWhizz/utils"
)

// resolveTrip is the single authorization gate for all ledger
// operations: it returns the trip only when the requesting user is the
// owner or a participant. Anyone else sees "Trip not found".
func resolveTrip(tripID, userID uuid.UUID) (*models.Trip, bool) {
	var trip models.Trip
	err := database.DB.
		Preload("Owner").
		Preload("Participants").
		Preload("Participants.User").
		First(&trip, "id = ?", tripID).Error
	if err != nil {
		return nil, false
	}
	if !trip.IsMember(userID) {
		return nil, false
	}
	return &trip, true
}

// POST /trip/
func CreateTrip(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Malformed request body")
		return
	}

	trip := models.Trip{
		Name:        req.Name,
		Destination: req.Destination,
		OwnerID:     userID,
	}
	if req.StartDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			trip.StartDate = &parsed
		}
	}
	if req.EndDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.EndDate); err == nil {
			trip.EndDate = &parsed
		}
	}

	if err := database.DB.Create(&trip).Error; err != nil {
		utils.InternalError(c, "Failed to create trip")
		return
	}

	for _, participant := range req.Participants {
		participantID, err := uuid.Parse(participant)
		if err != nil || participantID == userID {
			continue
		}
		var user models.User
		if err := database.DB.First(&user, "id = ?", participantID).Error; err != nil {
			continue
		}
		database.DB.Create(&models.TripParticipant{
			TripID: trip.ID,
			UserID: participantID,
		})
	}

	c.JSON(http.StatusCreated, buildTripResponse(trip.ID))
}

// GET /trip/
func GetTrips(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var participations []models.TripParticipant
	database.DB.Where("user_id = ?", userID).Find(&participations)

	tripIDs := []uuid.UUID{}
	for _, p := range participations {
		tripIDs = append(tripIDs, p.TripID)
	}

	var trips []models.Trip
	database.DB.
		Where("owner_id = ?", userID).
		Or("id IN ?", tripIDs).
		Order("created_at DESC").
		Find(&trips)

	responses := []models.TripResponse{}
	for _, t := range trips {
		responses = append(responses, buildTripResponse(t.ID))
	}

	c.JSON(http.StatusOK, responses)
}

// GET /trip/{id}/
func GetTrip(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Trip not found")
		return
	}

	trip, ok := resolveTrip(tripID, userID)
	if !ok {
		utils.NotFound(c, "Trip not found")
		return
	}

	c.JSON(http.StatusOK, buildTripResponse(trip.ID))
}

// POST /trip/{id}/participants/
func AddParticipant(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Trip not found")
		return
	}

	trip, ok := resolveTrip(tripID, userID)
	if !ok {
		utils.NotFound(c, "Trip not found")
		return
	}

	var req models.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Malformed request body")
		return
	}

	participantID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"user_id": "Invalid user ID."})
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", participantID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if trip.IsMember(participantID) {
		c.JSON(http.StatusBadRequest, gin.H{"user_id": "User is already a trip member."})
		return
	}

	database.DB.Create(&models.TripParticipant{
		TripID: tripID,
		UserID: participantID,
	})

	c.JSON(http.StatusCreated, buildTripResponse(tripID))
}

func buildTripResponse(tripID uuid.UUID) models.TripResponse {
	var trip models.Trip
	err := database.DB.
		Preload("Owner").
		Preload("Participants").
		Preload("Participants.User").
		First(&trip, "id = ?", tripID).Error
	if err != nil {
		return models.TripResponse{}
	}

	participants := []models.UserBasic{}
	for _, p := range trip.Participants {
		participants = append(participants, p.User.ToBasic())
	}

	return models.TripResponse{
		ID:           trip.ID,
		Name:         trip.Name,
		Destination:  trip.Destination,
		StartDate:    trip.StartDate,
		EndDate:      trip.EndDate,
		Owner:        trip.Owner.ToBasic(),
		Participants: participants,
		CreatedAt:    trip.CreatedAt,
	}
}
