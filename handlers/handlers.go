package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Davsooonowy/TripWhizz/config"
	"github.com/Davsooonowy/TripWhizz/database"
	"github.com/Davsooonowy/TripWhizz/ledger"
	"github.com/Davsooonowy/TripWhizz/store"
	"github.com/Davsooonowy/TripWhizz/utils"
)

var (
	svc          *ledger.Service
	balanceCache *store.BalanceCache
)

// Init wires the ledger service and cache. Must be called after the
// database (and optionally Redis) connections are established.
func Init() {
	svc = ledger.NewService(store.NewGormStore(database.DB), config.AppConfig.DefaultCurrency)
	balanceCache = store.NewBalanceCache(database.Redis, 5*time.Minute)
}

// renderError maps ledger errors onto the wire: validation failures
// become field-keyed 400 maps, missing resources become terse 404s.
func renderError(c *gin.Context, err error) {
	var validation ledger.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, validation)
		return
	}

	var notFound *ledger.NotFoundError
	if errors.As(err, &notFound) {
		utils.NotFound(c, notFound.Error())
		return
	}

	utils.InternalError(c, "Internal server error")
}
