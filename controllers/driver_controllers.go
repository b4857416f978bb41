package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tuber-treats/services"
	"github.com/yeremiapane/tuber-treats/utils"
)

type DriverController struct {
	Drivers *services.DriverService
}

func NewDriverController(drivers *services.DriverService) *DriverController {
	return &DriverController{Drivers: drivers}
}

func (dc *DriverController) GetAllDrivers(c *gin.Context) {
	drivers, err := dc.Drivers.ListDrivers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of drivers", drivers)
}

// GetDriverByID -> driver beserta deliveries (terbaru dulu)
func (dc *DriverController) GetDriverByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	driver, err := dc.Drivers.GetDriver(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Driver detail", driver)
}

func (dc *DriverController) CreateDriver(c *gin.Context) {
	var req services.DriverInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	driver, err := dc.Drivers.CreateDriver(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Driver created", driver)
}

func (dc *DriverController) DeleteDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := dc.Drivers.DeleteDriver(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Driver deleted", gin.H{"driver_id": id})
}
