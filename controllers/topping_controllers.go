package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tuber-treats/services"
	"github.com/yeremiapane/tuber-treats/utils"
)

type ToppingController struct {
	Toppings *services.ToppingService
}

func NewToppingController(toppings *services.ToppingService) *ToppingController {
	return &ToppingController{Toppings: toppings}
}

func (tc *ToppingController) GetAllToppings(c *gin.Context) {
	toppings, err := tc.Toppings.ListToppings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of toppings", toppings)
}

func (tc *ToppingController) GetToppingByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	topping, err := tc.Toppings.GetTopping(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Topping detail", topping)
}

func (tc *ToppingController) CreateTopping(c *gin.Context) {
	var req services.ToppingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	topping, err := tc.Toppings.CreateTopping(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Topping created", topping)
}

// DeleteTopping -> ikut menghapus topping dari semua order
func (tc *ToppingController) DeleteTopping(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := tc.Toppings.DeleteTopping(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Topping deleted", gin.H{"topping_id": id})
}
