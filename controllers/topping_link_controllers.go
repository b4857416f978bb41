package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tuber-treats/services"
	"github.com/yeremiapane/tuber-treats/utils"
)

type ToppingLinkController struct {
	Links *services.LinkService
}

func NewToppingLinkController(links *services.LinkService) *ToppingLinkController {
	return &ToppingLinkController{Links: links}
}

func (lc *ToppingLinkController) GetAllLinks(c *gin.Context) {
	links, err := lc.Links.ListToppingLinks(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of order toppings", links)
}

func (lc *ToppingLinkController) GetLinkByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	link, err := lc.Links.GetToppingLink(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order topping detail", link)
}

// AddToppingToOrder -> POST /tubertoppings {"order_id": n, "topping_id": n}
func (lc *ToppingLinkController) AddToppingToOrder(c *gin.Context) {
	var req struct {
		OrderID   uint `json:"order_id"`
		ToppingID uint `json:"topping_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	link, err := lc.Links.AddToppingToOrder(c.Request.Context(), req.OrderID, req.ToppingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Topping added to order", link)
}

func (lc *ToppingLinkController) RemoveToppingLink(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := lc.Links.RemoveToppingLink(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Topping removed from order", gin.H{"id": id})
}
