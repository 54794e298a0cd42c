package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"cse_motors/internal/logger"
	"cse_motors/internal/middleware"
	"cse_motors/internal/model"
	"cse_motors/internal/nav"
	"cse_motors/internal/service"
	"cse_motors/internal/validation"

	"github.com/gin-gonic/gin"
)

// InventoryHandler handles the public catalogue and staff inventory management
type InventoryHandler struct {
	pages   *Pages
	nav     *nav.Builder
	service service.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(pages *Pages, navBuilder *nav.Builder, s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{pages: pages, nav: navBuilder, service: s}
}

var inventoryFields = []string{
	"classification_id", "inv_make", "inv_model", "inv_year", "inv_description",
	"inv_image", "inv_thumbnail", "inv_price", "inv_miles", "inv_color",
}

func inventorySticky(form url.Values) gin.H {
	data := gin.H{}
	for _, field := range inventoryFields {
		data[field] = form.Get(field)
	}
	if data["inv_image"] == "" {
		data["inv_image"] = model.DefaultImage
	}
	if data["inv_thumbnail"] == "" {
		data["inv_thumbnail"] = model.DefaultThumbnail
	}
	return data
}

func inventoryData(item *model.Inventory) gin.H {
	return gin.H{
		"inv_id":            item.ID,
		"classification_id": item.ClassificationID,
		"inv_make":          item.Make,
		"inv_model":         item.Model,
		"inv_year":          item.Year,
		"inv_description":   item.Description,
		"inv_image":         item.Image,
		"inv_thumbnail":     item.Thumbnail,
		"inv_price":         item.Price,
		"inv_miles":         item.Miles,
		"inv_color":         item.Color,
	}
}

// inventoryFromForm converts a validated form. Fields that passed the rules
// always parse.
func inventoryFromForm(form url.Values) *model.Inventory {
	item := &model.Inventory{
		Make:        form.Get("inv_make"),
		Model:       form.Get("inv_model"),
		Description: form.Get("inv_description"),
		Image:       form.Get("inv_image"),
		Thumbnail:   form.Get("inv_thumbnail"),
		Color:       form.Get("inv_color"),
	}
	item.ID, _ = strconv.Atoi(form.Get("inv_id"))
	item.ClassificationID, _ = strconv.Atoi(form.Get("classification_id"))
	item.Year, _ = strconv.Atoi(form.Get("inv_year"))
	item.Price, _ = strconv.ParseFloat(form.Get("inv_price"), 64)
	item.Miles, _ = strconv.ParseFloat(form.Get("inv_miles"), 64)
	return item
}

func (h *InventoryHandler) classificationList(c *gin.Context, selected string) ([]nav.Option, bool) {
	id, _ := strconv.Atoi(selected)
	options, err := h.nav.ClassificationList(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return options, true
}

func (h *InventoryHandler) BuildManagement(c *gin.Context) {
	options, ok := h.classificationList(c, "")
	if !ok {
		return
	}
	h.pages.Render(c, http.StatusOK, "inventory/management", "Inventory Management", gin.H{
		"classificationSelect": options,
	})
}

func (h *InventoryHandler) BuildByClassification(c *gin.Context) {
	classificationID, err := strconv.Atoi(c.Param("classificationId"))
	if err != nil {
		h.pages.Error(c, http.StatusNotFound, "Not Found", "Classification not found.")
		return
	}

	classification, items, err := h.service.ByClassification(c.Request.Context(), classificationID)
	if err != nil {
		if errors.Is(err, service.ErrClassificationNotFound) {
			h.pages.Error(c, http.StatusNotFound, "Not Found", "Classification not found.")
			return
		}
		_ = c.Error(err)
		return
	}

	h.pages.Render(c, http.StatusOK, "inventory/classification", classification.Name+" vehicles", gin.H{
		"classification": classification,
		"items":          items,
	})
}

func (h *InventoryHandler) BuildDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.pages.Error(c, http.StatusNotFound, "Not Found", "Vehicle not found.")
		return
	}

	item, err := h.service.Vehicle(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			h.pages.Error(c, http.StatusNotFound, "Not Found", "Vehicle not found.")
			return
		}
		_ = c.Error(err)
		return
	}

	h.pages.Render(c, http.StatusOK, "inventory/details", item.Name(), gin.H{"vehicle": item})
}

func (h *InventoryHandler) BuildAddClassification(c *gin.Context) {
	h.pages.Render(c, http.StatusOK, "inventory/add-classification", "Add Classification", gin.H{
		"classification_name": "",
	})
}

func (h *InventoryHandler) classificationFailed(c *gin.Context, errs validation.Errors, form url.Values) {
	h.pages.Render(c, http.StatusBadRequest, "inventory/add-classification", "Add Classification", gin.H{
		"errors":              errs,
		"classification_name": form.Get("classification_name"),
	})
}

func (h *InventoryHandler) AddClassification(c *gin.Context) {
	name := middleware.ValidatedForm(c).Get("classification_name")

	if err := h.service.AddClassification(c.Request.Context(), name); err != nil {
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Str("classification", name).Msg("failed to add classification")
		h.pages.Notice(c, "Failed to add classification.")
		h.pages.Render(c, http.StatusNotImplemented, "inventory/add-classification", "Add Classification", gin.H{
			"classification_name": name,
		})
		return
	}

	h.nav.Invalidate()
	h.pages.Redirect(c, "/inv/", fmt.Sprintf("Classification %q added successfully.", name))
}

func (h *InventoryHandler) BuildAddInventory(c *gin.Context) {
	options, ok := h.classificationList(c, "")
	if !ok {
		return
	}
	data := inventorySticky(url.Values{})
	data["classificationList"] = options
	h.pages.Render(c, http.StatusOK, "inventory/add-inventory", "Add Inventory", data)
}

// renderInventoryForm re-renders the add or edit form with the submitted values.
func (h *InventoryHandler) renderInventoryForm(c *gin.Context, status int, name, title string, form url.Values, errs validation.Errors) {
	options, ok := h.classificationList(c, form.Get("classification_id"))
	if !ok {
		return
	}
	data := inventorySticky(form)
	data["classificationList"] = options
	data["errors"] = errs
	if form.Has("inv_id") {
		data["inv_id"] = form.Get("inv_id")
	}
	h.pages.Render(c, status, name, title, data)
}

func (h *InventoryHandler) addInventoryFailed(c *gin.Context, errs validation.Errors, form url.Values) {
	h.renderInventoryForm(c, http.StatusBadRequest, "inventory/add-inventory", "Add Inventory", form, errs)
}

func (h *InventoryHandler) AddInventory(c *gin.Context) {
	form := middleware.ValidatedForm(c)
	item := inventoryFromForm(form)

	if err := h.service.AddVehicle(c.Request.Context(), item); err != nil {
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Str("vehicle", item.Name()).Msg("failed to add inventory")
		h.pages.Notice(c, "Failed to add inventory item.")
		h.renderInventoryForm(c, http.StatusNotImplemented, "inventory/add-inventory", "Add Inventory", form, nil)
		return
	}

	h.pages.Redirect(c, "/inv/", fmt.Sprintf("Inventory item %q added successfully.", item.Name()))
}

func (h *InventoryHandler) BuildEdit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.pages.Error(c, http.StatusBadRequest, "Bad Request", "Invalid inventory id")
		return
	}

	item, err := h.service.Vehicle(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVehicleNotFound) {
			h.pages.Error(c, http.StatusNotFound, "Not Found", "Vehicle not found")
			return
		}
		_ = c.Error(err)
		return
	}

	options, ok := h.classificationList(c, strconv.Itoa(item.ClassificationID))
	if !ok {
		return
	}
	data := inventoryData(item)
	data["classificationList"] = options
	h.pages.Render(c, http.StatusOK, "inventory/edit-inventory", "Edit "+item.Name(), data)
}

func (h *InventoryHandler) updateFailed(c *gin.Context, errs validation.Errors, form url.Values) {
	title := "Edit " + form.Get("inv_make") + " " + form.Get("inv_model")
	h.renderInventoryForm(c, http.StatusBadRequest, "inventory/edit-inventory", title, form, errs)
}

func (h *InventoryHandler) UpdateInventory(c *gin.Context) {
	form := middleware.ValidatedForm(c)
	item := inventoryFromForm(form)

	updated, err := h.service.UpdateVehicle(c.Request.Context(), item)
	if err != nil {
		logger.ForRequest(middleware.RequestID(c)).Error().Err(err).Int("inv_id", item.ID).Msg("failed to update inventory")
		h.pages.Notice(c, "Sorry, the update failed.")
		h.renderInventoryForm(c, http.StatusNotImplemented, "inventory/edit-inventory", "Edit "+item.Name(), form, nil)
		return
	}

	h.pages.Redirect(c, "/inv/", fmt.Sprintf("The %s was successfully updated.", updated.Name()))
}

// GetInventoryJSON returns the vehicles of a classification, [] when none.
func (h *InventoryHandler) GetInventoryJSON(c *gin.Context) {
	classificationID, err := strconv.Atoi(c.Param("classificationId"))
	if err != nil {
		c.JSON(http.StatusOK, []model.Inventory{})
		return
	}

	items, err := h.service.ListByClassification(c.Request.Context(), classificationID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// RegisterInventoryRoutes registers inventory routes
func (h *InventoryHandler) RegisterInventoryRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, staffMW gin.HandlerFunc) {
	invGroup := rg.Group("/inv")
	{
		invGroup.GET("/type/:classificationId", h.BuildByClassification)
		invGroup.GET("/detail/:id", h.BuildDetail)
	}

	staffRoutes := invGroup.Group("")
	staffRoutes.Use(authMW)
	staffRoutes.Use(staffMW)
	{
		staffRoutes.GET("/", h.BuildManagement)
		staffRoutes.GET("/add-classification", h.BuildAddClassification)
		staffRoutes.POST("/add-classification", middleware.Validate("classification", validation.ClassificationRules(), h.classificationFailed), h.AddClassification)
		staffRoutes.GET("/add-inventory", h.BuildAddInventory)
		staffRoutes.POST("/add-inventory", middleware.Validate("inventory", validation.InventoryRules(), h.addInventoryFailed), h.AddInventory)
		staffRoutes.GET("/edit/:id", h.BuildEdit)
		staffRoutes.POST("/update", middleware.Validate("inventory_update", validation.InventoryRules(), h.updateFailed), h.UpdateInventory)
		staffRoutes.GET("/getInventory/:classificationId", h.GetInventoryJSON)
	}
}
