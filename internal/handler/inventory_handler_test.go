package handler

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"cse_motors/internal/model"
	"cse_motors/internal/nav"
	"cse_motors/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vehicleForm() url.Values {
	return url.Values{
		"classification_id": {"1"},
		"inv_make":          {"DMC"},
		"inv_model":         {"Delorean"},
		"inv_year":          {"1981"},
		"inv_description":   {"Time machine"},
		"inv_image":         {"/images/dmc.jpg"},
		"inv_thumbnail":     {"/images/dmc-tn.jpg"},
		"inv_price":         {"25000"},
		"inv_miles":         {"88"},
		"inv_color":         {"Silver"},
	}
}

func (h *harness) staff(t *testing.T) []*http.Cookie {
	return h.login(t, "emp@example.com")
}

func TestInventoryGate_ClientVsEmployee(t *testing.T) {
	h := newHarness(t)

	w := h.get("/inv/add-inventory", h.login(t, "ada@example.com"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	r := h.renderer.last
	assert.Equal(t, "account/login", r.name)
	assert.Equal(t, "You do not have permission to access that page. Sign in with an Employee or Admin account.", r.data["message"])

	w = h.get("/inv/add-inventory", h.staff(t))
	assert.Equal(t, http.StatusOK, w.Code)
	r = h.renderer.last
	assert.Equal(t, "inventory/add-inventory", r.name)
	assert.Equal(t, model.DefaultImage, r.data["inv_image"])
	assert.Len(t, r.data["classificationList"], 2)
}

func TestInventoryGate_TokenMessages(t *testing.T) {
	h := newHarness(t)
	expired, err := utils.NewJWTUtil("handler-test-jwt-secret", -time.Minute).GenerateToken(model.Principal{ID: 3, Role: model.RoleEmployee})
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"none", "", "You must be logged in as an Employee or Admin to access that page."},
		{"expired", expired, "Your session has expired. Please log in again."},
		{"malformed", "abc.def", "Invalid authentication token. Please log in."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := formRequest(http.MethodGet, "/inv/", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := h.serve(req, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "account/login", h.renderer.last.name)
			assert.Equal(t, tt.message, h.renderer.last.data["message"])
		})
	}
}

func TestManagementView(t *testing.T) {
	h := newHarness(t)

	w := h.get("/inv/", h.staff(t))
	assert.Equal(t, http.StatusOK, w.Code)
	r := h.renderer.last
	assert.Equal(t, "inventory/management", r.name)
	options := r.data["classificationSelect"].([]nav.Option)
	assert.Equal(t, "Custom", options[0].Name)
}

func TestAddClassification(t *testing.T) {
	h := newHarness(t)
	cookies := h.staff(t)
	h.get("/", nil)

	w := h.post("/inv/add-classification", url.Values{"classification_name": {"Sedans!"}}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	r := h.renderer.last
	assert.Equal(t, []string{"Classification name cannot contain spaces or special characters."}, errorMessages(t, r))
	assert.Equal(t, "Sedans!", r.data["classification_name"])

	w = h.post("/inv/add-classification", url.Values{"classification_name": {"Sedans"}}, cookies)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/inv/", w.Header().Get("Location"))

	h.get("/", nil)
	assert.Contains(t, h.renderer.last.data["nav"], nav.Item{Name: "Sedans", URL: "/inv/type/3"})
}

func TestAddClassification_StoreRejects(t *testing.T) {
	h := newHarness(t)

	w := h.post("/inv/add-classification", url.Values{"classification_name": {"Sedan"}}, h.staff(t))

	assert.Equal(t, http.StatusNotImplemented, w.Code)
	r := h.renderer.last
	assert.Equal(t, "inventory/add-classification", r.name)
	assert.Equal(t, []string{"Failed to add classification."}, notices(r))
}

func TestAddInventory_Boundaries(t *testing.T) {
	tests := []struct {
		field, value, message string
	}{
		{"inv_year", "1899", "Please provide a valid year."},
		{"inv_year", "2101", "Please provide a valid year."},
		{"inv_year", "19.5", "Please provide a valid year."},
		{"inv_price", "-1", "Please provide a valid price."},
		{"inv_miles", "-0.5", "Please provide valid miles."},
		{"inv_miles", "lots", "Please provide valid miles."},
		{"classification_id", "", "Please select a classification."},
	}
	h := newHarness(t)
	cookies := h.staff(t)
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			form := vehicleForm()
			form.Set(tt.field, tt.value)
			w := h.post("/inv/add-inventory", form, cookies)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			r := h.renderer.last
			assert.Equal(t, "inventory/add-inventory", r.name)
			assert.Equal(t, []string{tt.message}, errorMessages(t, r))
			assert.Equal(t, "DMC", r.data["inv_make"])
		})
	}
	assert.Len(t, h.inventory.items, 1)
}

func TestAddInventory_AcceptsLimits(t *testing.T) {
	h := newHarness(t)
	cookies := h.staff(t)

	for _, year := range []string{"1900", "2100"} {
		form := vehicleForm()
		form.Set("inv_year", year)
		form.Set("inv_price", "0")
		form.Set("inv_miles", "0")
		form.Del("inv_image")
		form.Del("inv_thumbnail")
		w := h.post("/inv/add-inventory", form, cookies)
		assert.Equal(t, http.StatusSeeOther, w.Code, year)
	}

	require.Len(t, h.inventory.items, 3)
	added := h.inventory.items[10]
	assert.Equal(t, 1900, added.Year)
	assert.Equal(t, model.DefaultImage, added.Image)
	assert.Equal(t, model.DefaultThumbnail, added.Thumbnail)
}

func TestUpdateInventory_Idempotent(t *testing.T) {
	h := newHarness(t)
	cookies := h.staff(t)
	form := vehicleForm()
	form.Set("inv_id", "5")
	form.Set("inv_price", "19999.99")

	for i := 0; i < 2; i++ {
		w := h.post("/inv/update", form, cookies)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/inv/", w.Header().Get("Location"))
	}
	assert.Equal(t, 19999.99, h.inventory.items[5].Price)
	assert.Len(t, h.inventory.items, 1)
}

func TestUpdateInventory_Missing(t *testing.T) {
	h := newHarness(t)
	form := vehicleForm()
	form.Set("inv_id", "999")

	w := h.post("/inv/update", form, h.staff(t))

	assert.Equal(t, http.StatusNotImplemented, w.Code)
	r := h.renderer.last
	assert.Equal(t, "inventory/edit-inventory", r.name)
	assert.Equal(t, "999", r.data["inv_id"])
	assert.Equal(t, []string{"Sorry, the update failed."}, notices(r))
}

func TestBuildEdit(t *testing.T) {
	h := newHarness(t)
	cookies := h.staff(t)

	w := h.get("/inv/edit/5", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	r := h.renderer.last
	assert.Equal(t, "Edit DMC Delorean", r.data["title"])
	options := r.data["classificationList"].([]nav.Option)
	assert.True(t, options[0].Selected)

	assert.Equal(t, http.StatusBadRequest, h.get("/inv/edit/abc", cookies).Code)
	assert.Equal(t, http.StatusNotFound, h.get("/inv/edit/404", cookies).Code)
	assert.Equal(t, "errors/error", h.renderer.last.name)
}

func TestPublicCatalogue(t *testing.T) {
	h := newHarness(t)

	w := h.get("/inv/type/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	r := h.renderer.last
	assert.Equal(t, "Custom vehicles", r.data["title"])
	assert.Len(t, r.data["items"], 1)

	w = h.get("/inv/type/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, h.renderer.last.data["items"], 0)

	assert.Equal(t, http.StatusNotFound, h.get("/inv/type/99", nil).Code)

	w = h.get("/inv/detail/5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inventory/details", h.renderer.last.name)

	assert.Equal(t, http.StatusNotFound, h.get("/inv/detail/6", nil).Code)
}

func TestGetInventoryJSON(t *testing.T) {
	h := newHarness(t)
	cookies := h.staff(t)

	w := h.get("/inv/getInventory/2", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = h.get("/inv/getInventory/1", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"inv_make":"DMC"`)
}

func TestErrorPages(t *testing.T) {
	h := newHarness(t)

	w := h.get("/error-test", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "errors/error", h.renderer.last.name)

	w = h.get("/no/such/route", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "errors/error", h.renderer.last.name)
}

func TestRender_NavigationFailure(t *testing.T) {
	h := newHarness(t)
	h.classes.err = errStore

	w := h.get("/", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	r := h.renderer.last
	assert.Equal(t, "errors/error", r.name)
	assert.Equal(t, []nav.Item{{Name: "Home", URL: "/"}}, r.data["nav"])
}
