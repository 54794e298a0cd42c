package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"cse_motors/internal/middleware"
	"cse_motors/internal/model"
	"cse_motors/internal/nav"
	"cse_motors/internal/service"
	"cse_motors/internal/session"
	"cse_motors/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "Str0ng!Passw0rd"

type rendered struct {
	status int
	name   string
	data   gin.H
}

type captureRenderer struct {
	last *rendered
}

func (r *captureRenderer) Render(c *gin.Context, status int, name string, data gin.H) {
	r.last = &rendered{status: status, name: name, data: data}
	c.JSON(status, gin.H{"view": name})
}

type fakeAccounts struct {
	rows   map[int]*model.Account
	nextID int
}

func (f *fakeAccounts) add(first, last, email, role string) *model.Account {
	hash, err := utils.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}
	a := &model.Account{ID: f.nextID, FirstName: first, LastName: last, Email: email, PasswordHash: hash, Type: role}
	f.rows[a.ID] = a
	f.nextID++
	return a
}

func (f *fakeAccounts) Create(_ context.Context, first, last, email, hash string) (*model.Account, error) {
	a := &model.Account{ID: f.nextID, FirstName: first, LastName: last, Email: email, PasswordHash: hash, Type: model.RoleClient}
	f.rows[a.ID] = a
	f.nextID++
	copied := *a
	return &copied, nil
}

func (f *fakeAccounts) EmailExists(ctx context.Context, email string) (bool, error) {
	a, err := f.FindByEmail(ctx, email)
	return a != nil, err
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range f.rows {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAccounts) FindByID(_ context.Context, id int) (*model.Account, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccounts) UpdateInfo(_ context.Context, id int, first, last, email string) (bool, error) {
	a, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	a.FirstName, a.LastName, a.Email = first, last, email
	return true, nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id int, hash string) (bool, error) {
	a, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	a.PasswordHash = hash
	return true, nil
}

type fakeClassifications struct {
	rows []model.Classification
	err  error
}

func (f *fakeClassifications) List(context.Context) ([]model.Classification, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Classification(nil), f.rows...), nil
}

func (f *fakeClassifications) FindByID(_ context.Context, id int) (*model.Classification, error) {
	for _, c := range f.rows {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeClassifications) Create(_ context.Context, name string) (int64, error) {
	for _, c := range f.rows {
		if c.Name == name {
			return 0, nil
		}
	}
	f.rows = append(f.rows, model.Classification{ID: len(f.rows) + 1, Name: name})
	return 1, nil
}

type fakeInventory struct {
	items  map[int]model.Inventory
	nextID int
}

func (f *fakeInventory) FindByClassification(_ context.Context, classificationID int) ([]model.Inventory, error) {
	items := []model.Inventory{}
	for _, i := range f.items {
		if i.ClassificationID == classificationID {
			items = append(items, i)
		}
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID < items[b].ID })
	return items, nil
}

func (f *fakeInventory) FindByID(_ context.Context, id int) (*model.Inventory, error) {
	i, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (f *fakeInventory) Create(_ context.Context, item *model.Inventory) (int64, error) {
	item.ID = f.nextID
	f.items[item.ID] = *item
	f.nextID++
	return 1, nil
}

func (f *fakeInventory) Update(_ context.Context, item *model.Inventory) (*model.Inventory, error) {
	if _, ok := f.items[item.ID]; !ok {
		return nil, nil
	}
	f.items[item.ID] = *item
	stored := *item
	return &stored, nil
}

type harness struct {
	router    *gin.Engine
	renderer  *captureRenderer
	accounts  *fakeAccounts
	classes   *fakeClassifications
	inventory *fakeInventory
	jwtUtil   *utils.JWTUtil
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		renderer:  &captureRenderer{},
		accounts:  &fakeAccounts{rows: map[int]*model.Account{}, nextID: 1},
		classes:   &fakeClassifications{rows: []model.Classification{{ID: 1, Name: "Custom"}, {ID: 2, Name: "Sedan"}}},
		inventory: &fakeInventory{items: map[int]model.Inventory{}, nextID: 10},
		jwtUtil:   utils.NewJWTUtil("handler-test-jwt-secret", time.Hour),
	}
	h.accounts.add("Ada", "Lovelace", "ada@example.com", model.RoleClient)
	h.accounts.add("Bob", "Builder", "bob@example.com", model.RoleClient)
	h.accounts.add("Eve", "Employee", "emp@example.com", model.RoleEmployee)
	h.inventory.items[5] = model.Inventory{
		ID: 5, ClassificationID: 1, Make: "DMC", Model: "Delorean", Year: 1981, Description: "Time machine",
		Image: "/images/dmc.jpg", Thumbnail: "/images/dmc-tn.jpg", Price: 25000, Miles: 88, Color: "Silver",
	}

	sm := session.NewManager("handler-test-session-secret", false)
	navBuilder := nav.NewBuilder(h.classes, time.Minute)
	pages := NewPages(h.renderer, sm, navBuilder)
	accountService := service.NewAccountService(h.accounts, h.jwtUtil)
	inventoryService := service.NewInventoryService(h.classes, h.inventory)

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.ErrorHandler(pages.Error), middleware.SessionLocals(sm))
	r.NoRoute(middleware.NotFound(pages.Error))
	root := r.Group("")
	NewHomeHandler(pages).RegisterHomeRoutes(root)
	NewAccountHandler(pages, sm, accountService, h.jwtUtil.Expiration(), false).
		RegisterAccountRoutes(root, middleware.SessionGate(sm))
	NewInventoryHandler(pages, navBuilder, inventoryService).
		RegisterInventoryRoutes(root, middleware.JWTAuthMiddleware(h.jwtUtil, pages.Deny), middleware.StaffMiddleware(pages.Deny))
	h.router = r
	return h
}

func formRequest(method, target string, form url.Values) *http.Request {
	if form == nil {
		return httptest.NewRequest(method, target, nil)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (h *harness) serve(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	h.renderer.last = nil
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) get(target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	return h.serve(formRequest(http.MethodGet, target, nil), cookies)
}

func (h *harness) post(target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	return h.serve(formRequest(http.MethodPost, target, form), cookies)
}

// mergeCookies replays the cookies a browser would hold after w.
func mergeCookies(jar []*http.Cookie, w *httptest.ResponseRecorder) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	order := []string{}
	for _, ck := range jar {
		byName[ck.Name] = ck
		order = append(order, ck.Name)
	}
	for _, ck := range w.Result().Cookies() {
		if _, seen := byName[ck.Name]; !seen {
			order = append(order, ck.Name)
		}
		byName[ck.Name] = ck
	}
	out := []*http.Cookie{}
	for _, name := range order {
		if ck := byName[name]; ck.MaxAge >= 0 && ck.Value != "" {
			out = append(out, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	return out
}

func (h *harness) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()
	w := h.post("/account/login", url.Values{"account_email": {email}, "account_password": {testPassword}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/account/", w.Header().Get("Location"))
	return mergeCookies(nil, w)
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func errorMessages(t *testing.T, r *rendered) []string {
	t.Helper()
	require.NotNil(t, r)
	errs, ok := r.data["errors"].(interface{ Messages() []string })
	require.True(t, ok, "errors missing from %s", r.name)
	return errs.Messages()
}

func notices(r *rendered) []string {
	list, _ := r.data["notices"].([]string)
	return list
}

var errStore = errors.New("store unavailable")
