package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notegrid/internal/common"
	"notegrid/internal/models"
	"notegrid/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// fakeNoteService is a stateful in-memory note store enforcing the same
// policy and quota semantics as the real service stack.
type fakeNoteService struct {
	tenant *models.Tenant
	notes  map[uuid.UUID]*models.Note
	policy services.PolicyService
}

func newFakeNoteService(tenant *models.Tenant) *fakeNoteService {
	return &fakeNoteService{
		tenant: tenant,
		notes:  make(map[uuid.UUID]*models.Note),
		policy: services.NewPolicyService(),
	}
}

func (f *fakeNoteService) visible(identity *models.Identity, note *models.Note) bool {
	if note.TenantID != identity.TenantID {
		return false
	}
	return identity.IsAdmin() || note.UserID == identity.UserID
}

func (f *fakeNoteService) List(ctx context.Context, identity *models.Identity) ([]*models.Note, error) {
	var out []*models.Note
	for _, n := range f.notes {
		if f.visible(identity, n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNoteService) Get(ctx context.Context, identity *models.Identity, noteID uuid.UUID) (*models.Note, error) {
	note, ok := f.notes[noteID]
	if !ok || !f.visible(identity, note) {
		return nil, common.ErrNotFound
	}
	return note, nil
}

func (f *fakeNoteService) Create(ctx context.Context, identity *models.Identity, title, content string) (*models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if f.tenant.SubscriptionPlan == models.PlanFree {
		count := 0
		for _, n := range f.notes {
			if n.TenantID == identity.TenantID {
				count++
			}
		}
		if count >= services.FreeNoteLimit {
			return nil, common.ErrNoteLimitReached
		}
	}
	note := &models.Note{
		ID:        uuid.New(),
		TenantID:  identity.TenantID,
		UserID:    identity.UserID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.notes[note.ID] = note
	return note, nil
}

func (f *fakeNoteService) Update(ctx context.Context, identity *models.Identity, noteID uuid.UUID, title, content string) (*models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	note, err := f.Get(ctx, identity, noteID)
	if err != nil {
		return nil, err
	}
	note.Title = title
	note.Content = content
	note.UpdatedAt = time.Now()
	return note, nil
}

func (f *fakeNoteService) Delete(ctx context.Context, identity *models.Identity, noteID uuid.UUID) error {
	if _, err := f.Get(ctx, identity, noteID); err != nil {
		return err
	}
	delete(f.notes, noteID)
	return nil
}

func (f *fakeNoteService) AuthorizeAttachment(ctx context.Context, identity *models.Identity, noteID uuid.UUID, write bool) (*models.Note, error) {
	return f.Get(ctx, identity, noteID)
}

// fakeTenantService flips the shared tenant's plan in place.
type fakeTenantService struct {
	tenant *models.Tenant
	policy services.PolicyService
}

func (f *fakeTenantService) Directory(ctx context.Context) ([]*models.Tenant, error) {
	return []*models.Tenant{f.tenant}, nil
}

func (f *fakeTenantService) ChangePlan(ctx context.Context, identity *models.Identity, slug, plan string) (*models.Tenant, error) {
	action := services.Action{
		Kind:      services.ActionChangeTenantPlan,
		TenantID:  f.tenant.ID,
		Slug:      slug,
		Subdomain: f.tenant.Subdomain,
	}
	if err := f.policy.Authorize(identity, action); err != nil {
		return nil, err
	}
	if f.tenant.SubscriptionPlan == plan {
		return nil, common.ErrNoChangeNeeded
	}
	f.tenant.SubscriptionPlan = plan
	return f.tenant, nil
}

type NoteHandlersTestSuite struct {
	suite.Suite
	e              *echo.Echo
	tenant         *models.Tenant
	noteSvc        *fakeNoteService
	noteHandlers   *NoteHandlers
	tenantHandlers *TenantHandlers
	admin          *models.Identity
	member         *models.Identity
}

func (suite *NoteHandlersTestSuite) SetupTest() {
	suite.e = echo.New()
	suite.tenant = &models.Tenant{
		ID:               uuid.New(),
		Name:             "Acme Corp",
		Subdomain:        "acme",
		SubscriptionPlan: models.PlanFree,
	}
	suite.noteSvc = newFakeNoteService(suite.tenant)
	suite.noteHandlers = NewNoteHandlers(suite.noteSvc, zap.NewNop())
	suite.tenantHandlers = NewTenantHandlers(&fakeTenantService{
		tenant: suite.tenant,
		policy: services.NewPolicyService(),
	}, zap.NewNop())

	suite.admin = &models.Identity{UserID: uuid.New(), TenantID: suite.tenant.ID, Role: models.RoleAdmin}
	suite.member = &models.Identity{UserID: uuid.New(), TenantID: suite.tenant.ID, Role: models.RoleMember}
}

func TestNoteHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(NoteHandlersTestSuite))
}

type responseBody struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	LimitReached bool            `json:"limitReached"`
	Data         json.RawMessage `json:"data"`
	Count        int             `json:"count"`
}

func (suite *NoteHandlersTestSuite) do(identity *models.Identity, method, target, body string, handler echo.HandlerFunc, params ...string) (*httptest.ResponseRecorder, responseBody) {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if identity != nil {
		req = req.WithContext(common.WithIdentity(req.Context(), identity))
	}

	rec := httptest.NewRecorder()
	c := suite.e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	_ = handler(c)

	var parsed responseBody
	_ = json.Unmarshal(rec.Body.Bytes(), &parsed)
	return rec, parsed
}

func (suite *NoteHandlersTestSuite) createNote(identity *models.Identity, title string) (*httptest.ResponseRecorder, responseBody) {
	return suite.do(identity, http.MethodPost, "/v1/notes", fmt.Sprintf(`{"title":%q,"content":"body"}`, title), suite.noteHandlers.CreateNote)
}

func (suite *NoteHandlersTestSuite) TestFreePlanLifecycle() {
	// Three creates succeed on the free plan.
	for i := 1; i <= services.FreeNoteLimit; i++ {
		rec, body := suite.createNote(suite.member, fmt.Sprintf("Note %d", i))
		assert.Equal(suite.T(), http.StatusCreated, rec.Code)
		assert.True(suite.T(), body.Success)
	}

	// The fourth is denied with the structured limit flag.
	rec, body := suite.createNote(suite.member, "Note 4")
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
	assert.False(suite.T(), body.Success)
	assert.True(suite.T(), body.LimitReached)
	assert.Equal(suite.T(), "Free plan is limited to 3 notes. Please upgrade to Pro for unlimited notes.", body.Message)

	// Admin upgrades the tenant to pro.
	rec, body = suite.do(suite.admin, http.MethodPost, "/v1/tenants/acme/upgrade", "", suite.tenantHandlers.UpgradePlan, "slug", "acme")
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "Successfully upgraded to Pro plan", body.Message)

	// Creation now succeeds.
	rec, body = suite.createNote(suite.member, "Note 4")
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.True(suite.T(), body.Success)

	// All four notes are listed.
	rec, body = suite.do(suite.member, http.MethodGet, "/v1/notes", "", suite.noteHandlers.ListNotes)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), 4, body.Count)
}

func (suite *NoteHandlersTestSuite) TestCreateNote_EmptyTitle() {
	rec, body := suite.createNote(suite.member, "")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "Title is required", body.Message)
}

func (suite *NoteHandlersTestSuite) TestCreateNote_Unauthenticated() {
	rec, body := suite.createNote(nil, "Note")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	assert.False(suite.T(), body.Success)
}

func (suite *NoteHandlersTestSuite) TestGetNote_OtherMembersNoteHiddenAs404() {
	_, created := suite.createNote(suite.member, "Private")
	var note models.Note
	assert.NoError(suite.T(), json.Unmarshal(created.Data, &note))

	otherMember := &models.Identity{UserID: uuid.New(), TenantID: suite.tenant.ID, Role: models.RoleMember}
	rec, body := suite.do(otherMember, http.MethodGet, "/v1/notes/"+note.ID.String(), "", suite.noteHandlers.GetNote, "id", note.ID.String())
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "Note not found or access denied", body.Message)
}

func (suite *NoteHandlersTestSuite) TestGetNote_AdminSeesMemberNote() {
	_, created := suite.createNote(suite.member, "Shared")
	var note models.Note
	assert.NoError(suite.T(), json.Unmarshal(created.Data, &note))

	rec, _ := suite.do(suite.admin, http.MethodGet, "/v1/notes/"+note.ID.String(), "", suite.noteHandlers.GetNote, "id", note.ID.String())
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *NoteHandlersTestSuite) TestGetNote_InvalidID() {
	rec, body := suite.do(suite.member, http.MethodGet, "/v1/notes/garbage", "", suite.noteHandlers.GetNote, "id", "garbage")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "Invalid note ID", body.Message)
}

func (suite *NoteHandlersTestSuite) TestUpgrade_MemberDenied() {
	rec, body := suite.do(suite.member, http.MethodPost, "/v1/tenants/acme/upgrade", "", suite.tenantHandlers.UpgradePlan, "slug", "acme")
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
	assert.Equal(suite.T(), "Insufficient permissions", body.Message)
}

func (suite *NoteHandlersTestSuite) TestUpgrade_ForgedSlug() {
	rec, body := suite.do(suite.admin, http.MethodPost, "/v1/tenants/globex/upgrade", "", suite.tenantHandlers.UpgradePlan, "slug", "globex")
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
	assert.Equal(suite.T(), "Access denied: Tenant mismatch", body.Message)
}

func (suite *NoteHandlersTestSuite) TestDowngrade_AlreadyFree() {
	rec, body := suite.do(suite.admin, http.MethodPost, "/v1/tenants/acme/downgrade", "", suite.tenantHandlers.DowngradePlan, "slug", "acme")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "Tenant is already on the Free plan", body.Message)
}
