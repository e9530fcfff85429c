package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hk-explorer-be/internal/dto"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/pkg/serverutils"
	"hk-explorer-be/internal/tools"
	forumws "hk-explorer-be/internal/websocket"
)

const testSecret = "test-secret"

type stubChat struct {
	got *dto.ChatRequest
	err error
}

func (s *stubChat) Chat(_ context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ChatResponse{Response: "Try the Peak"}, nil
}

type stubVerify struct{ got *dto.VerifyPhotoRequest }

func (s *stubVerify) VerifyPhoto(_ context.Context, req *dto.VerifyPhotoRequest) (*dto.VerifyPhotoResponse, error) {
	s.got = req
	return &dto.VerifyPhotoResponse{Verified: true, GpsVerified: true, GpsDistanceMeters: 60, PointsAwarded: 200}, nil
}

type stubRoute struct{ got *dto.GenerateRouteRequest }

func (s *stubRoute) GenerateRoute(_ context.Context, req *dto.GenerateRouteRequest) (*dto.GenerateRouteResponse, error) {
	s.got = req
	return &dto.GenerateRouteResponse{Route: []dto.RouteItem{}, Summary: "ok"}, nil
}

type stubBrowse struct{}

func (stubBrowse) BrowseLocations(context.Context, *dto.BrowseLocationsRequest) (*dto.BrowseLocationsResponse, error) {
	return &dto.BrowseLocationsResponse{Results: []dto.BrowseResult{}, Summary: "none"}, nil
}

type stubImport struct{ queued int }

func (s *stubImport) Import(context.Context, []dto.DiscoveredChallenge) (*dto.ImportChallengesResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubImport) Enqueue(_ context.Context, req *dto.ImportChallengesRequest) (*dto.ImportAcceptedResponse, error) {
	s.queued += len(req.Challenges)
	return &dto.ImportAcceptedResponse{JobId: "job-1", Count: len(req.Challenges)}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type fixture struct {
	app    *fiber.App
	chat   *stubChat
	verify *stubVerify
	route  *stubRoute
	imp    *stubImport
}

func newApp(secret string, pinger Pinger) *fixture {
	fx := &fixture{chat: &stubChat{}, verify: &stubVerify{}, route: &stubRoute{}, imp: &stubImport{}}
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.HandleError})
	app.Use(serverutils.ErrorHandlerMiddleware())

	api := app.Group("/api")
	auth := serverutils.NewJwtMiddleware(secret)
	NewHealthController(pinger).RegisterRoutes(api)
	NewExplorerController(fx.chat, fx.verify, fx.route, stubBrowse{}).RegisterRoutes(api, auth)
	NewImportController(fx.imp).RegisterRoutes(api, auth)
	fx.app = app
	return fx
}

func (fx *fixture) post(t *testing.T, path string, body any, token string) (int, serverutils.Response) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := fx.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out serverutils.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func sign(t *testing.T, uid string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": uid}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestChatEnvelope(t *testing.T) {
	fx := newApp("", nil)

	code, body := fx.post(t, "/api/explorer/chat", map[string]any{"message": "plan my day", "userId": "u1"}, "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 200, body.Code)
	assert.Equal(t, map[string]any{"response": "Try the Peak"}, body.Data)
	assert.Equal(t, "u1", fx.chat.got.UserId)
}

func TestChatRejectsInvalidBody(t *testing.T) {
	fx := newApp("", nil)

	code, body := fx.post(t, "/api/explorer/chat", map[string]any{"message": "", "mode": "turbo"}, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	fields, ok := body.Data.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "message")
	assert.Contains(t, fields, "mode")
	assert.Nil(t, fx.chat.got)
}

func TestChatUpstreamIs502(t *testing.T) {
	fx := newApp("", nil)
	fx.chat.err = serverutils.Upstream("chat", errors.New("quota"))

	code, body := fx.post(t, "/api/explorer/chat", map[string]any{"message": "hello there"}, "")
	assert.Equal(t, fiber.StatusBadGateway, code)
	assert.Equal(t, fiber.StatusBadGateway, body.Code)
}

func TestVerifyPhotoUsesTokenSubject(t *testing.T) {
	fx := newApp(testSecret, nil)
	payload := map[string]any{
		"challengeId": "c1", "imageBase64": "aGVsbG8=", "userLatitude": 22.27, "userLongitude": 114.14, "userId": "spoofed",
	}

	code, _ := fx.post(t, "/api/explorer/verify-photo", payload, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body := fx.post(t, "/api/explorer/verify-photo", payload, sign(t, "real-user"))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "real-user", fx.verify.got.UserId)
	data := body.Data.(map[string]any)
	assert.Equal(t, true, data["verified"])
	assert.Equal(t, float64(200), data["pointsAwarded"])
}

func TestVerifyPhotoRequiresCoordinates(t *testing.T) {
	fx := newApp("", nil)

	code, body := fx.post(t, "/api/explorer/verify-photo", map[string]any{
		"challengeId": "c1", "imageBase64": "aGVsbG8=", "userId": "u1", "userLatitude": 0,
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	fields := body.Data.(map[string]any)
	assert.Contains(t, fields, "userLongitude")
	assert.NotContains(t, fields, "userLatitude")
}

func TestGenerateRouteValidation(t *testing.T) {
	fx := newApp("", nil)

	code, _ := fx.post(t, "/api/explorer/route", map[string]any{"userId": "u1", "availableHours": 30}, "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = fx.post(t, "/api/explorer/route", map[string]any{"userId": "u1", "interests": []string{"food"}, "availableHours": 3}, "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, []string{"food"}, fx.route.got.Interests)
}

func TestBrowseAcceptsEmptyBody(t *testing.T) {
	fx := newApp("", nil)
	code, body := fx.post(t, "/api/explorer/browse", map[string]any{}, "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "none", body.Data.(map[string]any)["summary"])
}

func TestImportAccepted(t *testing.T) {
	fx := newApp("", nil)

	code, body := fx.post(t, "/api/challenges/import", map[string]any{"challenges": []map[string]any{
		{"title": "Star Ferry", "type": "sightseeing", "difficulty": "easy", "location": []float64{114.168, 22.293}},
	}}, "")
	assert.Equal(t, fiber.StatusAccepted, code)
	assert.Equal(t, fiber.StatusAccepted, body.Code)
	assert.Equal(t, "job-1", body.Data.(map[string]any)["jobId"])
	assert.Equal(t, 1, fx.imp.queued)

	code, _ = fx.post(t, "/api/challenges/import", map[string]any{"challenges": []map[string]any{}}, "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestHealth(t *testing.T) {
	get := func(p Pinger) int {
		resp, err := newApp("", p).app.Test(httptest.NewRequest(fiber.MethodGet, "/api/health", nil), -1)
		require.NoError(t, err)
		return resp.StatusCode
	}
	assert.Equal(t, fiber.StatusOK, get(stubPinger{}))
	assert.Equal(t, fiber.StatusServiceUnavailable, get(stubPinger{err: errors.New("down")}))
}

type stubForum struct {
	challengeId string
	limit       int
}

func (s *stubForum) GetForumMessages(_ context.Context, challengeId string, limit int) ([]tools.ForumMessage, error) {
	s.challengeId, s.limit = challengeId, limit
	return []tools.ForumMessage{{Id: "m1", ChallengeId: challengeId, Text: "hi"}}, nil
}

func TestForumRoutes(t *testing.T) {
	reader := &stubForum{}
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.HandleError})
	NewForumController(reader, forumws.NewHub(nil, logger.NewNopLogger())).RegisterRoutes(app.Group("/api"), serverutils.NewJwtMiddleware(""))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/forum/c1/messages?limit=5", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "c1", reader.challengeId)
	assert.Equal(t, 5, reader.limit)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/forum/c1/live", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
