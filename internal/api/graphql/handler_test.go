package graphqlapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	schema := newTestSchema(t)
	handler := NewHandler(schema, zap.NewNop())

	app := fiber.New()
	app.Post("/graphql", handler.Post)
	return app
}

func postGraphQL(t *testing.T, app *fiber.App, token, query string) map[string]interface{} {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"query": query})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return decoded
}

func TestHandlerSignupThenAuthenticatedQuery(t *testing.T) {
	app := newTestApp(t)

	signup := postGraphQL(t, app, "", `mutation { signup(email: "a@x.com", password: "pw", name: "A") { token user { id } } }`)
	data, _ := signup["data"].(map[string]interface{})
	payload, _ := data["signup"].(map[string]interface{})
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatalf("no token in response: %v", signup)
	}

	me := postGraphQL(t, app, token, `{ me { email } }`)
	meData, _ := me["data"].(map[string]interface{})
	user, _ := meData["me"].(map[string]interface{})
	if user["email"] != "a@x.com" {
		t.Fatalf("me = %v", me)
	}
}

func TestHandlerAnonymousTaskQueryReportsError(t *testing.T) {
	app := newTestApp(t)

	resp := postGraphQL(t, app, "", `{ tasks { id } }`)
	if _, hasErrors := resp["errors"]; !hasErrors {
		t.Fatalf("expected errors array, got %v", resp)
	}
}

func TestHandlerRejectsEmptyQuery(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/graphql", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	defer resp.Body.Close()
	// no error middleware mounted here, fiber maps the returned error itself
	if resp.StatusCode == fiber.StatusOK {
		t.Fatal("expected non-200 for empty query")
	}
}
