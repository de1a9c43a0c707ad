package graphqlapi

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/taskboard/internal/auth"
	"github.com/spec-kit/taskboard/internal/events"
	"github.com/spec-kit/taskboard/internal/service"
	"github.com/spec-kit/taskboard/internal/store"
)

func newTestSchema(t *testing.T) graphql.Schema {
	t.Helper()

	dataStore := store.NewMemoryStore()
	tokens := auth.NewTokenManager("test-secret")
	guard := auth.NewGuard(tokens, dataStore)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(service.AuthDependencies{
		Store:      dataStore,
		Guard:      guard,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		BcryptCost: bcrypt.MinCost,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		Store:      dataStore,
		Guard:      guard,
		Dispatcher: dispatcher,
	})

	schema, err := NewSchema(SchemaDeps{Auth: authService, Tasks: taskService})
	if err != nil {
		t.Fatalf("NewSchema error: %v", err)
	}
	return schema
}

func execute(t *testing.T, schema graphql.Schema, token, query string, variables map[string]interface{}) *graphql.Result {
	t.Helper()
	ctx := context.Background()
	if token != "" {
		ctx = auth.WithAuthorization(ctx, "Bearer "+token)
	}
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	})
}

func dataField(t *testing.T, result *graphql.Result, field string) map[string]interface{} {
	t.Helper()
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	data, ok := result.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T", result.Data)
	}
	value, ok := data[field].(map[string]interface{})
	if !ok {
		t.Fatalf("field %q is %T", field, data[field])
	}
	return value
}

func signupUser(t *testing.T, schema graphql.Schema, email, password, name string) (token, userID string) {
	t.Helper()
	result := execute(t, schema, "", `
		mutation($email: String!, $password: String!, $name: String!) {
			signup(email: $email, password: $password, name: $name) {
				token
				user { id name email }
			}
		}`, map[string]interface{}{"email": email, "password": password, "name": name})

	payload := dataField(t, result, "signup")
	token, _ = payload["token"].(string)
	user, _ := payload["user"].(map[string]interface{})
	userID, _ = user["id"].(string)
	if token == "" || userID == "" {
		t.Fatalf("incomplete signup payload: %v", payload)
	}
	return token, userID
}

func TestSignupAndLoginMutations(t *testing.T) {
	schema := newTestSchema(t)

	_, userID := signupUser(t, schema, "a@x.com", "pw", "A")

	result := execute(t, schema, "", `
		mutation {
			login(email: "a@x.com", password: "pw") {
				token
				user { id }
			}
		}`, nil)
	payload := dataField(t, result, "login")
	user, _ := payload["user"].(map[string]interface{})
	if user["id"] != userID {
		t.Fatalf("login user id = %v, want %v", user["id"], userID)
	}

	bad := execute(t, schema, "", `mutation { login(email: "a@x.com", password: "wrong") { token } }`, nil)
	if !bad.HasErrors() {
		t.Fatal("expected wrong-password login to fail")
	}
}

func TestMeQuery(t *testing.T) {
	schema := newTestSchema(t)
	token, userID := signupUser(t, schema, "a@x.com", "pw", "A")

	me := dataField(t, execute(t, schema, token, `{ me { id name email } }`, nil), "me")
	if me["id"] != userID || me["email"] != "a@x.com" {
		t.Fatalf("me = %v", me)
	}

	anonymous := execute(t, schema, "", `{ me { id } }`, nil)
	if !anonymous.HasErrors() {
		t.Fatal("expected anonymous me to fail")
	}
}

func TestTaskMutationsAndQueries(t *testing.T) {
	schema := newTestSchema(t)
	token, userID := signupUser(t, schema, "a@x.com", "pw", "A")

	created := dataField(t, execute(t, schema, token, `
		mutation { createTask(text: "buy milk") { id text completed author { id } } }`, nil), "createTask")
	if created["text"] != "buy milk" || created["completed"] != false {
		t.Fatalf("createTask = %v", created)
	}
	author, _ := created["author"].(map[string]interface{})
	if author["id"] != userID {
		t.Fatalf("author = %v, want %v", author, userID)
	}
	taskID, _ := created["id"].(string)

	execute(t, schema, token, `mutation { createTask(text: "walk dog") { id } }`, nil)

	listed := execute(t, schema, token, `{ tasks(searchString: "buy") { id text } }`, nil)
	if listed.HasErrors() {
		t.Fatalf("tasks errors: %v", listed.Errors)
	}
	data := listed.Data.(map[string]interface{})
	tasks, _ := data["tasks"].([]interface{})
	if len(tasks) != 1 {
		t.Fatalf("tasks(buy) = %d entries, want 1", len(tasks))
	}

	updated := dataField(t, execute(t, schema, token, `
		mutation($id: ID!) { updateTask(id: $id, completed: true) { id text completed } }`,
		map[string]interface{}{"id": taskID}), "updateTask")
	if updated["completed"] != true || updated["text"] != "buy milk" {
		t.Fatalf("updateTask = %v", updated)
	}

	single := dataField(t, execute(t, schema, token, `
		query($id: ID!) { task(id: $id) { id completed } }`,
		map[string]interface{}{"id": taskID}), "task")
	if single["completed"] != true {
		t.Fatalf("task = %v", single)
	}

	deleted := dataField(t, execute(t, schema, token, `
		mutation($id: ID!) { deleteTask(id: $id) { id } }`,
		map[string]interface{}{"id": taskID}), "deleteTask")
	if deleted["id"] != taskID {
		t.Fatalf("deleteTask = %v", deleted)
	}
}

func TestTaskOperationsDenyNonOwner(t *testing.T) {
	schema := newTestSchema(t)
	ownerToken, _ := signupUser(t, schema, "a@x.com", "pw", "A")
	strangerToken, _ := signupUser(t, schema, "b@x.com", "pw", "B")

	created := dataField(t, execute(t, schema, ownerToken,
		`mutation { createTask(text: "secret plan") { id } }`, nil), "createTask")
	taskID, _ := created["id"].(string)

	for _, query := range []string{
		`query($id: ID!) { task(id: $id) { id } }`,
		`mutation($id: ID!) { updateTask(id: $id, text: "stolen") { id } }`,
		`mutation($id: ID!) { deleteTask(id: $id) { id } }`,
	} {
		result := execute(t, schema, strangerToken, query, map[string]interface{}{"id": taskID})
		if !result.HasErrors() {
			t.Fatalf("expected non-owner failure for %q", query)
		}
	}

	// the task is untouched
	single := dataField(t, execute(t, schema, ownerToken,
		`query($id: ID!) { task(id: $id) { text } }`,
		map[string]interface{}{"id": taskID}), "task")
	if single["text"] != "secret plan" {
		t.Fatalf("task mutated by non-owner: %v", single)
	}
}

func TestTaskOperationsRequireToken(t *testing.T) {
	schema := newTestSchema(t)

	for _, query := range []string{
		`{ tasks { id } }`,
		`mutation { createTask(text: "x") { id } }`,
	} {
		result := execute(t, schema, "", query, nil)
		if !result.HasErrors() {
			t.Fatalf("expected anonymous failure for %q", query)
		}
	}
}
