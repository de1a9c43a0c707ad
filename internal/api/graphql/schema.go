// Package graphqlapi defines the GraphQL surface: the schema mirrors the
// task app's field surface exactly (me/tasks/task queries, signup/login and
// task mutations).
package graphqlapi

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/spec-kit/taskboard/internal/domain"
	"github.com/spec-kit/taskboard/internal/service"
)

// SchemaDeps bundles the services resolvers delegate to.
type SchemaDeps struct {
	Auth  *service.AuthService
	Tasks *service.TaskService
}

// NewSchema builds the executable schema.
func NewSchema(deps SchemaDeps) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"text":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"completed": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"author": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					task, err := taskFromSource(p.Source)
					if err != nil {
						return nil, err
					}
					return deps.Auth.User(p.Context, task.AuthorID)
				},
			},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user": &graphql.Field{
				Type: userType,
				// Re-fetch by id so the field reflects the stored record.
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payload, ok := p.Source.(*domain.AuthPayload)
					if !ok || payload.User == nil {
						return nil, errors.New("missing auth payload")
					}
					return deps.Auth.User(p.Context, payload.User.ID)
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Auth.Me(p.Context)
				},
			},
			"tasks": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(taskType)),
				Args: graphql.FieldConfigArgument{
					"searchString": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					searchString, _ := p.Args["searchString"].(string)
					return deps.Tasks.Tasks(p.Context, searchString)
				},
			},
			"task": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return deps.Tasks.Task(p.Context, id)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signup": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					email, _ := p.Args["email"].(string)
					password, _ := p.Args["password"].(string)
					name, _ := p.Args["name"].(string)
					return deps.Auth.Signup(p.Context, email, password, name)
				},
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					email, _ := p.Args["email"].(string)
					password, _ := p.Args["password"].(string)
					return deps.Auth.Login(p.Context, email, password)
				},
			},
			"createTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"text": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					text, _ := p.Args["text"].(string)
					return deps.Tasks.CreateTask(p.Context, text)
				},
			},
			"updateTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"text":      &graphql.ArgumentConfig{Type: graphql.String},
					"completed": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					var text *string
					if v, ok := p.Args["text"].(string); ok {
						text = &v
					}
					var completed *bool
					if v, ok := p.Args["completed"].(bool); ok {
						completed = &v
					}
					return deps.Tasks.UpdateTask(p.Context, id, text, completed)
				},
			},
			"deleteTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return deps.Tasks.DeleteTask(p.Context, id)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func taskFromSource(source interface{}) (*domain.Task, error) {
	switch task := source.(type) {
	case *domain.Task:
		return task, nil
	case domain.Task:
		return &task, nil
	default:
		return nil, errors.New("missing task source")
	}
}
