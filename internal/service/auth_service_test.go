package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/pkg/api"
)

func TestRegister(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       "Alice@Example.com",
		DisplayName: "Alice",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Msg.Token == "" {
		t.Error("expected token")
	}
	if resp.Msg.User.ID == "" || resp.Msg.User.DisplayName != "Alice" {
		t.Errorf("user = %+v", resp.Msg.User)
	}
	if resp.Msg.User.Email != "alice@example.com" {
		t.Errorf("email = %q, want lower-cased", resp.Msg.User.Email)
	}
}

func TestRegister_Errors(t *testing.T) {
	env := setupTestServer(t)
	env.register(t, "taken@example.com")

	tests := []struct {
		name string
		req  *api.RegisterRequest
		want connect.Code
	}{
		{
			name: "missing display name",
			req:  &api.RegisterRequest{Email: "new@example.com", Password: "password123"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "invalid email",
			req:  &api.RegisterRequest{Email: "nobody", DisplayName: "N", Password: "password123"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "weak password",
			req:  &api.RegisterRequest{Email: "new@example.com", DisplayName: "N", Password: "short"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "email taken",
			req:  &api.RegisterRequest{Email: "TAKEN@example.com", DisplayName: "N", Password: "password123"},
			want: connect.CodeAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestLogin(t *testing.T) {
	env := setupTestServer(t)
	env.register(t, "alice@example.com")

	resp, err := env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// The login token works on protected services
	if _, err := env.splitbill.ListRecords(context.Background(), authed(&api.ListRecordsRequest{}, resp.Msg.Token)); err != nil {
		t.Errorf("ListRecords with login token failed: %v", err)
	}

	_, err = env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{Email: "alice@example.com"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestGetCurrentUser(t *testing.T) {
	env := setupTestServer(t)
	token := env.register(t, "alice@example.com")

	resp, err := env.auth.GetCurrentUser(context.Background(), authed(&api.GetCurrentUserRequest{}, token))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if resp.Msg.User.Email != "alice@example.com" || resp.Msg.User.DisplayName != "Test User" {
		t.Errorf("user = %+v", resp.Msg.User)
	}
	if resp.Msg.User.CreatedAt == 0 {
		t.Error("expected CreatedAt from storage")
	}

	_, err = env.auth.GetCurrentUser(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}
