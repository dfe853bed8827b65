package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
	"github.com/mmynk/splitbill/pkg/api"
)

var _ api.ParticipantServiceHandler = (*ParticipantService)(nil)

const maxNameLength = 100

// ParticipantService manages each user's friends, the people records are
// split between.
type ParticipantService struct {
	store storage.FriendStore
}

// NewParticipantService creates a ParticipantService backed by store.
func NewParticipantService(store storage.FriendStore) *ParticipantService {
	return &ParticipantService{store: store}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	return name, nil
}

// ownedFriend loads a friend and checks that userID owns it.
func (s *ParticipantService) ownedFriend(ctx context.Context, userID, friendID string) (*models.Friend, error) {
	if friendID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("participant_id required"))
	}

	friend, err := s.store.GetFriend(ctx, friendID)
	if err != nil {
		slog.Warn("Failed to get participant", "participant_id", friendID, "error", err)
		return nil, storeError(err)
	}
	if friend.OwnerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you do not own this participant"))
	}
	return friend, nil
}

// CreateParticipant adds a friend to the caller's list.
func (s *ParticipantService) CreateParticipant(ctx context.Context, req *connect.Request[api.CreateParticipantRequest]) (*connect.Response[api.CreateParticipantResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	name, err := validateName(req.Msg.Name)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	friend := &models.Friend{OwnerID: userID, Name: name}
	if err := s.store.CreateFriend(ctx, friend); err != nil {
		slog.Error("CreateParticipant failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Participant created", "participant_id", friend.ID, "user_id", userID)
	return connect.NewResponse(&api.CreateParticipantResponse{Participant: friend}), nil
}

// ListParticipants lists the caller's friends by name.
func (s *ParticipantService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	friends, err := s.store.ListFriends(ctx, userID)
	if err != nil {
		slog.Error("ListParticipants failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if friends == nil {
		friends = []*models.Friend{}
	}

	return connect.NewResponse(&api.ListParticipantsResponse{Participants: friends}), nil
}

// RenameParticipant changes a friend's name. Saved records are unaffected.
func (s *ParticipantService) RenameParticipant(ctx context.Context, req *connect.Request[api.RenameParticipantRequest]) (*connect.Response[api.RenameParticipantResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	name, err := validateName(req.Msg.Name)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	friend, err := s.ownedFriend(ctx, userID, req.Msg.ParticipantID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RenameFriend(ctx, friend.ID, name); err != nil {
		slog.Error("RenameParticipant failed", "participant_id", friend.ID, "error", err)
		return nil, storeError(err)
	}
	friend.Name = name

	return connect.NewResponse(&api.RenameParticipantResponse{Participant: friend}), nil
}

// DeleteParticipant removes a friend from the caller's list.
func (s *ParticipantService) DeleteParticipant(ctx context.Context, req *connect.Request[api.DeleteParticipantRequest]) (*connect.Response[api.DeleteParticipantResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	friend, err := s.ownedFriend(ctx, userID, req.Msg.ParticipantID)
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteFriend(ctx, friend.ID); err != nil {
		slog.Error("DeleteParticipant failed", "participant_id", friend.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Participant deleted", "participant_id", friend.ID, "user_id", userID)
	return connect.NewResponse(&api.DeleteParticipantResponse{}), nil
}
