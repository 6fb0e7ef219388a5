// Package users covers the account lifecycle: registration, sign-in,
// current-user resolution, sign-out and avatar upload.
package users

import (
	"context"
	"errors"
	"fmt"

	"mediadex/internal/models"
	"mediadex/internal/services/appwrite"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Profile is the user profile document kept alongside the backend account
type Profile struct {
	DocumentID string `json:"$id"`
	AccountID  string `json:"accountId"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
}

// Service manages user accounts and profile documents
type Service struct {
	client     *appwrite.Client
	collection string
	bucket     string
	logger     *logrus.Logger
}

// NewService creates a new users service
func NewService(client *appwrite.Client, collectionID, bucketID string, logger *logrus.Logger) *Service {
	return &Service{
		client:     client,
		collection: collectionID,
		bucket:     bucketID,
		logger:     logger,
	}
}

// Register creates the backend account, signs in, and creates the profile
// document seeded with an initials avatar
func (s *Service) Register(ctx context.Context, email, password, username string) (*Profile, error) {
	account, err := s.client.CreateAccount(ctx, email, password, username)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	if _, err := s.client.CreateEmailSession(ctx, email, password); err != nil {
		return nil, fmt.Errorf("failed to sign in after registration: %w", err)
	}

	data := map[string]interface{}{
		"accountId": account.ID,
		"email":     email,
		"username":  username,
		"avatar":    s.client.InitialsAvatarURL(username),
	}

	var profile Profile
	if err := s.client.CreateDocument(ctx, s.collection, uuid.NewString(), data, &profile); err != nil {
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"account_id": account.ID,
		"username":   username,
	}).Info("User registered")

	return &profile, nil
}

// SignIn creates an email session. An already-active session is reused
// rather than treated as a failure.
func (s *Service) SignIn(ctx context.Context, email, password string) (*appwrite.Session, error) {
	session, err := s.client.CreateEmailSession(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	s.logger.WithField("user_id", session.UserID).Info("User signed in")
	return session, nil
}

// Current resolves the authenticated user's profile document. Returns nil
// without error when nobody is signed in.
func (s *Service) Current(ctx context.Context) (*Profile, error) {
	account, err := s.client.CurrentAccount(ctx)
	if err != nil {
		if errors.Is(err, models.ErrAuthRequired) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	profile, err := s.profileByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// SignOut deletes the current session
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.client.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}

	s.logger.Info("User signed out")
	return nil
}

// UploadAvatar stores an avatar image, derives its public view URL and
// patches it into the user's profile document. Returns the view URL.
func (s *Service) UploadAvatar(ctx context.Context, filename string, content []byte) (string, error) {
	account, err := s.client.CurrentAccount(ctx)
	if err != nil {
		return "", models.ErrAuthRequired
	}

	file, err := s.client.CreateFile(ctx, s.bucket, uuid.NewString(), filename, content)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	avatarURL := s.client.FileViewURL(s.bucket, file.ID)

	profile, err := s.profileByAccount(ctx, account.ID)
	if err != nil {
		return "", err
	}
	if profile != nil {
		data := map[string]interface{}{"avatar": avatarURL}
		if err := s.client.UpdateDocument(ctx, s.collection, profile.DocumentID, data, nil); err != nil {
			return "", fmt.Errorf("failed to update profile avatar: %w", err)
		}
	}

	s.logger.WithField("file_id", file.ID).Info("Avatar uploaded")
	return avatarURL, nil
}

func (s *Service) profileByAccount(ctx context.Context, accountID string) (*Profile, error) {
	list, err := s.client.ListDocuments(ctx, s.collection, []string{
		appwrite.Queries.Equal("accountId", accountID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	profiles, err := appwrite.DecodeDocuments[Profile](list)
	if err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	return &profiles[0], nil
}
