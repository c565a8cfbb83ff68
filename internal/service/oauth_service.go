// FILE: internal/service/oauth_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/memory"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string, redirectURI string) (string, error)
	HandleCallback(ctx context.Context, provider string, state string, code string) (*dto.OAuthCallbackResult, error)
}

type oauthService struct {
	uowFactory    unitofwork.RepositoryFactory
	creditService ICreditService
	stateRepo     *memory.StateRepository
	googleConf    *oauth2.Config
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, creditService ICreditService, stateRepo *memory.StateRepository) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory:    uowFactory,
		creditService: creditService,
		stateRepo:     stateRepo,
		googleConf:    conf,
	}
}

func (s *oauthService) GetLoginURL(provider string, redirectURI string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	// The state lives in the cache until the callback consumes it; an
	// unknown state on callback means forgery or expiry.
	s.stateRepo.Save(&memory.OauthState{
		State:       state,
		RedirectURI: redirectURI,
		CreatedAt:   time.Now(),
	})

	url := s.googleConf.AuthCodeURL(state)
	log.Printf("[OAuth Service] Generated login URL with state: %s", state)

	return url, nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, state string, code string) (*dto.OAuthCallbackResult, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}

	saved, found := s.stateRepo.Get(state)
	if !found {
		log.Printf("[OAuth Service] ERROR - Unknown or expired state: %s", state)
		return nil, errors.New("invalid oauth state")
	}
	s.stateRepo.Delete(state)

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		log.Printf("[OAuth Service] ERROR - Code exchange failed: %v", err)
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}
	log.Printf("[OAuth Service] ✅ Successfully exchanged code for access token")

	userInfoURL := "https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken
	resp, err := http.Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %v", err)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(content, &googleUser); err != nil {
		return nil, err
	}
	log.Printf("[OAuth Service] ✅ Received user info from Google: %s (%s)", googleUser.Name, googleUser.Email)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		log.Printf("[OAuth Service] ERROR - Database query failed: %v", err)
		return nil, err
	}

	newAccount := false
	if user == nil {
		log.Printf("[OAuth Service] User not found. Creating new user...")
		newUser := &entity.User{
			Id:            uuid.New(),
			Email:         googleUser.Email,
			FullName:      googleUser.Name,
			PasswordHash:  nil,
			Role:          entity.UserRoleUser,
			Status:        entity.UserStatusActive,
			EmailVerified: true,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		if err := uow.UserRepository().Create(ctx, newUser); err != nil {
			uow.Rollback()
			log.Printf("[OAuth Service] ERROR - Failed to create user: %v", err)
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}

		user = newUser
		newAccount = true
		log.Printf("[OAuth Service] ✅ New user created with ID: %s", user.Id)
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	userProvider := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   "google",
		ProviderUserId: googleUser.ID,
		AvatarURL:      googleUser.Picture,
		CreatedAt:      time.Now(),
	}
	if err := uow.UserRepository().SaveUserProvider(ctx, userProvider); err != nil {
		return nil, fmt.Errorf("failed to save provider info: %v", err)
	}

	if newAccount {
		if err := s.creditService.GrantSignupCredits(ctx, user.Id); err != nil {
			log.Printf("[OAuth Service] WARN - Failed to grant welcome credits: %v", err)
		}
	}

	signedToken, err := issueAccessToken(user)
	if err != nil {
		return nil, err
	}
	log.Printf("[OAuth Service] ✅ Login response prepared for user: %s", user.Email)

	return &dto.OAuthCallbackResult{
		Login: dto.LoginResponse{
			AccessToken: signedToken,
			User: dto.UserDTO{
				Id:       user.Id,
				Email:    user.Email,
				FullName: user.FullName,
				Role:     string(user.Role),
			},
		},
		RedirectURI: saved.RedirectURI,
	}, nil
}
