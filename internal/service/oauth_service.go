package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"prepareup-be/internal/dto"
	"prepareup-be/internal/entity"
	"prepareup-be/internal/pkg/logger"
	"prepareup-be/internal/repository/specification"
	"prepareup-be/internal/repository/unitofwork"
	"prepareup-be/pkg/events"
	natspub "prepareup-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo?id_token="
	discordAPIBase     = "https://discord.com/api"
)

// discordEndpoint is not shipped with x/oauth2, unlike Google's.
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

type OAuthConfig struct {
	GoogleClientID      string
	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURL  string
	JWTSecret           string
}

type IOAuthService interface {
	LoginWithGoogle(ctx context.Context, idToken string) (*dto.LoginResponse, error)
	GetDiscordLoginURL() (string, error)
	HandleDiscordCallback(ctx context.Context, code string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, userId uuid.UUID) error
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error)
}

type oauthService struct {
	cfg            OAuthConfig
	uowFactory     unitofwork.RepositoryFactory
	discordConf    *oauth2.Config
	eventPublisher *natspub.Publisher
	httpClient     *http.Client
	log            logger.ILogger
}

func NewOAuthService(
	cfg OAuthConfig,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *natspub.Publisher,
	log logger.ILogger,
) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURL:  cfg.DiscordRedirectURL,
		Scopes:       []string{"identify", "email"},
		Endpoint:     discordEndpoint,
	}

	return &oauthService{
		cfg:            cfg,
		uowFactory:     uowFactory,
		discordConf:    conf,
		eventPublisher: eventPublisher,
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		log:            log,
	}
}

// googleClaims is the subset of the tokeninfo response we care about.
type googleClaims struct {
	Aud     string `json:"aud"`
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *oauthService) LoginWithGoogle(ctx context.Context, idToken string) (*dto.LoginResponse, error) {
	claims, err := s.verifyGoogleIDToken(ctx, idToken)
	if err != nil {
		s.log.Warn("oauth", "Google id_token rejected", map[string]interface{}{"error": err.Error()})
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid Google id_token.")
	}

	user, err := s.upsertIdentity(ctx, upsertIdentityInput{
		provider:    entity.ProviderGoogle,
		subject:     claims.Sub,
		email:       claims.Email,
		displayName: claims.Name,
		avatarURL:   claims.Picture,
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, entity.ProviderGoogle)
}

// verifyGoogleIDToken validates through Google's tokeninfo endpoint, which
// checks signature, expiry and issuer server-side. We still check the
// audience ourselves.
func (s *oauthService) verifyGoogleIDToken(ctx context.Context, idToken string) (*googleClaims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleTokenInfoURL+idToken, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var claims googleClaims
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, err
	}
	if claims.Sub == "" {
		return nil, errors.New("token missing sub claim")
	}
	if s.cfg.GoogleClientID != "" && claims.Aud != s.cfg.GoogleClientID {
		return nil, errors.New("token audience mismatch")
	}
	return &claims, nil
}

func (s *oauthService) GetDiscordLoginURL() (string, error) {
	if s.cfg.DiscordClientID == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "Discord OAuth is not configured.")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.discordConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleDiscordCallback(ctx context.Context, code string) (*dto.LoginResponse, error) {
	token, err := s.discordConf.Exchange(ctx, code)
	if err != nil {
		s.log.Warn("oauth", "Discord code exchange failed", map[string]interface{}{"error": err.Error()})
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Discord code exchange failed.")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discordAPIBase+"/users/@me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting discord user: %w", err)
	}
	defer resp.Body.Close()

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&discordUser); err != nil {
		return nil, err
	}
	if discordUser.ID == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Discord returned no user.")
	}

	avatarURL := ""
	if discordUser.Avatar != "" {
		avatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", discordUser.ID, discordUser.Avatar)
	}

	user, err := s.upsertIdentity(ctx, upsertIdentityInput{
		provider:    entity.ProviderDiscord,
		subject:     discordUser.ID,
		email:       discordUser.Email,
		displayName: discordUser.Username,
		avatarURL:   avatarURL,
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, entity.ProviderDiscord)
}

type upsertIdentityInput struct {
	provider    string
	subject     string
	email       string
	displayName string
	avatarURL   string
}

// upsertIdentity finds the (provider, subject) account or creates user +
// account in one transaction, refreshing profile fields on the way.
func (s *oauthService) upsertIdentity(ctx context.Context, in upsertIdentityInput) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.OAuthAccountRepository().FindOne(ctx, specification.ByProviderSubject{
		Provider: in.provider,
		Subject:  in.subject,
	})
	if err != nil {
		return nil, err
	}

	if account != nil {
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: account.UserId})
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.New("oauth account exists but user row is missing")
		}

		changed := false
		if in.displayName != "" && user.DisplayName != in.displayName {
			user.DisplayName = in.displayName
			changed = true
		}
		if in.avatarURL != "" && user.AvatarURL != in.avatarURL {
			user.AvatarURL = in.avatarURL
			changed = true
		}
		if changed {
			if err := uow.UserRepository().Update(ctx, user); err != nil {
				return nil, err
			}
		}

		if in.email != "" && (account.EmailAtAuth == nil || *account.EmailAtAuth != in.email) {
			email := in.email
			account.EmailAtAuth = &email
			if err := uow.OAuthAccountRepository().Update(ctx, account); err != nil {
				return nil, err
			}
		}

		return user, nil
	}

	now := time.Now()
	user := &entity.User{
		Id:          uuid.New(),
		DisplayName: in.displayName,
		AvatarURL:   in.avatarURL,
		CreatedAt:   now,
	}

	account = &entity.OAuthAccount{
		Id:              uuid.New(),
		UserId:          user.Id,
		Provider:        in.provider,
		ProviderSubject: in.subject,
		AvatarURL:       in.avatarURL,
		CreatedAt:       now,
	}
	if in.email != "" {
		email := in.email
		account.EmailAtAuth = &email
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.OAuthAccountRepository().Create(ctx, account); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("oauth", "New user registered", map[string]interface{}{
		"user_id":  user.Id.String(),
		"provider": in.provider,
	})

	return user, nil
}

func (s *oauthService) issueTokens(ctx context.Context, user *entity.User, provider string) (*dto.LoginResponse, error) {
	access, err := s.signToken(user.Id, "access", accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user.Id, "refresh", refreshTokenTTL)
	if err != nil {
		return nil, err
	}

	// Only the bcrypt hash of the refresh token touches the database, so a
	// leaked table does not hand out sessions. bcrypt caps input at 72
	// bytes; hash the tail, which carries the signature.
	tail := refresh
	if len(tail) > 72 {
		tail = tail[len(tail)-72:]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tail), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().SetRefreshTokenHash(ctx, user.Id, &hashStr); err != nil {
		return nil, err
	}

	if provider != "" {
		s.eventPublisher.Publish(ctx, events.UserLoggedIn(user.Id.String(), provider))
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		TokenType:    "bearer",
		RefreshToken: refresh,
		User: dto.UserDTO{
			Id:          user.Id,
			DisplayName: user.DisplayName,
			AvatarURL:   user.AvatarURL,
		},
	}, nil
}

func (s *oauthService) signToken(userId uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"type":    tokenType,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// Refresh rotates the refresh token: it must parse, be of type refresh and
// match the stored bcrypt hash. A successful refresh invalidates the old
// token by overwriting the hash.
func (s *oauthService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token.")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "refresh" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token.")
	}
	userIdStr, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token.")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshTokenHash == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token revoked.")
	}

	tail := refreshToken
	if len(tail) > 72 {
		tail = tail[len(tail)-72:]
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.RefreshTokenHash), []byte(tail)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Refresh token revoked.")
	}

	return s.issueTokens(ctx, user, "")
}

func (s *oauthService) Logout(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().SetRefreshTokenHash(ctx, userId, nil)
}

func (s *oauthService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found.")
	}
	return &dto.UserDTO{
		Id:          user.Id,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}, nil
}
