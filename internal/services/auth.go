package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/a2p-backend/internal/data/repos"
	authtypes "github.com/yungbote/a2p-backend/internal/domain/auth"
	"github.com/yungbote/a2p-backend/internal/domain/consent"
	"github.com/yungbote/a2p-backend/internal/domain/profile"
	pkgerrors "github.com/yungbote/a2p-backend/internal/pkg/errors"
	"github.com/yungbote/a2p-backend/internal/platform/apierr"
	"github.com/yungbote/a2p-backend/internal/platform/logger"
	"github.com/yungbote/a2p-backend/internal/requestdata"
	"github.com/yungbote/a2p-backend/internal/utils"
)

// AuthService authenticates both sides of the protocol: profile owners get
// bcrypt credentials plus a persisted access/refresh token pair, agents
// present signed tokens whose claims carry their identity and trust
// metadata.
type AuthService interface {
	RegisterOwner(ctx context.Context, displayName, email, password string) (*profile.Profile, error)
	LoginOwner(ctx context.Context, email, password string) (string, string, error)
	RefreshOwner(ctx context.Context) (string, string, error)
	LogoutOwner(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)

	IssueAgentToken(actorDID string, trust consent.ActorTrust, ttl time.Duration) (string, error)
	SetContextFromAgentToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	tokenRepo   repos.OwnerTokenRepo
	jwtSecret   string
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	tokenRepo repos.OwnerTokenRepo,
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:          db,
		log:         serviceLog,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		jwtSecret:   jwtSecret,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

func (as *authService) RegisterOwner(ctx context.Context, displayName, email, password string) (*profile.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || password == "" || displayName == "" {
		return nil, fmt.Errorf("display name, email and password are required: %w", pkgerrors.ErrInvalidArgument)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", pkgerrors.ErrInvalidArgument)
	}

	exists, err := as.profileRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		// Conflict, not a malformed request: the taxonomy has no 409 kind,
		// so the status rides on the error itself.
		return nil, apierr.New(http.StatusConflict, "EMAIL_IN_USE", fmt.Errorf("email already registered"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id := uuid.New()
	p := &profile.Profile{
		ID:          id,
		DID:         utils.MintDID("user", "local", id.String()),
		ProfileType: profile.TypeUser,
		DisplayName: displayName,
		Email:       email,
		Password:    string(hashed),
	}

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := as.profileRepo.Create(ctx, tx, []*profile.Profile{p})
		return err
	}); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	as.log.Info("registered owner", "profile_id", p.ID.String())
	return p, nil
}

func (as *authService) LoginOwner(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	profiles, err := as.profileRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("fetch profile: %w", err)
	}
	if len(profiles) == 0 {
		return "", "", fmt.Errorf("unknown email: %w", pkgerrors.ErrUnauthorized)
	}
	owner := profiles[0]
	if err := bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("bad password: %w", pkgerrors.ErrUnauthorized)
	}

	var accessToken, refreshToken string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var genErr error
		accessToken, refreshToken, genErr = as.issueOwnerTokens(ctx, tx, owner)
		return genErr
	}); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshOwner(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", fmt.Errorf("missing refresh token: %w", pkgerrors.ErrUnauthorized)
	}

	var accessToken, refreshToken string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tokens, err := as.tokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
		if err != nil {
			return fmt.Errorf("fetch refresh token: %w", err)
		}
		if len(tokens) == 0 {
			return fmt.Errorf("unknown refresh token: %w", pkgerrors.ErrUnauthorized)
		}
		stored := tokens[0]

		owners, err := as.profileRepo.GetByIDs(ctx, tx, []uuid.UUID{stored.ProfileID})
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		if len(owners) == 0 {
			return fmt.Errorf("profile gone: %w", pkgerrors.ErrUnauthorized)
		}

		if err := as.tokenRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{stored.ID}); err != nil {
			return fmt.Errorf("rotate refresh token: %w", err)
		}

		accessToken, refreshToken, err = as.issueOwnerTokens(ctx, tx, owners[0])
		return err
	}); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) LogoutOwner(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.ProfileID == uuid.Nil {
		return fmt.Errorf("not logged in: %w", pkgerrors.ErrUnauthorized)
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return as.tokenRepo.SoftDeleteByProfileIDs(ctx, tx, []uuid.UUID{rd.ProfileID})
	})
}

// SetContextFromToken validates an owner access token and attaches the
// resulting identity to the context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("invalid access token: %w", pkgerrors.ErrUnauthorized)
	}
	sub, _ := claims["sub"].(string)
	profileID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, fmt.Errorf("bad subject claim: %w", pkgerrors.ErrUnauthorized)
	}

	stored, err := as.tokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("fetch access token: %w", err)
	}
	if len(stored) == 0 {
		return ctx, fmt.Errorf("revoked access token: %w", pkgerrors.ErrUnauthorized)
	}

	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		rd = &requestdata.RequestData{}
		ctx = requestdata.WithRequestData(ctx, rd)
	}
	rd.TokenString = tokenString
	rd.ProfileID = profileID
	return ctx, nil
}

// IssueAgentToken signs an agent-facing token whose claims carry the actor
// identity and trust metadata. In a deployment with a real identity
// provider these tokens come from elsewhere; the claim shape is the
// contract.
func (as *authService) IssueAgentToken(actorDID string, trust consent.ActorTrust, ttl time.Duration) (string, error) {
	if !utils.ValidDID(actorDID) {
		return "", fmt.Errorf("actor identifier %q: %w", actorDID, pkgerrors.ErrInvalidArgument)
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":               actorDID,
		"iat":               now.Unix(),
		"exp":               now.Add(ttl).Unix(),
		"operator_verified": trust.OperatorVerified,
		"community_score":   trust.CommunityScore,
		"jurisdiction":      trust.Jurisdiction,
		"audit_enabled":     trust.AuditEnabled,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecret))
}

// SetContextFromAgentToken validates an agent token and attaches the actor
// identity plus trust metadata to the context.
func (as *authService) SetContextFromAgentToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("invalid agent token: %w", pkgerrors.ErrUnauthorized)
	}
	actorDID, _ := claims["sub"].(string)
	if !utils.ValidDID(actorDID) {
		return ctx, fmt.Errorf("agent token subject %q: %w", actorDID, pkgerrors.ErrUnauthorized)
	}

	trust := &consent.ActorTrust{}
	if v, ok := claims["operator_verified"].(bool); ok {
		trust.OperatorVerified = v
	}
	if v, ok := claims["community_score"].(float64); ok {
		trust.CommunityScore = v
	}
	if v, ok := claims["jurisdiction"].(string); ok {
		trust.Jurisdiction = v
	}
	if v, ok := claims["audit_enabled"].(bool); ok {
		trust.AuditEnabled = v
	}

	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		rd = &requestdata.RequestData{}
		ctx = requestdata.WithRequestData(ctx, rd)
	}
	rd.TokenString = tokenString
	rd.ActorDID = actorDID
	rd.Trust = trust
	return ctx, nil
}

func (as *authService) issueOwnerTokens(ctx context.Context, tx *gorm.DB, owner *profile.Profile) (string, string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": owner.ID.String(),
		"did": owner.DID,
		"iat": now.Unix(),
		"exp": now.Add(as.accessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecret))
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refreshToken := uuid.New().String()

	stored := &authtypes.OwnerToken{
		ID:           uuid.New(),
		ProfileID:    owner.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.tokenRepo.Create(ctx, tx, []*authtypes.OwnerToken{stored}); err != nil {
		return "", "", fmt.Errorf("persist token pair: %w", err)
	}
	return accessToken, refreshToken, nil
}
