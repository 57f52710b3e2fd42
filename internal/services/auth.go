package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/aggregates"
	"github.com/yungbote/foodgram-backend/internal/data/repos"
	types "github.com/yungbote/foodgram-backend/internal/domain"
	domainagg "github.com/yungbote/foodgram-backend/internal/domain/aggregates"
	"github.com/yungbote/foodgram-backend/internal/platform/ctxutil"
	"github.com/yungbote/foodgram-backend/internal/platform/dbctx"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
	"github.com/yungbote/foodgram-backend/internal/platform/validation"
)

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SetPasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, in LoginInput) (string, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	SetPassword(ctx context.Context, in SetPasswordInput) error
	PruneExpiredTokens(ctx context.Context) (int64, error)
	GetAccessTTL() time.Duration
}

type AuthConfig struct {
	JWTSecretKey string
	AccessTTL    time.Duration
	BcryptCost   int
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	secret        []byte
	accessTTL     time.Duration
	bcryptCost    int
	now           func() time.Time
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, userTokenRepo repos.UserTokenRepo, cfg AuthConfig) AuthService {
	serviceLog := log.With("service", "AuthService")
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		secret:        []byte(cfg.JWTSecretKey),
		accessTTL:     ttl,
		bcryptCost:    cfg.BcryptCost,
		now:           time.Now,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	const op = "Auth.Register"
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validation.ValidateStruct(in); err != nil {
		return nil, requestValidationErr(op, err)
	}

	hash, err := hashPassword(in.Password, as.bcryptCost)
	if err != nil {
		return nil, internalErr(op, err)
	}
	user := &types.User{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hash,
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if taken, err := as.userRepo.EmailExists(dbc, in.Email); err != nil {
			return fmt.Errorf("check email: %w", err)
		} else if taken {
			return validationErr(op, msgEmailTaken)
		}
		if taken, err := as.userRepo.UsernameExists(dbc, in.Username); err != nil {
			return fmt.Errorf("check username: %w", err)
		} else if taken {
			return validationErr(op, msgUsernameTaken)
		}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			return err
		}
		return nil
	})
	if err == nil {
		as.log.Info("user registered", "user_id", user.ID)
		return user, nil
	}
	if aggregates.IsUniqueViolation(err) {
		// Lost a race with a concurrent registration; report which field.
		taken, checkErr := as.userRepo.EmailExists(dbctx.Context{Ctx: ctx}, in.Email)
		if checkErr == nil && !taken {
			return nil, validationErr(op, msgUsernameTaken)
		}
		return nil, validationErr(op, msgEmailTaken)
	}
	return nil, internalErr(op, err)
}

func (as *authService) Login(ctx context.Context, in LoginInput) (string, error) {
	const op = "Auth.Login"
	if err := validation.ValidateStruct(in); err != nil {
		return "", requestValidationErr(op, err)
	}
	dbc := dbctx.Context{Ctx: ctx}
	users, err := as.userRepo.GetByEmails(dbc, []string{strings.TrimSpace(in.Email)})
	if err != nil {
		return "", internalErr(op, err)
	}
	if len(users) == 0 || users[0] == nil {
		return "", validationErr(op, msgBadCredentials)
	}
	user := users[0]
	ok, err := passwordMatches(user.Password, in.Password)
	if err != nil {
		return "", internalErr(op, err)
	}
	if !ok {
		return "", validationErr(op, msgBadCredentials)
	}

	now := as.now()
	row := &types.UserToken{
		UserID:    user.ID,
		JTI:       uuid.NewString(),
		ExpiresAt: now.Add(as.accessTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		return "", internalErr(op, fmt.Errorf("persist token: %w", err))
	}
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		ID:        row.JTI,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(row.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
	if err != nil {
		return "", internalErr(op, fmt.Errorf("sign token: %w", err))
	}
	as.log.Debug("token issued", "user_id", user.ID)
	return signed, nil
}

func (as *authService) Logout(ctx context.Context) error {
	const op = "Auth.Logout"
	rd, err := requireViewer(ctx, op)
	if err != nil {
		return err
	}
	if err := as.userTokenRepo.FullDeleteByIDs(dbctx.Context{Ctx: ctx}, []int64{rd.TokenID}); err != nil {
		return internalErr(op, err)
	}
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "Auth.Token"
	invalid := func(cause error) error {
		return domainagg.NewError(domainagg.CodeUnauthenticated, op, msgInvalidToken, cause)
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, invalid(nil)
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return as.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, invalid(err)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 || claims.ID == "" {
		return ctx, invalid(errors.New("malformed claims"))
	}

	dbc := dbctx.Context{Ctx: ctx}
	row, err := as.userTokenRepo.GetByJTI(dbc, claims.ID)
	if err != nil {
		return ctx, internalErr(op, err)
	}
	if row == nil || row.UserID != userID || row.Expired(as.now()) {
		return ctx, invalid(errors.New("token revoked or expired"))
	}
	users, err := as.userRepo.GetByIDs(dbc, []int64{userID})
	if err != nil {
		return ctx, internalErr(op, err)
	}
	if len(users) == 0 || users[0] == nil {
		return ctx, invalid(errors.New("token owner no longer exists"))
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:  userID,
		IsStaff: users[0].IsStaff,
		TokenID: row.ID,
	}), nil
}

func (as *authService) SetPassword(ctx context.Context, in SetPasswordInput) error {
	const op = "Auth.SetPassword"
	rd, err := requireViewer(ctx, op)
	if err != nil {
		return err
	}
	if err := validation.ValidateStruct(in); err != nil {
		return requestValidationErr(op, err)
	}
	dbc := dbctx.Context{Ctx: ctx}
	users, err := as.userRepo.GetByIDs(dbc, []int64{rd.UserID})
	if err != nil {
		return internalErr(op, err)
	}
	if len(users) == 0 || users[0] == nil {
		return domainagg.NewError(domainagg.CodeUnauthenticated, op, msgInvalidToken, nil)
	}
	ok, err := passwordMatches(users[0].Password, in.CurrentPassword)
	if err != nil {
		return internalErr(op, err)
	}
	if !ok {
		return validationErr(op, msgWrongPassword)
	}
	hash, err := hashPassword(in.NewPassword, as.bcryptCost)
	if err != nil {
		return internalErr(op, err)
	}
	if err := as.userRepo.UpdatePassword(dbc, rd.UserID, hash); err != nil {
		return internalErr(op, err)
	}
	return nil
}

func (as *authService) PruneExpiredTokens(ctx context.Context) (int64, error) {
	n, err := as.userTokenRepo.FullDeleteExpired(dbctx.Context{Ctx: ctx}, as.now())
	if err != nil {
		return 0, internalErr("Auth.PruneExpiredTokens", err)
	}
	if n > 0 {
		as.log.Info("expired tokens pruned", "count", n)
	}
	return n, nil
}
