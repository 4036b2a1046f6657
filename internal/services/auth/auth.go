package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"

	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// Confirmation-code flow: RequestCode creates the account on first contact
// and emails a short one-time code; VerifyCode exchanges that code for a
// bearer token. Issuing a token does not clear the stored code, only a new
// RequestCode overwrites it.

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type UsersStorage interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, username, email, role string) (*models.User, error)
	UpdateAuthCode(ctx context.Context, id int64, codeHash []byte) error
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

type TaskExecutor interface {
	Add(task func())
}

type AuthService struct {
	log          *slog.Logger
	storage      UsersStorage
	mailer       MailProvider
	tokens       TokenIssuer
	taskExecutor TaskExecutor
	codeLength   int
}

func New(
	log *slog.Logger,
	usersStorage UsersStorage,
	mailer MailProvider,
	tokens TokenIssuer,
	taskExecutor TaskExecutor,
	codeLength int,
) *AuthService {
	return &AuthService{
		log:          log,
		storage:      usersStorage,
		mailer:       mailer,
		tokens:       tokens,
		taskExecutor: taskExecutor,
		codeLength:   codeLength,
	}
}

// SignupResult echoes back the identity the code was sent for; the code
// itself never leaves the mail transport.
type SignupResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (a *AuthService) RequestCode(ctx context.Context, username, email string) (*SignupResult, error) {
	const op = "auth.AuthService.RequestCode"
	log := a.log.With("op", op, "username", username)

	user, err := a.storage.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Email != email {
			log.Info("email does not match the registered account")
			return nil, ErrEmailMismatch
		}
	case errors.Is(err, storage.ErrNotFound):
		if _, emailErr := a.storage.GetByEmail(ctx, email); emailErr == nil {
			log.Info("email already registered under another username")
			return nil, ErrUsernameMismatch
		} else if !errors.Is(emailErr, storage.ErrNotFound) {
			log.Error(emailErr.Error())
			return nil, emailErr
		}
		user, err = a.storage.Insert(ctx, username, email, models.RoleUser)
		if err != nil {
			log.Error("Error creating user: " + err.Error())
			return nil, err
		}
		log.Info("created user on first code request", "user_id", user.ID)
	default:
		log.Error(err.Error())
		return nil, err
	}

	code, err := generateCode(a.codeLength)
	if err != nil {
		return nil, err
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := a.storage.UpdateAuthCode(ctx, user.ID, codeHash); err != nil {
		log.Error("Error storing confirmation code: " + err.Error())
		return nil, err
	}
	a.taskExecutor.Add(func() {
		a.sendConfirmationEmail(user.Email, user.Username, code)
	})
	return &SignupResult{Username: user.Username, Email: user.Email}, nil
}

func (a *AuthService) VerifyCode(ctx context.Context, username, code string) (string, error) {
	const op = "auth.AuthService.VerifyCode"
	log := a.log.With("op", op, "username", username)

	user, err := a.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return "", ErrUserNotFound
		}
		log.Error(err.Error())
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.AuthCodeHash, []byte(code)); err != nil {
		log.Info("confirmation code mismatch")
		return "", ErrInvalidCode
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		log.Error("Error issuing token: " + err.Error())
		return "", err
	}
	return token, nil
}

func (a *AuthService) sendConfirmationEmail(email, username, code string) {
	a.log.Info("sending confirmation email")
	err := a.mailer.Send(
		email,
		"confirmation_code.html",
		map[string]any{
			"username": username,
			"code":     code,
		})
	if err != nil {
		a.log.Error("Error sending confirmation email", "errMsg", err.Error())
	}
}

func generateCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[n.Int64()]
	}
	return string(code), nil
}
