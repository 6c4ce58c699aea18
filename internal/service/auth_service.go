package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"

	"umkm-terminal/internal/core/domain"
	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/apperror"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// telegramClockSkew tolerates auth_date values slightly in the future.
const telegramClockSkew = time.Minute

// TelegramAuthConfig configures Mini-App login.
type TelegramAuthConfig struct {
	BotToken       string
	InitDataMaxAge time.Duration
	AllowedUserIDs []int64 // empty admits everyone
}

type telegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// AuthServiceImpl implements ports.AuthService for Telegram WebApp init data.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	vault    ports.KeyVault
	sessions ports.SessionService
	signer   *HMACSignatureService
	cfg      TelegramAuthConfig
	now      func() time.Time
	log      zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl. A nil clock uses time.Now.
func NewAuthService(
	userRepo ports.UserRepository,
	vault ports.KeyVault,
	sessions ports.SessionService,
	cfg TelegramAuthConfig,
	clock func() time.Time,
	log zerolog.Logger,
) *AuthServiceImpl {
	if clock == nil {
		clock = time.Now
	}
	return &AuthServiceImpl{
		userRepo: userRepo,
		vault:    vault,
		sessions: sessions,
		signer:   NewHMACSignatureService(),
		cfg:      cfg,
		now:      clock,
		log:      log,
	}
}

// Login verifies initData, upserts the user, provisions the main wallet on
// first login and returns a fresh session.
func (s *AuthServiceImpl) Login(ctx context.Context, initData string) (*domain.User, *domain.EncryptedSession, error) {
	tgUser, err := s.verifyInitData(initData)
	if err != nil {
		s.log.Debug().Err(err).Msg("init data rejected")
		return nil, nil, apperror.ErrInvalidInitData()
	}

	if len(s.cfg.AllowedUserIDs) > 0 && !slices.Contains(s.cfg.AllowedUserIDs, tgUser.ID) {
		return nil, nil, apperror.ErrUserNotAllowed()
	}

	user, err := s.userRepo.GetByTelegramID(ctx, tgUser.ID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		now := s.now().UTC()
		user = &domain.User{
			ID:             uuid.New(),
			TelegramUserID: tgUser.ID,
			Username:       displayName(tgUser),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, nil, err
		}
		s.log.Info().Str("user_id", user.ID.String()).Int64("telegram_id", tgUser.ID).Msg("user registered")
	}

	var privateKeyHex string
	if user.HasMainWallet() {
		privateKeyHex, err = s.vault.Decrypt(user.EncryptedMainKey)
		if err != nil {
			return nil, nil, apperror.ErrDecryptionFailure(err)
		}
	} else {
		privateKeyHex, err = s.provisionMainWallet(ctx, user)
		if err != nil {
			return nil, nil, err
		}
	}

	return user, s.sessions.Issue(user, privateKeyHex), nil
}

func (s *AuthServiceImpl) provisionMainWallet(ctx context.Context, user *domain.User) (string, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("generate main wallet: %w", err))
	}
	privateKeyHex := hex.EncodeToString(crypto.FromECDSA(key))
	address, _ := domain.NormalizeAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())

	encrypted, err := s.vault.Encrypt(privateKeyHex)
	if err != nil {
		return "", apperror.ErrEncryptionFailure(err)
	}

	if err := s.userRepo.SetMainWallet(ctx, user.ID, address, encrypted); err != nil {
		return "", err
	}

	user.MainWalletAddress = address
	user.EncryptedMainKey = encrypted
	user.UpdatedAt = s.now().UTC()

	s.log.Info().Str("user_id", user.ID.String()).Str("address", address).Msg("main wallet provisioned")
	return privateKeyHex, nil
}

// verifyInitData checks the WebApp hash and auth_date and returns the
// embedded user.
func (s *AuthServiceImpl) verifyInitData(initData string) (*telegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("missing hash")
	}

	secret := s.signer.Sum([]byte("WebAppData"), s.cfg.BotToken)
	if !s.signer.Verify(string(secret), s.signer.BuildDataCheckString(values), hash) {
		return nil, fmt.Errorf("hash mismatch")
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("auth_date: %w", err)
	}
	issued := time.Unix(authDate, 0)
	now := s.now()
	if s.cfg.InitDataMaxAge > 0 && now.Sub(issued) > s.cfg.InitDataMaxAge {
		return nil, fmt.Errorf("init data expired")
	}
	if issued.Sub(now) > telegramClockSkew {
		return nil, fmt.Errorf("auth_date in the future")
	}

	var u telegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &u); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	if u.ID == 0 {
		return nil, fmt.Errorf("user id missing")
	}
	return &u, nil
}

func displayName(u *telegramUser) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}
