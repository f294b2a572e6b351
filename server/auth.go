package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpiry        = 7 * 24 * time.Hour // 7 days
	adminJWTExpiry   = 12 * time.Hour
	bcryptCost       = 12
	minPasswordLen   = 4
	minUsernameLen   = 2
	maxUsernameLen   = 16
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
)

var (
	errNoAccounts     = errors.New("accounts are disabled")
	errBadCredentials = errors.New("invalid username or password")
	errRateLimited    = errors.New("too many login attempts, try again later")
	errNotAdmin       = errors.New("admin token required")
)

// Auth handles accounts, tokens and admin login
type Auth struct {
	db        *DB
	jwtSecret []byte
	adminHash string
	cost      int
	log       *zap.SugaredLogger

	// Rate limiting for login attempts (IP -> attempts)
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth creates a new Auth handler. db may be nil, which disables accounts
// but keeps admin login working.
func NewAuth(db *DB, cfg AuthConfig, log *zap.SugaredLogger) *Auth {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = loadOrCreateSecret(db, log)
	}
	return &Auth{
		db:        db,
		jwtSecret: secret,
		adminHash: cfg.AdminPasswordHash,
		cost:      bcryptCost,
		log:       log,
		rateMap:   make(map[string]*rateEntry),
	}
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB, log *zap.SugaredLogger) []byte {
	if db != nil {
		if h := db.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Warnw("could not persist JWT secret", "err", err)
		}
	}
	return secret
}

// Register creates a new account and returns a token for it
func (a *Auth) Register(username, password string) (int64, string, error) {
	if a.db == nil {
		return 0, "", errNoAccounts
	}
	username = strings.TrimSpace(username)

	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return 0, "", fmt.Errorf("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return 0, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	exists, err := a.db.UsernameExists(username)
	if err != nil {
		return 0, "", fmt.Errorf("database error")
	}
	if exists {
		return 0, "", fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}

	id, err := a.db.CreateAccount(username, string(hash))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create account")
	}

	token, err := a.generateToken(id, username)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}
	return id, token, nil
}

// Login authenticates a user and returns a JWT
func (a *Auth) Login(username, password, ip string) (int64, string, error) {
	if a.db == nil {
		return 0, "", errNoAccounts
	}
	if !a.checkRate(ip) {
		return 0, "", errRateLimited
	}

	acct, err := a.db.GetAccountByUsername(strings.TrimSpace(username))
	if err != nil {
		return 0, "", fmt.Errorf("database error")
	}
	if acct == nil || acct.PassHash == "" {
		return 0, "", errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PassHash), []byte(password)); err != nil {
		return 0, "", errBadCredentials
	}

	token, err := a.generateToken(acct.ID, acct.Username)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}
	return acct.ID, token, nil
}

// ValidateToken validates a JWT and returns (accountID, username, error)
func (a *Auth) ValidateToken(tokenStr string) (int64, string, error) {
	claims, err := a.parse(tokenStr)
	if err != nil {
		return 0, "", err
	}
	pidFloat, ok := claims["pid"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	username, ok := claims["usr"].(string)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	return int64(pidFloat), username, nil
}

// CheckReservation allows a join under username unless a registered account
// owns it and token does not belong to that account
func (a *Auth) CheckReservation(username, token string) error {
	if a.db == nil {
		return nil
	}
	acct, err := a.db.GetAccountByUsername(strings.TrimSpace(username))
	if err != nil {
		return fmt.Errorf("account lookup: %w", err)
	}
	if acct == nil {
		return nil
	}
	if token == "" {
		return ErrUsernameReserved
	}
	id, _, err := a.ValidateToken(token)
	if err != nil || id != acct.ID {
		return ErrUsernameReserved
	}
	return nil
}

// AdminLogin checks password against the configured bcrypt hash and returns
// an admin token
func (a *Auth) AdminLogin(password, ip string) (string, error) {
	if a.adminHash == "" {
		return "", errNotAdmin
	}
	if !a.checkRate(ip) {
		return "", errRateLimited
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.adminHash), []byte(password)); err != nil {
		return "", errBadCredentials
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"adm": true,
		"exp": now.Add(adminJWTExpiry).Unix(),
		"iat": now.Unix(),
	})
	return token.SignedString(a.jwtSecret)
}

// ValidateAdminToken accepts only tokens minted by AdminLogin
func (a *Auth) ValidateAdminToken(tokenStr string) error {
	claims, err := a.parse(tokenStr)
	if err != nil {
		return err
	}
	if adm, _ := claims["adm"].(bool); !adm {
		return errNotAdmin
	}
	return nil
}

func (a *Auth) parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (a *Auth) generateToken(accountID int64, username string) (string, error) {
	claims := jwt.MapClaims{
		"pid": accountID,
		"usr": username,
		"exp": time.Now().Add(jwtExpiry).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(loginRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxLoginAttempts
}
