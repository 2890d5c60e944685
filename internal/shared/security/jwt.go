package security

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	ErrSeatClaims       = errors.New("seat token missing session or player")
)

const DefaultSeatTTL = 2 * time.Hour

// SeatClaims 绑定一个对局座位：持有者只能以 PlayerID 身份向 SessionID 提交指令。
type SeatClaims struct {
	SessionID string `json:"sid"`
	PlayerID  string `json:"pid"`
	jwt.RegisteredClaims
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

// AwardSeat 签发座位 Token，ttl<=0 时使用 DefaultSeatTTL。
func AwardSeat(sessionID, playerID string, ttl time.Duration) (string, error) {
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}
	if sessionID == "" || playerID == "" {
		return "", ErrSeatClaims
	}
	if ttl <= 0 {
		ttl = DefaultSeatTTL
	}

	now := time.Now()
	claims := &SeatClaims{
		SessionID: sessionID,
		PlayerID:  playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ParseSeat 解析并验证座位 Token。
func ParseSeat(tokenStr string) (*SeatClaims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	claims := &SeatClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if token == nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.SessionID == "" || claims.PlayerID == "" {
		return nil, ErrSeatClaims
	}
	return claims, nil
}
