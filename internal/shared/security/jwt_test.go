package security

import (
	"errors"
	"testing"
	"time"
)

func TestAwardSeat_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := AwardSeat("s1", "p1", time.Minute); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("期望 ErrJWTSecretMissing, got=%v", err)
	}
}

func TestAwardParseSeat_正常签发并解析(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := AwardSeat("s1", "p1", time.Minute)
	if err != nil {
		t.Fatalf("AwardSeat err=%v", err)
	}
	claims, err := ParseSeat(token)
	if err != nil {
		t.Fatalf("ParseSeat err=%v", err)
	}
	if claims.SessionID != "s1" || claims.PlayerID != "p1" {
		t.Fatalf("claims=%+v", claims)
	}
}

func TestParseSeat_换了密钥应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := AwardSeat("s1", "p1", time.Minute)
	if err != nil {
		t.Fatalf("AwardSeat err=%v", err)
	}
	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := ParseSeat(token); err == nil {
		t.Fatalf("期望签名校验失败")
	}
}

func TestAwardSeat_空座位应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	if _, err := AwardSeat("", "p1", 0); !errors.Is(err, ErrSeatClaims) {
		t.Fatalf("期望 ErrSeatClaims, got=%v", err)
	}
}
