package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/erp-api/internal/application/auth"
)

var _ auth.TokenBlacklist = (*TokenBlacklist)(nil)

// TokenBlacklist guarda los jti revocados como claves con TTL igual a la vida restante del token.
type TokenBlacklist struct {
	client goredis.Cmdable
	prefix string
}

// NewTokenBlacklist construye la blacklist sobre un cliente ya conectado.
func NewTokenBlacklist(client goredis.Cmdable, prefix string) *TokenBlacklist {
	return &TokenBlacklist{client: client, prefix: prefix}
}

// Connect abre el cliente a partir de REDIS_URL y verifica con PING.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Revoke marca el jti como revocado. Un ttl no positivo no guarda nada: el token ya expiró.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.prefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked indica si el jti está en la blacklist.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := b.client.Get(ctx, b.prefix+jti).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return true, nil
}
