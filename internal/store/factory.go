package store

import (
	"context"
	"errors"
	"strings"
)

const (
	EngineMemory   = "memory"
	EngineJSON     = "json"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
)

// Options selects and configures a store engine
type Options struct {
	Engine string
	// Path is the file for the json and sqlite engines
	Path string
	// DSN is the postgres connection string
	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

func NewByEngine(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case "", EngineSQLite:
		return NewSQLiteStore(opts.Path)
	case EngineJSON:
		return NewJSONStore(opts.Path)
	case EngineMemory:
		return NewMemory(), nil
	case EnginePostgres:
		return NewPostgresStore(opts.DSN)
	case EngineRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	default:
		return nil, errors.New("unsupported store engine: " + opts.Engine)
	}
}
