// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache holds everything the directory keeps in Valkey besides
// sessions: the public response cache and the open-now listing index.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// dialTimeout bounds both the TCP dial and the startup ping.
const dialTimeout = 5 * time.Second

// ValkeyOptions locates the Valkey instance shared by sessions, the rate
// limiter and this package.
type ValkeyOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (o ValkeyOptions) addr() string { return net.JoinHostPort(o.Host, o.Port) }

// ConnectValkey returns a client for o once the server answers PING.
func ConnectValkey(ctx context.Context, o ValkeyOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         o.addr(),
		Password:     o.Password,
		DB:           o.DB,
		ClientName:   "guialocal",
		DialTimeout:  dialTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey at %s: %w", o.addr(), err)
	}

	slog.Info("valkey connected", "addr", o.addr(), "db", o.DB)
	return client, nil
}
