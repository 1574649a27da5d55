// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package publish sets sensor samples as fields of a redis hash.
package publish

import (
	"fmt"

	"github.com/garyburd/redigo/redis"
)

const DefaultHash = "i2creg"

type Publisher interface {
	Publish(field string, v interface{}) error
	Close() error
}

// Nop discards samples.
type Nop struct{}

func (Nop) Publish(string, interface{}) error { return nil }
func (Nop) Close() error                      { return nil }

type Redis struct {
	conn redis.Conn
	hash string
}

// Dial the redis server at addr, an empty addr returns Nop.
func Dial(addr, hash string) (Publisher, error) {
	if addr == "" {
		return Nop{}, nil
	}
	conn, err := redis.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return New(conn, hash), nil
}

func New(conn redis.Conn, hash string) *Redis {
	if hash == "" {
		hash = DefaultHash
	}
	return &Redis{conn, hash}
}

func (p *Redis) Publish(field string, v interface{}) error {
	_, err := p.conn.Do("HSET", p.hash, field, fmt.Sprint(v))
	return err
}

func (p *Redis) Close() error { return p.conn.Close() }
