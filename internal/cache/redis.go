package cache

import (
	"context"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
)

const redisPrefix = "storefront:"

// Redis is a Store on a redigo pool. An entry is a hash holding the value
// under "v" and its stamp under "t:<tag>". Each tag has a version counter
// and a set of the keys stamped with it.
type Redis struct {
	pool *redis.Pool
}

// NewRedisPool dials addr lazily, keeping a few idle connections around.
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     8,
		IdleTimeout: 4 * time.Minute,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr,
				redis.DialConnectTimeout(5*time.Second),
				redis.DialReadTimeout(3*time.Second),
				redis.DialWriteTimeout(3*time.Second),
			)
		},
	}
}

func NewRedis(pool *redis.Pool) *Redis {
	return &Redis{pool: pool}
}

const (
	valueField     = "v"
	tagFieldPrefix = "t:"
)

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	cl, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, false, err
	}
	defer cl.Close()

	fields, err := redis.Values(cl.Do("HGETALL", redisPrefix+key))
	if err != nil {
		return nil, false, err
	}
	var (
		value []byte
		found bool
		stamp = Stamp{}
	)
	for i := 0; i+1 < len(fields); i += 2 {
		name, _ := redis.String(fields[i], nil)
		switch {
		case name == valueField:
			value, _ = redis.Bytes(fields[i+1], nil)
			found = true
		case strings.HasPrefix(name, tagFieldPrefix):
			v, err := redis.Int64(fields[i+1], nil)
			if err != nil {
				return nil, false, err
			}
			stamp[strings.TrimPrefix(name, tagFieldPrefix)] = v
		}
	}
	if !found {
		return nil, false, nil
	}
	if len(stamp) == 0 {
		return value, true, nil
	}

	tags := make([]string, 0, len(stamp))
	for t := range stamp {
		tags = append(tags, t)
	}
	current, err := tagVersions(cl, tags)
	if err != nil {
		return nil, false, err
	}
	for t, v := range stamp {
		if current[t] != v {
			return nil, false, nil
		}
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, stamp Stamp, ttl time.Duration) error {
	cl, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer cl.Close()

	k := redisPrefix + key
	args := redis.Args{}.Add(k, valueField, value)
	for t, v := range stamp {
		args = args.Add(tagFieldPrefix+t, v)
	}
	if err := cl.Send("MULTI"); err != nil {
		return err
	}
	if err := cl.Send("DEL", k); err != nil {
		return err
	}
	if err := cl.Send("HSET", args...); err != nil {
		return err
	}
	if ttl > 0 {
		if err := cl.Send("EXPIRE", k, int(ttl.Seconds())); err != nil {
			return err
		}
	}
	for t := range stamp {
		if err := cl.Send("SADD", tagKey(t), k); err != nil {
			return err
		}
	}
	_, err = cl.Do("EXEC")
	return err
}

func (r *Redis) TagVersions(ctx context.Context, tags []string) (Stamp, error) {
	if len(tags) == 0 {
		return Stamp{}, nil
	}
	cl, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cl.Close()
	return tagVersions(cl, tags)
}

func (r *Redis) InvalidateTag(ctx context.Context, tag string) error {
	cl, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer cl.Close()

	if _, err := cl.Do("INCR", tagVersionKey(tag)); err != nil {
		return err
	}
	keys, err := redis.Strings(cl.Do("SMEMBERS", tagKey(tag)))
	if err != nil {
		return err
	}
	args := redis.Args{}.Add(tagKey(tag)).AddFlat(keys)
	_, err = cl.Do("DEL", args...)
	return err
}

// tagVersions reads the counters for tags; a missing counter is version 0.
func tagVersions(cl redis.Conn, tags []string) (Stamp, error) {
	args := redis.Args{}
	for _, t := range tags {
		args = args.Add(tagVersionKey(t))
	}
	replies, err := redis.Values(cl.Do("MGET", args...))
	if err != nil {
		return nil, err
	}
	stamp := make(Stamp, len(tags))
	for i, t := range tags {
		if i >= len(replies) || replies[i] == nil {
			stamp[t] = 0
			continue
		}
		v, err := redis.Int64(replies[i], nil)
		if err != nil {
			return nil, err
		}
		stamp[t] = v
	}
	return stamp, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	cl, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer cl.Close()
	_, err = cl.Do("PING")
	return err
}

func tagKey(tag string) string {
	return redisPrefix + "tag:" + tag
}

func tagVersionKey(tag string) string {
	return redisPrefix + "tagver:" + tag
}
