/*
Package redisstore provides a tree.Store that keeps encoded trees on a
redis DB, each under a key made of a prefix and the name of the tree.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/kstoi/arbor/tree"
	"github.com/kstoi/arbor/tree/json"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc      *redis.Client
	prefix  string
	tencdec json.TreeEncodeDecoder
}

//New builds a tree.Store backed by a redis DB
func New(rc *redis.Client, prefix string, tencdec json.TreeEncodeDecoder) tree.Store {
	return &redisStore{rc, prefix, tencdec}
}

func (rs *redisStore) Save(ctx context.Context, name string, t *tree.Tree) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := rs.keyFor(name)
	data, err := rs.tencdec.Encode(t)
	if err != nil {
		return fmt.Errorf("storing tree %q: encoding tree: %v", key, err)
	}
	_, err = rs.rc.Set(key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing tree %q in redis: %v", key, err)
	}
	return nil
}

func (rs *redisStore) Load(ctx context.Context, name string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := rs.keyFor(name)
	data, err := rs.rc.Get(key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", key, err)
	}
	t, err := rs.tencdec.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding: %v", key, err)
	}
	return t, nil
}

func (rs *redisStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := rs.keyFor(name)
	_, err := rs.rc.Del(key).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", key, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
