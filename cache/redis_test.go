package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"github.com/desitranslate/desi"
)

func TestRedisCache_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")
	mock.ExpectGet("test:mykey").SetVal("नमस्ते")

	val, ok := cache.Get("mykey")
	if !ok || val != "नमस्ते" {
		t.Errorf("Get() = %q, %v", val, ok)
	}
	if s := cache.Stats(); s.Hits != 1 || s.Misses != 0 {
		t.Errorf("Stats() = %+v", s)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")
	mock.ExpectGet("test:mykey").RedisNil()

	if val, ok := cache.Get("mykey"); ok || val != "" {
		t.Errorf("Get() = %q, %v", val, ok)
	}
	if s := cache.Stats(); s.Misses != 1 {
		t.Errorf("Stats() = %+v", s)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Get_ErrorIsMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")
	mock.ExpectGet("test:mykey").SetErr(errors.New("connection reset"))

	if _, ok := cache.Get("mykey"); ok {
		t.Error("expected miss on error")
	}
}

func TestRedisCache_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")
	mock.ExpectSet("test:mykey", "myvalue", 3600*time.Second).SetVal("OK")

	if err := cache.Set("mykey", "myvalue"); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Set_NoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")
	mock.ExpectSet("test:mykey", "myvalue", 0).SetVal("OK")

	if err := cache.Set("mykey", "myvalue"); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Set_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")
	mock.ExpectSet("test:mykey", "myvalue", 0).SetErr(errors.New("OOM"))

	err := cache.Set("mykey", "myvalue")
	var cacheErr *desi.CacheError
	if !errors.As(err, &cacheErr) {
		t.Errorf("expected CacheError, got %v", err)
	}
}

func TestRedisCache_DefaultPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "")
	key := desi.CacheKey("hash123", "en", "telugu")
	mock.ExpectGet(DefaultKeyPrefix + key).SetVal("translated")

	if val, ok := cache.Get(key); !ok || val != "translated" {
		t.Errorf("Get() = %q, %v", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Keys(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")
	mock.ExpectScan(0, "test:*", 100).SetVal([]string{"test:a", "test:b"}, 7)
	mock.ExpectScan(7, "test:*", 100).SetVal([]string{"test:c"}, 0)

	keys, err := cache.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Errorf("Keys() = %v", keys)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 3600, "test:")
	mock.ExpectPing().SetVal("PONG")

	if err := cache.Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	mock.ExpectPing().SetErr(errors.New("down"))
	var cacheErr *desi.CacheError
	if err := cache.Ping(); !errors.As(err, &cacheErr) {
		t.Errorf("expected CacheError, got %v", err)
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{URL: "not a url"})
	var cacheErr *desi.CacheError
	if !errors.As(err, &cacheErr) {
		t.Errorf("expected CacheError, got %v", err)
	}
}
