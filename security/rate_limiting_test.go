package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIsSuspiciousUserAgent(t *testing.T) {
	client, _ := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 60)

	cases := []struct {
		ua         string
		suspicious bool
	}{
		{"Mozilla/5.0 (X11; Linux x86_64)", false},
		{"Googlebot/2.1", true},
		{"my-crawler/1.0", true},
		{"SpiderMonkey", true},
		{"data-SCRAPER", true},
		{"curl/8.5.0", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.suspicious, limiter.isSuspiciousUserAgent(tc.ua), tc.ua)
	}
}

func TestAllow_FirstRequestSetsWindow(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 2)

	mock.ExpectIncr("ratelimit:10.0.0.1").SetVal(1)
	mock.ExpectExpire("ratelimit:10.0.0.1", time.Minute).SetVal(true)

	assert.True(t, limiter.allow(context.Background(), "10.0.0.1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_OverLimitRejected(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 2)

	mock.ExpectIncr("ratelimit:10.0.0.1").SetVal(3)

	assert.False(t, limiter.allow(context.Background(), "10.0.0.1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_RedisOutageFailsOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, 2)

	mock.ExpectIncr("ratelimit:10.0.0.1").SetErr(errors.New("connection refused"))

	assert.True(t, limiter.allow(context.Background(), "10.0.0.1"))
}
