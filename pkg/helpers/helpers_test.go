package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateTime(t *testing.T) {
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want string
	}{
		{"afternoon in Nairobi", time.Date(2021, 3, 5, 11, 7, 0, 0, time.UTC), nairobi, "5 Mar 2021, 2:07 p.m."},
		{"morning", time.Date(2021, 12, 25, 6, 30, 0, 0, time.UTC), time.UTC, "25 Dec 2021, 6:30 a.m."},
		{"midnight", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC, "1 Jan 2022, 12:00 a.m."},
		{"nil location is UTC", time.Date(2022, 1, 1, 13, 5, 0, 0, time.UTC), nil, "1 Jan 2022, 1:05 p.m."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDateTime(tt.in, tt.loc))
		})
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	access, aexp, err := m.GenerateAccessToken("acc-1", "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), aexp, 2*time.Second)

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "sid-1", claims.SessionID)

	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err, "access token must not validate with the refresh secret")
}

func TestGenToken(t *testing.T) {
	a, err := GenToken()
	require.NoError(t, err)
	b, err := GenToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestAvatarObjectPath(t *testing.T) {
	assert.Equal(t, "avatars/abc.png", AvatarObjectPath("abc", "Me.PNG"))
	assert.Equal(t, "avatars/abc.jpg", AvatarObjectPath("abc", "noext"))
}

func TestSession_SaveLoadDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	ctx := context.Background()

	s := Session{
		ID:          "sid-1",
		AccountID:   "acc-1",
		Username:    "alvin",
		Email:       "alvin@example.com",
		IsSuperuser: true,
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, SaveSession(ctx, rdb, s, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL(KeySession("sid-1")))

	got, ok, err := LoadSession(ctx, rdb, "sid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, s, *got)

	require.NoError(t, DeleteSession(ctx, rdb, "sid-1"))
	_, ok, err = LoadSession(ctx, rdb, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	ctx := context.Background()

	var out []string
	found, err := RedisGetJSON(ctx, rdb, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, RedisSetJSON(ctx, rdb, "perms", []string{"view_person"}, time.Minute))
	found, err = RedisGetJSON(ctx, rdb, "perms", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"view_person"}, out)
}

func TestPasswordProblem(t *testing.T) {
	assert.Equal(t, "must be at least 8 characters long", PasswordProblem("short"))
	assert.Equal(t, "must be at most 72 bytes long", PasswordProblem(strings.Repeat("x", 73)))
	assert.Empty(t, PasswordProblem("s3cret-pass"))

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CompareHashAndPassword(hash, "s3cret-pass"))
	assert.False(t, CompareHashAndPassword(hash, "s3cret-pasS"))
}

func TestNewLogger_StampsAppFields(t *testing.T) {
	logger := NewLogger("stands-ims", "production")
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	LogError(logger, "request failed", errors.New("boom"), logrus.Fields{"path": "/api/people"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stands-ims", entry["app"])
	assert.Equal(t, "production", entry["env"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "/api/people", entry["path"])
	assert.Equal(t, "error", entry["level"])
}
