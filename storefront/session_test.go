package storefront

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winteradda/storefront/models"
)

func TestAuthState_LoginAndLogout(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	auth := NewAuthState(storage)

	links, err := auth.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, []NavLink{{"Login", "login.html"}, {"Signup", "signup.html"}}, links)

	require.NoError(t, auth.SaveLogin(ctx, "jwt-token", models.User{ID: "u1", Username: "frost", Role: models.RoleAdmin}))

	token, err := auth.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	admin, err := auth.IsAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, admin)

	links, err = auth.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, []NavLink{{"Admin Panel", "admin.html"}, {"Logout (frost)", "#"}}, links)

	require.NoError(t, auth.Logout(ctx))
	token, err = auth.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	user, err := auth.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAuthState_NonAdminAndMalformedUser(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	auth := NewAuthState(storage)

	require.NoError(t, storage.Set(ctx, UserKey, `{"id":"u2","username":"snow","role":"user"}`))
	admin, err := auth.IsAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, admin)

	links, err := auth.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, []NavLink{{"Logout (snow)", "#"}}, links)

	require.NoError(t, storage.Set(ctx, UserKey, "undefined"))
	user, err := auth.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestResolveImageURL(t *testing.T) {
	const base = "https://api.winteradda.example/"
	tests := []struct {
		ref  string
		want string
	}{
		{"", PlaceholderImage},
		{"https://res.cloudinary.com/demo/image/upload/v1/a.jpg", "https://res.cloudinary.com/demo/image/upload/v1/a.jpg"},
		{"http://cdn.example/b.png", "http://cdn.example/b.png"},
		{"uploads/123.jpg", "https://api.winteradda.example/uploads/123.jpg"},
		{"/uploads/123.jpg", "https://api.winteradda.example/uploads/123.jpg"},
		{`uploads\456.png`, "https://api.winteradda.example/uploads/456.png"},
		{"images/jacket.jpg", "images/jacket.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveImageURL(base, tt.ref))
		})
	}
}

// Runs only against a real server: REDIS_ADDR=localhost:6379 go test ./storefront/
func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() {
		rdb.FlushDB(ctx)
		rdb.Close()
	})

	storage, err := NewRedisStorage(ctx, rdb, "shopper-1")
	require.NoError(t, err)

	_, ok, err := storage.Get(ctx, CartKey)
	require.NoError(t, err)
	assert.False(t, ok)

	cart := NewCart(storage, nil)
	_, err = cart.Add(ctx, "Coat", 3000, "", "", "")
	require.NoError(t, err)
	_, err = cart.Add(ctx, "Coat", 3000, "", "", "")
	require.NoError(t, err)

	raw, err := rdb.Get(ctx, "shopper-1:"+CartKey).Result()
	require.NoError(t, err)
	assert.Contains(t, raw, `"qty":2`)

	require.NoError(t, cart.Clear(ctx))
	_, ok, err = storage.Get(ctx, CartKey)
	require.NoError(t, err)
	assert.False(t, ok)
}
