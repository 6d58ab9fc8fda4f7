package draft

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryKeepsUsersApart(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	backend := func(owner string) Backend { return NewRedisBackend(client, "draft:"+owner+":") }

	ctx := context.Background()
	reg := NewRegistry(backend, seqIDs("r"))
	alice := reg.For(ctx, "alice")
	require.Same(t, alice, reg.For(ctx, "alice"))
	require.NoError(t, NewEditor(alice).UpdatePersonalInfo(ctx, "fullName", "Alice"))

	bob := reg.For(ctx, "bob")
	require.Equal(t, "", bob.Current().PersonalInfo.FullName)
	require.True(t, m.Exists("draft:alice:"+Key))
	require.False(t, m.Exists("draft:bob:"+Key))

	// a fresh registry restores from the backend
	again := NewRegistry(backend, seqIDs("s")).For(ctx, "alice")
	require.Equal(t, "Alice", again.Current().PersonalInfo.FullName)
}

// gatedBackend blocks reads until release is closed.
type gatedBackend struct {
	*MemoryBackend
	release chan struct{}
}

func (g gatedBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	<-g.release
	return g.MemoryBackend.Get(ctx, key)
}

func TestRegistrySlowOpenDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	backend := func(owner string) Backend {
		if owner == "slow" {
			return gatedBackend{NewMemoryBackend(), release}
		}
		return NewMemoryBackend()
	}
	reg := NewRegistry(backend, seqIDs("g"))
	ctx := context.Background()

	slow := make(chan *Store)
	go func() { slow <- reg.For(ctx, "slow") }()

	done := make(chan *Store)
	go func() { done <- reg.For(ctx, "fast") }()
	select {
	case s := <-done:
		require.NotNil(t, s)
	case <-time.After(2 * time.Second):
		t.Fatal("opening one draft blocked another user")
	}

	close(release)
	s := <-slow
	require.Same(t, s, reg.For(ctx, "slow"))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryEvictsIdleStores(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mem := map[string]*MemoryBackend{}
	backend := func(owner string) Backend {
		if mem[owner] == nil {
			mem[owner] = NewMemoryBackend()
		}
		return mem[owner]
	}
	reg := NewRegistry(backend, seqIDs("v"), WithIdleEviction(time.Minute), withRegistryClock(func() time.Time { return now }))
	var dropped []string
	reg.OnEvict(func(owner string, _ *Store) { dropped = append(dropped, owner) })

	ctx := context.Background()
	alice := reg.For(ctx, "alice")
	require.NoError(t, NewEditor(alice).UpdatePersonalInfo(ctx, "fullName", "Alice"))
	now = now.Add(45 * time.Second)
	reg.For(ctx, "bob")

	now = now.Add(30 * time.Second)
	assert.Equal(t, []string{"alice"}, reg.Sweep())
	assert.Equal(t, []string{"alice"}, dropped)
	assert.Equal(t, 1, reg.Len())

	again := reg.For(ctx, "alice")
	assert.NotSame(t, alice, again)
	assert.Equal(t, "Alice", again.Current().PersonalInfo.FullName)
}

func TestRegistryWithoutEvictionKeepsStores(t *testing.T) {
	reg := NewRegistry(func(string) Backend { return NewMemoryBackend() }, seqIDs("k"))
	reg.For(context.Background(), "alice")
	assert.Empty(t, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
}

func TestOwnerDirStaysUnderRoot(t *testing.T) {
	for _, owner := range []string{"../../etc", "a/b", "..", "google-oauth2|123"} {
		dir := OwnerDir("/drafts", owner)
		assert.Equal(t, "/drafts", filepath.Dir(dir), owner)
		assert.False(t, strings.Contains(filepath.Base(dir), ".."), owner)
	}
	assert.Equal(t, OwnerDir("/drafts", "alice"), OwnerDir("/drafts", "alice"))
	assert.NotEqual(t, OwnerDir("/drafts", "alice"), OwnerDir("/drafts", "bob"))

	fs := afero.NewMemMapFs()
	ctx := context.Background()
	require.NoError(t, NewFileBackend(fs, OwnerDir("/drafts", "../escape")).Set(ctx, Key, []byte("{}")))
	ok, err := afero.Exists(fs, filepath.Join("/escape", Key+".json"))
	require.NoError(t, err)
	assert.False(t, ok)
}
