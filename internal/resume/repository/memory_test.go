package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/resume"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestRepo() (*MemoryRepo, *clock) {
	c := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("r%d", n)
	}
	return NewMemoryRepoWith(ids, c.now), c
}

func doc(name string) resume.Document {
	d := resume.NewEmpty(nil)
	d.PersonalInfo.FullName = name
	return d
}

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r, c := newTestRepo()

	rec := resume.ToRecord("u1", doc("Jane Doe"))
	require.NoError(t, r.Create(ctx, rec))
	require.Equal(t, "r1", rec.ID)
	require.Equal(t, rec.CreatedAt, rec.UpdatedAt)

	got, err := r.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", got.PersonalInfo.FullName)
	require.Equal(t, resume.DefaultTitle, got.Title)

	c.advance(time.Hour)
	updated, err := r.Update(ctx, rec.ID, doc("Jane Q. Doe"))
	require.NoError(t, err)
	require.Equal(t, "Jane Q. Doe", updated.PersonalInfo.FullName)
	require.Equal(t, rec.CreatedAt, updated.CreatedAt)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	require.Equal(t, "u1", updated.UserID)

	require.NoError(t, r.Delete(ctx, rec.ID))
	_, err = r.Get(ctx, rec.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, rec.ID), resume.ErrNotFound)
	_, err = r.Update(ctx, rec.ID, doc("x"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoListNewestFirstPerOwner(t *testing.T) {
	ctx := context.Background()
	r, c := newTestRepo()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.Create(ctx, resume.ToRecord("u1", doc(name))))
		c.advance(time.Minute)
	}
	require.NoError(t, r.Create(ctx, resume.ToRecord("u2", doc("other"))))

	list, err := r.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "c", list[0].PersonalInfo.FullName)
	require.Equal(t, "a", list[2].PersonalInfo.FullName)

	empty, err := r.List(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestMemoryRepoSameInstantKeepsInsertOrder(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo()
	require.NoError(t, r.Create(ctx, resume.ToRecord("u1", doc("first"))))
	require.NoError(t, r.Create(ctx, resume.ToRecord("u1", doc("second"))))
	list, err := r.List(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "second", list[0].PersonalInfo.FullName)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo()
	rec := resume.ToRecord("u1", doc("Jane"))
	require.NoError(t, r.Create(ctx, rec))
	got, err := r.Get(ctx, rec.ID)
	require.NoError(t, err)
	got.Title = "changed"
	again, err := r.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, resume.DefaultTitle, again.Title)
}

func TestEncodeSectionsRoundTrip(t *testing.T) {
	d := doc("Jane")
	d.Skills = []string{"Go"}
	rec := resume.ToRecord("u1", d)
	s, err := encodeSections(rec)
	require.NoError(t, err)

	var back resume.Record
	require.NoError(t, s.decodeInto(&back))
	require.Equal(t, rec.PersonalInfo, back.PersonalInfo)
	require.Equal(t, rec.Skills, back.Skills)
	require.Equal(t, rec.Education, back.Education)
}
