package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svcctl/internal/services"
)

func TestCreationOrder(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{
		{id: 1, create: ids(2, 3, 6)},
		{id: 2, create: ids(4)},
		{id: 3, create: ids(6)},
		{id: 4, create: ids(5, 6)},
		{id: 5},
		{id: 6, create: ids(5)},
	})

	svc, err := r.Get(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, svc)

	assert.Equal(t, ids(5, 6, 4, 2, 3, 1), rec.order("create"))
	for id := services.ID(1); id <= 6; id++ {
		st, err := r.Status(id)
		require.NoError(t, err)
		assert.Equal(t, StatusCreated, st, "service %d", id)
	}
}

func TestCreationUsesDeclaredDependencies(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{
		{id: 1, create: ids(2, 3), uses: ids(2, 3)},
		{id: 2, create: ids(3), uses: ids(3)},
		{id: 3},
	})

	_, err := r.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, ids(3, 2, 1), rec.order("create"))
}

func TestDestructionOrder(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{
		{id: 1, create: ids(2, 3, 6)},
		{id: 2, create: ids(4), destroy: ids(4, 6)},
		{id: 3, destroy: ids(4, 5, 2)},
		{id: 4, create: ids(5, 6), destroy: ids(1, 5)},
		{id: 5, destroy: ids(6)},
		{id: 6, create: ids(5), destroy: ids(1)},
	})

	ctx := context.Background()
	_, err := r.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rec.order("create"), 6)

	require.NoError(t, r.DestroyAll(ctx))
	assert.Equal(t, ids(3, 2, 4, 5, 6, 1), rec.order("destroy"))

	for id := services.ID(1); id <= 6; id++ {
		st, _ := r.Status(id)
		assert.Equal(t, StatusDestroyed, st, "service %d", id)
	}
}

func TestDestroyAll_Idempotent(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{{id: 1}, {id: 2, destroy: ids(1)}})

	ctx := context.Background()
	_, err := r.Get(ctx, 2)
	require.NoError(t, err)

	require.NoError(t, r.DestroyAll(ctx))
	require.NoError(t, r.DestroyAll(ctx))
	assert.Equal(t, ids(2), rec.order("destroy"))
}

func TestCreateCycles(t *testing.T) {
	tests := []struct {
		name string
		defs []def
	}{
		{
			name: "self",
			defs: []def{{id: 1, create: ids(1)}},
		},
		{
			name: "pair",
			defs: []def{{id: 1, create: ids(2)}, {id: 2, create: ids(1)}},
		},
		{
			name: "triangle",
			defs: []def{{id: 1, create: ids(2)}, {id: 2, create: ids(3)}, {id: 3, create: ids(1)}},
		},
	}

	for _, tt := range tests {
		for _, start := range tt.defs {
			t.Run(fmt.Sprintf("%s/from %d", tt.name, start.id), func(t *testing.T) {
				rec := &recorder{}
				r := newTestRegistry(t, rec, tt.defs)

				svc, err := r.Get(context.Background(), start.id)
				assert.Nil(t, svc)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrCycleCreate)
				assert.Empty(t, rec.order("create"))

				for _, d := range tt.defs {
					st, _ := r.Status(d.id)
					assert.Equal(t, StatusException, st, "service %d", d.id)
				}
			})
		}
	}
}

func TestDestroyCycles(t *testing.T) {
	tests := []struct {
		name string
		defs []def
	}{
		{
			name: "self",
			defs: []def{{id: 1, destroy: ids(1)}},
		},
		{
			name: "pair",
			defs: []def{{id: 1, destroy: ids(2)}, {id: 2, destroy: ids(1)}},
		},
		{
			name: "triangle",
			defs: []def{{id: 1, destroy: ids(2)}, {id: 2, destroy: ids(3)}, {id: 3, destroy: ids(1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r := newTestRegistry(t, rec, tt.defs)

			ctx := context.Background()
			for _, d := range tt.defs {
				_, err := r.Get(ctx, d.id)
				require.NoError(t, err)
			}

			err := r.DestroyAll(ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCycleDestroy)
			assert.Equal(t, "cycle_destroy", Kind(err))
		})
	}
}

func TestConstructorOutOfDependency(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{
		{id: 1, create: ids(2), uses: ids(2, 3)},
		{id: 2},
		{id: 3},
	})

	ctx := context.Background()
	svc, err := r.Get(ctx, 1)
	assert.Nil(t, svc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfDependency)

	st, _ := r.Status(1)
	assert.Equal(t, StatusException, st)

	// The declared requirement survives; the undeclared one was never built.
	st, _ = r.Status(2)
	assert.Equal(t, StatusCreated, st)
	st, _ = r.Status(3)
	assert.Equal(t, StatusNone, st)

	// Visibility is fully restored once the operation ends.
	svc, err = r.Get(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestDestructorVisibility(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{
		{id: 1, destroy: ids(2), destroyUses: ids(2, 3)},
		{id: 2},
		{id: 3},
	})

	ctx := context.Background()
	for _, id := range ids(1, 2, 3) {
		_, err := r.Get(ctx, id)
		require.NoError(t, err)
	}

	require.NoError(t, r.DestroyAll(ctx))

	require.Len(t, rec.destroyErrs, 1)
	assert.ErrorIs(t, rec.destroyErrs[0], ErrOutOfDependency)

	// 1 destroyed before its destroy dependency 2.
	order := rec.order("destroy")
	assert.Less(t, indexOf(order, 1), indexOf(order, 2))
}

func TestDestructorCreatesServices(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{
		{id: 1},
		{id: 2, destroy: ids(1), destroyUses: ids(1)},
	})

	ctx := context.Background()
	_, err := r.Get(ctx, 2)
	require.NoError(t, err)

	require.NoError(t, r.DestroyAll(ctx))
	assert.Empty(t, rec.destroyErrs)
	assert.Equal(t, ids(2, 1), rec.order("create"))
	assert.Equal(t, ids(2, 1), rec.order("destroy"))

	st, _ := r.Status(1)
	assert.Equal(t, StatusDestroyed, st)
}

func TestGetAfterDestroy(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{{id: 1}})

	ctx := context.Background()
	_, err := r.Get(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, r.DestroyAll(ctx))

	svc, err := r.Get(ctx, 1)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestFactoryErrorIsTerminal(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{
		{id: 1, create: ids(2), err: boom},
		{id: 2},
	})

	ctx := context.Background()
	svc, err := r.Get(ctx, 1)
	assert.Nil(t, svc)
	require.ErrorIs(t, err, boom)

	var regErr *Error
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, OpCreate, regErr.Op)
	assert.Equal(t, services.ID(1), regErr.ID)
	assert.Equal(t, "svc-1", regErr.Name)
	assert.Equal(t, "service", Kind(err))

	// No rollback of requirements, no retry of the failed slot.
	st, _ := r.Status(2)
	assert.Equal(t, StatusCreated, st)

	svc, err = r.Get(ctx, 1)
	assert.Nil(t, svc)
	assert.NoError(t, err)
	assert.Equal(t, ids(2), rec.order("create"))

	// Failed slots are skipped by teardown.
	require.NoError(t, r.DestroyAll(ctx))
	assert.Equal(t, ids(2), rec.order("destroy"))
}

func TestFailedRequirementBlocksDependent(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{
		{id: 1, create: ids(2), uses: ids(2)},
		{id: 2, err: boom},
		{id: 3, create: ids(1)},
	})

	ctx := context.Background()
	_, err := r.Get(ctx, 2)
	require.ErrorIs(t, err, boom)

	// The requirement failed on an earlier call, so only the dependent's
	// own error is reported.
	svc, err := r.Get(ctx, 1)
	assert.Nil(t, svc)
	require.ErrorIs(t, err, ErrRequirementFailed)
	assert.NotErrorIs(t, err, boom)
	assert.Equal(t, "requirement_failed", Kind(err))

	var regErr *Error
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, OpCreate, regErr.Op)
	assert.Equal(t, services.ID(1), regErr.ID)

	st, _ := r.Status(1)
	assert.Equal(t, StatusException, st)

	// The failure propagates through further dependents.
	svc, err = r.Get(ctx, 3)
	assert.Nil(t, svc)
	require.ErrorIs(t, err, ErrRequirementFailed)
	st, _ = r.Status(3)
	assert.Equal(t, StatusException, st)

	assert.Empty(t, rec.order("create"))
}

func TestConstructorPanic(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{{id: 1, panicMsg: "kaboom"}})

	svc, err := r.Get(context.Background(), 1)
	assert.Nil(t, svc)
	require.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "kaboom")

	st, _ := r.Status(1)
	assert.Equal(t, StatusException, st)
}

func TestDestructorPanic(t *testing.T) {
	r := New()
	f := services.NewFactory(services.FactoryConfig{
		ID:   1,
		Name: "panicky",
		New: func(ctx context.Context, _ services.Resolver) (services.Service, error) {
			s := &tracedService{id: 1}
			s.Init(func(context.Context) { panic("teardown") })
			return s, nil
		},
	})
	ctx := context.Background()
	require.NoError(t, r.Register(ctx, f))
	_, err := r.Get(ctx, 1)
	require.NoError(t, err)

	err = r.DestroyAll(ctx)
	require.ErrorIs(t, err, ErrPanic)

	st, _ := r.Status(1)
	assert.Equal(t, StatusException, st)
}

func TestNilInstance(t *testing.T) {
	r := New()
	f := services.NewFactory(services.FactoryConfig{
		ID:   4,
		Name: "empty",
		New: func(context.Context, services.Resolver) (services.Service, error) {
			var s *tracedService
			return s, nil
		},
	})
	ctx := context.Background()
	require.NoError(t, r.Register(ctx, f))

	svc, err := r.Get(ctx, 4)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrNoInstance)
	assert.Equal(t, "no_instance", Kind(err))
}

func TestMissingRequirement(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{{id: 1, create: ids(9)}})

	_, err := r.Get(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotRegistered)

	st, _ := r.Status(1)
	assert.Equal(t, StatusException, st)
}

func TestDestroyAllInsideOperation(t *testing.T) {
	r := New()
	var inner, innerClear error
	f := services.NewFactory(services.FactoryConfig{
		ID:   1,
		Name: "reentrant",
		New: func(ctx context.Context, _ services.Resolver) (services.Service, error) {
			inner = r.DestroyAll(ctx)
			innerClear = r.Clear(ctx)
			s := &tracedService{id: 1}
			s.Init(nil)
			return s, nil
		},
	})
	ctx := context.Background()
	require.NoError(t, r.Register(ctx, f))

	_, err := r.Get(ctx, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrInProgress)
	assert.ErrorIs(t, innerClear, ErrInProgress)
}

func TestDestroyWhileCreating(t *testing.T) {
	rec := &recorder{}
	r := newTestRegistry(t, rec, []def{{id: 1}})

	r.slots[1].setStatus(StatusCreating)
	done, err := r.destroy(context.Background(), &r.slots[1])
	assert.False(t, done)
	assert.ErrorIs(t, err, ErrInProgress)
}

func TestLimitRestoresPreviousVisibility(t *testing.T) {
	r := New(WithCapacity(4))

	outer := r.limit(ids(1, 2))
	assert.True(t, r.slots[1].enabled)
	assert.False(t, r.slots[3].enabled)

	inner := r.limit(ids(3))
	assert.False(t, r.slots[1].enabled)
	assert.True(t, r.slots[3].enabled)

	inner()
	assert.True(t, r.slots[1].enabled)
	assert.True(t, r.slots[2].enabled)
	assert.False(t, r.slots[3].enabled)

	outer()
	for i := range r.slots {
		assert.True(t, r.slots[i].enabled, "slot %d", i)
	}
}

func indexOf(list []services.ID, id services.ID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}
