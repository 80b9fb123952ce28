package registry

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"svcctl/internal/services"
)

// recorder collects construction and destruction events shared by all
// services of one test.
type recorder struct {
	mu          sync.Mutex
	events      []string
	destroyErrs []error
}

func (rec *recorder) add(event string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.events = append(rec.events, event)
}

func (rec *recorder) destroyErr(err error) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.destroyErrs = append(rec.destroyErrs, err)
}

// order returns the IDs of events with the given prefix, in order.
func (rec *recorder) order(prefix string) []services.ID {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	var ids []services.ID
	for _, e := range rec.events {
		if !strings.HasPrefix(e, prefix+":") {
			continue
		}
		n, _ := strconv.Atoi(strings.TrimPrefix(e, prefix+":"))
		ids = append(ids, services.ID(n))
	}
	return ids
}

type tracedService struct {
	services.Base
	id services.ID
}

// def describes one test service.
type def struct {
	id          services.ID
	create      []services.ID
	destroy     []services.ID
	uses        []services.ID // resolved by the constructor
	destroyUses []services.ID // resolved by the destructor
	err         error         // returned by the constructor
	panicMsg    string        // raised by the constructor
}

func tracedFactory(rec *recorder, d def) *services.FuncFactory {
	return services.NewFactory(services.FactoryConfig{
		ID:                  d.id,
		Name:                fmt.Sprintf("svc-%d", d.id),
		Description:         "test service",
		CreateDependencies:  d.create,
		DestroyDependencies: d.destroy,
		New: func(ctx context.Context, r services.Resolver) (services.Service, error) {
			if d.panicMsg != "" {
				panic(d.panicMsg)
			}
			for _, u := range d.uses {
				if _, err := r.Get(ctx, u); err != nil {
					return nil, err
				}
			}
			if d.err != nil {
				return nil, d.err
			}

			s := &tracedService{id: d.id}
			s.Init(func(ctx context.Context) {
				for _, u := range d.destroyUses {
					if _, err := r.Get(ctx, u); err != nil {
						rec.destroyErr(err)
					}
				}
				rec.add(fmt.Sprintf("destroy:%d", d.id))
			})
			rec.add(fmt.Sprintf("create:%d", d.id))
			return s, nil
		},
	})
}

func newTestRegistry(t *testing.T, rec *recorder, defs []def, opts ...Option) *Registry {
	t.Helper()
	r := New(opts...)
	for _, d := range defs {
		require.NoError(t, r.Register(context.Background(), tracedFactory(rec, d)))
	}
	return r
}

func ids(v ...int) []services.ID {
	out := make([]services.ID, len(v))
	for i, n := range v {
		out[i] = services.ID(n)
	}
	return out
}
