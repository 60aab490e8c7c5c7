package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/domain/query"
	repo "github.com/1010nishant/BookMyTrip/internal/domain/repository"
	"github.com/1010nishant/BookMyTrip/pkg/mailer"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type memUsers struct {
	mu      sync.Mutex
	byID    map[string]entity.User
	updates int
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if x.Email == u.Email {
			return errors.New("duplicate email")
		}
	}
	u.ID = uuid.NewString()
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) GetByResetToken(_ context.Context, digest string, now time.Time) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == digest &&
			u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now) {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	m.updates++
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) ClearResetTicket(_ context.Context, id, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.PasswordResetToken == nil || *u.PasswordResetToken != digest {
		return nil
	}
	u.ClearResetTicket()
	m.updates++
	m.byID[id] = u
	return nil
}

func (m *memUsers) List(_ context.Context) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.User{}
	for _, u := range m.byID {
		if u.Active {
			u := u
			out = append(out, &u)
		}
	}
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) snapshot(id string) entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

type fakeSender struct {
	sent []mailer.Message
	err  error
	// before runs ahead of every send.
	before func()
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	if f.before != nil {
		f.before()
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// memTours evaluates descriptors over rendered documents.
type memTours struct {
	tours   []*entity.Tour
	gets    int
	counts  int
	updates int
}

func (m *memTours) add(t *entity.Tour) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.tours = append(m.tours, t)
}

func (m *memTours) matching(f query.Filters) []*entity.Tour {
	var out []*entity.Tour
	for _, t := range m.tours {
		if matches(t.Document(), f) {
			out = append(out, t)
		}
	}
	return out
}

func (m *memTours) Find(_ context.Context, d query.Descriptor) ([]*entity.Tour, error) {
	out := m.matching(d.Filters)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Document(), out[j].Document()
		for _, k := range d.Sort {
			c := compare(a[k.Field], b[k.Field])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	if d.Skip >= len(out) {
		return []*entity.Tour{}, nil
	}
	out = out[d.Skip:]
	if len(out) > d.Limit {
		out = out[:d.Limit]
	}
	return out, nil
}

func (m *memTours) Count(_ context.Context, f query.Filters) (int64, error) {
	m.counts++
	return int64(len(m.matching(f))), nil
}

func (m *memTours) GetByID(_ context.Context, id string) (*entity.Tour, error) {
	m.gets++
	for _, t := range m.tours {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memTours) Create(_ context.Context, t *entity.Tour) error {
	m.add(t)
	return nil
}

func (m *memTours) Update(_ context.Context, t *entity.Tour) error {
	for i, x := range m.tours {
		if x.ID == t.ID {
			cp := *t
			m.tours[i] = &cp
			m.updates++
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memTours) Delete(_ context.Context, id string) error {
	for i, x := range m.tours {
		if x.ID == id {
			m.tours = append(m.tours[:i], m.tours[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memTours) Stats(context.Context, float64) ([]entity.TourStat, error) {
	return []entity.TourStat{}, nil
}

func (m *memTours) MonthlyPlan(context.Context, int) ([]entity.MonthlyPlan, error) {
	return []entity.MonthlyPlan{}, nil
}

func matches(doc map[string]any, f query.Filters) bool {
	for field, want := range f {
		got := doc[field]
		ops, ok := want.(map[string]any)
		if !ok {
			if compare(got, want) != 0 {
				return false
			}
			continue
		}
		for op, operand := range ops {
			c := compare(got, operand)
			switch op {
			case query.OpGTE:
				if c < 0 {
					return false
				}
			case query.OpGT:
				if c <= 0 {
					return false
				}
			case query.OpLTE:
				if c > 0 {
					return false
				}
			case query.OpLT:
				if c >= 0 {
					return false
				}
			}
		}
	}
	return true
}

func compare(a, b any) int {
	fa, aok := number(a)
	fb, bok := number(b)
	if aok && bok {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

type fakeSearcher struct {
	ids     []string
	indexed []string
	removed []string
}

func (f *fakeSearcher) IndexTour(_ context.Context, t *entity.Tour) error {
	f.indexed = append(f.indexed, t.ID)
	return nil
}

func (f *fakeSearcher) RemoveTour(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeSearcher) SearchTours(context.Context, string, int) ([]string, error) {
	return f.ids, nil
}
