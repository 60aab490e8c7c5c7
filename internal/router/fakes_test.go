package router

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
	"github.com/1010nishant/BookMyTrip/internal/domain/query"
	repo "github.com/1010nishant/BookMyTrip/internal/domain/repository"
	"github.com/1010nishant/BookMyTrip/pkg/mailer"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]entity.User
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
	u.CreatedAt = time.Now()
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return &u, nil
	}
	return nil, repo.ErrNotFound
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

// memTours ignores filters and sort; it only pages.
type memTours struct {
	mu    sync.Mutex
	tours []*entity.Tour
}

func (m *memTours) Find(_ context.Context, d query.Descriptor) ([]*entity.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.Skip >= len(m.tours) {
		return []*entity.Tour{}, nil
	}
	out := m.tours[d.Skip:]
	if len(out) > d.Limit {
		out = out[:d.Limit]
	}
	return append([]*entity.Tour(nil), out...), nil
}

func (m *memTours) Count(context.Context, query.Filters) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.tours)), nil
}

func (m *memTours) GetByID(_ context.Context, id string) (*entity.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tours {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memTours) Create(_ context.Context, t *entity.Tour) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	m.tours = append(m.tours, t)
	return nil
}

func (m *memTours) Update(_ context.Context, t *entity.Tour) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.tours {
		if x.ID == t.ID {
			cp := *t
			m.tours[i] = &cp
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memTours) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.tours {
		if x.ID == id {
			m.tours = append(m.tours[:i], m.tours[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memTours) Stats(context.Context, float64) ([]entity.TourStat, error) {
	return []entity.TourStat{{Difficulty: "EASY", NumTours: 1}}, nil
}

func (m *memTours) MonthlyPlan(context.Context, int) ([]entity.MonthlyPlan, error) {
	return []entity.MonthlyPlan{}, nil
}

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (c *captureSender) Send(_ context.Context, msg mailer.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureSender) last() mailer.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return mailer.Message{}
	}
	return c.sent[len(c.sent)-1]
}

type memPhotos struct{ objects map[string]string }

func (p *memPhotos) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	p.objects[objectPath] = string(b)
	return "https://cdn.example.test/" + objectPath, nil
}
