package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("patient not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name  string
	Phone string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Patient{}, ErrInvalidInput
	}
	phone, ok := NormalizePhone(in.Phone)
	if !ok {
		return Patient{}, ErrInvalidInput
	}

	now := s.now()
	p := Patient{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateContactInput usa punteros: nil = no tocar.
type UpdateContactInput struct {
	Name  *string
	Phone *string
}

func (s *Service) UpdateContact(ctx context.Context, id string, in UpdateContactInput) (Patient, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Patient{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Phone != nil {
		// teléfono vacío es válido: el paciente queda sin recordatorios
		phone, ok := NormalizePhone(*in.Phone)
		if !ok {
			return Patient{}, ErrInvalidInput
		}
		p.Phone = phone
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// NormalizePhone deja solo dígitos (se aceptan espacios, guiones, puntos y paréntesis).
// Vacío es válido; cualquier otro carácter no.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", false
		}
	}
	return b.String(), true
}
