package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightoak/homeschool-api/internal/models"
	"github.com/brightoak/homeschool-api/internal/store"
)

// Provisioner seeds required subjects at startup. It is an explicit,
// idempotent initialization step rather than a reactive effect, so mounting
// multiple views cannot race to create duplicates.
type Provisioner struct {
	store  subjectStore
	logger *zap.Logger
}

// NewProvisioner constructs the provisioner.
func NewProvisioner(st subjectStore, logger *zap.Logger) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provisioner{store: st, logger: logger}
}

// EnsureSubject creates the named subject if it does not already exist (by
// name). It reports whether a subject was created.
func (p *Provisioner) EnsureSubject(ctx context.Context, name, color string, category models.SubjectCategory) (models.Subject, bool) {
	for _, sub := range p.store.State().Subjects {
		if sub.Name == name {
			return sub, false
		}
	}
	subject := p.store.AddSubject(ctx, store.SubjectDraft{
		Name:     name,
		Color:    color,
		Category: category,
	})
	p.logger.Info("provisioned subject", zap.String("id", subject.ID), zap.String("name", name))
	return subject, true
}
