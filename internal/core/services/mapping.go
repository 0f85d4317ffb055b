package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
	"github.com/custodia-labs/mailpage/internal/logger"
)

// Ensure MappingService implements the interface.
var _ driving.MappingEngine = (*MappingService)(nil)

// HandlerRegistry resolves property handlers by type.
type HandlerRegistry interface {
	GetHandler(t domain.FieldType) driving.PropertyHandler
	SupportedTypes() []domain.FieldType
}

// MappingService applies mapping sets to messages.
type MappingService struct {
	handlers HandlerRegistry
}

// NewMappingService creates a mapping service over a handler registry.
func NewMappingService(handlers HandlerRegistry) *MappingService {
	return &MappingService{handlers: handlers}
}

// ApplyAll converts record with every enabled entry of set, in set order.
// An entry whose handler fails or panics is logged and left out.
func (m *MappingService) ApplyAll(ctx context.Context, set *domain.MappingSet,
	record domain.SourceRecord, apiKey string) domain.Payload {
	payload := make(domain.Payload)
	if set == nil {
		return payload
	}

	logger.Section("Apply mappings")
	for _, key := range set.Keys() {
		entry, _ := set.Get(key)
		if !entry.Enabled {
			continue
		}

		h := m.handlers.GetHandler(entry.Type)
		if h == nil {
			logger.Debug("no handler, skipping", "property", key, "type", string(entry.Type))
			continue
		}

		frag, err := m.apply(ctx, h, entry, record, apiKey)
		if err != nil {
			logger.Warn("mapping failed", "property", key, "type", string(entry.Type), "error", err)
			continue
		}
		if frag == nil {
			logger.Debug("no value", "property", key)
			continue
		}
		payload[key] = frag
	}
	return payload
}

func (m *MappingService) apply(ctx context.Context, h driving.PropertyHandler, entry domain.MappingEntry,
	record domain.SourceRecord, apiKey string) (frag domain.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			frag = nil
			err = fmt.Errorf("%s handler panicked: %v", h.Type(), r)
		}
	}()
	return h.ToPayload(ctx, entry, record, apiKey)
}

// GetHandler returns the handler for t, or nil.
func (m *MappingService) GetHandler(t domain.FieldType) driving.PropertyHandler {
	return m.handlers.GetHandler(t)
}

// SupportedTypes returns the writable types.
func (m *MappingService) SupportedTypes() []domain.FieldType {
	return m.handlers.SupportedTypes()
}
