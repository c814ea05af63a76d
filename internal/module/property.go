package module

import (
	"fmt"
	"os"

	"fieldmapper/internal/mapping"
	"fieldmapper/primitive"
)

// Property scopes, searched in this order by an unscoped field.
const (
	ScopeSession    = "session"
	ScopeDefinition = "definition"
	ScopeEnv        = "env"
)

// Scopes lists the property scopes in lookup order.
var Scopes = []string{ScopeSession, ScopeDefinition, ScopeEnv}

// Property resolves property fields by name.
type Property struct {
	conversion *primitive.ConversionService
	lookupEnv  func(string) (string, bool)
}

func NewProperty(conversion *primitive.ConversionService) *Property {
	if conversion == nil {
		conversion = primitive.DefaultConversionService
	}

	return &Property{conversion: conversion, lookupEnv: os.LookupEnv}
}

func (p *Property) Name() string { return "property" }

func (p *Property) Supports(f *mapping.Field) bool {
	return f.Kind == mapping.KindProperty
}

func (p *Property) Read(s Session, f *mapping.Field) (mapping.FieldValue, error) {
	if !p.Supports(f) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedField, f)
	}

	scopes := Scopes
	if f.Scope != "" {
		scopes = []string{f.Scope}
	}

	for _, scope := range scopes {
		v, declared, ok, err := p.lookup(s, scope, f.Name)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		out := f.Copy()

		if out.Value, err = p.conversion.Convert(v, declared, "", f.Type, f.Format); err != nil {
			return nil, fmt.Errorf("property %s: %w", f.Name, err)
		}

		if out.Type == primitive.TypeNone {
			out.Type = primitive.TypeOf(out.Value)
		}

		out.Scope = scope

		return out, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, f)
}

func (p *Property) lookup(s Session, scope, name string) (any, primitive.FieldType, bool, error) {
	switch scope {
	case ScopeSession:
		v, ok := s.Property(name)
		return v, primitive.TypeOf(v), ok, nil
	case ScopeDefinition:
		def := s.Definition()
		if def == nil {
			return nil, primitive.TypeNone, false, nil
		}

		prop, ok := def.FindProperty(name)
		if !ok {
			return nil, primitive.TypeNone, false, nil
		}

		declared := prop.Type
		if declared == primitive.TypeNone {
			declared = primitive.TypeOf(prop.Value)
		}

		return prop.Value, declared, true, nil
	case ScopeEnv:
		v, ok := p.lookupEnv(name)
		return v, primitive.TypeString, ok, nil
	default:
		return nil, primitive.TypeNone, false, fmt.Errorf("unknown property scope %q (expected one of %v)", scope, Scopes)
	}
}

func (p *Property) Write(_ Session, f *mapping.Field) error {
	return fmt.Errorf("%w: cannot write %s", ErrReadOnly, f)
}
